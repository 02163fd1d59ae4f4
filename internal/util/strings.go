package util

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ToValidUTF8 ensures a cell read from a data file is valid UTF-8.
// Spreadsheet exports are often Latin-1 (ISO-8859-1); invalid input is
// decoded as such so characters like ä, ö, é survive instead of turning
// into replacement runes.
func ToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err == nil {
		return decoded
	}

	// Latin-1 maps 1:1 onto code points 0-255
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}

// PadOrTruncate pads or truncates s to exactly width runes, adding "..."
// when content is cut.
func PadOrTruncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width > 3 {
			return string(runes[:width-3]) + "..."
		}
		return string(runes[:width])
	}
	return Pad(s, width)
}

// Pad adds spaces to reach width runes (no truncation).
func Pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	b := make([]byte, 0, len(s)+width-n)
	b = append(b, s...)
	for i := n; i < width; i++ {
		b = append(b, ' ')
	}
	return string(b)
}

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseCell infers a typed value from text read out of a text format.
// Empty text is a missing value. Numbers become int64, uint64 or float64
// so they sort numerically, but only when formatting the number gives the
// same text back: "00123", "+5" and "9.50" stay strings.
func ParseCell(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if !strings.ContainsAny(t[:1], "-.0123456789") || !strings.ContainsAny(t, "0123456789") {
		return s
	}

	var v any
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		v = i
	} else if u, err := strconv.ParseUint(t, 10, 64); err == nil {
		v = u
	} else if f, err := strconv.ParseFloat(t, 64); err == nil {
		v = f
	} else {
		return s
	}
	if FormatCell(v) != t {
		return s
	}
	return v
}

// Unsigned returns u as an int64 when it fits, as a uint64 otherwise.
func Unsigned(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

// FormatCell formats a value for plain output. Missing values are empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

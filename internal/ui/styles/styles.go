package styles

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess  = "✓"
	SymbolError    = "✗"
	SymbolWarning  = "⚠"
	SymbolSortAsc  = "▲"
	SymbolSortDesc = "▼"
	SymbolChecked  = "[x]"
	SymbolUnticked = "[ ]"
)

// noColor is set by the --no-color flag.
var noColor bool

// SetNoColor forces plain output regardless of the environment.
func SetNoColor(v bool) {
	noColor = v
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("PGRID_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("PGRID_ACCESSIBLE") == "1" || os.Getenv("PGRID_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Foreground(Muted)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Table
	TitleStyle          = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	HeaderStyle         = lipgloss.NewStyle().Bold(true).Foreground(Info)
	SelectedHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	SeparatorStyle      = lipgloss.NewStyle().Foreground(Muted)
	SelectedSepStyle    = lipgloss.NewStyle().Foreground(Accent)
	CursorRowStyle      = lipgloss.NewStyle().Background(BgHighlight)
	CursorCellStyle     = lipgloss.NewStyle().Background(Accent).Foreground(TextDark)
	SelectedRowStyle    = lipgloss.NewStyle().Background(BgSelected).Foreground(TextPrimary)
	MatchStyle          = lipgloss.NewStyle().Foreground(Warning)

	// Status badges
	FailedBadge    = lipgloss.NewStyle().Background(ColorFailed).Foreground(TextPrimary)
	PendingBadge   = lipgloss.NewStyle().Background(ColorPending).Foreground(TextDark)
	CompletedBadge = lipgloss.NewStyle().Background(ColorCompleted).Foreground(TextDark)

	// Help bar
	HelpKey = lipgloss.NewStyle().Foreground(Accent)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// Render applies a style if colors are enabled
func Render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// BadgeStyle returns the badge style for a booking status, matched
// case-insensitively. ok is false for unknown statuses.
func BadgeStyle(status string) (lipgloss.Style, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "failed":
		return FailedBadge, true
	case "pending":
		return PendingBadge, true
	case "completed":
		return CompletedBadge, true
	default:
		return lipgloss.Style{}, false
	}
}

// StatusBadge renders text (usually the padded status) as a colored badge.
// The badge color is chosen from status; unknown statuses are left plain.
func StatusBadge(status, text string) string {
	s, ok := BadgeStyle(status)
	if !ok {
		return text
	}
	return Render(s, text)
}

// Checkbox returns the selection marker for a row
func Checkbox(selected bool) string {
	if selected {
		return SymbolChecked
	}
	return SymbolUnticked
}

// SortIndicator returns the header marker for a sort direction name
// ("asc" or "desc").
func SortIndicator(direction string) string {
	if direction == "desc" {
		return SymbolSortDesc
	}
	return SymbolSortAsc
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", Render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return Render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", Render(WarningStyle, symbol), msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return Render(MutedStyle, msg)
}

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return Render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", Render(HelpKey, key), Render(MutedStyle, description))
}

// ═══════════════════════════════════════════════════════════════════════════
// Color functions - simple string coloring
// ═══════════════════════════════════════════════════════════════════════════

func Cyan(s string) string { return Render(InfoStyle, s) }
func Mute(s string) string { return Render(MutedStyle, s) }

func Boldf(format string, a ...any) string { return Render(Bold, fmt.Sprintf(format, a...)) }

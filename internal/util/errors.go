package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout pgrid
var (
	ErrNoSource          = errors.New("no data source given")
	ErrAmbiguousSource   = errors.New("more than one data source given")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDataset      = errors.New("dataset has no columns")
	ErrMissingQuery      = errors.New("database source requires --query")
)

// PgridError is a structured error with context and suggestions
type PgridError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *PgridError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.Err)
	}
	return e.Title
}

func (e *PgridError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *PgridError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}
	if e.Err != nil && e.Message == "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Err))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new PgridError
func NewError(title string) *PgridError {
	return &PgridError{Title: title}
}

// WithMessage adds a detailed message
func (e *PgridError) WithMessage(msg string) *PgridError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *PgridError) WithContext(ctx string) *PgridError {
	e.Context = ctx
	return e
}

// WithCauses adds possible causes
func (e *PgridError) WithCauses(causes ...string) *PgridError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestions adds actionable suggestions
func (e *PgridError) WithSuggestions(sugs ...string) *PgridError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *PgridError) Wrap(err error) *PgridError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// NoSourceError returns a structured error for a missing data source
func NoSourceError() *PgridError {
	return NewError("No data source").
		WithMessage("Give a data file, --sample, --sqlite or --postgres").
		WithSuggestions(
			"pgrid view bookings.csv                       # View a file",
			"pgrid view --sample 50                        # View sample bookings",
			"pgrid view --sqlite app.db --query 'SELECT * FROM t'",
		).
		Wrap(ErrNoSource)
}

// AmbiguousSourceError returns a structured error when several sources are given
func AmbiguousSourceError(sources []string) *PgridError {
	return NewError("Too many data sources").
		WithContext(strings.Join(sources, ", ")).
		WithMessage("Only one of a file, --sample, --sqlite or --postgres can be used").
		Wrap(ErrAmbiguousSource)
}

// LoadError returns a structured error for a dataset that could not be read
func LoadError(source string, err error) *PgridError {
	return NewError("Cannot load dataset").
		WithContext(source).
		WithCauses(
			"The file does not exist or is not readable",
			"The file extension does not match its content",
			"The first row of a CSV file is not a header",
		).
		WithSuggestions(
			"pgrid print --raw <file>   # Check what is being read",
		).
		Wrap(err)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *PgridError {
	return NewError("Cannot connect to database").
		WithContext(url).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"pgrid config source.postgres_url <url>   # Set a default URL",
		).
		Wrap(err)
}

// InvalidPageSizeError returns a structured error for a rejected page size
func InvalidPageSizeError(size int, allowed []int, err error) *PgridError {
	choices := make([]string, len(allowed))
	for i, s := range allowed {
		choices[i] = fmt.Sprint(s)
	}
	return NewError(fmt.Sprintf("Invalid page size %d", size)).
		WithMessage("Allowed page sizes: " + strings.Join(choices, ", ")).
		WithSuggestions("pgrid config view.page_sizes   # Show configured sizes").
		Wrap(err)
}

// TooManyArgumentsError returns an error for too many arguments
func TooManyArgumentsError(expected int, got int) *PgridError {
	return NewError(fmt.Sprintf("Too many arguments: expected %d, got %d", expected, got))
}

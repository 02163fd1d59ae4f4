package tableview

import "errors"

// Errors returned by the tableview package.
var (
	// ErrInvalidRow is returned when a source record is nil.
	ErrInvalidRow = errors.New("invalid row")

	// ErrInvalidValue is returned when a cell holds a value that cannot be
	// displayed (anything other than strings, numbers, bools, times or nil).
	ErrInvalidValue = errors.New("invalid cell value")

	// ErrInvalidPageSize is returned when a page size is not one of the
	// allowed choices. The previous page size is kept.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidSortColumn is returned when sorting by a column the table
	// does not declare.
	ErrInvalidSortColumn = errors.New("invalid sort column")

	// ErrNoPageSizes is returned when an engine is configured without any
	// positive page size choice.
	ErrNoPageSizes = errors.New("no valid page sizes configured")
)

package tableview

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// Ascending sorts smallest first. Missing values come first.
	Ascending SortDirection = iota
	// Descending sorts largest first. Missing values come last.
	Descending
)

// String returns the string representation of a SortDirection.
func (d SortDirection) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// SortState is the current sort configuration. An empty Column means the
// rows keep source order.
type SortState struct {
	Column    string
	Direction SortDirection
}

// IsSorted reports whether a sort column is set.
func (s SortState) IsSorted() bool {
	return s.Column != ""
}

// View is the derived view: the rows of the current page plus pagination
// metadata for the filtered set.
type View struct {
	Rows       []Row
	TotalRows  int // rows left after filtering
	TotalPages int // always >= 1
	Page       int // 1-based, within [1, TotalPages]
	PageSize   int // 0 when pagination is disabled
	SourceRows int
	Sort       SortState
	Search     string // applied search text
}

// Filter returns the subsequence of rows where at least one value contains
// text, ignoring case. Columns named in ignore are not searched. An empty
// text returns rows unchanged. Source order is preserved.
func Filter(rows []Row, text string, ignore ...string) []Row {
	if text == "" {
		return rows
	}

	fold := cases.Fold()
	needle := fold.String(text)

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for col, v := range row.Values {
			if v == nil || slices.Contains(ignore, col) {
				continue
			}
			if strings.Contains(fold.String(FormatValue(v)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// SortRows returns a copy of rows stably sorted by the state's column.
// Equal values keep their relative order in both directions, so the
// descending result is the reverse of the ascending one except within runs
// of equal values.
func SortRows(rows []Row, state SortState) []Row {
	out := slices.Clone(rows)
	if !state.IsSorted() {
		return out
	}

	slices.SortStableFunc(out, func(a, b Row) int {
		c := compareValues(a.Values[state.Column], b.Values[state.Column])
		if state.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

// PageCount returns ceil(total/size) with a minimum of one page. A
// non-positive size means everything fits on one page.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage bounds page to [1, pages].
func ClampPage(page, pages int) int {
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the rows of the given 1-based page, the total page count
// and the page actually used after clamping.
func Paginate(rows []Row, page, size int) ([]Row, int, int) {
	pages := PageCount(len(rows), size)
	page = ClampPage(page, pages)
	if size <= 0 {
		return rows, pages, page
	}

	start := (page - 1) * size
	if start >= len(rows) {
		return []Row{}, pages, page
	}
	end := min(start+size, len(rows))
	return rows[start:end], pages, page
}

// Derive runs filter, sort and paginate over source. It is the only place
// the derived view is computed.
func Derive(source []Row, c Controls, cfg Config) View {
	var ignore []string
	if cfg.SelectionColumn != "" {
		ignore = append(ignore, cfg.SelectionColumn)
	}

	filtered := Filter(source, c.AppliedSearch, ignore...)

	sortState := c.Sort
	if !cfg.Sortable {
		sortState = SortState{}
	}
	sorted := SortRows(filtered, sortState)

	size := c.PageSize
	if !cfg.Pagination {
		size = 0
	}
	pageRows, pages, page := Paginate(sorted, c.Page, size)

	return View{
		Rows:       slices.Clip(pageRows),
		TotalRows:  len(sorted),
		TotalPages: pages,
		Page:       page,
		PageSize:   size,
		SourceRows: len(source),
		Sort:       sortState,
		Search:     c.AppliedSearch,
	}
}

package tableview

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
)

// DefaultPageSizes are the page size choices offered when none are
// configured.
var DefaultPageSizes = []int{10, 25, 50}

// Config describes the table the engine serves. It is fixed for the
// lifetime of an Engine.
type Config struct {
	// Columns is the ordered list of displayed columns. When non-empty,
	// SetSort rejects columns outside it.
	Columns []string

	// Sortable enables SetSort for the whole table.
	Sortable bool

	// Pagination enables paging. When false the view is a single page
	// holding every filtered row.
	Pagination bool

	// PageSizes are the allowed page sizes, DefaultPageSize must be one of
	// them.
	PageSizes       []int
	DefaultPageSize int

	// SelectionColumn names a synthetic checkbox column. It is never
	// searched and cannot be sorted.
	SelectionColumn string

	// StatusColumn names the status badge column. The engine treats it as
	// ordinary string data; it is carried for presenters.
	StatusColumn string
}

// Controls is the mutable state driving the derived view.
type Controls struct {
	Sort          SortState
	SearchText    string // pending text, not yet applied
	AppliedSearch string
	Page          int
	PageSize      int
	Selected      []RowID // ascending
}

// Engine owns the view controls for one table and recomputes the derived
// view after every control change.
type Engine struct {
	cfg    Config
	source []Row

	sort          SortState
	searchText    string
	appliedSearch string
	page          int
	pageSize      int
	selected      map[RowID]struct{}

	view   View
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for recompute diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine over records. Records are validated and copied;
// see NewRows.
func New(records []map[string]any, cfg Config, opts ...Option) (*Engine, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	rows, err := NewRows(records)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		source:   rows,
		page:     1,
		pageSize: cfg.DefaultPageSize,
		selected: make(map[RowID]struct{}),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Recompute()
	return e, nil
}

func normalizeConfig(cfg Config) (Config, error) {
	cfg.Columns = slices.Clone(cfg.Columns)

	if len(cfg.PageSizes) == 0 {
		cfg.PageSizes = slices.Clone(DefaultPageSizes)
	} else {
		sizes := make([]int, 0, len(cfg.PageSizes))
		for _, s := range cfg.PageSizes {
			if s > 0 && !slices.Contains(sizes, s) {
				sizes = append(sizes, s)
			}
		}
		if len(sizes) == 0 {
			return cfg, ErrNoPageSizes
		}
		slices.Sort(sizes)
		cfg.PageSizes = sizes
	}

	if cfg.DefaultPageSize == 0 {
		cfg.DefaultPageSize = cfg.PageSizes[0]
	}
	if !slices.Contains(cfg.PageSizes, cfg.DefaultPageSize) {
		return cfg, fmt.Errorf("%w: default %d not in %v", ErrInvalidPageSize, cfg.DefaultPageSize, cfg.PageSizes)
	}
	return cfg, nil
}

// Config returns the table configuration.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.Columns = slices.Clone(cfg.Columns)
	cfg.PageSizes = slices.Clone(cfg.PageSizes)
	return cfg
}

// SetRows replaces the source dataset. Controls and selection are kept.
func (e *Engine) SetRows(records []map[string]any) error {
	rows, err := NewRows(records)
	if err != nil {
		return err
	}
	e.source = rows
	e.Recompute()
	return nil
}

// Rows returns the source rows in source order.
func (e *Engine) Rows() []Row {
	return slices.Clone(e.source)
}

// Row returns the source row with the given identity.
func (e *Engine) Row(id RowID) (Row, bool) {
	if id < 0 || int(id) >= len(e.source) {
		return Row{}, false
	}
	return e.source[id], true
}

// SetSearchText stores the search text without applying it. Call
// ApplyFilter to recompute the view.
func (e *Engine) SetSearchText(text string) {
	e.searchText = text
}

// SearchText returns the pending search text.
func (e *Engine) SearchText() string {
	return e.searchText
}

// ApplyFilter applies the pending search text to the full source dataset
// and resets the view to page 1.
func (e *Engine) ApplyFilter() {
	e.appliedSearch = e.searchText
	e.page = 1
	e.Recompute()
}

// SetSort sorts by column. Choosing the current sort column toggles the
// direction; choosing another column sorts it ascending. It is a no-op
// when the table is not sortable or column is the selection column.
func (e *Engine) SetSort(column string) error {
	if !e.cfg.Sortable || column == "" {
		return nil
	}
	if e.cfg.SelectionColumn != "" && column == e.cfg.SelectionColumn {
		return nil
	}
	if len(e.cfg.Columns) > 0 && !slices.Contains(e.cfg.Columns, column) {
		return fmt.Errorf("%w: %q", ErrInvalidSortColumn, column)
	}

	if e.sort.Column == column {
		e.sort.Direction = e.sort.Direction.Toggle()
	} else {
		e.sort = SortState{Column: column, Direction: Ascending}
	}
	e.Recompute()
	return nil
}

// ClearSort restores source order.
func (e *Engine) ClearSort() {
	e.sort = SortState{}
	e.Recompute()
}

// Sort returns the current sort state.
func (e *Engine) Sort() SortState {
	return e.sort
}

// SetPage moves to page n, clamped to [1, TotalPages].
func (e *Engine) SetPage(n int) {
	e.page = n
	e.Recompute()
}

// NextPage moves one page forward, staying on the last page.
func (e *Engine) NextPage() {
	e.SetPage(e.view.Page + 1)
}

// PrevPage moves one page back, staying on the first page.
func (e *Engine) PrevPage() {
	e.SetPage(e.view.Page - 1)
}

// SetPageSize sets the page size and resets to page 1. Sizes outside the
// configured choices are rejected and the previous size is kept.
func (e *Engine) SetPageSize(size int) error {
	if !slices.Contains(e.cfg.PageSizes, size) {
		e.logger.Warn("page size rejected", "size", size, "allowed", e.cfg.PageSizes)
		return fmt.Errorf("%w: %d not in %v", ErrInvalidPageSize, size, e.cfg.PageSizes)
	}
	e.pageSize = size
	e.page = 1
	e.Recompute()
	return nil
}

// CyclePageSize switches to the next (step > 0) or previous (step < 0)
// allowed page size, wrapping around.
func (e *Engine) CyclePageSize(step int) int {
	sizes := e.cfg.PageSizes
	i := slices.Index(sizes, e.pageSize)
	n := len(sizes)
	next := sizes[((i+step)%n+n)%n]
	_ = e.SetPageSize(next)
	return next
}

// PageSize returns the current page size, even when pagination is
// disabled.
func (e *Engine) PageSize() int {
	return e.pageSize
}

// ToggleSelection flips whether the row with identity id is selected.
func (e *Engine) ToggleSelection(id RowID) {
	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
		return
	}
	e.selected[id] = struct{}{}
}

// IsSelected reports whether the row with identity id is selected.
func (e *Engine) IsSelected(id RowID) bool {
	_, ok := e.selected[id]
	return ok
}

// Selected returns the selected identities in ascending order.
func (e *Engine) Selected() []RowID {
	return slices.Sorted(maps.Keys(e.selected))
}

// SelectedRows returns the selected rows that exist in the current source,
// in source order.
func (e *Engine) SelectedRows() []Row {
	var rows []Row
	for _, id := range e.Selected() {
		if row, ok := e.Row(id); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearSelection deselects every row.
func (e *Engine) ClearSelection() {
	clear(e.selected)
}

// Reset restores every control to its default and clears the selection.
func (e *Engine) Reset() {
	e.sort = SortState{}
	e.searchText = ""
	e.appliedSearch = ""
	e.page = 1
	e.pageSize = e.cfg.DefaultPageSize
	clear(e.selected)
	e.Recompute()
}

// Controls returns a snapshot of the current controls.
func (e *Engine) Controls() Controls {
	return Controls{
		Sort:          e.sort,
		SearchText:    e.searchText,
		AppliedSearch: e.appliedSearch,
		Page:          e.page,
		PageSize:      e.pageSize,
		Selected:      e.Selected(),
	}
}

// Recompute derives the view from the full source and the current
// controls, then clamps the stored page to the result.
func (e *Engine) Recompute() {
	e.view = Derive(e.source, e.Controls(), e.cfg)
	e.page = e.view.Page

	e.logger.Debug("view recomputed",
		"source_rows", e.view.SourceRows,
		"filtered_rows", e.view.TotalRows,
		"page", e.view.Page,
		"pages", e.view.TotalPages,
		"page_size", e.view.PageSize,
		"sort", e.view.Sort.Column,
		"direction", e.view.Sort.Direction.String(),
		"search", e.view.Search,
	)
}

// View returns the derived view as of the last control change.
func (e *Engine) View() View {
	v := e.view
	v.Rows = slices.Clone(v.Rows)
	return v
}

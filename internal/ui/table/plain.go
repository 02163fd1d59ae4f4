package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/imgajeed76/pgrid/internal/tableview"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
)

// cellText returns what a cell shows: a checkbox for the selection column,
// the formatted value otherwise.
func cellText(e *tableview.Engine, row tableview.Row, col string) string {
	if sel := e.Config().SelectionColumn; sel != "" && col == sel {
		return styles.Checkbox(e.IsSelected(row.ID))
	}
	return row.Text(col)
}

// headerText returns a column title with a sort marker when the view is
// sorted by it.
func headerText(v tableview.View, col string) string {
	if v.Sort.Column == col {
		return col + " " + styles.SortIndicator(v.Sort.Direction.String())
	}
	return col
}

// Summary describes the view for footers, e.g.
// "11 of 50 rows match "example1", page 1 of 2, sorted by NAME asc".
func Summary(v tableview.View, selected int) string {
	var parts []string
	if v.Search != "" {
		parts = append(parts, fmt.Sprintf("%d of %d rows match %q", v.TotalRows, v.SourceRows, v.Search))
	} else {
		parts = append(parts, fmt.Sprintf("%d rows", v.TotalRows))
	}
	parts = append(parts, fmt.Sprintf("page %d of %d", v.Page, v.TotalPages))
	if v.Sort.IsSorted() {
		parts = append(parts, fmt.Sprintf("sorted by %s %s", v.Sort.Column, v.Sort.Direction))
	}
	if selected > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", selected))
	}
	return strings.Join(parts, ", ")
}

// WritePlain writes the current page as an aligned table for non-TTY
// output, followed by a summary line. Cells are not truncated.
func WritePlain(w io.Writer, e *tableview.Engine) error {
	columns := e.Config().Columns
	v := e.View()

	if len(columns) == 0 {
		_, err := fmt.Fprintln(w, "(no columns)")
		return err
	}

	headers := make([]string, len(columns))
	colWidths := make([]int, len(columns))
	for i, col := range columns {
		headers[i] = headerText(v, col)
		colWidths[i] = utf8.RuneCountInString(headers[i])
	}

	cells := make([][]string, len(v.Rows))
	for r, row := range v.Rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			val := cellText(e, row, col)
			cells[r][i] = val
			if n := utf8.RuneCountInString(val); n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}

	var sb strings.Builder
	writeLine := func(vals []string) {
		line := make([]string, len(vals))
		for i, val := range vals {
			line[i] = util.Pad(val, colWidths[i])
		}
		sb.WriteString(strings.TrimRight(strings.Join(line, "  "), " "))
		sb.WriteString("\n")
	}

	writeLine(headers)
	seps := make([]string, len(columns))
	for i, width := range colWidths {
		seps[i] = strings.Repeat("─", width)
	}
	writeLine(seps)
	for _, row := range cells {
		writeLine(row)
	}

	sb.WriteString("\n")
	sb.WriteString("(" + Summary(v, len(e.Selected())) + ")\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteRaw writes the current page as tab-separated values without a
// header.
func WriteRaw(w io.Writer, e *tableview.Engine) error {
	columns := e.Config().Columns
	for _, row := range e.View().Rows {
		vals := make([]string, len(columns))
		for i, col := range columns {
			vals[i] = cellText(e, row, col)
		}
		if _, err := fmt.Fprintln(w, strings.Join(vals, "\t")); err != nil {
			return err
		}
	}
	return nil
}

type jsonRow struct {
	ID       int            `json:"id"`
	Selected bool           `json:"selected"`
	Values   map[string]any `json:"values"`
}

type jsonPage struct {
	Columns       []string  `json:"columns"`
	Rows          []jsonRow `json:"rows"`
	Page          int       `json:"page"`
	TotalPages    int       `json:"total_pages"`
	TotalRows     int       `json:"total_rows"`
	PageSize      int       `json:"page_size,omitempty"`
	Search        string    `json:"search,omitempty"`
	SortColumn    string    `json:"sort_column,omitempty"`
	SortDirection string    `json:"sort_direction,omitempty"`
}

// WriteJSON writes the current page and its pagination metadata as a JSON
// document. Values keep their types; the selection column is omitted in
// favor of each row's "selected" flag.
func WriteJSON(w io.Writer, e *tableview.Engine) error {
	cfg := e.Config()
	v := e.View()

	var columns []string
	for _, col := range cfg.Columns {
		if col != cfg.SelectionColumn {
			columns = append(columns, col)
		}
	}

	page := jsonPage{
		Columns:    columns,
		Rows:       make([]jsonRow, len(v.Rows)),
		Page:       v.Page,
		TotalPages: v.TotalPages,
		TotalRows:  v.TotalRows,
		PageSize:   v.PageSize,
		Search:     v.Search,
	}
	if v.Sort.IsSorted() {
		page.SortColumn = v.Sort.Column
		page.SortDirection = v.Sort.Direction.String()
	}

	for i, row := range v.Rows {
		values := make(map[string]any, len(columns))
		for _, col := range columns {
			values[col] = row.Value(col)
		}
		page.Rows[i] = jsonRow{
			ID:       int(row.ID),
			Selected: e.IsSelected(row.ID),
			Values:   values,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

package tableview

import "fmt"

// RowID is the stable identity of a row: its index in the source dataset.
// It does not change when the view is filtered, sorted or paged.
type RowID int

// Row is one record of the source dataset.
type Row struct {
	ID     RowID
	Values map[string]any
}

// Value returns the normalized value of column, or nil when the row has no
// such column.
func (r Row) Value(column string) any {
	return r.Values[column]
}

// Text returns the display string of column.
func (r Row) Text(column string) string {
	return FormatValue(r.Values[column])
}

// NewRows validates records and assigns each one its source index as RowID.
// Values are normalized (integers to int64 or uint64 when they do not fit,
// floats to float64, Stringers and named string types to string) and copied, so later changes to records do not leak into the
// rows.
func NewRows(records []map[string]any) ([]Row, error) {
	rows := make([]Row, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: record %d is nil", ErrInvalidRow, i)
		}
		values := make(map[string]any, len(rec))
		for col, v := range rec {
			nv, err := normalizeValue(v)
			if err != nil {
				return nil, fmt.Errorf("record %d, column %q: %w", i, col, err)
			}
			values[col] = nv
		}
		rows[i] = Row{ID: RowID(i), Values: values}
	}
	return rows, nil
}

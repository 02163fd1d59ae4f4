// Package dataset loads the source rows shown by pgrid.
//
// Every loader returns a Dataset: an ordered list of column names and one
// record (column name to value) per row. Values are plain Go values
// (string, int64, float64, bool, time.Time or nil for a missing cell;
// uint64 for integers above math.MaxInt64);
// rows get their stable identity later, from their position in Records.
package dataset

import (
	"time"

	"github.com/imgajeed76/pgrid/internal/util"
)

// Dataset is a loaded table.
type Dataset struct {
	ID       string // ULID, unique per load
	Name     string
	Columns  []string
	Records  []map[string]any
	LoadedAt time.Time
}

// New builds a Dataset stamped with a fresh ID.
func New(name string, columns []string, records []map[string]any) *Dataset {
	now := time.Now()
	return &Dataset{
		ID:       util.NewULID(now),
		Name:     name,
		Columns:  columns,
		Records:  records,
		LoadedAt: now,
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Project restricts Columns to the given names, in the given order.
// Records are left intact so search still sees every value. Unknown names
// are kept; they render as empty cells.
func (d *Dataset) Project(columns []string) {
	if len(columns) == 0 {
		return
	}
	d.Columns = append([]string(nil), columns...)
}

// Rows returns the records as display strings in column order, the shape
// used by the plain printers.
func (d *Dataset) Rows() [][]string {
	out := make([][]string, len(d.Records))
	for i, rec := range d.Records {
		row := make([]string, len(d.Columns))
		for j, col := range d.Columns {
			row[j] = FormatCell(rec[col])
		}
		out[i] = row
	}
	return out
}

// columnCollector accumulates column names in first-seen order.
type columnCollector struct {
	seen    map[string]bool
	columns []string
}

func (c *columnCollector) add(name string) {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.columns = append(c.columns, name)
}

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// LoadSQLite runs query against the SQLite database at path.
func LoadSQLite(ctx context.Context, path, query string) (*Dataset, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			rec[col] = sqlCell(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return New(filepath.Base(path), columns, records), nil
}

// sqlCell converts a database/sql scan result to a cell value.
func sqlCell(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int64, float64, time.Time:
		return x
	case []byte:
		return formatBytes(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatBytes renders printable byte slices as text and binary ones as a
// size marker.
func formatBytes(b []byte) string {
	for _, c := range b {
		if c < 32 && c != '\n' && c != '\r' && c != '\t' {
			return fmt.Sprintf("[%d bytes]", len(b))
		}
	}
	return string(b)
}

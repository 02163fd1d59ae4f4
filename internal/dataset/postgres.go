package dataset

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadPostgres runs query against the PostgreSQL database at connURL.
func LoadPostgres(ctx context.Context, connURL, query string) (*Dataset, error) {
	config, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	// Single short-lived connection; one query per load.
	config.MaxConns = 1
	config.MinConns = 0
	config.MaxConnLifetime = time.Minute
	config.MaxConnIdleTime = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	var records []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			rec[col] = pgCell(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return New(databaseName(connURL), columns, records), nil
}

// pgCell converts a pgx-decoded value to a cell value.
func pgCell(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int64, float64, time.Time:
		return x
	case uint32:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return formatBytes(x)
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", x[0:4], x[4:6], x[6:8], x[8:10], x[10:16])
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return fmt.Sprintf("%v", x)
	}
}

// databaseName returns the database part of a connection URL for use as
// the dataset name, without credentials.
func databaseName(connURL string) string {
	u, err := url.Parse(connURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "postgres"
	}
	return u.Path[1:]
}

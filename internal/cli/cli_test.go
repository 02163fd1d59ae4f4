package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/pgrid/internal/config"
	"github.com/imgajeed76/pgrid/internal/dataset"
	"github.com/imgajeed76/pgrid/internal/tableview"
	"github.com/imgajeed76/pgrid/internal/util"
)

// run executes pgrid with args against an isolated config directory.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PGRID_POSTGRES_URL", "")
	t.Setenv("NO_COLOR", "1")
	return runIn(t, args...)
}

// runIn executes pgrid without resetting the environment.
func runIn(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPrint_Sample(t *testing.T) {
	out, _, err := run(t, "print", "--sample", "12")
	require.NoError(t, err)

	assert.Contains(t, out, "PURCHASE ID")
	assert.Contains(t, out, "example10@example.com")
	assert.NotContains(t, out, "example11@example.com")
	assert.Contains(t, out, "(12 rows, page 1 of 2)")
}

func TestPrint_SearchSortRaw(t *testing.T) {
	out, _, err := run(t, "print", "--sample", "50",
		"--search", "example1", "--sort", "PURCHASE ID", "--desc", "--raw")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "18 minutes ago\t19\t"), lines[0])
	assert.True(t, strings.HasPrefix(lines[9], "9 minutes ago\t10\t"), lines[9])
}

func TestPrint_PageAndAllPages(t *testing.T) {
	out, _, err := run(t, "print", "--sample", "50", "--page", "5", "--raw")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "\t41\t")
	assert.Contains(t, lines[9], "\t50\t")

	out, _, err = run(t, "print", "--sample", "30", "--all-pages", "--raw")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 30)
}

func TestPrint_JSONSelection(t *testing.T) {
	out, _, err := run(t, "print", "--sample", "5", "--select", "0,3", "--json")
	require.NoError(t, err)

	var page struct {
		Columns []string `json:"columns"`
		Rows    []struct {
			ID       int  `json:"id"`
			Selected bool `json:"selected"`
		} `json:"rows"`
		TotalRows int `json:"total_rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))

	assert.Equal(t, 5, page.TotalRows)
	assert.NotContains(t, page.Columns, "SELECT")
	require.Len(t, page.Rows, 5)
	var selected []int
	for _, r := range page.Rows {
		if r.Selected {
			selected = append(selected, r.ID)
		}
	}
	assert.Equal(t, []int{0, 3}, selected)
}

func TestPrint_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no source", []string{"print"}, util.ErrNoSource},
		{"query without database", []string{"print", "--query", "SELECT 1"}, util.ErrNoSource},
		{"two sources", []string{"print", "--sample", "5", "--sqlite", "x.db"}, util.ErrAmbiguousSource},
		{"sqlite without query", []string{"print", "--sqlite", "x.db"}, util.ErrMissingQuery},
		{"page size not allowed", []string{"print", "--sample", "5", "--page-size", "7"}, tableview.ErrInvalidPageSize},
		{"unknown sort column", []string{"print", "--sample", "5", "--sort", "NOPE"}, tableview.ErrInvalidSortColumn},
		{"unsupported file", []string{"print", "notes.txt"}, util.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pgridErr *util.PgridError
			assert.ErrorAs(t, err, &pgridErr)
		})
	}
}

func TestPrint_UnknownRowID(t *testing.T) {
	_, _, err := run(t, "print", "--sample", "5", "--select", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown row ID")
}

func TestPrint_TooManyArgs(t *testing.T) {
	_, _, err := run(t, "print", "a.csv", "b.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1, got 2")
}

func TestPrint_CSVColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name;city;age\nAda;London;36\nLinus;Helsinki;28\n"), 0o644))

	out, _, err := run(t, "print", path, "--columns", "city,name", "--sort", "name", "--desc", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "Helsinki\tLinus\nLondon\tAda\n", out)
}

func TestPrint_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE orders (id INTEGER, item TEXT);
		INSERT INTO orders VALUES (1, 'lamp'), (2, 'desk'), (3, 'chair');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, _, err := run(t, "print", "--sqlite", path, "-q", "SELECT id, item FROM orders", "--sort", "item", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "3\tchair\n2\tdesk\n1\tlamp\n", out)
}

func TestSample(t *testing.T) {
	out, _, err := run(t, "sample", "--rows", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "TIMESTAMP,PURCHASE ID,MAIL,NAME,SOURCE,Status,SELECT", lines[0])
	assert.Equal(t, "just now,1,example1@example.com,Neelesh 1,Web,Failed,select", lines[1])

	out, _, err = run(t, "sample", "--rows", "2", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "MAIL: example2@example.com")
}

func TestSample_Errors(t *testing.T) {
	_, _, err := run(t, "sample", "--format", "xml")
	assert.ErrorIs(t, err, util.ErrUnsupportedFormat)

	_, _, err = run(t, "sample", "--format", "parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parquet needs an output file")
}

func TestSample_RoundTripThroughFiles(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"bookings.json", "bookings.parquet"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			format := strings.TrimPrefix(filepath.Ext(name), ".")

			_, stderr, err := run(t, "sample", "--rows", "20", "--format", format, "-o", path)
			require.NoError(t, err)
			assert.Contains(t, stderr, "Wrote 20 bookings")

			out, _, err := run(t, "print", path, "--search", "example1", "--json")
			require.NoError(t, err)
			assert.Contains(t, out, `"total_rows": 11`)
		})
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PGRID_POSTGRES_URL", "")
	t.Setenv("NO_COLOR", "1")

	out, _, err := runIn(t, "config", "view.page_size")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)

	_, _, err = runIn(t, "config", "view.page_size", "25")
	require.NoError(t, err)

	out, _, err = runIn(t, "config", "view.page_size")
	require.NoError(t, err)
	assert.Equal(t, "25\n", out)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.View.PageSize)

	// page size must stay one of the choices
	_, _, err = runIn(t, "config", "view.page_sizes", "10,50")
	require.Error(t, err)

	out, _, err = runIn(t, "config", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "view.page_sizes=10,25,50\n")
	assert.Contains(t, out, "columns.selection=SELECT\n")

	_, _, err = runIn(t, "config", "view.colour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown config key")

	out, _, err = runIn(t, "print", "--sample", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "(30 rows, page 1 of 2)")
}

func TestVerboseLogsToStderr(t *testing.T) {
	_, stderr, err := run(t, "--verbose", "print", "--sample", "3")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dataset loaded")
	assert.Contains(t, stderr, "rows=3")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pgrid version dev")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, util.NoSourceError())
	assert.Contains(t, buf.String(), "Error: No data source")
	assert.Contains(t, buf.String(), "pgrid view --sample 50")
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/shop", redactURL("postgres://app:secret@db:5432/shop"))
}

func TestInfo(t *testing.T) {
	out, _, err := run(t, "info", "--sample", "12")
	require.NoError(t, err)

	assert.Contains(t, out, "Bookings\n")
	assert.Contains(t, out, "Rows:    12\n")
	assert.Contains(t, out, "Columns: 7\n")
	assert.Regexp(t, `PURCHASE ID\s+integer\s+12/12 filled`, out)
	assert.Regexp(t, `SELECT\s+checkbox`, out)
	assert.Regexp(t, `Failed\s+3\n`, out)
	assert.Regexp(t, `Pending\s+6\n`, out)
	assert.Regexp(t, `Completed\s+3\n`, out)
}

func TestInfo_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	out, _, err := run(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows:    0\n")
	assert.Contains(t, out, "No rows")
}

func TestColumnKind(t *testing.T) {
	d := &dataset.Dataset{
		Columns: []string{"a", "b", "c"},
		Records: []map[string]any{
			{"a": int64(1), "b": "x", "c": nil},
			{"a": int64(2), "b": 2.5},
		},
	}

	kind, filled := columnKind(d, "a")
	assert.Equal(t, "integer", kind)
	assert.Equal(t, 2, filled)

	kind, _ = columnKind(d, "b")
	assert.Equal(t, "mixed", kind)

	kind, filled = columnKind(d, "c")
	assert.Equal(t, "empty", kind)
	assert.Zero(t, filled)
}

func TestView_FallsBackToPlainWithoutTerminal(t *testing.T) {
	out, _, err := run(t, "view", "--sample", "50", "--search", "example1", "--sort", "PURCHASE ID", "--desc")
	require.NoError(t, err)
	assert.Contains(t, out, `(11 of 50 rows match "example1", page 1 of 2, sorted by PURCHASE ID desc)`)
	assert.Contains(t, out, "example19@example.com")
	assert.NotContains(t, out, "example1@example.com")
}

func TestCompletion(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "pgrid")

	_, _, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}

package table

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/pgrid/internal/dataset"
	"github.com/imgajeed76/pgrid/internal/tableview"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func bookings(t *testing.T, n int) *tableview.Engine {
	t.Helper()
	d := dataset.Sample(n, fixedNow)
	e, err := tableview.New(d.Records, tableview.Config{
		Columns:         d.Columns,
		Sortable:        true,
		Pagination:      true,
		PageSizes:       []int{5, 10},
		SelectionColumn: dataset.ColSelect,
		StatusColumn:    dataset.ColStatus,
	})
	require.NoError(t, err)
	return e
}

func searchSorted(t *testing.T) *tableview.Engine {
	t.Helper()
	e := bookings(t, 12)
	e.SetSearchText("example1")
	e.ApplyFilter()
	require.NoError(t, e.SetSort(dataset.ColPurchaseID))
	require.NoError(t, e.SetSort(dataset.ColPurchaseID))
	e.ToggleSelection(9)
	return e
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWritePlain(t *testing.T) {
	t.Run("first page", func(t *testing.T) {
		e := bookings(t, 12)
		e.ToggleSelection(1)
		e.ToggleSelection(3)

		var buf bytes.Buffer
		require.NoError(t, WritePlain(&buf, e))
		golden(t).Assert(t, "plain_first_page", buf.Bytes())
	})

	t.Run("search and sort", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePlain(&buf, searchSorted(t)))
		golden(t).Assert(t, "plain_search_sorted", buf.Bytes())
	})
}

func TestWritePlain_NoColumns(t *testing.T) {
	e, err := tableview.New(nil, tableview.Config{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePlain(&buf, e))
	assert.Equal(t, "(no columns)\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, searchSorted(t)))
	golden(t).Assert(t, "json_search_sorted", buf.Bytes())
}

func TestWriteRaw(t *testing.T) {
	e := bookings(t, 12)
	e.SetPage(3)
	e.ToggleSelection(10)

	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, e))
	assert.Equal(t,
		"10 minutes ago\t11\texample11@example.com\tNeelesh 11\tWeb\tPending\t[x]\n"+
			"11 minutes ago\t12\texample12@example.com\tNeelesh 12\tMobile\tPending\t[ ]\n",
		buf.String())
}

func TestSummary(t *testing.T) {
	v := tableview.View{TotalRows: 0, SourceRows: 50, TotalPages: 1, Page: 1, Search: "zzz"}
	assert.Equal(t, `0 of 50 rows match "zzz", page 1 of 1`, Summary(v, 0))

	v = tableview.View{TotalRows: 50, SourceRows: 50, TotalPages: 5, Page: 2,
		Sort: tableview.SortState{Column: "NAME", Direction: tableview.Ascending}}
	assert.Equal(t, "50 rows, page 2 of 5, sorted by NAME asc, 3 selected", Summary(v, 3))
}

func TestDisplay_NonTTYFallsBackToPlain(t *testing.T) {
	e := bookings(t, 3)

	var plain, shown bytes.Buffer
	require.NoError(t, WritePlain(&plain, e))
	// stdout is not a terminal under go test
	require.NoError(t, Display(&shown, e, DisplayOptions{Title: "Bookings"}))
	assert.Equal(t, plain.String(), shown.String())

	shown.Reset()
	require.NoError(t, Display(&shown, e, DisplayOptions{Raw: true}))
	assert.Contains(t, shown.String(), "example3@example.com\t")
}

package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	d := Sample(50, now)

	require.Equal(t, 50, d.Len())
	assert.Equal(t, "Bookings", d.Name)
	assert.Equal(t, SampleColumns, d.Columns)

	first := d.Records[0]
	assert.Equal(t, "just now", first[ColTimestamp])
	assert.Equal(t, int64(1), first[ColPurchaseID])
	assert.Equal(t, "example1@example.com", first[ColMail])
	assert.Equal(t, "Neelesh 1", first[ColName])
	assert.Equal(t, "Web", first[ColSource])
	assert.Equal(t, StatusFailed, first[ColStatus])
	assert.Equal(t, "select", first[ColSelect])

	last := d.Records[49]
	assert.Equal(t, "49 minutes ago", last[ColTimestamp])
	assert.Equal(t, int64(50), last[ColPurchaseID])
	assert.Equal(t, "Mobile", last[ColSource])
}

func TestSampleStatus(t *testing.T) {
	want := []string{
		StatusFailed,    // 0
		StatusPending,   // 1
		StatusPending,   // 2
		StatusCompleted, // 3
		StatusFailed,    // 4
		StatusPending,   // 5
		StatusCompleted, // 6
		StatusPending,   // 7
		StatusFailed,    // 8
		StatusCompleted, // 9
		StatusPending,   // 10
		StatusPending,   // 11
		StatusFailed,    // 12
	}
	for i, w := range want {
		assert.Equal(t, w, SampleStatus(i), "i=%d", i)
	}
}

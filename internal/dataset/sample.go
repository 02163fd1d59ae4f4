package dataset

import (
	"fmt"
	"time"

	"github.com/imgajeed76/pgrid/internal/util"
)

// Sample booking columns.
const (
	ColTimestamp  = "TIMESTAMP"
	ColPurchaseID = "PURCHASE ID"
	ColMail       = "MAIL"
	ColName       = "NAME"
	ColSource     = "SOURCE"
	ColStatus     = "Status"
	ColSelect     = "SELECT"
)

// Booking statuses.
const (
	StatusFailed    = "Failed"
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
)

// SampleColumns are the columns of the sample booking dataset.
var SampleColumns = []string{ColTimestamp, ColPurchaseID, ColMail, ColName, ColSource, ColStatus, ColSelect}

// SampleStatus returns the status of the i-th (0-based) sample booking:
// every fourth is Failed, otherwise every third is Completed, the rest
// are Pending.
func SampleStatus(i int) string {
	switch {
	case i%4 == 0:
		return StatusFailed
	case i%3 == 0:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Sample generates n bookings, one minute apart, the newest at now.
func Sample(n int, now time.Time) *Dataset {
	records := make([]map[string]any, n)
	for i := range records {
		source := "Mobile"
		if i%2 == 0 {
			source = "Web"
		}
		records[i] = map[string]any{
			ColTimestamp:  util.RelativeTime(now, now.Add(-time.Duration(i)*time.Minute)),
			ColPurchaseID: int64(i + 1),
			ColMail:       fmt.Sprintf("example%d@example.com", i+1),
			ColName:       fmt.Sprintf("Neelesh %d", i+1),
			ColSource:     source,
			ColStatus:     SampleStatus(i),
			ColSelect:     "select",
		}
	}
	return New("Bookings", append([]string(nil), SampleColumns...), records)
}

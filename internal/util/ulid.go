package util

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewULID generates a new ULID string for the given time.
// ULIDs sort by creation time, so datasets loaded later compare greater.
func NewULID(t time.Time) string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ShortID returns the last 7 characters of an ID in lowercase.
func ShortID(id string) string {
	if len(id) <= 7 {
		return strings.ToLower(id)
	}
	return strings.ToLower(id[len(id)-7:])
}

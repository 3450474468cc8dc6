// Package id issues run identifiers for journal records.
package id

import (
	cryptoRand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(cryptoRand.Reader, 0)
)

// NewRun returns a ULID for a bot run. Successive ids sort in creation order,
// even within one millisecond, so the journal can list runs with ORDER BY.
func NewRun() string {
	return NewRunAt(time.Now())
}

func NewRunAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.UTC()), entropy).String()
}

// RunTime recovers the creation time encoded in a run id.
func RunTime(runID string) (time.Time, error) {
	u, err := ulid.ParseStrict(runID)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}

// Package ulid generates the identifiers prosecheck stamps onto runs and
// reports. ULIDs are lexicographically sortable by time, which keeps result
// files from successive runs naturally ordered.
package ulid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// PrefixRun is the prefix for run identifiers
const PrefixRun = "run"

// PrefixSeparator is used to separate the prefix from the ULID
const PrefixSeparator = "-"

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// Generate creates a new ULID string with the current timestamp.
func Generate() string {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyLock.Unlock()
	return id.String()
}

// RunID generates a new run identifier, e.g. "run-01AN4Z07BY79KA1307SR9X4MV3".
func RunID() string {
	return PrefixRun + PrefixSeparator + Generate()
}

// Validate checks if a string is a valid, optionally prefixed ULID.
func Validate(id string) bool {
	if i := lastSeparator(id); i >= 0 {
		id = id[i+1:]
	}
	_, err := ulid.Parse(id)
	return err == nil
}

func lastSeparator(id string) int {
	for i := len(id) - 1; i >= 0; i-- {
		if string(id[i]) == PrefixSeparator {
			return i
		}
	}
	return -1
}

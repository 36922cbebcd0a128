// Package id generates session identifiers.
package id

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NewSession returns a ULID string for a new session. ULIDs sort by
// generation time, which keeps journal rows for consecutive sessions
// adjacent in SQLite indexes; the shared monotonic entropy source keeps
// ids generated within the same millisecond strictly increasing.
func NewSession() string {
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), ulid.DefaultEntropy()).String()
}

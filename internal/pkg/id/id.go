package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, which keeps
// issuance log lines for one user easy to order.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

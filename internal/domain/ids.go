package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID mints a ULID for the given time. ULIDs are lexicographically ordered
// by creation time, which is what the active-revision comparison relies on:
// comparing two job IDs as strings compares their creation instants.
func NewID(t time.Time) string {
	return ulid.MustNewDefault(t).String()
}

// IDTime extracts the creation timestamp embedded in a ULID
func IDTime(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

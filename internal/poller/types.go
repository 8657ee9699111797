// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/sdharness/internal/devicename"
)

// NameResult is the decoded content of one name record.
type NameResult struct {
	Prefix string
	Name   string
	Record devicename.Record
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	SessionID string
	At        time.Time

	Names []NameResult
	Err   error // non-nil means the poll cycle failed
}

// Changed reports whether any name differs from prev.
// A failed cycle on either side counts as a change.
func (r PollResult) Changed(prev PollResult) bool {
	if r.Err != nil || prev.Err != nil || len(r.Names) != len(prev.Names) {
		return true
	}
	for i := range r.Names {
		if r.Names[i].Record != prev.Names[i].Record {
			return true
		}
	}
	return false
}

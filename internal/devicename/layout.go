// internal/devicename/layout.go
package devicename

import (
	"errors"
	"fmt"
	"strconv"
)

// Layout describes where a name record lives in the device parameter map.
// The primary and GAP device names share the same geometry and differ only
// in their slot prefix.
type Layout struct {
	Prefix    string // slot name prefix, slots are "<Prefix>0".."<Prefix><Slots-1>"
	Slots     int    // number of parameter words
	WordBytes int    // bytes packed into each word (big-endian)
	Reserve   int    // trailing bytes always left zero (terminator)
}

// ---- KNOWN LAYOUTS ----

// DeviceName is the general (advertised) device name.
var DeviceName = Layout{
	Prefix:    "X_RF_DeviceName",
	Slots:     RecordWords,
	WordBytes: WordBytes,
	Reserve:   ReservedBytes,
}

// GAPDeviceName is the GAP-scoped device name.
var GAPDeviceName = Layout{
	Prefix:    "X_RF_GAPDeviceName",
	Slots:     RecordWords,
	WordBytes: WordBytes,
	Reserve:   ReservedBytes,
}

// SlotNames returns the ordered parameter identifiers of the record.
func (l Layout) SlotNames() []string {
	out := make([]string, l.Slots)
	for i := range out {
		out[i] = l.Prefix + strconv.Itoa(i)
	}
	return out
}

// Size is the total number of bytes held by the record.
func (l Layout) Size() int {
	return l.Slots * l.WordBytes
}

// Validate checks that the layout matches the packed record geometry.
func (l Layout) Validate() error {
	if l.Prefix == "" {
		return errors.New("devicename: layout prefix required")
	}
	if l.Slots != RecordWords || l.WordBytes != WordBytes || l.Reserve != ReservedBytes {
		return fmt.Errorf(
			"devicename: layout %q geometry %dx%d (reserve %d) does not match record %dx%d (reserve %d)",
			l.Prefix, l.Slots, l.WordBytes, l.Reserve,
			RecordWords, WordBytes, ReservedBytes,
		)
	}
	return nil
}

// TextBudget is the maximum number of encoded name bytes stored.
func (l Layout) TextBudget() int {
	n := l.Size() - l.Reserve
	if n < 0 {
		return 0
	}
	return n
}

// internal/devicename/codec.go
package devicename

import (
	"fmt"
	"unicode/utf8"
)

// Record geometry. These values match the device NVM layout
// and MUST NOT be configurable.
const (
	// RecordWords is the number of parameter words in a name record.
	RecordWords = 8

	// WordBytes is the number of name bytes packed into one word.
	WordBytes = 3

	// RecordBytes is the total byte capacity of a record.
	RecordBytes = RecordWords * WordBytes

	// ReservedBytes at the end of a record are always zero.
	ReservedBytes = 2

	// MaxNameBytes is the largest encoded name that survives unclipped.
	MaxNameBytes = RecordBytes - ReservedBytes

	// WordMask keeps the low 24 bits of a word.
	WordMask = 1<<(8*WordBytes) - 1
)

// Record is one packed name: 8 big-endian 24-bit words in slot order.
type Record [RecordWords]uint32

// RecordFromWords builds a Record from words read out of a parameter store.
func RecordFromWords(words []uint32) (Record, error) {
	var r Record
	if len(words) != RecordWords {
		return r, fmt.Errorf("devicename: expected %d words, got %d", RecordWords, len(words))
	}
	copy(r[:], words)
	return r, nil
}

// Words returns the record as a slice, ready for a parameter store write.
func (r Record) Words() []uint32 {
	out := make([]uint32, RecordWords)
	copy(out, r[:])
	return out
}

// Bytes unpacks the record into its raw 24 bytes, padding included.
func (r Record) Bytes() []byte {
	out := make([]byte, RecordBytes)
	for i, w := range r {
		w &= WordMask
		out[3*i] = byte(w >> 16)
		out[3*i+1] = byte(w >> 8)
		out[3*i+2] = byte(w)
	}
	return out
}

// Clip drops trailing characters until the UTF-8 encoding of name fits in
// budget bytes. The cut always falls between whole characters.
func Clip(name string, budget int) string {
	if budget < 0 {
		budget = 0
	}
	for len(name) > budget {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}

// Encode packs a display name into a name record.
// No IO. No side effects.
func Encode(name string) Record {
	b := make([]byte, RecordBytes)
	copy(b, Clip(name, MaxNameBytes))

	var r Record
	for i := range r {
		r[i] = uint32(b[3*i])<<16 | uint32(b[3*i+1])<<8 | uint32(b[3*i+2])
	}
	return r
}

// Decode unpacks a name record back into a display name.
// Zero bytes are padding only: the name ends at the first one.
func Decode(r Record) string {
	b := r.Bytes()
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// internal/store/store.go
package store

import (
	"errors"
	"fmt"
)

// ParameterStore is the exact contract the harness uses to move parameter
// words in and out of a device. Names address one parameter each; words are
// 24-bit values in the same order as names.
type ParameterStore interface {
	GetWords(names []string) ([]uint32, error)
	SetWords(names []string, words []uint32) error
}

// WordMax is the largest value a parameter word can hold.
const WordMax uint32 = 0xFFFFFF

var (
	ErrUnknownParameter = errors.New("store: unknown parameter")
	ErrWordRange        = errors.New("store: word exceeds 24 bits")
	ErrLengthMismatch   = errors.New("store: names and words differ in length")
	ErrClosed           = errors.New("store: closed")
)

// CheckWrite validates a SetWords request before any IO.
func CheckWrite(names []string, words []uint32) error {
	if len(names) != len(words) {
		return fmt.Errorf("%w: %d names, %d words", ErrLengthMismatch, len(names), len(words))
	}
	for i, w := range words {
		if w > WordMax {
			return fmt.Errorf("%w: %s=0x%x", ErrWordRange, names[i], w)
		}
	}
	return nil
}

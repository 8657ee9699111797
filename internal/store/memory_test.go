// internal/store/memory_test.go
package store

import (
	"errors"
	"testing"
)

func seeded() *Memory {
	return NewMemory(map[string]uint32{
		"A0": 1,
		"A1": 2,
		"B0": 3,
	})
}

func TestMemory_GetWords(t *testing.T) {
	m := seeded()

	got, err := m.GetWords([]string{"A1", "A0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 2 || got[1] != 1 {
		t.Fatalf("unexpected words: %v", got)
	}
}

func TestMemory_UnknownParameter(t *testing.T) {
	m := seeded()

	if _, err := m.GetWords([]string{"A0", "Z9"}); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestMemory_SetWordsAllOrNothing(t *testing.T) {
	m := seeded()

	err := m.SetWords([]string{"A0", "Z9"}, []uint32{10, 11})
	if !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}

	if v := m.Snapshot()["A0"]; v != 1 {
		t.Fatalf("partial write leaked: A0=%d", v)
	}
}

func TestMemory_SetWordsRejectsRange(t *testing.T) {
	m := seeded()

	err := m.SetWords([]string{"A0"}, []uint32{0x1000000})
	if !errors.Is(err, ErrWordRange) {
		t.Fatalf("expected ErrWordRange, got %v", err)
	}
}

func TestMemory_SetWordsLengthMismatch(t *testing.T) {
	m := seeded()

	err := m.SetWords([]string{"A0", "A1"}, []uint32{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestMemory_SeedMasked(t *testing.T) {
	m := NewMemory(map[string]uint32{"A0": 0xFF123456})

	got, err := m.GetWords([]string{"A0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 0x123456 {
		t.Fatalf("expected masked seed 0x123456, got 0x%x", got[0])
	}
}

func TestMemory_Closed(t *testing.T) {
	m := seeded()
	_ = m.Close()

	if _, err := m.GetWords([]string{"A0"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on read, got %v", err)
	}
	if err := m.SetWords([]string{"A0"}, []uint32{1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on write, got %v", err)
	}
}

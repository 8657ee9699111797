// internal/store/memory.go
package store

import (
	"fmt"
	"sync"
)

// Memory is an in-process ParameterStore.
// Only parameters it was seeded with exist.
type Memory struct {
	mu     sync.RWMutex
	words  map[string]uint32
	closed bool
}

// NewMemory creates a store holding the given parameters.
// The seed map is copied.
func NewMemory(seed map[string]uint32) *Memory {
	m := &Memory{words: make(map[string]uint32, len(seed))}
	for k, v := range seed {
		m.words[k] = v & WordMax
	}
	return m
}

func (m *Memory) GetWords(names []string) ([]uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	out := make([]uint32, len(names))
	for i, n := range names {
		v, ok := m.words[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, n)
		}
		out[i] = v
	}
	return out, nil
}

// SetWords is all-or-nothing: nothing is written unless every name exists
// and every word is in range.
func (m *Memory) SetWords(names []string, words []uint32) error {
	if err := CheckWrite(names, words); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	for _, n := range names {
		if _, ok := m.words[n]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParameter, n)
		}
	}
	for i, n := range names {
		m.words[n] = words[i]
	}
	return nil
}

// Snapshot returns a copy of all parameters.
func (m *Memory) Snapshot() map[string]uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]uint32, len(m.words))
	for k, v := range m.words {
		out[k] = v
	}
	return out
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

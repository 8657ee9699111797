// internal/store/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/sdharness/internal/store"
)

// RegistersPerWord is the number of holding registers backing one
// 24-bit parameter word: hi register carries bits 23..16, lo carries 15..0.
const RegistersPerWord = 2

// registerClient is the subset of modbus.Client the store needs.
type registerClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Store is a store.ParameterStore backed by holding registers on one
// Modbus TCP endpoint. It serializes requests: the device link is a single
// sequential session.
type Store struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  registerClient
	unitID  uint8
	addrs   map[string]uint16
	closed  bool
}

type Config struct {
	Endpoint  string
	UnitID    uint8
	Timeout   time.Duration
	Addresses map[string]uint16 // parameter name -> first holding register
}

// New dials the endpoint once. No retries.
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("store modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("store modbus: connect %s: %w", cfg.Endpoint, err)
	}

	s := newStore(modbus.NewClient(h), cfg.UnitID, cfg.Addresses)
	s.handler = h
	return s, nil
}

func newStore(c registerClient, unitID uint8, addrs map[string]uint16) *Store {
	m := make(map[string]uint16, len(addrs))
	for k, v := range addrs {
		m[k] = v
	}
	return &Store{
		client: c,
		unitID: unitID,
		addrs:  m,
	}
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.handler == nil {
		return nil
	}
	return s.handler.Close()
}

// ---- store.ParameterStore ----

func (s *Store) GetWords(names []string) ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, store.ErrClosed
	}

	addrs, err := s.resolve(names)
	if err != nil {
		return nil, err
	}

	s.selectUnit()

	out := make([]uint32, len(names))
	for i, addr := range addrs {
		raw, err := s.client.ReadHoldingRegisters(addr, RegistersPerWord)
		if err != nil {
			return nil, fmt.Errorf("store modbus: read %s addr=%d: %w", names[i], addr, err)
		}
		w, err := unpackWord(raw)
		if err != nil {
			return nil, fmt.Errorf("store modbus: read %s addr=%d: %w", names[i], addr, err)
		}
		out[i] = w
	}
	return out, nil
}

// SetWords validates every name and word before the first write.
// A transport failure part-way leaves earlier words written.
func (s *Store) SetWords(names []string, words []uint32) error {
	if err := store.CheckWrite(names, words); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}

	addrs, err := s.resolve(names)
	if err != nil {
		return err
	}

	s.selectUnit()

	for i, addr := range addrs {
		if _, err := s.client.WriteMultipleRegisters(addr, RegistersPerWord, packWord(words[i])); err != nil {
			return fmt.Errorf("store modbus: write %s addr=%d: %w", names[i], addr, err)
		}
	}
	return nil
}

// ---- internal helpers ----

func (s *Store) resolve(names []string) ([]uint16, error) {
	out := make([]uint16, len(names))
	for i, n := range names {
		addr, ok := s.addrs[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", store.ErrUnknownParameter, n)
		}
		out[i] = addr
	}
	return out, nil
}

func (s *Store) selectUnit() {
	if s.handler != nil {
		s.handler.SlaveId = s.unitID
	}
}

// ---- helpers (pure geometry) ----

// packWord lays one word out as two big-endian registers.
func packWord(w uint32) []byte {
	return []byte{0, byte(w >> 16), byte(w >> 8), byte(w)}
}

func unpackWord(data []byte) (uint32, error) {
	if len(data) < 2*RegistersPerWord {
		return 0, fmt.Errorf("short register payload (%d bytes)", len(data))
	}
	if data[0] != 0 {
		return 0, fmt.Errorf("%w: hi register 0x%02x%02x", store.ErrWordRange, data[0], data[1])
	}
	return uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]), nil
}

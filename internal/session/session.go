// internal/session/session.go
package session

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tamzrod/sdharness/internal/devicename"
	"github.com/tamzrod/sdharness/internal/store"
)

type state int

const (
	stateIdle state = iota
	stateOpen
	stateClosed
)

// Session is one device under test, reached through a parameter store.
// It replaces process-wide SDK state: build one, Initialize it, pass it
// around, Close it.
type Session struct {
	mu    sync.Mutex
	opts  Options
	store store.ParameterStore
	log   *slog.Logger

	iface string
	ear   int
	id    string
	state state
}

// New builds a session. It does not contact the device.
func New(opts Options, st store.ParameterStore) (*Session, error) {
	if st == nil {
		return nil, ErrNoStore
	}

	s := &Session{
		opts:  opts,
		store: st,
		log:   opts.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	if opts.Programmer != "" {
		iface, err := InterfaceName(opts.Programmer)
		if err != nil {
			return nil, err
		}
		s.iface = iface
	}
	if opts.Side != "" {
		ear, err := Ear(opts.Side)
		if err != nil {
			return nil, err
		}
		s.ear = ear
	}

	return s, nil
}

// Initialize checks the device is reachable by reading its name record.
// Calling it on an open session is a no-op.
func (s *Session) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateOpen:
		return nil
	case stateClosed:
		return ErrNotInitialized
	}

	words, err := s.store.GetWords(devicename.DeviceName.SlotNames())
	if err != nil {
		return fmt.Errorf("session: initialize: %w", err)
	}
	rec, err := devicename.RecordFromWords(words)
	if err != nil {
		return fmt.Errorf("session: initialize: %w", err)
	}

	s.id = uuid.NewString()
	s.state = stateOpen
	s.log = s.log.With("session", s.id)

	s.log.Info("device session initialized",
		"product", s.opts.Product,
		"interface", s.iface,
		"ear", s.ear,
		"verify_nvm_writes", s.opts.VerifyNvmWrites,
		"device_name", devicename.Decode(rec),
	)
	return nil
}

// Close ends the session. Further device operations fail with
// ErrNotInitialized.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateOpen {
		s.log.Info("device session closed")
	}
	s.state = stateClosed
	return nil
}

// ID is the session correlation id, empty before Initialize.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Interface is the communication interface name, empty if no programmer
// was selected.
func (s *Session) Interface() string { return s.iface }

// Ear is the device ear selected by the side option.
func (s *Session) Ear() int { return s.ear }

// ---- device access ----

func (s *Session) getWords(names []string) ([]uint32, error) {
	if s.state != stateOpen {
		return nil, ErrNotInitialized
	}
	return s.store.GetWords(names)
}

// setWords writes and, when enabled, reads the words back.
func (s *Session) setWords(names []string, words []uint32) error {
	if s.state != stateOpen {
		return ErrNotInitialized
	}
	if err := s.store.SetWords(names, words); err != nil {
		return err
	}
	if !s.opts.VerifyNvmWrites {
		return nil
	}

	back, err := s.store.GetWords(names)
	if err != nil {
		return fmt.Errorf("%w: read back: %w", ErrVerifyFailed, err)
	}
	if !slices.Equal(back, words) {
		return fmt.Errorf("%w: wrote %x, read %x", ErrVerifyFailed, words, back)
	}
	return nil
}

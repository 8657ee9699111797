// internal/session/names.go
package session

import (
	"github.com/tamzrod/sdharness/internal/devicename"
)

// ReadName reads a name record and decodes it.
func (s *Session) ReadName(l devicename.Layout) (string, devicename.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := l.Validate(); err != nil {
		return "", devicename.Record{}, err
	}

	words, err := s.getWords(l.SlotNames())
	if err != nil {
		return "", devicename.Record{}, err
	}
	rec, err := devicename.RecordFromWords(words)
	if err != nil {
		return "", devicename.Record{}, err
	}
	return devicename.Decode(rec), rec, nil
}

// WriteName encodes name into the record at l and returns the name as the
// device will hold it, clipped to the record budget.
func (s *Session) WriteName(l devicename.Layout, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := l.Validate(); err != nil {
		return "", err
	}

	rec := devicename.Encode(name)
	stored := devicename.Decode(rec)
	if stored != name {
		s.log.Warn("device name clipped",
			"layout", l.Prefix,
			"requested", name,
			"stored", stored,
			"budget_bytes", l.TextBudget(),
		)
	}

	if err := s.setWords(l.SlotNames(), rec.Words()); err != nil {
		return "", err
	}

	s.log.Debug("device name written", "layout", l.Prefix, "name", stored)
	return stored, nil
}

// WriteRecord writes a raw name record, bypassing the encoder. Used to
// restore a record exactly as it was read.
func (s *Session) WriteRecord(l devicename.Layout, rec devicename.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := l.Validate(); err != nil {
		return err
	}
	return s.setWords(l.SlotNames(), rec.Words())
}

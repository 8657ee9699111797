// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/sdharness/internal/devicename"
)

// Reader abstracts the session operation needed by the poller.
type Reader interface {
	ReadName(l devicename.Layout) (string, devicename.Record, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	SessionID string
	Interval  time.Duration
	Layouts   []devicename.Layout
}

// Poller is a dumb, clock-driven reader of name records.
type Poller struct {
	cfg    Config
	reader Reader
}

// New creates a poller with immutable config.
func New(cfg Config, reader Reader) (*Poller, error) {
	if reader == nil {
		return nil, errors.New("poller: reader required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Layouts) == 0 {
		return nil, errors.New("poller: at least one layout required")
	}
	return &Poller{cfg: cfg, reader: reader}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		SessionID: p.cfg.SessionID,
		At:        time.Now(),
	}

	names := make([]NameResult, 0, len(p.cfg.Layouts))
	for _, l := range p.cfg.Layouts {
		name, rec, err := p.reader.ReadName(l)
		if err != nil {
			res.Err = err
			return res
		}
		names = append(names, NameResult{Prefix: l.Prefix, Name: name, Record: rec})
	}

	// Commit only if all reads succeeded
	res.Names = names
	return res
}

// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/sdharness/internal/devicename"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	h := cfg.Harness

	// ------------------------------------------------------------
	// SELECTORS (case-insensitive, empty = default)
	// ------------------------------------------------------------

	if h.Product != "" && canonical(h.Product, ProductE7111V2, ProductE7160SL) == "" {
		return fmt.Errorf("product %q: must be one of %s, %s", h.Product, ProductE7111V2, ProductE7160SL)
	}
	if h.Programmer != "" && canonical(h.Programmer, ProgrammerCAA, ProgrammerDSP3, ProgrammerPromira) == "" {
		return fmt.Errorf(
			"programmer %q: must be one of %s, %s, %s",
			h.Programmer, ProgrammerCAA, ProgrammerDSP3, ProgrammerPromira,
		)
	}
	if h.Side != "" && canonical(h.Side, SideLeft, SideRight) == "" {
		return fmt.Errorf("side %q: must be %s or %s", h.Side, SideLeft, SideRight)
	}

	if h.Device.TimeoutMs < 0 {
		return fmt.Errorf("device: timeout_ms must be >= 0, got %d", h.Device.TimeoutMs)
	}

	// ------------------------------------------------------------
	// PARAMETER MAP VALIDATION
	// ------------------------------------------------------------

	for _, p := range h.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter at address %d: name required", p.Address)
		}
		if p.Memory != nil && (*p.Memory < 0 || *p.Memory >= Memories) {
			return fmt.Errorf("parameter %q: memory %d out of range 0..%d", p.Name, *p.Memory, Memories-1)
		}
	}
	for _, nr := range h.NameRecords {
		if nr.Prefix == "" {
			return fmt.Errorf("name record at address %d: prefix required", nr.Address)
		}
		if uint32(nr.Address)+2*devicename.RecordWords-1 > 0xFFFF {
			return fmt.Errorf("name record %q: address %d runs past the register map", nr.Prefix, nr.Address)
		}
	}

	// ------------------------------------------------------------
	// REGISTER GEOMETRY VALIDATION
	// ------------------------------------------------------------

	type span struct {
		start uint32
		end   uint32
		name  string
	}

	var spans []span
	owner := make(map[string]struct{})

	for _, p := range Expand(cfg) {
		if _, dup := owner[p.Name]; dup {
			return fmt.Errorf("parameter %q: defined more than once", p.Name)
		}
		owner[p.Name] = struct{}{}

		// each word occupies two holding registers (inclusive range)
		start := uint32(p.Address)
		end := start + 1
		if end > 0xFFFF {
			return fmt.Errorf("parameter %q: address %d leaves no room for its low register", p.Name, p.Address)
		}

		for _, s := range spans {
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"register overlap: parameter %q range=%d-%d overlaps with %q range=%d-%d",
					p.Name, start, end, s.name, s.start, s.end,
				)
			}
		}
		spans = append(spans, span{start: start, end: end, name: p.Name})
	}

	return nil
}

// Expand flattens explicit parameters and name records into one list.
// Name record slots are system parameters.
func Expand(cfg *Config) []ParameterConfig {
	out := append([]ParameterConfig(nil), cfg.Harness.Parameters...)

	for _, nr := range cfg.Harness.NameRecords {
		l := devicename.DeviceName
		l.Prefix = nr.Prefix
		for i, n := range l.SlotNames() {
			out = append(out, ParameterConfig{
				Name:    n,
				Address: nr.Address + uint16(2*i),
			})
		}
	}
	return out
}

// Addresses maps every parameter name to its first holding register.
func Addresses(cfg *Config) map[string]uint16 {
	out := make(map[string]uint16)
	for _, p := range Expand(cfg) {
		out[p.Name] = p.Address
	}
	return out
}

// canonical returns the matching known value (case-insensitive) or "".
func canonical(v string, known ...string) string {
	for _, k := range known {
		if strings.EqualFold(v, k) {
			return k
		}
	}
	return ""
}

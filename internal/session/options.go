// internal/session/options.go
package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tamzrod/sdharness/internal/config"
)

// Options is the immutable session setup.
type Options struct {
	Product          string
	Programmer       string // CAA | DSP3 | Promira, empty = not selected
	Side             string // left | right
	InterfaceOptions string
	VerifyNvmWrites  bool

	// Parameters is the device parameter map, used for counting.
	Parameters []config.ParameterConfig

	Logger *slog.Logger
}

// OptionsFromConfig builds session options from a validated,
// normalized config.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	h := cfg.Harness
	return Options{
		Product:          h.Product,
		Programmer:       h.Programmer,
		Side:             h.Side,
		InterfaceOptions: h.InterfaceOptions,
		VerifyNvmWrites:  h.VerifyNvmWrites,
		Parameters:       config.Expand(cfg),
		Logger:           logger,
	}
}

// Ear values used by the device.
const (
	EarLeft  = 0
	EarRight = 1
)

// InterfaceName maps a programmer short name to the communication
// interface name the device link expects.
func InterfaceName(programmer string) (string, error) {
	switch strings.ToUpper(programmer) {
	case "CAA":
		return "Communication Accelerator Adaptor", nil
	case "DSP3":
		return "DSP3", nil
	case "PROMIRA":
		return "Promira", nil
	}
	return "", fmt.Errorf("session: unknown programmer: %s", programmer)
}

// Ear maps a side name to its device ear value.
func Ear(side string) (int, error) {
	switch strings.ToUpper(side) {
	case "LEFT":
		return EarLeft, nil
	case "RIGHT":
		return EarRight, nil
	}
	return 0, fmt.Errorf("session: unknown side: %s", side)
}

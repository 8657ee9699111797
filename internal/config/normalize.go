// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	h := &cfg.Harness

	// Selectors: canonical spelling, defaults when unset.
	// Programmer has no default: device commands require it.
	if h.Product == "" {
		h.Product = DefaultProduct
	} else {
		h.Product = canonical(h.Product, ProductE7111V2, ProductE7160SL)
	}

	if h.Programmer != "" {
		h.Programmer = canonical(h.Programmer, ProgrammerCAA, ProgrammerDSP3, ProgrammerPromira)
	}

	if h.Side == "" {
		h.Side = DefaultSide
	} else {
		h.Side = canonical(h.Side, SideLeft, SideRight)
	}

	if h.Device.TimeoutMs == 0 {
		h.Device.TimeoutMs = DefaultTimeoutMs
	}
}

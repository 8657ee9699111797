// internal/config/config.go
package config

type Config struct {
	Harness HarnessConfig `yaml:"harness"`
}

type HarnessConfig struct {
	SDKRoot          string `yaml:"sdk_root"`          // falls back to $SD_SDK_ROOT
	Product          string `yaml:"product"`           // E7111V2 | E7160SL
	Programmer       string `yaml:"programmer"`        // CAA | DSP3 | Promira
	Side             string `yaml:"side"`              // left | right
	InterfaceOptions string `yaml:"interface_options"` // passed through verbatim
	VerifyNvmWrites  bool   `yaml:"verify_nvm_writes"`

	Device      DeviceConfig       `yaml:"device"`
	Parameters  []ParameterConfig  `yaml:"parameters"`
	NameRecords []NameRecordConfig `yaml:"name_records"`
}

// ---- DEVICE LINK ----

type DeviceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- PARAMETER MAP ----

// ParameterConfig places one 24-bit parameter at a holding register pair.
type ParameterConfig struct {
	Name    string `yaml:"name"`
	Address uint16 `yaml:"address"`
	Memory  *int   `yaml:"memory"` // NVM memory index 0..7; nil = system parameter
}

// NameRecordConfig places an 8-word name record: slot i lives at
// Address + 2*i.
type NameRecordConfig struct {
	Prefix  string `yaml:"prefix"`
	Address uint16 `yaml:"address"`
}

// ---- KNOWN VALUES ----

const (
	ProductE7111V2 = "E7111V2"
	ProductE7160SL = "E7160SL"

	ProgrammerCAA     = "CAA"
	ProgrammerDSP3    = "DSP3"
	ProgrammerPromira = "Promira"

	SideLeft  = "left"
	SideRight = "right"
)

// Memories is the number of NVM fitting memories on a device.
const Memories = 8

// Defaults applied by Normalize.
const (
	DefaultProduct   = ProductE7160SL
	DefaultSide      = SideLeft
	DefaultTimeoutMs = 1000
)

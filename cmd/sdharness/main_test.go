// cmd/sdharness/main_test.go
package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/sdharness/internal/config"
	"github.com/tamzrod/sdharness/internal/devicename"
	"github.com/tamzrod/sdharness/internal/session"
)

func TestParseRecord(t *testing.T) {
	rec, err := parseRecord([]string{
		"0x48c3b6", "0x726765", "0x72c3a4", "0x7448c3",
		"0xb67267", "0x657274", "0x74c3a4", "0",
	})
	require.NoError(t, err)
	assert.Equal(t, "HörgerätHörgerttä", devicename.Decode(rec))

	_, err = parseRecord([]string{"1", "2"})
	assert.Error(t, err)

	_, err = parseRecord([]string{"0x1000000", "0", "0", "0", "0", "0", "0", "0"})
	assert.Error(t, err)

	_, err = parseRecord([]string{"zz", "0", "0", "0", "0", "0", "0", "0"})
	assert.Error(t, err)
}

func TestParseMAC(t *testing.T) {
	for _, in := range []string{"60:C0:BF:12:34:56", "0x60c0bf123456", "60-c0-bf-12-34-56"} {
		v, err := parseMAC(in)
		require.NoError(t, err, in)
		assert.Equal(t, uint64(0x60C0BF123456), v, in)
	}

	_, err := parseMAC("not-a-mac")
	assert.Error(t, err)
}

// parseFlags builds a fresh flag set with the global flags and parses args.
func parseFlags(t *testing.T, args ...string) (*flag.FlagSet, *cliFlags) {
	t.Helper()
	fs := flag.NewFlagSet("sdharness", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := defineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs, f
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harness.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const cliYAML = `
harness:
  programmer: CAA
  side: left
  product: E7111V2
  parameters:
    - name: X_FBC_Enable
      address: 300
      memory: 1
`

func TestLoadConfig_FlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, cliYAML)
	fs, f := parseFlags(t, "-config", path, "-programmer", "DSP3", "-side", "right", "-verify-nvm-writes")

	cfg, err := loadConfig(fs, f)
	require.NoError(t, err)

	h := cfg.Harness
	assert.Equal(t, config.ProgrammerDSP3, h.Programmer)
	assert.Equal(t, config.SideRight, h.Side)
	assert.True(t, h.VerifyNvmWrites)
	// not set on the command line: config value stays
	assert.Equal(t, config.ProductE7111V2, h.Product)
}

func TestLoadConfig_UnsetFlagsKeepConfig(t *testing.T) {
	path := writeConfig(t, cliYAML)
	fs, f := parseFlags(t, "-config", path)

	cfg, err := loadConfig(fs, f)
	require.NoError(t, err)
	assert.Equal(t, config.ProgrammerCAA, cfg.Harness.Programmer)
	assert.Equal(t, config.SideLeft, cfg.Harness.Side)
}

func TestLoadConfig_InvalidOverrideRejected(t *testing.T) {
	fs, f := parseFlags(t, "-programmer", "JTAG")

	_, err := loadConfig(fs, f)
	assert.Error(t, err)
}

func TestDryRunStore_ServesSession(t *testing.T) {
	path := writeConfig(t, cliYAML)
	fs, f := parseFlags(t, "-config", path, "-dry-run")

	cfg, err := loadConfig(fs, f)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, closeStore, err := buildStore(cfg, *f.dryRun, logger)
	require.NoError(t, err)
	defer closeStore()

	s, err := session.New(session.OptionsFromConfig(cfg, logger), st)
	require.NoError(t, err)
	require.NoError(t, s.Initialize())
	defer s.Close()

	name, _, err := s.ReadName(devicename.GAPDeviceName)
	require.NoError(t, err)
	assert.Equal(t, "", name)

	stored, err := s.WriteName(devicename.GAPDeviceName, "Hörgerät")
	require.NoError(t, err)
	assert.Equal(t, "Hörgerät", stored)

	peer, err := s.PeerAddress()
	require.NoError(t, err)
	assert.Zero(t, peer)

	// the config's own parameter map is seeded too
	assert.Contains(t, dryRunStore(cfg).Snapshot(), "X_FBC_Enable")
}

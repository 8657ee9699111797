// Command sdharness configures and checks hearing-aid devices through
// their parameter store.
//
// Usage:
//
//	sdharness [flags] <command> [args]
//
// Commands:
//
//	encode <name>            Print the name record words for a name
//	decode <w0> ... <w7>     Print the name held by 8 words (decimal or 0x hex)
//	get-name [-gap]          Read the device name
//	set-name [-gap] <name>   Write the device name
//	get-peer                 Read the binaural peer address
//	set-peer <mac>           Write the binaural peer address (hex, colons allowed)
//	count                    Count system and per-memory parameters
//	watch [-interval 1s]     Log both device names whenever they change
//
// Examples:
//
//	sdharness encode "Hörgerät"
//	sdharness -config harness.yaml -programmer CAA set-name "Hörgerät"
//	sdharness -dry-run set-name -gap "HörgerätHörgertttää"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/sdharness/internal/config"
	"github.com/tamzrod/sdharness/internal/devicename"
	"github.com/tamzrod/sdharness/internal/poller"
	"github.com/tamzrod/sdharness/internal/sdk"
	"github.com/tamzrod/sdharness/internal/session"
	"github.com/tamzrod/sdharness/internal/store"
	smodbus "github.com/tamzrod/sdharness/internal/store/modbus"
)

// cliFlags holds the global flags. Flags set on the command line override
// values from the config file.
type cliFlags struct {
	configPath       *string
	sdkRoot          *string
	programmer       *string
	side             *string
	product          *string
	interfaceOptions *string
	verifyNvmWrites  *bool
	dryRun           *bool
	verbose          *bool
}

func defineFlags(fs *flag.FlagSet) *cliFlags {
	return &cliFlags{
		configPath:       fs.String("config", "", "Path to harness config (YAML)"),
		sdkRoot:          fs.String("sdk-root", "", "Path to the SDK root folder (or set "+sdk.RootEnv+")"),
		programmer:       fs.String("programmer", "", "Programmer to use: CAA, DSP3, Promira"),
		side:             fs.String("side", "", "Side to use: left, right (default left)"),
		product:          fs.String("product", "", "Product: E7111V2, E7160SL (default E7160SL)"),
		interfaceOptions: fs.String("interface-options", "", "Options passed to the communication interface"),
		verifyNvmWrites:  fs.Bool("verify-nvm-writes", false, "Read back and verify all NVM writes"),
		dryRun:           fs.Bool("dry-run", false, "Use an in-memory parameter store instead of a device"),
		verbose:          fs.Bool("v", false, "Enable debug logging"),
	}
}

var flags = defineFlags(flag.CommandLine)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cmd, args := flag.Arg(0), flag.Args()[1:]

	// --------------------
	// Offline commands
	// --------------------

	switch cmd {
	case "encode":
		if len(args) != 1 {
			log.Fatal("usage: sdharness encode <name>")
		}
		rec := devicename.Encode(args[0])
		fmt.Println(devicename.Decode(rec))
		printRecord(rec)
		return

	case "decode":
		rec, err := parseRecord(args)
		if err != nil {
			log.Fatalf("decode: %v", err)
		}
		fmt.Println(devicename.Decode(rec))
		return
	}

	switch cmd {
	case "get-name", "set-name", "get-peer", "set-peer", "count", "watch":
	default:
		usage()
		os.Exit(2)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := loadConfig(flag.CommandLine, flags)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cmd == "count" {
		s, err := session.New(session.OptionsFromConfig(cfg, logger), store.NewMemory(nil))
		if err != nil {
			log.Fatalf("session: %v", err)
		}
		system, perMemory := s.CountParameters()
		fmt.Println(system, perMemory)
		return
	}

	// --------------------
	// Device session
	// --------------------

	st, closeStore, err := buildStore(cfg, *flags.dryRun, logger)
	if err != nil {
		log.Fatalf("parameter store: %v", err)
	}
	defer closeStore()

	s, err := session.New(session.OptionsFromConfig(cfg, logger), st)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	if err := s.Initialize(); err != nil {
		log.Fatalf("session: %v", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, s, logger, cmd, args); err != nil {
		// Deferred closers do not run after log.Fatal.
		_ = s.Close()
		_ = closeStore()
		log.Fatalf("%s: %v", cmd, err)
	}
}

func run(ctx context.Context, s *session.Session, logger *slog.Logger, cmd string, args []string) error {
	switch cmd {
	case "watch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		interval := fs.Duration("interval", time.Second, "Poll interval")
		_ = fs.Parse(args)
		return watch(ctx, s, logger, *interval)

	case "get-name", "set-name":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		gap := fs.Bool("gap", false, "Use the GAP device name")
		_ = fs.Parse(args)

		layout := devicename.DeviceName
		if *gap {
			layout = devicename.GAPDeviceName
		}

		if cmd == "get-name" {
			name, rec, err := s.ReadName(layout)
			if err != nil {
				return err
			}
			fmt.Println(name)
			printRecord(rec)
			return nil
		}

		if fs.NArg() != 1 {
			return errors.New("usage: sdharness set-name [-gap] <name>")
		}
		stored, err := s.WriteName(layout, fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Println(stored)
		return nil

	case "get-peer":
		addr, err := s.PeerAddress()
		if err != nil {
			return err
		}
		fmt.Printf("%012X\n", addr)
		return nil

	case "set-peer":
		if len(args) != 1 {
			return errors.New("usage: sdharness set-peer <mac>")
		}
		addr, err := parseMAC(args[0])
		if err != nil {
			return err
		}
		return s.SetPeerAddress(addr)
	}

	return fmt.Errorf("unknown command %q", cmd)
}

// watch polls both name records until ctx is cancelled and logs changes.
func watch(ctx context.Context, s *session.Session, logger *slog.Logger, interval time.Duration) error {
	p, err := poller.New(poller.Config{
		SessionID: s.ID(),
		Interval:  interval,
		Layouts:   []devicename.Layout{devicename.DeviceName, devicename.GAPDeviceName},
	}, s)
	if err != nil {
		return err
	}

	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	var last poller.PollResult
	first := true

	for {
		select {
		case <-ctx.Done():
			return nil

		case res := <-out:
			if !first && !res.Changed(last) {
				continue
			}
			first = false
			last = res

			if res.Err != nil {
				logger.Error("name poll failed", "err", res.Err)
				continue
			}
			for _, n := range res.Names {
				logger.Info("device name", "layout", n.Prefix, "name", n.Name)
			}
		}
	}
}

// loadConfig reads the optional config file and applies the flags that
// were set on fs.
func loadConfig(fs *flag.FlagSet, f *cliFlags) (*config.Config, error) {
	cfg := &config.Config{}
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	h := &cfg.Harness
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "sdk-root":
			h.SDKRoot = *f.sdkRoot
		case "programmer":
			h.Programmer = *f.programmer
		case "side":
			h.Side = *f.side
		case "product":
			h.Product = *f.product
		case "interface-options":
			h.InterfaceOptions = *f.interfaceOptions
		case "verify-nvm-writes":
			h.VerifyNvmWrites = *f.verifyNvmWrites
		}
	})

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

// buildStore returns an in-memory store for -dry-run, else the Modbus
// store for the configured endpoint.
func buildStore(cfg *config.Config, dryRun bool, logger *slog.Logger) (store.ParameterStore, func() error, error) {
	if dryRun {
		m := dryRunStore(cfg)
		logger.Info("using in-memory parameter store", "parameters", len(m.Snapshot()))
		return m, m.Close, nil
	}

	h := cfg.Harness
	if h.Programmer == "" {
		return nil, nil, errors.New("device commands need -programmer (or -dry-run)")
	}

	env, err := sdk.Resolve(h.SDKRoot)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("sdk resolved",
		"root", env.Root,
		"config", env.ConfigPath,
		"library", env.ProductLibrary(h.Product),
		"module_env", env.ModuleEnv(),
	)

	if h.Device.Endpoint == "" {
		return nil, nil, errors.New("device.endpoint required")
	}

	st, err := smodbus.New(smodbus.Config{
		Endpoint:  h.Device.Endpoint,
		UnitID:    h.Device.UnitID,
		Timeout:   time.Duration(h.Device.TimeoutMs) * time.Millisecond,
		Addresses: config.Addresses(cfg),
	})
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}

// dryRunStore holds both name records, the peer address words and every
// parameter of the config's map, all zero.
func dryRunStore(cfg *config.Config) *store.Memory {
	seed := map[string]uint32{
		session.ParamPeerAddress1: 0,
		session.ParamPeerAddress2: 0,
	}
	for _, l := range []devicename.Layout{devicename.DeviceName, devicename.GAPDeviceName} {
		for _, n := range l.SlotNames() {
			seed[n] = 0
		}
	}
	for n := range config.Addresses(cfg) {
		seed[n] = 0
	}
	return store.NewMemory(seed)
}

func parseRecord(args []string) (devicename.Record, error) {
	words := make([]uint32, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(a, 0, 32)
		if err != nil {
			return devicename.Record{}, fmt.Errorf("word %q: %w", a, err)
		}
		if v > devicename.WordMask {
			return devicename.Record{}, fmt.Errorf("word %q: exceeds 24 bits", a)
		}
		words = append(words, uint32(v))
	}
	return devicename.RecordFromWords(words)
}

func parseMAC(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.NewReplacer(":", "", "-", "").Replace(s)
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("mac %q: %w", s, err)
	}
	return v, nil
}

func printRecord(rec devicename.Record) {
	for i, w := range rec {
		fmt.Printf("%d: 0x%06x %d\n", i, w, w)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: sdharness [flags] <encode|decode|get-name|set-name|get-peer|set-peer|count|watch> [args]\n\nflags:\n")
	flag.PrintDefaults()
}

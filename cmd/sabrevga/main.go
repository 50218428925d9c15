// Package main is the entry point for the sabrevga text console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/sabrevga/internal/app"
	"github.com/dshills/sabrevga/internal/config"
	"github.com/dshills/sabrevga/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	configPath  string
	mode        string
	output      string
	frames      int
	fps         int
	logLevel    string
	logFile     string
	watch       bool
	dumpConfig  bool
	showVersion bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Printf("sabrevga %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.dumpConfig {
		if err := cfg.Encode(os.Stdout, config.FormatTOML); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	mode, err := app.ResolveMode(cfg.Host.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	logging.SetDefault(logger)

	application, err := app.New(cfg, app.Options{
		ConfigPath: opts.configPath,
		Reload:     reloader(opts),
		Mode:       &mode,
		Banner:     app.DefaultBanner,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		logger.Error("run: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("sabrevga", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to configuration file (shorthand)")
	fs.StringVar(&opts.mode, "mode", "", "Host mode (auto, terminal, headless)")
	fs.StringVar(&opts.output, "output", "", "PNG written by a headless run")
	fs.StringVar(&opts.output, "o", "", "PNG written by a headless run (shorthand)")
	fs.IntVar(&opts.frames, "frames", 0, "Frames rendered by a headless run")
	fs.IntVar(&opts.fps, "fps", 0, "Frame rate")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.watch, "watch", false, "Reload the config file when it changes")
	fs.BoolVar(&opts.dumpConfig, "dump-config", false, "Print the effective configuration as TOML and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "sabrevga - VGA-style text console\n\n")
		fmt.Fprintf(stderr, "Usage: sabrevga [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys (terminal mode):\n")
		fmt.Fprintf(stderr, "  arrows  move the cursor      F1  cycle cursor shape\n")
		fmt.Fprintf(stderr, "  F2      scroll               F3  clear\n")
		fmt.Fprintf(stderr, "  F4      toggle blink text    Esc quit\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  sabrevga                         Interactive console\n")
		fmt.Fprintf(stderr, "  sabrevga -c vga.toml -watch      Reload vga.toml on change\n")
		fmt.Fprintf(stderr, "  sabrevga -mode headless -o a.png Render one frame to a.png\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments")
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig layers defaults, the config file, the environment and then
// explicit flags, and validates the result.
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(config.EnvPrefix); err != nil {
		return nil, err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reloader rebuilds the configuration from a changed file with the same
// environment and flag overrides as at startup.
func reloader(opts cliOptions) func(path string) (*config.Config, error) {
	return func(path string) (*config.Config, error) {
		o := opts
		o.configPath = path
		return loadConfig(o)
	}
}

func applyFlags(cfg *config.Config, opts cliOptions) {
	if opts.set["mode"] {
		cfg.Host.Mode = opts.mode
	}
	if opts.set["output"] || opts.set["o"] {
		cfg.Host.Output = opts.output
	}
	if opts.set["frames"] {
		cfg.Host.Frames = opts.frames
	}
	if opts.set["fps"] {
		cfg.Host.FPS = opts.fps
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if opts.set["log-file"] {
		cfg.Log.File = opts.logFile
	}
	if opts.set["watch"] {
		cfg.Host.Watch = opts.watch
	}
}

// newLogger writes to the configured file, or to stderr unless the
// terminal is in use for the console itself.
func newLogger(cfg *config.Config, mode app.Mode) (*logging.Logger, func(), error) {
	lc := logging.Config{Level: cfg.LogLevel(), Prefix: "sabrevga"}

	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lc.Output = f
		return logging.New(lc), func() { _ = f.Close() }, nil
	case mode == app.ModeTerminal:
		lc.Output = io.Discard
	default:
		lc.Output = os.Stderr
	}
	return logging.New(lc), func() {}, nil
}

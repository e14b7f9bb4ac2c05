// Package main is the entry point for the inkwell editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/dshills/inkwell/internal/app"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath string
	logFile    string
	logLevel   string
	readOnly   bool
	noWatch    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: inkwell needs an interactive terminal")
		return 1
	}

	cfg, notice := loadConfig(f.configPath)
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	level := cfg.LogLevel()
	if f.logLevel != "" {
		parsed, err := zapcore.ParseLevel(f.logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", f.logLevel)
			return 2
		}
		level = parsed
	}

	logger, err := app.NewLogger(cfg.Log.File, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting", zap.String("version", version), zap.String("commit", commit))

	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	var path string
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	application, err := app.New(app.Options{
		Path:       path,
		Config:     cfg,
		ConfigPath: f.configPath,
		Watch:      !f.noWatch,
		ReadOnly:   f.readOnly,
		Logger:     logger,
		Notice:     notice,
	}, screen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("editor stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the configuration. A broken file falls back to the
// defaults and the problem is returned for display.
func loadConfig(path string) (*config.Config, string) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Default(), fmt.Sprintf("Config ignored: %v", err)
	}
	return cfg, ""
}

func parseFlags() flags {
	var f flags
	var showVersion bool

	flag.StringVar(&f.configPath, "config", config.DefaultPath(), "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&f.configPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&f.logFile, "log-file", "", "Write JSON logs to this file")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&f.readOnly, "readonly", false, "Open the file read-only")
	flag.BoolVar(&f.readOnly, "R", false, "Open the file read-only (shorthand)")
	flag.BoolVar(&f.noWatch, "no-watch", false, "Do not watch the file for external changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "inkwell - a terminal editor for text and notebooks\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwell [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkwell                     Open an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  inkwell notes.md            Open a file\n")
		fmt.Fprintf(os.Stderr, "  inkwell analysis.ipynb      Open a notebook\n")
		fmt.Fprintf(os.Stderr, "  inkwell -R main.go          Open a file read-only\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("inkwell %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return f
}

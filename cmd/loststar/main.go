// Loststar is a turn-based adventure engine driven by Lua world content.
// Usage: loststar [--version] [--plain] [--script <file>] [--seed <n>] [game_directory]
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nathoo/loststar/cli"
	"github.com/nathoo/loststar/config"
	"github.com/nathoo/loststar/engine"
	"github.com/nathoo/loststar/engine/world"
	"github.com/nathoo/loststar/loader"
	"github.com/nathoo/loststar/telemetry"
	"github.com/nathoo/loststar/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	plain := false
	gameDir := cfg.GameDir
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("loststar %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			seed, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed requires a number: %v\n", err)
				os.Exit(1)
			}
			cfg.Seed = seed
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			gameDir = args[i]
		}
	}

	// Load and compile Lua world content.
	defs, err := loader.Load(gameDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	opts := engine.Options{
		MonsterTurnDelay: cfg.MonsterTurnDelay,
		RevivalDelay:     cfg.RevivalDelay,
	}
	if cfg.Seed != 0 {
		opts.Rand = engine.NewRNG(cfg.Seed)
	}

	if cfg.Telemetry {
		shutdown, err := telemetry.Setup(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting telemetry: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
		opts.Tracer = telemetry.Tracer("engine")
	}

	// Script mode: open file, run the plain CLI inline, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		runPlain(defs, opts, f, true)
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		runPlain(defs, opts, os.Stdin, false)
		return
	}

	g := engine.New(defs, opts)
	p, updates := tui.Program(g)
	g.SetObserver(func(u engine.Update) { updates <- u })

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runPlain drives the line-oriented CLI. Deferred combat turns run inline
// so scripted playthroughs stay deterministic.
func runPlain(defs *world.Defs, opts engine.Options, in *os.File, echo bool) {
	opts.Scheduler = engine.ImmediateScheduler{}
	g := engine.New(defs, opts)
	c := cli.New(g)
	c.In = in
	c.EchoInput = echo
	c.Run()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

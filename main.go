package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mk61sim/chipset-sim/config"
	"github.com/mk61sim/chipset-sim/loader"
	"github.com/mk61sim/chipset-sim/panel"
	"github.com/mk61sim/chipset-sim/runner"
	"github.com/mk61sim/chipset-sim/service"
	"github.com/mk61sim/chipset-sim/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")

		ik1302Rom = flag.String("ik1302-rom", "", "IK1302 ROM image path (default: synthetic placeholder)")
		ik1303Rom = flag.String("ik1303-rom", "", "IK1303 ROM image path (default: synthetic placeholder)")
		ik1306Rom = flag.String("ik1306-rom", "", "IK1306 ROM image path (default: synthetic placeholder)")
		synthRom  = flag.Bool("synthetic-rom", false, "Force the synthetic placeholder ROM set, ignoring -ik13*-rom")

		stateIn  = flag.String("load-state", "", "Load calculator state from this file before starting")
		stateOut = flag.String("save-state", "", "Save calculator state to this file on exit")
		powerOn  = flag.Bool("power-on", false, "Power the calculator on at startup")

		tickMs = flag.Uint("tick-ms", 100, "Milliseconds per macro-tick while running")

		tuiMode   = flag.Bool("tui", false, "Start the terminal front panel")
		apiServer = flag.Bool("api-server", false, "Start the HTTP/WebSocket service")
		apiPort   = flag.Int("port", 8061, "Service port (used with -api-server)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("mk61-sim %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *ik1302Rom != "" {
		cfg.ROM.IK1302Path = *ik1302Rom
	}
	if *ik1303Rom != "" {
		cfg.ROM.IK1303Path = *ik1303Rom
	}
	if *ik1306Rom != "" {
		cfg.ROM.IK1306Path = *ik1306Rom
	}
	if *synthRom {
		cfg.ROM.Synthetic = true
	}

	useSynthetic := *synthRom || (cfg.ROM.Synthetic && cfg.ROM.IK1302Path == "" && cfg.ROM.IK1303Path == "" && cfg.ROM.IK1306Path == "")
	roms, err := loader.LoadROMSet(cfg.ROM.IK1302Path, cfg.ROM.IK1303Path, cfg.ROM.IK1306Path, useSynthetic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM set: %v\n", err)
		os.Exit(1)
	}

	engine := vm.NewEngine(roms)

	if *stateIn != "" {
		if err := loader.LoadEngineState(*stateIn, engine); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
			os.Exit(1)
		}
	}

	if *powerOn || cfg.Runner.AutoPowerOn {
		engine.SetPowerState(vm.PowerOn)
	}

	interval := time.Duration(*tickMs) * time.Millisecond
	if *tickMs == 0 {
		interval = time.Duration(cfg.Runner.StepInterval) * time.Millisecond
	}
	run := runner.New(engine, interval)

	saveOnExit := func() {
		if *stateOut == "" {
			return
		}
		if err := loader.SaveEngineState(*stateOut, run.Engine()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
		}
	}

	switch {
	case *apiServer:
		runService(run, *apiPort, saveOnExit)
	case *tuiMode:
		runPanel(run, cfg, saveOnExit)
	default:
		runHeadless(run, saveOnExit)
	}
}

// runPanel drives the terminal front panel until the operator quits.
func runPanel(run *runner.Runner, cfg *config.Config, saveOnExit func()) {
	refresh := time.Duration(cfg.Panel.RefreshMs) * time.Millisecond
	if refresh <= 0 {
		refresh = 50 * time.Millisecond
	}

	t := panel.NewTUI(run, refresh)
	if err := t.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Panel error: %v\n", err)
		saveOnExit()
		os.Exit(1)
	}
	saveOnExit()
}

// runService starts the HTTP/WebSocket service and blocks until it
// receives an interrupt or termination signal, then shuts down cleanly.
func runService(run *runner.Runner, port int, saveOnExit func()) {
	srv := service.NewServer(run, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down service...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
			}
			run.Stop()
			saveOnExit()
			fmt.Println("Service stopped")
		})
	}

	run.Start()

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Service error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

// runHeadless steps the engine on its own in the foreground until
// interrupted, for scripted or CI use without a panel or service.
func runHeadless(run *runner.Runner, saveOnExit func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	run.Start()
	<-sigChan
	run.Stop()
	saveOnExit()
}

func printHelp() {
	fmt.Printf(`mk61-sim %s

Usage: mk61-sim [options]

The chipset simulation runs headless by default, advancing one macro-tick
per -tick-ms while powered on. Use -tui for the terminal front panel, or
-api-server for the HTTP/WebSocket service.

Options:
  -help               Show this help message
  -version            Show version information

ROM Options:
  -ik1302-rom FILE    IK1302 ROM image path
  -ik1303-rom FILE    IK1303 ROM image path
  -ik1306-rom FILE    IK1306 ROM image path
  -synthetic-rom      Force the synthetic placeholder ROM set

State Options:
  -load-state FILE    Load calculator state before starting (%s)
  -save-state FILE    Save calculator state on exit (%s)
  -power-on           Power the calculator on at startup

Runtime Options:
  -tick-ms N          Milliseconds per macro-tick while running (default: 100)
  -tui                Start the terminal front panel
  -api-server         Start the HTTP/WebSocket service
  -port N             Service port (default: 8061, used with -api-server)

Front Panel Keys (when in -tui mode):
  0-9                 Digit entry
  + - * /             Arithmetic
  c                   Clear (CX)
  f                   F prefix (then e=PRG mode; no key returns to AUT mode)
  r                   R/S (run/idle, AUT mode only)
  q                   Quit

Examples:
  mk61-sim -tui -power-on
  mk61-sim -api-server -port 8061
  mk61-sim -tui -load-state save1%s -save-state save1%s
`, Version, loader.StateFileExt, loader.StateFileExt, loader.StateFileExt, loader.StateFileExt)
}

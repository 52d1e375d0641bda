// Package runner provides a thread-safe background worker around a
// vm.Engine: one goroutine calls Engine.DoStep on a configurable interval
// while the runner is started (DoStep itself is a no-op while power is
// off), serialised behind a mutex exactly like
// the teacher's DebuggerService serialises VM access for its TUI/GUI/API
// front ends.
package runner

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mk61sim/chipset-sim/vm"
)

var runnerLog *log.Logger

func init() {
	if os.Getenv("MK61_SIM_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "mk61-sim-runner-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			runnerLog = log.New(os.Stderr, "RUNNER: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			runnerLog = log.New(f, "RUNNER: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		runnerLog = log.New(io.Discard, "", 0)
	}
}

// Runner owns an Engine and drives it on a background goroutine while
// running is true, serialising all access behind mu (§5 concurrency
// model: single-writer, reader/writer lock around the shared engine).
type Runner struct {
	mu       sync.RWMutex
	engine   *vm.Engine
	interval time.Duration

	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New wraps engine in a Runner with the given macro-tick interval.
func New(engine *vm.Engine, interval time.Duration) *Runner {
	return &Runner{engine: engine, interval: interval}
}

// Engine returns the underlying engine, for callers that need an
// operation not exposed by Runner. Only the read of the pointer is
// locked; calls made through it are not serialised against the
// background loop.
func (r *Runner) Engine() *vm.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine
}

// Start launches the background step loop if it is not already running.
// It is idempotent (§5's "start/stop are idempotent").
func (r *Runner) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	stop := r.stop
	done := r.done
	r.mu.Unlock()

	runnerLog.Println("Start() launching background loop")
	go r.loop(stop, done)
}

// Stop halts the background loop and waits for it to exit. Idempotent.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stop := r.stop
	done := r.done
	r.mu.Unlock()

	close(stop)
	<-done
	runnerLog.Println("Stop() background loop exited")
}

// IsRunning reports whether the background loop is active.
func (r *Runner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// Step performs a single macro-tick synchronously, serialised against the
// background loop. The service's /api/v1/step endpoint uses it.
func (r *Runner) Step() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.DoStep()
}

// PressKey queues a key press, serialised against the background loop.
func (r *Runner) PressKey(key1, key2 int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.DoKeyPress(key1, key2)
}

// SetPowerState toggles power, serialised against the background loop.
func (r *Runner) SetPowerState(s vm.PowerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.SetPowerState(s)
}

// Snapshot is a read-only view of everything a front end polls per tick.
type Snapshot struct {
	Indicator      string
	ProgCounter    string
	AngleUnit      string
	PowerState     vm.PowerState
	Running        bool
	OutputRequired bool
}

// Snapshot reads the engine's current printable state without mutating it,
// and clears output_required the way a front end's poll loop is expected
// to (§3.4 invariant 5, §7).
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Indicator:      r.engine.GetIndicatorStr(),
		ProgCounter:    r.engine.GetProgCounterStr(),
		AngleUnit:      r.engine.GetAngleUnitStr(),
		PowerState:     r.engine.GetPowerState(),
		Running:        r.engine.IsRunning(),
		OutputRequired: r.engine.IsOutputRequired(),
	}
	if s.OutputRequired {
		r.engine.EndOutput()
	}
	return s
}

// loop advances the engine by one macro-tick every interval until stop is
// closed, then signals done.
func (r *Runner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			if err := r.engine.DoStep(); err != nil {
				runnerLog.Printf("DoStep error: %v", err)
			}
			r.mu.Unlock()
		}
	}
}

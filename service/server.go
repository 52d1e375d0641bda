// Package service exposes a runner.Runner over HTTP and WebSocket: a
// small control surface (power, key press, single step) plus a push
// channel that streams runner.Snapshot every 20ms, grounded on the teacher's
// api package (server/broadcaster/websocket/session-manager) but scoped
// to the single engine this process drives instead of a multi-session VM
// pool (§5, §6.1 external interfaces).
package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mk61sim/chipset-sim/runner"
)

// Server is the HTTP+WebSocket front end around one Runner.
type Server struct {
	run         *runner.Runner
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int

	pushDone chan struct{}
}

// NewServer creates a new service server around run, listening on port.
func NewServer(run *runner.Runner, port int) *Server {
	s := &Server{
		run:         run,
		broadcaster: NewBroadcaster(),
		mux:         http.NewServeMux(),
		port:        port,
		pushDone:    make(chan struct{}),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)
	s.mux.HandleFunc("/api/v1/state", s.handleState)
	s.mux.HandleFunc("/api/v1/power", s.handlePower)
	s.mux.HandleFunc("/api/v1/key", s.handleKey)
	s.mux.HandleFunc("/api/v1/step", s.handleStep)
}

// Handler returns the HTTP handler with CORS middleware applied.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start runs the HTTP server (blocking) and the background push loop that
// broadcasts runner snapshots to WebSocket clients.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.pushLoop()

	log.Printf("mk61-sim service listening on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown stops the push loop, closes the broadcaster, and gracefully
// shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.pushDone)
	s.broadcaster.Close()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// pushLoop polls the runner every 20ms and publishes a state event on
// every poll, carrying the snapshot's output_required flag (§3.4
// invariant 5: Snapshot clears the flag as it reads it).
func (s *Server) pushLoop() {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.pushDone:
			return
		case <-ticker.C:
			snap := s.run.Snapshot()
			s.broadcaster.Publish(BroadcastEvent{
				Type: EventTypeState,
				Data: map[string]interface{}{
					"indicator":       snap.Indicator,
					"progCounter":     snap.ProgCounter,
					"angleUnit":       snap.AngleUnit,
					"powerState":      snap.PowerState,
					"running":         snap.Running,
					"outputRequired":  snap.OutputRequired,
				},
			})
		}
	}
}

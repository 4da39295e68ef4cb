// Package server provides the HTTP and websocket front end of the scene.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/christmasmagic/internal/capture"
	"github.com/ayusman/christmasmagic/internal/scene"
	"github.com/ayusman/christmasmagic/internal/server/api"
	"github.com/ayusman/christmasmagic/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Config holds the server configuration. Optional members left nil
// disable their routes.
type Config struct {
	StaticDir string
	Store     *store.Store
	Frames    *capture.FrameCache
	Hub       *Hub
	Themes    []scene.Theme
	Cooldown  time.Duration
	Log       zerolog.Logger
}

// Server represents the HTTP server for the scene.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if len(config.Themes) == 0 {
		config.Themes = scene.DefaultThemes()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/gestures", api.NewGestureHandler(s.config.Cooldown.String()))
	s.mux.Handle("/api/themes", api.NewThemeHandler(s.config.Themes))

	if s.config.Store != nil {
		dispatches := api.NewDispatchHandler(s.config.Store)
		s.mux.Handle("/api/dispatches", dispatches)
		s.mux.Handle("/api/dispatches/", dispatches)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Hub != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.Handle("/ws", s.config.Hub)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Hub != nil {
		response["clients"] = s.config.Hub.Clients()
	}

	writeJSON(w, response)
}

// handleState returns the snapshot pushed on the latest render tick.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, fps := s.config.Hub.State()
	response := map[string]any{
		"state": state,
		"fps":   fps,
	}
	if msg := s.config.Hub.LastError(); msg != "" {
		response["error"] = msg
	}
	writeJSON(w, response)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if s.config.Hub != nil {
		s.config.Hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

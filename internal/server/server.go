// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/agent"
)

// Version is reported by /health.
const Version = "0.1.0"

// DefaultAddr is the listen address matching the client's default base URL.
const DefaultAddr = "127.0.0.1:8000"

// maxBodySize bounds a chat request body.
const maxBodySize = 64 * 1024

// FailMode forces a failure on every chat request.
type FailMode string

const (
	FailNone      FailMode = ""          // Normal replies
	FailStatus    FailMode = "status"    // HTTP 500
	FailMissing   FailMode = "missing"   // 200 without data.response
	FailMalformed FailMode = "malformed" // 200 with a body that is not JSON
)

// ParseFailMode validates a fail mode name.
func ParseFailMode(s string) (FailMode, error) {
	switch m := FailMode(strings.ToLower(strings.TrimSpace(s))); m {
	case FailNone, FailStatus, FailMissing, FailMalformed:
		return m, nil
	default:
		return FailNone, fmt.Errorf("unknown fail mode %q (use status, missing or malformed)", s)
	}
}

// =============================================================================
// STATS
// =============================================================================

// Stats counts chat traffic.
type Stats struct {
	TotalRequests int64     `json:"total_requests"`
	Failures      int64     `json:"failures"`
	Sessions      int       `json:"sessions"`
	Users         int       `json:"users"`
	StartTime     time.Time `json:"start_time"`
}

type statsRecorder struct {
	mu       sync.Mutex
	total    int64
	failures int64
	sessions map[string]int
	users    map[string]struct{}
	start    time.Time
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{
		sessions: make(map[string]int),
		users:    make(map[string]struct{}),
		start:    time.Now(),
	}
}

// record counts req and returns its turn number within the session.
func (s *statsRecorder) record(req agent.ChatRequest) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.users[req.UserID] = struct{}{}
	s.sessions[req.SessionID]++
	return s.sessions[req.SessionID]
}

func (s *statsRecorder) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
}

func (s *statsRecorder) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalRequests: s.total,
		Failures:      s.failures,
		Sessions:      len(s.sessions),
		Users:         len(s.users),
		StartTime:     s.start,
	}
}

// =============================================================================
// SERVER
// =============================================================================

// Server is the mock assistant API.
type Server struct {
	addr      string
	server    *http.Server
	log       zerolog.Logger
	responder Responder
	stats     *statsRecorder

	mu       sync.RWMutex
	failMode FailMode
	delay    time.Duration
}

// NewServer creates a Server listening on addr. An empty addr uses
// DefaultAddr.
func NewServer(addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:      addr,
		log:       zerolog.Nop(),
		responder: NewCannedResponder(),
		stats:     newStatsRecorder(),
	}
}

// WithLogger sets the request logger.
func (s *Server) WithLogger(log zerolog.Logger) *Server {
	s.log = log
	return s
}

// WithResponder replaces the canned replies.
func (s *Server) WithResponder(r Responder) *Server {
	s.responder = r
	return s
}

// WithFailMode forces every chat request to fail in the given way.
func (s *Server) WithFailMode(m FailMode) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMode = m
	return s
}

// WithDelay holds each reply for d, so the typing indicator is visible.
func (s *Server) WithDelay(d time.Duration) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Stats returns a snapshot of the counters.
func (s *Server) Stats() Stats {
	return s.stats.snapshot()
}

// =============================================================================
// ROUTES
// =============================================================================

// Handler returns the router with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(SecurityHeaders)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logger(s.log))
	r.Use(chimw.Recoverer)
	r.Use(CORS)

	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.With(MaxBodySize(maxBodySize)).Post(agent.ChatPath, s.handleChat)

	return r
}

// chatResponse mirrors the success payload of the real API.
type chatResponse struct {
	Data *chatData `json:"data"`
}

type chatData struct {
	Response *string `json:"response,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req agent.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}
	if req.UserID == "" || req.SessionID == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "user_id and session_id are required")
		return
	}

	turn := s.stats.record(req)
	w.Header().Set("X-Response-ID", uuid.NewString())

	s.mu.RLock()
	failMode, delay := s.failMode, s.delay
	s.mu.RUnlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	switch failMode {
	case FailStatus:
		s.stats.fail()
		s.writeError(w, http.StatusInternalServerError, "assistant unavailable")
		return
	case FailMissing:
		s.stats.fail()
		s.writeJSON(w, http.StatusOK, chatResponse{Data: &chatData{}})
		return
	case FailMalformed:
		s.stats.fail()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
		return
	}

	reply := s.responder.Reply(req, turn)
	s.log.Debug().
		Str("session_id", req.SessionID).
		Int("turn", turn).
		Msg("chat reply")
	s.writeJSON(w, http.StatusOK, chatResponse{Data: &chatData{Response: &reply}})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	FailMode string `json:"fail_mode,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	mode := s.failMode
	s.mu.RUnlock()

	health := HealthResponse{Status: "ok", Version: Version, FailMode: string(mode)}
	if mode != FailNone {
		health.Status = "degraded"
	}
	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.stats.snapshot())
}

// =============================================================================
// SERVER LIFECYCLE
// =============================================================================

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.log.Info().Str("addr", s.addr).Str("version", Version).Msg("starting mock assistant")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	s.log.Info().Msg("shutting down mock assistant")
	return srv.Shutdown(ctx)
}

// =============================================================================
// HELPERS
// =============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}

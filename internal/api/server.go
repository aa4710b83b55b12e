// Package api serves a read-only view of a running world over HTTP.
// Nothing here changes world state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/foodgrid/internal/engine"
	"github.com/talgya/foodgrid/internal/journal"
)

// Stream limits.
const (
	maxStreamConns    = 8
	streamConnsPerMin = 10
	writeWait         = 5 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = pongWait * 9 / 10
)

// Server serves the world state over HTTP.
type Server struct {
	Eng  *engine.Engine
	DB   *journal.DB // Optional; events fall back to the in-memory buffer
	Hub  *Hub
	Addr string

	upgrader websocket.Upgrader
	limiter  *RateLimiter
}

// NewServer creates a server for eng. db may be nil.
func NewServer(eng *engine.Engine, db *journal.DB, addr string) *Server {
	return &Server{
		Eng:  eng,
		DB:   db,
		Hub:  NewHub(),
		Addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		limiter: NewRateLimiter(streamConnsPerMin, time.Minute),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/v1/grid", s.handleGrid)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/stream", RateLimitMiddleware(s.limiter, s.handleStream))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API starting", "addr", s.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// Publish forwards a post-action snapshot to stream viewers.
func (s *Server) Publish(snap engine.Snapshot) {
	s.Hub.Publish(snap)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Eng.Latest()
	status := map[string]any{
		"name":    "foodgrid",
		"tick":    snap.Tick,
		"state":   s.Eng.State().String(),
		"width":   snap.Width,
		"height":  snap.Height,
		"agents":  len(snap.Agents),
		"viewers": s.Hub.Len(),
		"stats":   s.Eng.Stats(),
	}
	if s.DB != nil {
		status["run_id"] = s.DB.RunID()
	}
	writeJSON(w, status)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.Latest())
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.Eng.Latest().String())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	if s.DB == nil {
		writeJSON(w, s.Eng.RecentEvents(limit))
		return
	}

	events, err := s.DB.RecentEvents(limit)
	if err != nil {
		slog.Error("read events", "error", err)
		http.Error(w, "events unavailable", http.StatusInternalServerError)
		return
	}
	// Oldest first, matching the in-memory buffer.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	if events == nil {
		events = []engine.Event{}
	}
	writeJSON(w, events)
}

// handleStream pushes every post-action snapshot to a websocket viewer.
// Messages from the viewer are read only to detect disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.Hub.Len() >= maxStreamConns {
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	subID, frames := s.Hub.Subscribe()
	defer s.Hub.Unsubscribe(subID)
	slog.Info("stream viewer connected", "sub_id", subID, "ip", clientIP(r))

	// Current state first so viewers never start blank.
	if err := writeFrame(conn, s.Eng.Latest()); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader goroutine: discards input, notices closes.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stream viewer disconnected", "sub_id", subID)
			return
		case b, ok := <-frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, snap engine.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

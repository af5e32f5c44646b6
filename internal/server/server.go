package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jpalmerr/discoveryboard/internal/store"
	"github.com/jpalmerr/discoveryboard/internal/view"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server handles HTTP requests for the dashboard and its API.
//
// Routes:
//   - GET /: dashboard page, or 503 until the view is activated
//   - GET /?fragment=panels: the panels block only, for live refresh
//   - GET /molecule?smiles=: 3D viewer for one molecule
//   - GET /api/state: current view state as JSON
//   - GET /api/sse: Server-Sent Events stream of view states
//   - GET /api/ws: WebSocket stream of view states
//
// The server shuts down gracefully when the context passed to Start is
// cancelled.
type Server struct {
	store    store.Store
	port     int
	renderer *view.Renderer
	title    string
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - st: Store holding the view state
//   - port: TCP port to listen on (0 picks a free port)
//   - renderer: page renderer; when nil only the API routes are served
//   - title: dashboard title (defaults to [view.DefaultTitle] if empty)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, port int, renderer *view.Renderer, title string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    st,
		port:     port,
		renderer: renderer,
		title:    title,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/sse", s.handleSSE)
	mux.HandleFunc("/api/ws", s.handleWS)

	if s.renderer != nil {
		mux.HandleFunc("/molecule", s.handleMolecule)
		mux.HandleFunc("/", s.handleDashboard)
	}

	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns once the listener is bound. The server
// keeps running until ctx is cancelled, then shuts down with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts derive from ctx so streaming handlers end on shutdown
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info("dashboard server listening", "addr", ln.Addr().String())

	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// handleDashboard serves the dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := s.store.Snapshot()
	if !state.Ready {
		http.Error(w, "Dashboard not ready", http.StatusServiceUnavailable)
		return
	}

	d := view.Build(s.title, state)

	// render into a buffer so a template error still yields a clean 500
	var buf bytes.Buffer
	var err error
	if r.URL.Query().Get("fragment") == view.PanelsTemplate {
		err = s.renderer.RenderPanels(&buf, d)
	} else {
		err = s.renderer.RenderHTML(&buf, d)
	}
	if err != nil {
		s.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "Dashboard render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleMolecule serves the 3D viewer for the smiles query parameter.
func (s *Server) handleMolecule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	smiles := r.URL.Query().Get("smiles")
	if err := view.ValidateSMILES(smiles); err != nil {
		http.Error(w, fmt.Sprintf("Invalid SMILES: %v", err), http.StatusBadRequest)
		return
	}

	title := s.title
	if title == "" {
		title = view.DefaultTitle
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderMolecule(&buf, view.MoleculePage{Title: title, SMILES: smiles}); err != nil {
		s.logger.Error("failed to render molecule page", "error", err)
		http.Error(w, "Molecule render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write molecule response", "error", err)
	}
}

// handleState returns the current view state as JSON.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(s.store.Snapshot()); err != nil {
		s.logger.Error("failed to encode state response", "error", err)
	}
}

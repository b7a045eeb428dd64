package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/markmenu"
	"github.com/aretw0/markmenu/internal/presentation/graph"
	"github.com/aretw0/markmenu/internal/render"
	"github.com/aretw0/markmenu/pkg/config"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/aretw0/markmenu/pkg/ports"
	"github.com/aretw0/markmenu/pkg/trace"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodySize bounds uploaded traces.
const maxBodySize = 4 << 20

// Server exposes a menu, its replay engine and an optional trace store.
type Server struct {
	Menu    *markmenu.Menu
	Store   ports.TraceStore
	Streams *StreamManager

	metrics http.Handler
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /traces endpoints.
func WithStore(store ports.TraceStore) Option {
	return func(s *Server) { s.Store = store }
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock sets the time source used to stamp saved traces.
func WithClock(c ports.Clock) Option {
	return func(s *Server) { s.now = c.Now }
}

// MenuResponse is the body of GET /menu.
type MenuResponse struct {
	Menu    menu.View      `json:"menu"`
	Options map[string]any `json:"options"`
}

// ReplayResponse is the body of the replay endpoints.
type ReplayResponse struct {
	TraceID       string                    `json:"trace_id,omitempty"`
	Notifications []domain.NotificationView `json:"notifications"`
	Selection     []string                  `json:"selection,omitempty"`
}

// NewHandler creates a new HTTP handler for the menu.
func NewHandler(m *markmenu.Menu, opts ...Option) http.Handler {
	s := &Server{
		Menu:    m,
		Streams: NewStreamManager(),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/menu", s.GetMenu)
	r.Get("/menu/graph", s.GetGraph)
	r.Post("/replay", s.Replay)
	r.Post("/replay.png", s.ReplayPNG)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/traces", func(r chi.Router) {
		r.Get("/", s.ListTraces)
		r.Post("/", s.SaveTrace)
		r.Get("/{id}", s.GetTrace)
		r.Delete("/{id}", s.DeleteTrace)
		r.Post("/{id}/replay", s.ReplayStored)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "markmenu-http",
		"version": strings.TrimSpace(markmenu.Version),
	}, s.logger)
}

// GetMenu handles the GET /menu request.
func (s *Server) GetMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MenuResponse{
		Menu:    menu.ViewOf(s.Menu.Root()),
		Options: config.Encode(s.Menu.Config()),
	}, s.logger)
}

// GetGraph handles the GET /menu/graph request with a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.Menu.Root(), nil))
}

// Replay handles the POST /replay request. The body is a trace.
func (s *Server) Replay(w http.ResponseWriter, r *http.Request) {
	t, ok := s.decodeTrace(w, r)
	if !ok {
		return
	}
	ns, ok := s.replay(w, r, t)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, replayResponse(t.ID, ns), s.logger)
}

// ReplayPNG handles the POST /replay.png request: the trace is replayed and
// the final scene rendered as an image.
func (s *Server) ReplayPNG(w http.ResponseWriter, r *http.Request) {
	t, ok := s.decodeTrace(w, r)
	if !ok {
		return
	}
	ns, ok := s.replay(w, r, t)
	if !ok {
		return
	}

	bound, err := s.Menu.ForTrace(t)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	points := make([]domain.Point, 0, len(t.Samples))
	for _, sample := range t.Samples {
		points = append(points, domain.Pt(sample.X, sample.Y))
	}
	canvas, err := render.Snapshot(bound.Config(), render.SceneOf(ns, points))
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	defer canvas.Close()

	w.Header().Set("Content-Type", "image/png")
	if err := canvas.EncodePNG(w); err != nil {
		s.logger.Error("ReplayPNG encode failed", "err", err)
	}
}

// ListTraces handles the GET /traces request.
func (s *Server) ListTraces(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"traces": ids}, s.logger)
}

// SaveTrace handles the POST /traces request. A missing ID is generated.
func (s *Server) SaveTrace(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	t, ok := s.decodeTrace(w, r)
	if !ok {
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}
	if err := s.Store.Save(r.Context(), t); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.logger.Info("trace saved", "trace_id", t.ID, "samples", len(t.Samples))
	writeJSON(w, http.StatusCreated, map[string]string{"id": t.ID}, s.logger)
}

// GetTrace handles the GET /traces/{id} request.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTrace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t, s.logger)
}

// DeleteTrace handles the DELETE /traces/{id} request.
func (s *Server) DeleteTrace(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, s.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplayStored handles the POST /traces/{id}/replay request.
func (s *Server) ReplayStored(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTrace(w, r)
	if !ok {
		return
	}
	ns, ok := s.replay(w, r, t)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, replayResponse(t.ID, ns), s.logger)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		http.Error(w, "Trace store not configured", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) loadTrace(w http.ResponseWriter, r *http.Request) (*domain.Trace, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	t, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, s.logger)
		return nil, false
	}
	return t, true
}

func (s *Server) decodeTrace(w http.ResponseWriter, r *http.Request) (*domain.Trace, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	format := "json"
	if ct := r.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		format = "yaml"
	}
	t, err := trace.Parse(data, format)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid trace: %v", err), http.StatusBadRequest)
		s.logger.Warn("Invalid trace", "err", err)
		return nil, false
	}
	return t, true
}

// replay runs t and fans its notifications out to the event streams.
func (s *Server) replay(w http.ResponseWriter, r *http.Request, t *domain.Trace) ([]domain.Notification, bool) {
	ns, err := s.Menu.ReplayTrace(r.Context(), t)
	if err != nil {
		writeError(w, err, s.logger)
		return nil, false
	}
	for _, n := range ns {
		if data, err := json.Marshal(n.View()); err == nil {
			s.Streams.Broadcast(t.ID, string(data))
		}
	}
	return ns, true
}

func replayResponse(id string, ns []domain.Notification) ReplayResponse {
	resp := ReplayResponse{TraceID: id, Notifications: domain.Views(ns)}
	if sel := domain.Selected(ns); sel != nil {
		resp.Selection = sel.Path()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var (
		cfgErr  *domain.ConfigError
		menuErr *menu.MalformedMenuError
	)
	switch {
	case errors.Is(err, domain.ErrTraceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidTraceID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &cfgErr), errors.As(err, &menuErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.Error("request failed", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samassist/chatwidget/internal/assistant"
	"github.com/samassist/chatwidget/internal/config"
	"github.com/samassist/chatwidget/internal/extract"
	"github.com/samassist/chatwidget/internal/history"
	"github.com/samassist/chatwidget/internal/observability"
)

const (
	serviceName      = "samassist"
	defaultSessionID = "demo_session"
)

// Orchestrator is the dialogue entry point the server drives.
type Orchestrator interface {
	Handle(ctx context.Context, sessionID, userText, websiteContext string) assistant.Reply
}

type Server struct {
	cfg          config.Config
	orchestrator Orchestrator
	store        *history.MemoryStore
	metrics      *observability.Metrics
	static       http.Handler
}

func New(cfg config.Config, orchestrator Orchestrator, store *history.MemoryStore, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:          cfg,
		orchestrator: orchestrator,
		store:        store,
		metrics:      metrics,
		static:       newStaticHandler(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", s.static))

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/chat", s.handleChat)

	return r
}

type chatRequest struct {
	Message        string `json:"message"`
	SessionID      string `json:"session_id"`
	WebsiteContext string `json:"website_context"`
}

type chatResponse struct {
	Reply          string          `json:"reply"`
	CaptureContact bool            `json:"capture_contact"`
	ContactFields  extract.Contact `json:"contact_fields"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.metrics.ChatRequests.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		s.metrics.ChatRequests.WithLabelValues("empty_message").Inc()
		respondError(w, http.StatusBadRequest, "Empty message")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	reply := s.orchestrator.Handle(r.Context(), sessionID, message, req.WebsiteContext)
	s.metrics.ChatRequests.WithLabelValues("ok").Inc()
	s.metrics.ActiveSessions.Set(float64(s.store.SessionCount()))

	respondJSON(w, http.StatusOK, chatResponse{
		Reply:          reply.Text,
		CaptureContact: reply.CaptureContact,
		ContactFields:  reply.ContactFields,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

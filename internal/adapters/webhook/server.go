package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mikey/llm-scam-check/internal/adapters/console"
	"github.com/mikey/llm-scam-check/internal/core"
	"github.com/mikey/llm-scam-check/internal/storage"
	"github.com/mikey/llm-scam-check/internal/utils"
	"go.uber.org/zap"
)

// inboundPayload is the fixed shape the email provider posts to /inbound.
type inboundPayload struct {
	From     string `json:"From"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
}

// Server feeds inbound email bodies through the assessment pipeline. The
// webhook contract is fire-and-acknowledge: the sender always gets 200,
// whatever happens internally. The server owns its own conversation history
// so email turns never bleed into the interactive session.
type Server struct {
	service      *core.AssessmentService
	prescreen    *core.PrescreenService
	presenter    *console.Presenter
	store        core.AssessmentStore
	text         *utils.TextProcessor
	anonymizer   *utils.Anonymizer
	maxInputSize int
	history      *core.History
	logger       *zap.Logger
	addr         string
	srv          *http.Server
}

// NewServer creates the email intake server. prescreen may be nil, in which
// case every non-blank email is assessed.
func NewServer(
	service *core.AssessmentService,
	prescreen *core.PrescreenService,
	presenter *console.Presenter,
	store core.AssessmentStore,
	textProcessor *utils.TextProcessor,
	anonymizer *utils.Anonymizer,
	maxInputSize int,
	logger *zap.Logger,
	addr string,
) *Server {
	return &Server{
		service:      service,
		prescreen:    prescreen,
		presenter:    presenter,
		store:        store,
		text:         textProcessor,
		anonymizer:   anonymizer,
		maxInputSize: maxInputSize,
		history:      core.NewHistory(core.DefaultHistoryCapacity),
		logger:       logger,
		addr:         addr,
	}
}

// Router builds the chi router serving the webhook.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Post("/inbound", s.handleInbound)
	r.Post("/anonymize", s.handleAnonymize)
	r.Get("/health", s.handleHealth)
	return r
}

// Start begins listening. It returns once the listener is running; serve
// errors other than a clean shutdown are logged.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Webhook server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("Email intake listening", zap.String("addr", s.addr))
	return nil
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		s.logger.Warn("Unreadable inbound payload", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	if strings.TrimSpace(payload.TextBody) == "" {
		s.logger.Info("Ignoring inbound email with empty body", zap.String("from", payload.From))
		w.WriteHeader(http.StatusOK)
		return
	}

	userText := s.text.Prepare(composeEmailText(payload), s.maxInputSize)

	if s.prescreen != nil && !s.prescreen.LooksScamRelated(r.Context(), userText) {
		s.logger.Info("Inbound email did not pass pre-screen", zap.String("from", payload.From))
		w.WriteHeader(http.StatusOK)
		return
	}

	assessment, err := s.service.Assess(r.Context(), s.history, userText)
	if err != nil {
		// Errors stay on our side of the webhook contract.
		s.logger.Error("Failed to assess inbound email", zap.Error(err), zap.String("from", payload.From))
		w.WriteHeader(http.StatusOK)
		return
	}

	s.presenter.ShowAssessment(assessment)

	now := time.Now()
	record := &core.Record{Timestamp: now, Input: userText, Assessment: assessment}
	if err := s.store.Save(record, storage.EmailFilename(now)); err != nil {
		s.logger.Error("Failed to save email assessment", zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
}

// anonymizeRequest is the redaction intake shape. Callers send raw text; an
// image url cannot be processed and gets a 400.
type anonymizeRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Request body must be JSON"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		if strings.TrimSpace(req.URL) != "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "image OCR is not supported, provide 'text'"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Provide 'text'"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"output": map[string]any{"anonymized_text": s.anonymizer.Scrub(req.Text)},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodePayload(r *http.Request) (*inboundPayload, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload inboundPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("failed to decode JSON payload: %w", err)
		}
		return &payload, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form payload: %w", err)
	}
	return &inboundPayload{
		From:     r.FormValue("From"),
		Subject:  r.FormValue("Subject"),
		TextBody: r.FormValue("TextBody"),
	}, nil
}

func composeEmailText(p *inboundPayload) string {
	from := p.From
	if strings.TrimSpace(from) == "" {
		from = "Unknown sender"
	}
	subject := p.Subject
	if strings.TrimSpace(subject) == "" {
		subject = "No subject"
	}
	return fmt.Sprintf("From: %s\nSubject: %s\n\n%s", from, subject, p.TextBody)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Webhook request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

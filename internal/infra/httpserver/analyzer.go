package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/legalynx/internal/application/ai"
	domai "github.com/bryanwahyu/legalynx/internal/domain/ai"
	domain "github.com/bryanwahyu/legalynx/internal/domain/analysis"
	"github.com/bryanwahyu/legalynx/internal/middleware"
)

// DefaultCORSOrigins are the dashboard origins allowed to call the analyzer.
var DefaultCORSOrigins = []string{"http://localhost:3000", "https://www.legalynx.ai"}

type analyzerRouter struct {
	svc    *appai.Service
	logger *slog.Logger
}

// NewAnalyzerRouter serves the contract analysis API consumed by the
// dashboard gateway: GET /, GET /health, POST /analyze, GET /templates.
func NewAnalyzerRouter(svc *appai.Service, origins []string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if len(origins) == 0 {
		origins = DefaultCORSOrigins
	}
	a := &analyzerRouter{svc: svc, logger: logger}
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID, chimw.Recoverer, middleware.Logging(logger))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Legalynx AI Contract Analysis API"})
	})
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "contract-analysis-api"})
	})
	mux.Post("/analyze", a.wrap(a.handleAnalyze))
	mux.Get("/templates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"templates": svc.Templates()})
	})
	return mux
}

func (a *analyzerRouter) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var ve *domain.ValidationError
		switch {
		case errors.Is(err, domai.ErrEmptyContract):
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "No contract text provided."})
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": ve.Msg})
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "ai quota exceeded"})
		default:
			a.logger.Error("analysis failed", slog.Any("error", err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		}
	}
}

// POST /analyze
// Body: {"contract_text": "...", "analysis_type": "full|risks|clauses|compliance"}
func (a *analyzerRouter) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxSubmitBody)
	var body domain.Request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domain.ValidationError{Field: "body", Msg: "invalid JSON body"}
	}
	resp, err := a.svc.Analyze(req.Context(), body.ContractText, string(body.AnalysisType))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	appanalyses "github.com/bryanwahyu/legalynx/internal/application/analyses"
	domain "github.com/bryanwahyu/legalynx/internal/domain/analysis"
	"github.com/bryanwahyu/legalynx/internal/middleware"
)

const maxSubmitBody = 2 << 20

// Options wires the dashboard API.
type Options struct {
	Analyses    *appanalyses.Service
	Accounts    middleware.UserEnsurer
	Health      map[string]middleware.HealthChecker
	ProxySecret string
	Limiter     *middleware.RateLimiter // optional
	Logger      *slog.Logger
}

type Router struct {
	analyses *appanalyses.Service
	logger   *slog.Logger
}

func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{analyses: opts.Analyses, logger: logger}
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID, chimw.Recoverer, middleware.Logging(logger), middleware.MetricsMiddleware)

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/ready", middleware.HealthHandler(opts.Health))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/dashboard", func(rt chi.Router) {
		rt.Use(middleware.ProxyIdentity(opts.ProxySecret), middleware.EnsureUser(opts.Accounts, logger))

		rt.Get("/", r.wrap(r.handleDashboard))
		submit := rt.With()
		if opts.Limiter != nil {
			submit = rt.With(middleware.RateLimit(opts.Limiter))
		}
		submit.Post("/analyses", r.wrap(r.handleSubmit))
		rt.Get("/analysis/{id}", r.wrap(r.handleGet))
		rt.Post("/analysis/{id}/delete", r.wrap(r.handleDelete))
		rt.Delete("/analysis/{id}", r.wrap(r.handleDelete))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks malformed input caught by a handler
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var (
			ue *appanalyses.UserError
			br badRequest
		)
		switch {
		case errors.As(err, &ue):
			writeJSON(w, userErrorStatus(ue.Err), map[string]string{"error": ue.Message})
		case errors.As(err, &br):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": br.msg})
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		default:
			r.logger.Error("request failed",
				slog.String("path", req.URL.Path),
				slog.String("request_id", chimw.GetReqID(req.Context())),
				slog.Any("error", err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": domain.MsgGeneric})
		}
	}
}

func userErrorStatus(err error) int {
	var (
		ve *domain.ValidationError
		te *domain.TimeoutError
		se *domain.ServiceError
		ne *domain.NetworkError
		de *domain.DecodeError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &te):
		return http.StatusGatewayTimeout
	case errors.As(err, &se), errors.As(err, &ne), errors.As(err, &de):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// isForm reports whether the request came from a plain HTML form, in which
// case outcomes are answered with a 303 redirect.
func isForm(req *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

func respondOutcome(w http.ResponseWriter, req *http.Request, out appanalyses.Outcome, status int) {
	if isForm(req) {
		http.Redirect(w, req, out.RedirectTo, http.StatusSeeOther)
		return
	}
	writeJSON(w, status, out)
}

// analysisView adds the dashboard badge to a stored analysis
type analysisView struct {
	*domain.ContractAnalysis
	RiskLevel domain.RiskLevel `json:"risk_level"`
}

func viewOf(a *domain.ContractAnalysis) analysisView {
	return analysisView{ContractAnalysis: a, RiskLevel: a.Level()}
}

// GET /dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	uid := middleware.UserIDFromContext(req.Context())
	d, err := r.analyses.Dashboard(req.Context(), uid)
	if err != nil {
		return err
	}
	items := make([]analysisView, 0, len(d.Analyses))
	for _, a := range d.Analyses {
		// list tidak perlu teks kontrak penuh
		summary := *a
		summary.ContractText = ""
		items = append(items, viewOf(&summary))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analyses": items,
		"stats":    d.Stats,
	})
	return nil
}

// POST /dashboard/analyses
// Body (JSON or form): title, contract_text, analysis_type
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxSubmitBody)

	var body struct {
		Title        string `json:"title"`
		ContractText string `json:"contract_text"`
		AnalysisType string `json:"analysis_type"`
	}
	if isForm(req) {
		if err := req.ParseMultipartForm(maxSubmitBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return badRequest{fmt.Sprintf("invalid form: %v", err)}
		}
		body.Title = req.FormValue("title")
		body.ContractText = req.FormValue("contract_text")
		body.AnalysisType = req.FormValue("analysis_type")
	} else if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{"invalid JSON body"}
	}

	done := middleware.AnalysisStarted()
	out, err := r.analyses.Submit(req.Context(), appanalyses.SubmitCommand{
		UserID:       middleware.UserIDFromContext(req.Context()),
		Title:        middleware.ValidateTitle(body.Title),
		ContractText: strings.ReplaceAll(body.ContractText, "\x00", ""),
		AnalysisType: body.AnalysisType,
	})
	done(err)
	if err != nil {
		return err
	}
	respondOutcome(w, req, out, http.StatusCreated)
	return nil
}

// GET /dashboard/analysis/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		// id asing diperlakukan sama dengan tidak ditemukan
		return domain.ErrNotFound
	}
	a, err := r.analyses.Get(req.Context(), middleware.UserIDFromContext(req.Context()), domain.ID(id))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, viewOf(a))
	return nil
}

// POST /dashboard/analysis/{id}/delete, DELETE /dashboard/analysis/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return domain.ErrNotFound
	}
	out, err := r.analyses.Delete(req.Context(), middleware.UserIDFromContext(req.Context()), domain.ID(id))
	if err != nil {
		return err
	}
	respondOutcome(w, req, out, http.StatusOK)
	return nil
}

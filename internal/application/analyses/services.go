package analyses

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/legalynx/internal/application"
	domain "github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

// MinWords is the smallest contract we forward for analysis.
const MinWords = 100

// Service implements use-cases untuk ContractAnalysis.
// Safe for concurrent use; it holds no per-request state.
type Service struct {
	Repo    domain.Repository
	Gateway domain.Gateway
	Archive domain.Archive // optional
	Clock   application.Clock
	Logger  *slog.Logger
}

//
// ==== USE CASES ====
//

// SubmitCommand adalah isi form "analyze new contract"
type SubmitCommand struct {
	UserID       string
	Title        string
	ContractText string
	AnalysisType string
}

// Outcome tells the caller where to navigate after a mutation. It is a
// normal return value, not an error.
type Outcome struct {
	RedirectTo string                   `json:"redirect_to"`
	Analysis   *domain.ContractAnalysis `json:"analysis,omitempty"`
}

// UserError is the single user-facing error returned by Submit. Message is
// safe to show; Err keeps the classified cause for logs and status mapping.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

// Dashboard is the list page payload.
type Dashboard struct {
	Analyses []*domain.ContractAnalysis `json:"analyses"`
	Stats    domain.Stats               `json:"stats"`
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

// Validate checks the form before any network call.
func Validate(cmd SubmitCommand) (domain.Type, error) {
	if strings.TrimSpace(cmd.Title) == "" || strings.TrimSpace(cmd.ContractText) == "" {
		return "", &domain.ValidationError{Field: "title", Msg: "Title and contract text are required"}
	}
	if len(strings.Fields(cmd.ContractText)) < MinWords {
		return "", &domain.ValidationError{
			Field: "contractText",
			Msg:   "Contract text must contain at least 100 words for meaningful analysis.",
		}
	}
	return domain.ParseType(cmd.AnalysisType)
}

// Submit validasi form → gateway → skor → simpan → redirect ke halaman hasil
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (Outcome, error) {
	log := s.logger().With(slog.String("user_id", cmd.UserID))

	typ, err := Validate(cmd)
	if err != nil {
		log.Debug("submission rejected", slog.String("reason", err.Error()))
		return Outcome{}, &UserError{Message: domain.UserMessage(err), Err: err}
	}

	res, err := s.Gateway.Analyze(ctx, domain.Request{ContractText: cmd.ContractText, AnalysisType: typ})
	if err != nil {
		var se *domain.ServiceError
		if errors.As(err, &se) {
			log.Error("analysis failed", slog.Int("status", se.Status), slog.String("body", se.Body))
		} else {
			log.Error("analysis failed", slog.Any("err", err))
		}
		return Outcome{}, &UserError{Message: domain.UserMessage(err), Err: err}
	}

	a := &domain.ContractAnalysis{
		ID:           domain.ID(uuid.NewString()),
		UserID:       cmd.UserID,
		Title:        strings.TrimSpace(cmd.Title),
		ContractText: cmd.ContractText,
		AnalysisType: typ,
		Result:       res,
		RiskScore:    domain.Clamp(res.RiskScore),
		Status:       domain.StatusCompleted,
		CreatedAt:    s.clock().Now(),
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		log.Error("save analysis", slog.Any("err", err))
		return Outcome{}, &UserError{Message: domain.MsgGeneric, Err: err}
	}

	if s.Archive != nil {
		if _, err := s.Archive.Put(ctx, a); err != nil {
			// arsip gagal tidak membatalkan analisa yang sudah tersimpan
			log.Warn("archive analysis", slog.String("id", string(a.ID)), slog.Any("err", err))
		}
	}

	log.Info("analysis stored", slog.String("id", string(a.ID)), slog.Int("risk_score", a.RiskScore))
	return Outcome{RedirectTo: "/dashboard/analysis/" + string(a.ID), Analysis: a}, nil
}

// Dashboard ambil semua analisa user, terbaru dulu, plus rekap
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	list, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	if list == nil {
		list = []*domain.ContractAnalysis{}
	}
	return Dashboard{Analyses: list, Stats: domain.Summarize(list)}, nil
}

// Get ambil 1 analisa milik user
func (s *Service) Get(ctx context.Context, userID string, id domain.ID) (*domain.ContractAnalysis, error) {
	return s.Repo.Get(ctx, userID, id)
}

// Delete hapus analisa milik user lalu arahkan kembali ke dashboard
func (s *Service) Delete(ctx context.Context, userID string, id domain.ID) (Outcome, error) {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return Outcome{}, err
	}
	if s.Archive != nil {
		if err := s.Archive.Remove(ctx, userID, id); err != nil {
			s.logger().Warn("remove archived analysis", slog.String("id", string(id)), slog.Any("err", err))
		}
	}
	return Outcome{RedirectTo: "/dashboard"}, nil
}

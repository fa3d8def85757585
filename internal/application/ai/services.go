package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bryanwahyu/legalynx/internal/domain/ai"
	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
	"github.com/bryanwahyu/legalynx/internal/infra/ai/prompt"
)

// Response is the body served by POST /analyze.
type Response struct {
	Success      bool            `json:"success"`
	AnalysisType string          `json:"analysis_type"`
	Result       json.RawMessage `json:"result"`
}

type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var templates = []Template{
	{ID: "employment", Name: "Employment Contract", Description: "Standard employment agreement template"},
	{ID: "nda", Name: "Non-Disclosure Agreement", Description: "Confidentiality agreement template"},
	{ID: "service", Name: "Service Agreement", Description: "Professional services contract template"},
	{ID: "lease", Name: "Lease Agreement", Description: "Property lease contract template"},
	{ID: "purchase", Name: "Purchase Agreement", Description: "Asset purchase contract template"},
}

// Service answers analyze requests with a language model. Without a client it
// falls back to the offline heuristic analyzer.
type Service struct {
	client ai.Client
	logger *slog.Logger
}

func NewService(client ai.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// ModelBacked reports whether analyses go to the language model.
func (s *Service) ModelBacked() bool { return s.client != nil }

func (s *Service) Analyze(ctx context.Context, contractText, analysisType string) (Response, error) {
	if strings.TrimSpace(contractText) == "" {
		return Response{}, ai.ErrEmptyContract
	}
	typ, err := analysis.ParseType(analysisType)
	if err != nil {
		return Response{}, err
	}

	var result json.RawMessage
	if s.client == nil {
		result, err = json.Marshal(prompt.Heuristic(typ, contractText))
		if err != nil {
			return Response{}, fmt.Errorf("encode heuristic result: %w", err)
		}
	} else {
		content, err := s.client.Complete(ctx, prompt.GetSystemPrompt(), prompt.GetUserPrompt(typ, contractText))
		if err != nil {
			return Response{}, fmt.Errorf("analysis failed: %w", err)
		}
		result = parseCompletion(content)
	}

	s.logger.Info("contract analyzed",
		"analysis_type", string(typ),
		"words", len(strings.Fields(contractText)),
		"model", s.client != nil)
	return Response{Success: true, AnalysisType: string(typ), Result: result}, nil
}

func (s *Service) Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// parseCompletion keeps a JSON object reply as is and wraps anything else
// under raw_result.
func parseCompletion(content string) json.RawMessage {
	trimmed := strings.TrimSpace(content)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && obj != nil {
		return json.RawMessage(trimmed)
	}
	raw, _ := json.Marshal(map[string]string{"raw_result": content})
	return raw
}

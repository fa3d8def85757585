package analysisapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/fallback"
	"github.com/felixgeelhaar/fortify/timeout"

	domain "github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultProbeTimeout   = 5 * time.Second
	DefaultAnalyzeTimeout = 30 * time.Second

	maxErrorBody = 64 << 10
)

// Config for the gateway. Zero timeouts take the defaults.
type Config struct {
	BaseURL        string
	ProbeTimeout   time.Duration
	AnalyzeTimeout time.Duration
	// OnFallback, when set, runs each time the fallback result is served.
	OnFallback func(err error)
}

// Client is the gateway to the contract analysis service. It probes
// /health before every analysis and degrades to the fallback result when the
// probe fails. Safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	probeTimeout   time.Duration
	analyzeTimeout time.Duration
	logger         *slog.Logger

	deadline timeout.Timeout[domain.Result]
	degrade  fallback.Fallback[domain.Result]
}

func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		baseURL:        base,
		http:           &http.Client{},
		probeTimeout:   cfg.ProbeTimeout,
		analyzeTimeout: cfg.AnalyzeTimeout,
		logger:         logger.With(slog.String("component", "analysisapi")),
	}
	// probe tidak boleh lebih dari 5s
	if c.probeTimeout <= 0 || c.probeTimeout > DefaultProbeTimeout {
		c.probeTimeout = DefaultProbeTimeout
	}
	if c.analyzeTimeout <= 0 {
		c.analyzeTimeout = DefaultAnalyzeTimeout
	}
	c.deadline = timeout.New[domain.Result](timeout.Config{
		DefaultTimeout: c.analyzeTimeout,
		Logger:         c.logger,
	})
	c.degrade = fallback.New[domain.Result](fallback.Config[domain.Result]{
		ShouldFallback: func(err error) bool { return errors.Is(err, domain.ErrServiceUnavailable) },
		Fallback: func(context.Context, error) (domain.Result, error) {
			return domain.FallbackResult(), nil
		},
		OnFallback: func(err error) {
			c.logger.Warn("API connection failed, using fallback analysis",
				slog.String("base_url", c.baseURL), slog.Any("error", err))
			if cfg.OnFallback != nil {
				cfg.OnFallback(err)
			}
		},
	})
	return c
}

// BaseURL returns the resolved service address.
func (c *Client) BaseURL() string { return c.baseURL }

// Analyze runs one analysis. Upstream unavailability yields the fallback
// result; failures of the analyze call itself come back as typed errors.
func (c *Client) Analyze(ctx context.Context, req domain.Request) (domain.Result, error) {
	if strings.TrimSpace(req.ContractText) == "" {
		return domain.Result{}, &domain.ValidationError{Field: "contractText", Msg: "contract text is required"}
	}
	if req.AnalysisType == "" {
		req.AnalysisType = domain.TypeFull
	}
	return c.degrade.Execute(ctx, func(ctx context.Context) (domain.Result, error) {
		if err := c.Check(ctx); err != nil {
			return domain.Result{}, err
		}
		return c.analyze(ctx, req)
	})
}

// Available probes GET /health. Any error or non-2xx status means unavailable.
func (c *Client) Available(ctx context.Context) bool {
	return c.Check(ctx) == nil
}

// Check implements middleware.HealthChecker.
func (c *Client) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("health probe failed", slog.Any("err", err))
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health returned %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) analyze(ctx context.Context, req domain.Request) (domain.Result, error) {
	res, err := c.deadline.Execute(ctx, c.analyzeTimeout, func(ctx context.Context) (domain.Result, error) {
		return c.post(ctx, req)
	})
	if err == nil {
		return res, nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.Result{}, &domain.TimeoutError{Err: err}
	case errors.Is(err, context.Canceled):
		return domain.Result{}, &domain.NetworkError{Err: err}
	}
	return domain.Result{}, err
}

func (c *Client) post(ctx context.Context, req domain.Request) (domain.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.Result{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return domain.Result{}, &domain.NetworkError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.Result{}, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()
	c.logger.Info("analyze response",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("analysis service error", slog.Int("status", resp.StatusCode), slog.String("body", string(b)))
		return domain.Result{}, &domain.ServiceError{Status: resp.StatusCode, Body: string(b)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Result{}, &domain.NetworkError{Err: err}
	}
	env, err := Decode(raw)
	if err != nil {
		return domain.Result{}, err
	}
	if !env.Success {
		c.logger.Warn("analysis service reported success=false", slog.String("analysis_type", env.AnalysisType))
	}
	return env.Result, nil
}

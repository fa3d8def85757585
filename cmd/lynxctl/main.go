package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/legalynx/internal/config"
	"github.com/bryanwahyu/legalynx/internal/infra/analysisapi"
)

var version = "0.1.0"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	apiURL  string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "lynxctl",
		Short:         "Operate the Legalynx contract analysis gateway from the command line",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&g.apiURL, "api-url", "", "Analysis service URL (default: config, ANALYSIS_API_URL, API_URL)")
	root.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Log gateway activity to stderr")

	root.AddCommand(newAnalyzeCmd(g), newHealthCmd(g), newScoreCmd())
	return root
}

// gateway builds the analysis client from flags and config.
func (g *globalFlags) gateway(stderr io.Writer) (*analysisapi.Client, error) {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		return nil, exitError(3, "failed to load config: %v", err)
	}
	base := cfg.Analysis.BaseURL
	if g.apiURL != "" {
		base = g.apiURL
	}
	level := slog.LevelError
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return analysisapi.New(analysisapi.Config{
		BaseURL:        base,
		ProbeTimeout:   cfg.Analysis.ProbeTimeout,
		AnalyzeTimeout: cfg.Analysis.AnalyzeTimeout,
	}, logger), nil
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

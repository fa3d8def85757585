package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	appanalyses "github.com/bryanwahyu/legalynx/internal/application/analyses"
	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

type analyzeFlags struct {
	analysisType string
	format       string
	failAbove    int
	skipMinWords bool
}

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	f := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze <contract-file|->",
		Short: "Analyze a contract text file through the gateway",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, f, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.analysisType, "type", "full", "Analysis type: full, risks, clauses or compliance")
	flags.StringVar(&f.format, "format", "text", "Output format: text or json")
	flags.IntVar(&f.failAbove, "fail-above", 0, "Exit 4 when the risk score is at or above this value (0 disables)")
	flags.BoolVar(&f.skipMinWords, "skip-min-words", false, "Do not enforce the minimum contract length")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func runAnalyze(cmd *cobra.Command, g *globalFlags, f *analyzeFlags, path string) error {
	text, err := readInput(cmd, path)
	if err != nil {
		return exitError(3, "failed to read contract: %v", err)
	}
	typ, err := analysis.ParseType(f.analysisType)
	if err != nil {
		return exitError(2, "%s", analysis.UserMessage(err))
	}
	if !f.skipMinWords && len(strings.Fields(string(text))) < appanalyses.MinWords {
		return exitError(2, "Contract text must contain at least %d words for meaningful analysis.", appanalyses.MinWords)
	}

	gw, err := g.gateway(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	res, err := gw.Analyze(cmd.Context(), analysis.Request{ContractText: string(text), AnalysisType: typ})
	if err != nil {
		return exitError(1, "%s", analysis.UserMessage(err))
	}
	score := analysis.Clamp(res.RiskScore)

	out := cmd.OutOrStdout()
	switch f.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	default:
		printResult(out, res, score)
	}

	if f.failAbove > 0 && score >= f.failAbove {
		return exitError(4, "risk score %d is at or above %d", score, f.failAbove)
	}
	return nil
}

func printResult(w io.Writer, res analysis.Result, score int) {
	fmt.Fprintf(w, "Risk score: %d (%s)\n", score, analysis.LevelFor(score))
	if res.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", res.Summary)
	}
	if len(res.Risks) > 0 {
		fmt.Fprintln(w, "\nRisks:")
		for _, r := range res.Risks {
			fmt.Fprintf(w, "  [%s] %s", r.Severity, r.Description)
			if r.Location != "" {
				fmt.Fprintf(w, " (%s)", r.Location)
			}
			fmt.Fprintln(w)
		}
	}
	if len(res.ComplianceIssues) > 0 {
		fmt.Fprintln(w, "\nCompliance issues:")
		for _, c := range res.ComplianceIssues {
			fmt.Fprintf(w, "  [%s] %s", c.Severity, c.Description)
			if c.Regulation != "" {
				fmt.Fprintf(w, " - %s", c.Regulation)
			}
			fmt.Fprintln(w)
		}
	}
	if len(res.Clauses) > 0 {
		fmt.Fprintln(w, "\nClauses:")
		for _, c := range res.Clauses {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range res.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <result-json|->",
		Short: "Compute the risk score of a stored or upstream analysis result",
		Long: "Reads a result object (or an /analyze response envelope) and prints the\n" +
			"0-100 risk score with its dashboard level.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return exitError(3, "failed to read result: %v", err)
			}
			raw = unwrapEnvelope(raw)
			score, err := analysis.ScoreJSON(raw)
			if err != nil {
				return exitError(2, "%v", err)
			}
			score = analysis.Clamp(score)
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", score, analysis.LevelFor(score))
			return nil
		},
	}
}

// unwrapEnvelope returns the "result" member of an /analyze response, or raw.
func unwrapEnvelope(raw []byte) []byte {
	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Result) > 0 && env.Result[0] == '{' {
		return env.Result
	}
	return raw
}

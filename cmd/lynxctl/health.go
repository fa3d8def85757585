package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the analysis service health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := g.gateway(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := gw.Check(cmd.Context()); err != nil {
				return exitError(1, "analysis service at %s is unavailable: %v", gw.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", gw.BaseURL())
			return nil
		},
	}
}

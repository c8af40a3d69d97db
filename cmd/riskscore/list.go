package main

import (
	"fmt"
	"io"

	"github.com/dshills/riskscore/internal/policy"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list surveys|policies",
		Short:     "List built-in surveys or scoring policies",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"surveys", "policies"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), args[0])
		},
	}
}

func runList(stdout io.Writer, kind string) error {
	switch kind {
	case "surveys":
		names, err := survey.List()
		if err != nil {
			return fmt.Errorf("failed to list surveys: %w", err)
		}
		for _, n := range names {
			sv, err := survey.LoadBuiltin(n)
			if err != nil {
				return fmt.Errorf("failed to load survey %s: %w", n, err)
			}
			fmt.Fprintf(stdout, "%-16s %s\n", n, sv.Title)
		}
	case "policies":
		names, err := policy.List()
		if err != nil {
			return fmt.Errorf("failed to list policies: %w", err)
		}
		for _, n := range names {
			p, err := policy.LoadBuiltin(n)
			if err != nil {
				return fmt.Errorf("failed to load policy %s: %w", n, err)
			}
			fmt.Fprintf(stdout, "%-16s %s\n", n, p.Description)
		}
	default:
		return exitError(3, "unknown list kind: %s (want surveys or policies)", kind)
	}
	return nil
}

package main

import (
	"fmt"
	"io"

	"github.com/dshills/riskscore/internal/schema"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var builtin string

	cmd := &cobra.Command{
		Use:   "validate [survey-file]",
		Short: "Check a survey definition for structural problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(cmd.OutOrStdout(), path, builtin)
		},
	}
	cmd.Flags().StringVar(&builtin, "survey", "aia", "Built-in survey name, used when no file is given")
	return cmd
}

func runValidate(stdout io.Writer, path, builtin string) error {
	var sv *survey.Survey
	var err error
	if path != "" {
		sv, err = survey.Load(path)
	} else {
		sv, err = survey.LoadBuiltin(builtin)
	}
	if err != nil {
		return exitError(3, "failed to load survey: %v", err)
	}

	if errs := schema.Validate(sv); len(errs) > 0 {
		fmt.Fprintf(stdout, "%s: %d schema errors\n", sv.Name, len(errs))
		for _, e := range errs {
			fmt.Fprintf(stdout, "  %s\n", e)
		}
		return exitError(5, "survey %s failed schema validation", sv.Name)
	}

	sum := schema.Summarize(sv)
	fmt.Fprintf(stdout, "%s v%d: ok\n", sv.Name, sv.Version)
	fmt.Fprintf(stdout, "  pages:      %d\n", sv.PageCount())
	fmt.Fprintf(stdout, "  questions:  %d (%d unscored)\n", sum.Questions, sum.Unscored)
	fmt.Fprintf(stdout, "  raw risk:   %d questions, max %g\n", sum.RawRisk, sum.RawMax)
	fmt.Fprintf(stdout, "  mitigation: %d questions, max %g\n", sum.Mitigation, sum.MitigationMax)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/export"
	"github.com/dshills/riskscore/internal/policy"
	"github.com/dshills/riskscore/internal/redact"
	"github.com/dshills/riskscore/internal/render"
	"github.com/dshills/riskscore/internal/report"
	"github.com/dshills/riskscore/internal/schema"
	"github.com/dshills/riskscore/internal/scoring"
	"github.com/dshills/riskscore/internal/session"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type scoreFlags struct {
	surveyName  string
	surveyFile  string
	policyName  string
	policyFile  string
	page        int
	format      string
	out         string
	sectionsOut string
	failOn      string
	redact      bool
	verbose     bool
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score <answers-file>",
		Short: "Score an answers file and produce a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), args[0], f)
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags, &f.surveyName, &f.surveyFile, &f.policyName, &f.policyFile)
	flags.IntVar(&f.page, "page", 0, "Current page index recorded in the report")
	flags.StringVar(&f.format, "format", "json", "Output format: json, md, or text")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.sectionsOut, "sections-out", "", "Write categorized answers as JSON or YAML")
	flags.StringVar(&f.failOn, "fail-on", "", "Exit non-zero if the risk level is at or above this level (1-4)")
	flags.BoolVar(&f.redact, "redact", true, "Mask secrets and contact details in free-text answers")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")

	return cmd
}

func runScore(stdout io.Writer, answersPath string, f *scoreFlags) error {
	logger := log.New(os.Stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if f.verbose {
			logger.Printf(msg, args...)
		}
	}

	var threshold scoring.Level
	if f.failOn != "" {
		lvl, err := scoring.ParseLevel(f.failOn)
		if err != nil {
			return exitError(3, "invalid --fail-on: %v", err)
		}
		threshold = lvl
	}

	// 1. Load answers
	verbose("Loading answers: %s", answersPath)
	af, err := answer.Load(answersPath)
	if err != nil {
		return exitError(3, "failed to load answers: %v", err)
	}
	verbose("Loaded %d answers", len(af.Answers))

	// 2. Load and check survey
	sv, err := loadSurvey(f.surveyName, f.surveyFile, verbose)
	if err != nil {
		return err
	}

	// 3. Load policy
	p, err := loadPolicy(f.policyName, f.policyFile, verbose)
	if err != nil {
		return err
	}

	// 4. Score
	sess := session.New(sv, p)
	if err := sess.Update(af.Answers, f.page); err != nil {
		return exitError(3, "failed to record answers: %v", err)
	}
	verbose("Scored %d questions", len(sess.ScoredQuestions()))

	rep := report.Build(sess, version, report.Input{
		AnswersFile: filepath.Base(af.FilePath),
		AnswersHash: af.Hash,
	})
	if f.redact {
		verbose("Redacting free-text answers")
		rep.Sections = redact.Sections(rep.Sections)
	}

	// 5. Output
	var output string
	switch f.format {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		output = string(data) + "\n"
	case "md":
		output = render.Markdown(rep)
	case "text":
		if f.out == "" {
			if err := render.Terminal(stdout, rep); err != nil {
				return fmt.Errorf("failed to render output: %w", err)
			}
			break
		}
		fh, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		defer fh.Close()
		if err := render.Terminal(fh, rep); err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}
	default:
		return exitError(3, "unknown format: %s", f.format)
	}

	if output != "" {
		if f.out != "" {
			verbose("Writing output to %s", f.out)
			if err := os.WriteFile(f.out, []byte(output), 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		} else {
			fmt.Fprint(stdout, output)
		}
	}

	// 6. Sections output
	if f.sectionsOut != "" {
		verbose("Writing sections to %s", f.sectionsOut)
		if err := export.WriteSections(rep.Sections, f.sectionsOut); err != nil {
			return fmt.Errorf("failed to write sections: %w", err)
		}
	}

	// 7. Exit code based on --fail-on
	if threshold.Valid() && rep.MeetsLevel(threshold) {
		return exitError(2, "%s meets fail threshold %s", rep.Summary.LevelLabel, threshold)
	}
	return nil
}

func addSourceFlags(flags *pflag.FlagSet, surveyName, surveyFile, policyName, policyFile *string) {
	flags.StringVar(surveyName, "survey", "aia", "Built-in survey name")
	flags.StringVar(surveyFile, "survey-file", "", "Survey definition file (overrides --survey)")
	flags.StringVar(policyName, "policy", "default", "Built-in scoring policy name")
	flags.StringVar(policyFile, "policy-file", "", "Scoring policy file (overrides --policy)")
}

// loadSurvey resolves the survey from a file or a built-in name and
// rejects definitions with schema violations.
func loadSurvey(name, path string, verbose func(string, ...any)) (*survey.Survey, error) {
	var sv *survey.Survey
	var err error
	if path != "" {
		verbose("Loading survey file: %s", path)
		sv, err = survey.Load(path)
	} else {
		verbose("Loading survey: %s", name)
		sv, err = survey.LoadBuiltin(name)
	}
	if err != nil {
		return nil, exitError(3, "failed to load survey: %v", err)
	}

	if errs := schema.Validate(sv); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Survey schema errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return nil, exitError(5, "survey %s failed schema validation", sv.Name)
	}
	verbose("Survey %s has %d questions", sv.Name, len(sv.Questions()))
	return sv, nil
}

func loadPolicy(name, path string, verbose func(string, ...any)) (policy.Policy, error) {
	var p *policy.Policy
	var err error
	if path != "" {
		verbose("Loading policy file: %s", path)
		p, err = policy.Load(path)
	} else {
		verbose("Loading policy: %s", name)
		p, err = policy.LoadBuiltin(name)
	}
	if err != nil {
		return policy.Policy{}, exitError(3, "failed to load policy: %v", err)
	}
	return *p, nil
}

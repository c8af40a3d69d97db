package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/redact"
	"github.com/dshills/riskscore/internal/render"
	"github.com/dshills/riskscore/internal/report"
	"github.com/dshills/riskscore/internal/session"
	"github.com/dshills/riskscore/internal/watch"
	"github.com/spf13/cobra"
)

type watchFlags struct {
	surveyName string
	surveyFile string
	policyName string
	policyFile string
	page       int
	format     string
	redact     bool
	logLevel   string
}

func newWatchCmd() *cobra.Command {
	f := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <answers-file>",
		Short: "Rescore an answers file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.OutOrStdout(), args[0], f)
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags, &f.surveyName, &f.surveyFile, &f.policyName, &f.policyFile)
	flags.IntVar(&f.page, "page", 0, "Current page index")
	flags.StringVar(&f.format, "format", "text", "Output format: text or json")
	flags.BoolVar(&f.redact, "redact", true, "Mask secrets and contact details in free-text answers")
	flags.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	return cmd
}

func runWatch(ctx context.Context, stdout io.Writer, answersPath string, f *watchFlags) error {
	if f.format != "text" && f.format != "json" {
		return exitError(3, "unknown format: %s", f.format)
	}
	logger := newLogger(f.logLevel, "text")
	quiet := func(string, ...any) {}

	sv, err := loadSurvey(f.surveyName, f.surveyFile, quiet)
	if err != nil {
		return err
	}
	p, err := loadPolicy(f.policyName, f.policyFile, quiet)
	if err != nil {
		return err
	}
	sess := session.New(sv, p)

	handler := func(af *answer.File, err error) {
		if err != nil {
			return
		}
		if err := sess.Update(af.Answers, f.page); err != nil {
			logger.Warn("Failed to record answers", "error", err)
			return
		}
		rep := report.Build(sess, version, report.Input{
			AnswersFile: filepath.Base(af.FilePath),
			AnswersHash: af.Hash,
		})
		if f.redact {
			rep.Sections = redact.Sections(rep.Sections)
		}
		if err := writeWatchReport(stdout, rep, f.format); err != nil {
			logger.Warn("Failed to write report", "error", err)
		}
	}

	w, err := watch.New(answersPath, handler, watch.Options{Logger: logger})
	if err != nil {
		return exitError(3, "failed to watch answers: %v", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

func writeWatchReport(w io.Writer, rep *report.Report, format string) error {
	if format == "json" {
		data, err := json.Marshal(rep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return render.Terminal(w, rep)
}

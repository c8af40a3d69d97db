package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/riskscore/internal/schema"
	"github.com/dshills/riskscore/internal/server"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	addr        string
	surveyFiles []string
	logLevel    string
	logFormat   string
	redact      bool
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.addr, "addr", ":8080", "Listen address")
	flags.StringSliceVar(&f.surveyFiles, "survey-file", nil, "Additional survey definition files (may be repeated)")
	flags.BoolVar(&f.redact, "redact", true, "Mask secrets and contact details in returned answers")
	flags.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	flags.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	return cmd
}

func runServe(ctx context.Context, f *serveFlags) error {
	logger := newLogger(f.logLevel, f.logFormat)
	gin.SetMode(gin.ReleaseMode)

	surveys := make(map[string]*survey.Survey)
	for _, path := range f.surveyFiles {
		sv, err := survey.Load(path)
		if err != nil {
			return exitError(3, "failed to load survey: %v", err)
		}
		if errs := schema.Validate(sv); len(errs) > 0 {
			for _, e := range errs {
				logger.Error("Survey schema error", "survey", sv.Name, "error", e.Error())
			}
			return exitError(5, "survey %s failed schema validation", sv.Name)
		}
		logger.Info("Loaded survey", "survey", sv.Name, "path", path)
		surveys[sv.Name] = sv
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Version: version,
		Logger:  logger,
		Surveys: surveys,
		Redact:  f.redact,
	})
	if err := srv.Run(ctx, f.addr); err != nil {
		return exitError(1, "server error: %v", err)
	}
	return nil
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/planetban/hadirbot/internal/bot"
	"github.com/planetban/hadirbot/internal/config"
	"github.com/planetban/hadirbot/internal/logging"
	"github.com/planetban/hadirbot/internal/report"
	"github.com/planetban/hadirbot/internal/sentryutil"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start long polling and answer commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config")
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sentryutil.Init(cfg.SentryDSN, cfg.SentryEnvironment, logger)
	defer sentryutil.Flush(logger)

	checkReportFile(cfg.ReportFile, logger)

	b, err := bot.New(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "bot init failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		b.Stop()
	}()

	logger.Info("listening",
		zap.Int("developers", len(cfg.Developers)),
		zap.String("timezone", cfg.Timezone),
		zap.String("open", cfg.OpenAt),
		zap.String("close", cfg.CloseAt))
	b.Start()
	return nil
}

func checkReportFile(path string, logger *zap.Logger) {
	if _, err := os.Stat(path); err != nil {
		logger.Info("static report missing, sample reports will be generated", zap.String("path", path))
		return
	}
	pages, err := report.Inspect(path)
	if err != nil {
		logger.Warn("static report is not a readable PDF", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("static report ready", zap.String("path", path), zap.Int("pages", pages))
}

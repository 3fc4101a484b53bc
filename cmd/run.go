package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/JakeFAU/fff/internal/config"
	"github.com/JakeFAU/fff/internal/dispatcher"
	"github.com/JakeFAU/fff/internal/fetcher/httpclient"
	"github.com/JakeFAU/fff/internal/hash/xxh3"
	"github.com/JakeFAU/fff/internal/id/uuid"
	"github.com/JakeFAU/fff/internal/logging"
	"github.com/JakeFAU/fff/internal/metrics"
	"github.com/JakeFAU/fff/internal/policy/delay"
	"github.com/JakeFAU/fff/internal/report"
	"github.com/JakeFAU/fff/internal/scan"
	"github.com/JakeFAU/fff/internal/source"
	"github.com/JakeFAU/fff/internal/storage/local"
	"github.com/JakeFAU/fff/internal/worker"
)

const metricsShutdownTimeout = 5 * time.Second

// run wires the pipeline and processes stdin to completion. It returns an
// error only for failures that prevent the run from starting.
func run(ctx context.Context, cfg config.Config, std streams) error {
	logger, err := logging.NewWriter(std.err, cfg.DevLogs, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	runID, err := uuid.NewRunID()
	if err != nil {
		return err
	}
	logger = logger.With(zap.Stringer("run_id", runID))

	for _, h := range scan.DroppedHeaders(cfg.Headers) {
		logger.Debug("ignoring malformed header", zap.String("header", h))
	}

	client, err := httpclient.New(cfg.Client())
	if err != nil {
		logger.Error("http client init failed", zap.Error(err))
		return fmt.Errorf("init http client: %w", err)
	}
	defer client.CloseIdleConnections()

	store, err := local.New(cfg.Storage(), xxh3.New(), logger.Named("store"))
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	if cfg.MetricsAddr != "" {
		srv, err := metrics.Start(cfg.MetricsAddr, logger.Named("metrics"))
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", zap.Error(err))
			}
		}()
	}

	builder := scan.NewBuilder(cfg.Request())
	w := worker.New(
		builder,
		delay.New(cfg.Delay()),
		client,
		store,
		report.NewPrinter(std.out, colorize(std.out, cfg.NoColor)),
		cfg.Policy(),
		logger.Named("worker"),
	)
	d := dispatcher.New(w, dispatcher.DefaultSlots, logger.Named("dispatcher"))

	logger.Info("run started",
		zap.String("method", builder.Method()),
		zap.String("output", cfg.Output),
		zap.Duration("delay", cfg.Delay()),
		zap.Int("slots", d.Slots()),
	)

	start := time.Now()
	// Input read errors are logged by the dispatcher and do not fail the run.
	summary, _ := d.Run(ctx, source.NewLines(std.in))

	logger.Info("run complete",
		zap.Int64("dispatched", summary.Dispatched),
		zap.Int64("saved", summary.Saved),
		zap.Int64("skipped", summary.Skipped),
		zap.Int64("failed", summary.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// colorize reports whether status output should carry ANSI colors.
func colorize(w io.Writer, disabled bool) bool {
	if disabled {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

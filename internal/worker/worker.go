// Package worker implements the per-URL task pipeline:
// throttle, build, execute, filter, then persist or report.
package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/fff/internal/filter"
	"github.com/JakeFAU/fff/internal/metrics"
	"github.com/JakeFAU/fff/internal/scan"
)

// State is the terminal state of one task.
type State string

// Terminal task states.
const (
	StateSaved   State = "saved"
	StateSkipped State = "skipped"
	StateFailed  State = "failed"
)

// Result summarizes how a task ended.
type Result struct {
	State  State
	Status int
	Path   string
	Err    error
}

// Worker runs tasks. It holds no per-task state and is safe for concurrent use.
type Worker struct {
	builder   *scan.Builder
	throttle  scan.Throttle
	executor  scan.Executor
	persister scan.Persister
	reporter  scan.Reporter
	policy    filter.Policy
	logger    *zap.Logger
}

// New constructs a Worker.
func New(
	builder *scan.Builder,
	throttle scan.Throttle,
	executor scan.Executor,
	persister scan.Persister,
	reporter scan.Reporter,
	policy filter.Policy,
	logger *zap.Logger,
) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		builder:   builder,
		throttle:  throttle,
		executor:  executor,
		persister: persister,
		reporter:  reporter,
		policy:    policy,
		logger:    logger,
	}
}

// Process drives rawURL to a terminal state. Failures are logged with the
// offending URL and never propagate to the caller as a panic or abort.
func (w *Worker) Process(ctx context.Context, rawURL string) Result {
	if w.throttle != nil {
		if err := w.throttle.Wait(ctx); err != nil {
			return w.fail(rawURL, "task canceled before request", err)
		}
	}

	req, err := w.builder.Build(rawURL)
	if err != nil {
		return w.fail(rawURL, "invalid url", err)
	}

	resp, err := w.executor.Execute(ctx, req)
	if err != nil {
		return w.fail(rawURL, "request failed", err)
	}
	metrics.ObserveResponse(resp.StatusCode, len(resp.Body), resp.Duration)

	if !filter.ShouldSave(resp, w.policy) {
		metrics.ObserveSkipped()
		w.report(rawURL, resp.StatusCode, scan.OutcomeSkipped)
		return Result{State: StateSkipped, Status: resp.StatusCode}
	}

	path, err := w.persister.Persist(ctx, req, resp)
	if err != nil {
		res := w.fail(rawURL, "save response failed", err)
		res.Status = resp.StatusCode
		return res
	}
	metrics.ObserveSaved()
	w.report(rawURL, resp.StatusCode, scan.OutcomeSaved)
	w.logger.Debug("response saved",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.String("path", path),
	)
	return Result{State: StateSaved, Status: resp.StatusCode, Path: path}
}

func (w *Worker) report(rawURL string, status int, outcome scan.Outcome) {
	if w.reporter != nil {
		w.reporter.Report(rawURL, status, outcome)
	}
}

func (w *Worker) fail(rawURL, msg string, err error) Result {
	metrics.ObserveError(scan.ErrorKind(err))
	w.logger.Error(msg, zap.String("url", rawURL), zap.Error(err))
	return Result{State: StateFailed, Err: fmt.Errorf("%s: %w", msg, err)}
}

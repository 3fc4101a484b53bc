// Package dispatcher fans input URLs out to tasks under a fixed slot bound.
package dispatcher

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/JakeFAU/fff/internal/metrics"
	"github.com/JakeFAU/fff/internal/scan"
	"github.com/JakeFAU/fff/internal/worker"
)

// DefaultSlots is the number of tasks allowed in flight at once.
const DefaultSlots = 100

// Processor runs a single task to completion.
type Processor interface {
	Process(ctx context.Context, rawURL string) worker.Result
}

// Summary counts terminal task states for one run.
type Summary struct {
	Dispatched int64
	Saved      int64
	Skipped    int64
	Failed     int64
}

// Dispatcher reads the source and starts one task per line.
type Dispatcher struct {
	processor Processor
	slots     int
	logger    *zap.Logger
}

// New creates a Dispatcher. Non-positive slots fall back to DefaultSlots.
func New(processor Processor, slots int, logger *zap.Logger) *Dispatcher {
	if slots <= 0 {
		slots = DefaultSlots
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		processor: processor,
		slots:     slots,
		logger:    logger,
	}
}

// Slots reports the concurrency bound.
func (d *Dispatcher) Slots() int {
	return d.slots
}

// Run blocks until the source is exhausted and every started task has
// finished. The read loop waits for a free slot before starting a task, so at
// most Slots tasks are ever in flight.
//
// Cancelling ctx stops intake; tasks already started run to completion on a
// context detached from ctx's cancellation. The returned error is the source
// read error, if any. Task failures are counted, never returned.
func (d *Dispatcher) Run(ctx context.Context, src scan.Source) (Summary, error) {
	sem := semaphore.NewWeighted(int64(d.slots))
	taskCtx := context.WithoutCancel(ctx)

	var (
		g                      errgroup.Group
		dispatched             int64
		saved, skipped, failed atomic.Int64
	)

	for {
		if ctx.Err() != nil {
			d.logger.Warn("intake stopped; draining started tasks", zap.Error(ctx.Err()))
			break
		}
		rawURL, ok := src.Next()
		if !ok {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			d.logger.Warn("intake stopped; draining started tasks", zap.Error(err))
			break
		}
		dispatched++
		metrics.IncInflight()
		g.Go(func() error {
			defer sem.Release(1)
			defer metrics.DecInflight()
			switch d.processor.Process(taskCtx, rawURL).State {
			case worker.StateSaved:
				saved.Add(1)
			case worker.StateSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait() // tasks never return errors

	summary := Summary{
		Dispatched: dispatched,
		Saved:      saved.Load(),
		Skipped:    skipped.Load(),
		Failed:     failed.Load(),
	}
	if err := src.Err(); err != nil {
		d.logger.Error("input read failed", zap.Error(err))
		return summary, err
	}
	return summary, nil
}

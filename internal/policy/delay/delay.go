// Package delay implements the fixed per-task pause taken before each request.
package delay

import (
	"context"
	"fmt"
	"time"
)

// DefaultDelay is the pause applied when none is configured.
const DefaultDelay = 100 * time.Millisecond

// Throttle pauses each task for a fixed duration. It is not a shared rate
// limiter: concurrent tasks sleep independently, so aggregate throughput is
// roughly slots / delay.
type Throttle struct {
	delay time.Duration
}

// New returns a Throttle; a delay <= 0 disables pausing.
func New(d time.Duration) *Throttle {
	if d < 0 {
		d = 0
	}
	return &Throttle{delay: d}
}

// Delay returns the configured pause.
func (t *Throttle) Delay() time.Duration {
	return t.delay
}

// Wait blocks for the configured delay or until ctx ends.
func (t *Throttle) Wait(ctx context.Context) error {
	if t.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("throttle wait canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Package resource implements write-side admission control for the
// index: a bound on concurrent writer transactions and a throttle on
// background split/compaction I/O, so a burst of writers cannot starve
// the host process or the single-writer KV store queue behind it.
package resource

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrBackpressure is returned by AcquireWriter when the wait deadline
// configured on ctx expires before a writer slot becomes free. It is
// never returned for an unbounded wait.
var ErrBackpressure = errors.New("resource: writer backpressure")

// Config controls a Controller's limits. A zero Config means
// unlimited writers and unthrottled background I/O.
type Config struct {
	// MaxConcurrentWriters bounds the number of Put/Remove
	// transactions that may be open at once. 0 means unlimited.
	MaxConcurrentWriters int64

	// SplitIOBytesPerSec throttles the byte volume of bucket rewrites
	// performed by splits. 0 means unthrottled.
	SplitIOBytesPerSec int64
}

// Controller admits writers and throttles background I/O. A nil
// *Controller behaves as fully unlimited, so it is safe to embed in a
// type that may or may not have one configured.
type Controller struct {
	writerSem *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController builds a Controller from cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{}
	if cfg.MaxConcurrentWriters > 0 {
		c.writerSem = semaphore.NewWeighted(cfg.MaxConcurrentWriters)
	}
	if cfg.SplitIOBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.SplitIOBytesPerSec), int(cfg.SplitIOBytesPerSec))
	}
	return c
}

// AcquireWriter reserves a writer slot, blocking until one is free or
// ctx is done. If ctx carries a deadline and it expires first, it
// returns ErrBackpressure rather than ctx.Err() directly, so callers
// can distinguish admission timeouts from caller-initiated
// cancellation with errors.Is.
func (c *Controller) AcquireWriter(ctx context.Context) error {
	if c == nil || c.writerSem == nil {
		return nil
	}
	if err := c.writerSem.Acquire(ctx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrBackpressure
		}
		return err
	}
	return nil
}

// TryAcquireWriter reserves a writer slot without blocking, reporting
// whether one was available.
func (c *Controller) TryAcquireWriter() bool {
	if c == nil || c.writerSem == nil {
		return true
	}
	return c.writerSem.TryAcquire(1)
}

// ReleaseWriter releases a slot acquired by AcquireWriter or
// TryAcquireWriter.
func (c *Controller) ReleaseWriter() {
	if c == nil || c.writerSem == nil {
		return
	}
	c.writerSem.Release(1)
}

// WaitSplitIO blocks until the split I/O throttle admits writing n
// bytes, or ctx is done. It returns an error without waiting when n
// exceeds the throttle's burst (SplitIOBytesPerSec bytes) or when
// ctx's deadline would pass before admission.
func (c *Controller) WaitSplitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, n)
}

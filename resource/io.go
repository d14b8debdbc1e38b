package resource

import (
	"context"
	"io"
)

// SplitWriter wraps an io.Writer with the Controller's split-I/O
// throttle, so a bucket rewrite triggered by a split competes for
// bandwidth the same way any other background I/O does.
type SplitWriter struct {
	w   io.Writer
	c   *Controller
	ctx context.Context
}

// NewSplitWriter wraps w so every Write waits on c's split I/O
// throttle before proceeding.
func NewSplitWriter(ctx context.Context, w io.Writer, c *Controller) *SplitWriter {
	return &SplitWriter{w: w, c: c, ctx: ctx}
}

func (w *SplitWriter) Write(p []byte) (n int, err error) {
	if err := w.c.WaitSplitIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}

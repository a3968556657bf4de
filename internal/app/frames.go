package app

import "github.com/Faultbox/midgard-floor/internal/pipeline"

// frameQueue is the pipeline's scheduler: it holds at most one pending
// frame callback and runs it when the main loop asks.
type frameQueue struct {
	pending pipeline.FrameFunc
}

func (q *frameQueue) RequestFrame(fn pipeline.FrameFunc) {
	q.pending = fn
}

// run fires the pending callback at now. It reports whether a frame ran.
func (q *frameQueue) run(now float64) bool {
	fn := q.pending
	if fn == nil {
		return false
	}
	q.pending = nil
	fn(now)
	return true
}

var _ pipeline.Scheduler = (*frameQueue)(nil)

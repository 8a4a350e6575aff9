package engine

import "sync/atomic"

// stopFlag is the single atomic boolean shared between the actor and a mix
// worker (spec.md §9): release writes from the actor, relaxed reads from
// the worker's hot loop. atomic.Bool's Store/Load give Go's closest stock
// equivalent to Rust's Ordering::Release/Relaxed for a single flag.
type stopFlag struct {
	v atomic.Bool
}

func (f *stopFlag) reset() { f.v.Store(false) }
func (f *stopFlag) set()   { f.v.Store(true) }

// Stopped implements StopSignal.
func (f *stopFlag) Stopped() bool { return f.v.Load() }

// mixWorker runs one mix pass on a cloned Mixer, owning its own stop flag
// and completion signal. It is not re-entrant: an actor runs at most one at
// a time (spec.md §4.6).
type mixWorker struct {
	stop *stopFlag
	done chan struct{}
}

// startMixWorker clones mixer, resets a fresh stop flag (spec.md §9: always
// reset before a new Mix), and renders from at via cb on a dedicated
// goroutine. The worker checks the stop flag before every callback
// invocation (mixer.Mix does this internally) so StopMixing takes effect
// within at most one sample.
func startMixWorker(mixer *Mixer, at Beats, cb MixCallback) *mixWorker {
	w := &mixWorker{stop: &stopFlag{}, done: make(chan struct{})}
	clone := mixer.Clone()
	go func() {
		defer close(w.done)
		clone.Mix(at, w.stop, cb)
	}()
	return w
}

// requestStop sets the stop flag (release store) without waiting for the
// worker to observe it; use join to wait.
func (w *mixWorker) requestStop() {
	w.stop.set()
}

// join blocks until the worker's goroutine has returned.
func (w *mixWorker) join() {
	<-w.done
}

// finished reports whether the worker's goroutine has already returned,
// without blocking — used by the actor's poll loop to reap completed
// workers (spec.md §4.6, §5).
func (w *mixWorker) finished() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

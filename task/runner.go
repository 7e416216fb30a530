package task

import (
	"context"
	"runtime"
	"sync"
)

// Runner schedules tasks on a fixed set of worker goroutines.
//
// The run queue is unbounded: a yielding task re-enters the queue from
// the worker that just stepped it, so a bounded queue could deadlock
// with every worker blocked on a full channel. Fairness comes from the
// FIFO order, a task that yields goes to the back of the line.
//
// Thread safety: Runner is safe for concurrent use.
type Runner struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Handle
	live   map[*Handle]struct{}
	closed bool

	wg sync.WaitGroup
}

// NewRunner creates a runner with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	r := &Runner{live: make(map[*Handle]struct{})}
	r.cond = sync.NewCond(&r.mu)
	r.wg.Add(workers)
	for range workers {
		go r.worker()
	}
	return r
}

// Submit queues a task and returns its handle. The context is checked
// before every step; once it is cancelled the next step finishes the
// task with the context's error. A task parked in [StatusWait] does not
// observe cancellation until it is signalled.
func (r *Runner) Submit(ctx context.Context, t Task) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	h := &Handle{runner: r, task: t, ctx: ctx, done: make(chan struct{})}
	h.state.Store(stateQueued)
	r.mu.Lock()
	if !r.closed {
		r.live[h] = struct{}{}
	}
	r.mu.Unlock()
	r.enqueue(h)
	return h
}

// Close shuts the runner down. Workers stop after their current step;
// every task not yet finished, queued or parked, finishes with
// [ErrRunnerClosed]. Close is safe to call multiple times.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.queue = nil
	r.mu.Unlock()

	r.cond.Broadcast()
	r.wg.Wait()

	r.mu.Lock()
	pending := make([]*Handle, 0, len(r.live))
	for h := range r.live {
		pending = append(pending, h)
	}
	r.mu.Unlock()

	for _, h := range pending {
		h.finish(ErrRunnerClosed)
	}
}

// forget drops a finished handle from the live set.
func (r *Runner) forget(h *Handle) {
	r.mu.Lock()
	delete(r.live, h)
	r.mu.Unlock()
}

func (r *Runner) enqueue(h *Handle) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		h.finish(ErrRunnerClosed)
		return
	}
	r.queue = append(r.queue, h)
	r.mu.Unlock()
	r.cond.Signal()
}

// worker is the main loop for each worker goroutine.
func (r *Runner) worker() {
	defer r.wg.Done()

	for {
		r.mu.Lock()
		for len(r.queue) == 0 && !r.closed {
			r.cond.Wait()
		}
		if r.closed {
			r.mu.Unlock()
			return
		}
		h := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		r.step(h)
	}
}

// step advances one task and routes it according to the returned status.
func (r *Runner) step(h *Handle) {
	h.state.Store(stateRunning)

	if err := h.ctx.Err(); err != nil {
		h.finish(err)
		return
	}

	status, err := h.task.Step(h.ctx)
	if err != nil {
		h.finish(err)
		return
	}

	switch status {
	case StatusDone:
		h.finish(nil)
	case StatusYield:
		// A signal received during the step is consumed; the task is
		// going back on the queue either way.
		h.state.Store(stateQueued)
		r.enqueue(h)
	case StatusWait:
		if !h.state.CompareAndSwap(stateRunning, stateWaiting) {
			// Signalled while the step ran: skip the wait.
			h.state.Store(stateQueued)
			r.enqueue(h)
		}
	default:
		h.finish(nil)
	}
}

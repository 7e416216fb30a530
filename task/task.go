package task

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrRunnerClosed is returned by [Handle.Err] for tasks that were still
// pending when the runner shut down.
var ErrRunnerClosed = errors.New("task: runner closed")

// Status is what a task wants after a step.
type Status int

const (
	// StatusDone finishes the task.
	StatusDone Status = iota

	// StatusYield reschedules the task; it has more work but gives other
	// tasks a chance to run first.
	StatusYield

	// StatusWait parks the task until [Handle.Signal] is called.
	StatusWait
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusYield:
		return "yield"
	case StatusWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Task is a resumable unit of work. Step advances the task by one slice
// and reports what it wants next. A non-nil error finishes the task.
//
// Step is never called concurrently for the same task, but successive
// steps may run on different workers; a task must not rely on
// goroutine-local state.
type Task interface {
	Step(ctx context.Context) (Status, error)
}

// Func adapts a function to the [Task] interface.
type Func func(ctx context.Context) (Status, error)

// Step implements Task.
func (f Func) Step(ctx context.Context) (Status, error) { return f(ctx) }

// Handle state machine. A handle is owned by at most one worker at a
// time; Signal only transitions waiting to queued or running to
// runningSignalled.
const (
	stateQueued int32 = iota
	stateRunning
	stateRunningSignalled
	stateWaiting
	stateDone
)

// Handle tracks a submitted task.
type Handle struct {
	runner *Runner
	task   Task
	ctx    context.Context

	state atomic.Int32
	err   error
	done  chan struct{}
}

// Signal wakes a task that returned [StatusWait]. Signalling a running
// task makes its current wait request a no-op instead, so a wakeup that
// races with the step that requests the wait is never lost. Signals do
// not accumulate: signalling a task that is already queued or finished
// has no effect.
func (h *Handle) Signal() {
	for {
		switch h.state.Load() {
		case stateWaiting:
			if h.state.CompareAndSwap(stateWaiting, stateQueued) {
				h.runner.enqueue(h)
				return
			}
		case stateRunning:
			if h.state.CompareAndSwap(stateRunning, stateRunningSignalled) {
				return
			}
		default:
			return
		}
	}
}

// Done returns a channel closed when the task has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the task's final error. It is valid after Done is closed:
// nil for normal completion, the step's error otherwise.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// finish is idempotent: the first caller records the error and closes
// the done channel, later callers are no-ops. Needed because runner
// shutdown can race a signal on a parked handle.
func (h *Handle) finish(err error) {
	if h.state.Swap(stateDone) == stateDone {
		return
	}
	h.err = err
	close(h.done)
	h.runner.forget(h)
}

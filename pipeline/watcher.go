package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/gogpu/framegraph/task"
)

// Notification reports one completed pipeline variant.
type Notification struct {
	Factory  *Factory
	Index    Index
	Pipeline *Pipeline
}

// watcher delivers notifications to the owner's callback from its own
// cooperative task, so pipeline creation never runs the callback
// inline. The queue is bounded; the factory parks a notification the
// queue cannot take and retries on its next turn.
type watcher struct {
	callback   func(Notification)
	queue      chan Notification
	terminated atomic.Bool
	handle     *task.Handle
}

func newWatcher(callback func(Notification), queueSize int) *watcher {
	if queueSize <= 0 {
		queueSize = 8
	}
	return &watcher{callback: callback, queue: make(chan Notification, queueSize)}
}

func (w *watcher) start(r *task.Runner) {
	w.handle = r.Submit(context.Background(), task.Func(w.step))
}

// step drains every queued notification, then parks. After terminate
// the drain still runs; nothing queued before termination is dropped.
func (w *watcher) step(_ context.Context) (task.Status, error) {
	for {
		select {
		case n := <-w.queue:
			w.callback(n)
		default:
			if w.terminated.Load() {
				return task.StatusDone, nil
			}
			return task.StatusWait, nil
		}
	}
}

// offer queues a notification, waking the watcher. Reports false when
// the queue is full.
func (w *watcher) offer(n Notification) bool {
	select {
	case w.queue <- n:
		w.handle.Signal()
		return true
	default:
		return false
	}
}

// terminate lets the watcher finish once the queue is drained.
func (w *watcher) terminate() {
	w.terminated.Store(true)
	w.handle.Signal()
}

// done is closed when the watcher task has finished.
func (w *watcher) done() <-chan struct{} { return w.handle.Done() }

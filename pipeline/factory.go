package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/task"
)

// Options configures a Factory.
type Options struct {
	// ID identifies the factory configuration for cache persistence.
	ID FactoryID

	// DeviceKey identifies the device for cache persistence.
	DeviceKey string

	// Broker supplies and persists the pipeline cache. Nil means a
	// fresh unshared cache per factory.
	Broker *Broker

	// Watcher receives one notification per created pipeline, in
	// enumeration order, from the watcher's own task. Nil disables
	// notifications.
	Watcher func(Notification)

	// QueueSize bounds the watcher queue. Zero means a small default.
	QueueSize int

	// Label prefixes variant debug labels.
	Label string
}

// Factory enumerates the Cartesian product of its characteristics,
// creating one render pipeline per combination.
//
// Lifecycle: New, Add each characteristic, optionally set fixed state
// on FlatCreateInfo, then Generate exactly once. Generate schedules the
// factory on the runner and returns immediately; Done is closed after
// the last notification has been delivered.
type Factory struct {
	dev  Device
	opts Options
	flat *FlatCreateInfo

	chars []Characteristic

	mu    sync.RWMutex
	table []*Pipeline

	odo     *Odometer
	cache   *Cache
	w       *watcher
	pending *Notification

	ctx       context.Context
	generated bool
	closing   bool
	err       error
	done      chan struct{}
}

// New creates a factory producing pipelines on the device.
func New(dev Device, opts Options) (*Factory, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if opts.Label == "" {
		opts.Label = "pipeline"
	}
	return &Factory{
		dev:  dev,
		opts: opts,
		flat: NewFlatCreateInfo(),
		done: make(chan struct{}),
	}, nil
}

// ID returns the factory's identity.
func (f *Factory) ID() FactoryID { return f.opts.ID }

// FlatCreateInfo returns the description the characteristics fill.
// Fixed state (layout, primitive, multisample, depth-stencil) is set
// here before Generate.
func (f *Factory) FlatCreateInfo() *FlatCreateInfo { return f.flat }

// Add registers a characteristic. Axis order is enumeration order: the
// first axis varies slowest.
func (f *Factory) Add(c Characteristic) error {
	if f.generated {
		return ErrAlreadyGenerated
	}
	if c.End() <= c.Begin() {
		return ErrEmptyRange
	}
	f.chars = append(f.chars, c)
	return nil
}

// Generate starts enumeration on the runner and returns without
// blocking. It acquires the cache, initializes every characteristic,
// sizes the pipeline table, and schedules the factory task. Cancelling
// ctx stops enumeration after the current cell.
func (f *Factory) Generate(ctx context.Context, r *task.Runner) error {
	if f.generated {
		return ErrAlreadyGenerated
	}
	if len(f.chars) == 0 {
		return ErrNoCharacteristics
	}
	f.generated = true
	if ctx == nil {
		ctx = context.Background()
	}
	f.ctx = ctx

	if f.opts.Broker != nil {
		f.cache = f.opts.Broker.Acquire(f.cacheKey())
	} else {
		f.cache = NewCache()
	}

	for i, c := range f.chars {
		if err := c.Initialize(f.flat, f.dev); err != nil {
			f.releaseCache()
			return fmt.Errorf("initialize characteristic %d: %w", i, err)
		}
	}

	// Fold each axis's last value to size the dense table.
	var last Index
	begin := make([]int, len(f.chars))
	end := make([]int, len(f.chars))
	for i, c := range f.chars {
		begin[i], end[i] = c.Begin(), c.End()
		c.Update(&last, c.End()-1)
	}
	f.table = make([]*Pipeline, int(last)+1)
	f.odo = newOdometer(begin, end)

	if f.opts.Watcher != nil {
		f.w = newWatcher(f.opts.Watcher, f.opts.QueueSize)
		f.w.start(r)
	}

	framegraph.Logger().Info("pipeline generation started",
		"label", f.opts.Label, "variants", len(f.table), "axes", len(f.chars))

	// The factory checks its own ctx so cancellation still runs the
	// shutdown sequence.
	r.Submit(context.Background(), task.Func(f.step))
	return nil
}

// Done returns a channel closed when enumeration and notification
// delivery have finished.
func (f *Factory) Done() <-chan struct{} { return f.done }

// Err returns the factory's final error. Valid after Done is closed:
// nil for a complete enumeration, the context's or the fatal cell's
// error otherwise.
func (f *Factory) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Pipeline returns the created pipeline for a composite index, or nil
// if that cell has not been produced yet.
func (f *Factory) Pipeline(i Index) *Pipeline {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if int(i) < 0 || int(i) >= len(f.table) {
		return nil
	}
	return f.table[i]
}

// Count returns the total number of variants the factory enumerates.
// Zero before Generate.
func (f *Factory) Count() int {
	return len(f.table)
}

func (f *Factory) cacheKey() CacheKey {
	return CacheKey{Device: f.opts.DeviceKey, Factory: f.opts.ID}
}

// step is one scheduling turn of the factory task.
func (f *Factory) step(_ context.Context) (task.Status, error) {
	if !f.closing {
		if st, running := f.advance(); running {
			return st, nil
		}
	}

	// Shutting down: the watcher is terminated; wait for it to drain
	// before closing Done.
	if f.w != nil {
		select {
		case <-f.w.done():
		default:
			return task.StatusYield, nil
		}
	}
	close(f.done)
	return task.StatusDone, f.err
}

// advance produces at most one cell. It reports running=false once the
// factory has switched to shutdown.
func (f *Factory) advance() (task.Status, bool) {
	if err := f.ctx.Err(); err != nil {
		f.beginShutdown(err)
		return 0, false
	}
	if f.odo.Finished() {
		f.beginShutdown(nil)
		return 0, false
	}

	for !f.odo.Inner() {
		f.odo.Descend()
	}

	if f.pending == nil {
		n, err := f.produce()
		if err != nil {
			f.beginShutdown(err)
			return 0, false
		}
		f.pending = n
	}
	if f.w != nil && !f.w.offer(*f.pending) {
		// Watcher queue full: keep the cell, retry next turn.
		return task.StatusYield, true
	}
	f.pending = nil
	f.odo.Advance()
	return task.StatusYield, true
}

// produce creates the pipeline for the odometer's current cell.
func (f *Factory) produce() (*Notification, error) {
	for i, c := range f.chars {
		if err := c.Fill(f.flat, f.odo.Index(i)); err != nil {
			return nil, fmt.Errorf("fill characteristic %d: %w", i, err)
		}
	}

	var idx Index
	for i, c := range f.chars {
		c.Update(&idx, f.odo.Index(i))
	}

	merged, err := f.flat.Merge(fmt.Sprintf("%s[%d]", f.opts.Label, idx))
	if err != nil {
		return nil, err
	}
	p, err := f.cache.GetOrCreate(f.dev, merged)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.table[idx] = p
	f.mu.Unlock()

	framegraph.Logger().Debug("pipeline variant created",
		"label", p.Label(), "index", int(idx))
	return &Notification{Factory: f, Index: idx, Pipeline: p}, nil
}

// beginShutdown records the final error, terminates the watcher and
// releases the cache. Done closes later, after the watcher drains.
func (f *Factory) beginShutdown(err error) {
	f.closing = true
	f.err = err
	if f.w != nil {
		f.w.terminate()
	}
	f.releaseCache()
	framegraph.Logger().Info("pipeline generation finished",
		"label", f.opts.Label, "err", err)
}

// releaseCache hands the cache back to the broker for persistence.
func (f *Factory) releaseCache() {
	if f.opts.Broker == nil {
		return
	}
	if err := f.opts.Broker.Release(f.cacheKey()); err != nil {
		framegraph.Logger().Warn("pipeline cache release failed",
			"key", f.cacheKey().blobName(), "err", err)
	}
}

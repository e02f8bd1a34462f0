package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/martinsuchenak/advisorctl/internal/worker"
)

// Loader produces one snapshot
type Loader[T any] func(ctx context.Context) (T, error)

// Renderer receives each settled snapshot or the error that replaced it
type Renderer[T any] func(snapshot T, err error)

// View keeps a snapshot fresh while mounted. Each refresh loads a new snapshot and hands
// it to the renderer unless the view was unmounted while the load was in flight.
type View[T any] struct {
	name     string
	interval time.Duration
	poller   *worker.Poller
	load     Loader[T]
	render   Renderer[T]

	// renderMu is held for the whole of a render and by Unmount, so no render starts
	// after Unmount returns
	renderMu sync.Mutex

	mu      sync.Mutex
	sub     *worker.Subscription
	mounted bool
}

// NewView binds a loader and renderer to a poller schedule
func NewView[T any](poller *worker.Poller, name string, interval time.Duration, load Loader[T], render Renderer[T]) *View[T] {
	return &View[T]{
		name:     name,
		interval: interval,
		poller:   poller,
		load:     load,
		render:   render,
	}
}

// Mount starts the schedule and triggers the initial load in the background
func (v *View[T]) Mount() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mounted {
		return nil
	}

	sub, err := v.poller.Mount(v.name, v.interval, v.refresh)
	if err != nil {
		return err
	}
	v.sub = sub
	v.mounted = true
	sub.Refresh()
	return nil
}

// Refresh reloads immediately, e.g. after a write the view should reflect
func (v *View[T]) Refresh() {
	v.mu.Lock()
	sub := v.sub
	v.mu.Unlock()
	if sub != nil {
		sub.Refresh()
	}
}

// Unmount stops refreshing. A load already in flight completes but is not rendered.
// A render in progress is allowed to finish first. Unmount must not be called from
// inside the renderer.
func (v *View[T]) Unmount() {
	v.renderMu.Lock()
	defer v.renderMu.Unlock()

	v.mu.Lock()
	sub := v.sub
	v.mounted = false
	v.sub = nil
	v.mu.Unlock()

	if sub != nil {
		sub.Unmount()
	}
}

// Mounted reports whether results are still being rendered
func (v *View[T]) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

func (v *View[T]) refresh(ctx context.Context) error {
	snapshot, err := v.load(ctx)

	v.renderMu.Lock()
	defer v.renderMu.Unlock()
	if !v.Mounted() {
		return err
	}
	v.render(snapshot, err)
	return err
}

// Package loader holds the per-view fetch state of one content list: a
// single read shared by concurrent callers, explicit refetch, and a Dutch
// error message instead of the raw cause.
package loader

import (
	"context"
	"log/slog"
	"sync"
)

// State is what a view renders: data, a loading flag and an error message.
type State[T any] struct {
	Data      []T    `json:"data"`
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// FetchFunc reads one list from the store.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Resource loads a list once and keeps the result. A Resource belongs to
// one view; it is safe for concurrent use within that view.
type Resource[T any] struct {
	name    string
	message string
	fetch   FetchFunc[T]

	mu      sync.Mutex
	state   State[T]
	loaded  bool
	gen     int
	pending chan struct{}
	finish  func()
	closed  bool
}

// New creates a resource that starts out loading. message is shown to the
// visitor when the read fails.
func New[T any](name, message string, fetch FetchFunc[T]) *Resource[T] {
	return &Resource[T]{
		name:    name,
		message: message,
		fetch:   fetch,
		state:   State[T]{Data: []T{}, IsLoading: true},
	}
}

// Load performs the first read. Later calls, and calls made while the first
// read is running, wait for that read and return its state.
// PRE: none
// POST: At most one store read per Resource unless Refetch is called
func (r *Resource[T]) Load(ctx context.Context) State[T] {
	r.mu.Lock()
	if r.loaded || r.closed {
		s := r.state
		r.mu.Unlock()
		return s
	}
	if r.pending != nil {
		wait := r.pending
		r.mu.Unlock()
		return r.await(ctx, wait)
	}
	return r.run(ctx)
}

// Refetch reads again regardless of earlier results. A read still running
// from before is superseded and its result ignored.
func (r *Resource[T]) Refetch(ctx context.Context) State[T] {
	r.mu.Lock()
	if r.closed {
		s := r.state
		r.mu.Unlock()
		return s
	}
	return r.run(ctx)
}

// run starts a read and waits for it. r.mu must be held; run releases it.
func (r *Resource[T]) run(ctx context.Context) State[T] {
	r.gen++
	gen := r.gen
	done := make(chan struct{})
	finish := sync.OnceFunc(func() { close(done) })
	r.pending, r.finish = done, finish
	r.state.IsLoading = true
	r.mu.Unlock()

	data, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	defer finish()
	if r.closed || gen != r.gen {
		return r.state
	}
	if err != nil {
		slog.Error("content_fetch_failed", "resource", r.name, "error", err)
		r.state = State[T]{Data: []T{}, Error: r.message}
	} else {
		if data == nil {
			data = []T{}
		}
		r.state = State[T]{Data: data}
	}
	r.loaded = true
	r.pending, r.finish = nil, nil
	return r.state
}

func (r *Resource[T]) await(ctx context.Context, done <-chan struct{}) State[T] {
	select {
	case <-done:
	case <-ctx.Done():
	}
	return r.State()
}

// State returns the current state.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Close detaches the resource from its view. A read still running will not
// update the state.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.finish != nil {
		r.finish()
		r.pending, r.finish = nil, nil
	}
}

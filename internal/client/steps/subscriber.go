// Package steps keeps a live view of the total step count for a page or
// CLI, fed by a push channel.
package steps

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the counter as last seen.
type State struct {
	TotalSteps  int64
	IsConnected bool
	LastUpdate  time.Time
}

// Events receives signals from a Channel. Calls may arrive from any
// goroutine, any number of times and in any order.
type Events interface {
	Connected()
	Disconnected(err error)
	Total(n int64)
}

// Channel is a source of step totals. Subscribe starts delivering events
// and returns the function that stops delivery.
type Channel interface {
	Subscribe(ctx context.Context, ev Events) (release func(), err error)
}

// Subscriber holds exactly one subscription on a Channel and exposes the
// resulting State.
type Subscriber struct {
	ch  Channel
	now func() time.Time

	mu      sync.Mutex
	state   State
	updates chan State
	started bool
	closed  bool
	release func()
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithSnapshot sets the total shown before the first update arrives.
func WithSnapshot(total int64) Option {
	return func(s *Subscriber) { s.state.TotalSteps = total }
}

// WithClock overrides the clock used for LastUpdate.
func WithClock(now func() time.Time) Option {
	return func(s *Subscriber) { s.now = now }
}

// New creates a subscriber that is not yet listening.
func New(ch Channel, opts ...Option) *Subscriber {
	s := &Subscriber{
		ch:      ch,
		now:     time.Now,
		updates: make(chan State, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start acquires the subscription. Calls after the first, and calls after
// Close, do nothing. A failed or panicking setup closes the subscriber
// before returning or re-panicking.
// PRE: none
// POST: At most one subscription is ever held
func (s *Subscriber) Start(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.Close()
			panic(r)
		}
		if err != nil {
			s.Close()
		}
	}()

	release, err := s.ch.Subscribe(ctx, events{s})
	if err != nil {
		return fmt.Errorf("subscribe steps: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		release()
		return nil
	}
	s.release = release
	s.mu.Unlock()
	return nil
}

// Close releases the subscription and closes Updates. It is safe to call
// more than once and before Start.
func (s *Subscriber) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.state.IsConnected = false
	release := s.release
	s.release = nil
	close(s.updates)
	s.mu.Unlock()

	if release != nil {
		release()
	}
}

// State returns the current counter state.
func (s *Subscriber) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Updates delivers state changes. Only the latest unread state is kept.
// The channel is closed by Close.
func (s *Subscriber) Updates() <-chan State {
	return s.updates
}

// update applies fn unless closed and publishes the result.
func (s *Subscriber) update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn(&s.state)
	select {
	case <-s.updates:
	default:
	}
	s.updates <- s.state
}

// events keeps the Events methods off the Subscriber API.
type events struct{ s *Subscriber }

func (e events) Connected() {
	e.s.update(func(st *State) {
		st.IsConnected = true
		st.LastUpdate = e.s.now()
	})
}

func (e events) Disconnected(err error) {
	if err != nil {
		slog.Warn("steps_channel_disconnected", "error", err)
	}
	e.s.update(func(st *State) {
		st.IsConnected = false
	})
}

// Total replaces the shown total. A negative total is logged and dropped.
func (e events) Total(n int64) {
	if n < 0 {
		slog.Warn("steps_total_rejected", "total", n)
		return
	}
	e.s.update(func(st *State) {
		st.TotalSteps = n
		st.LastUpdate = e.s.now()
	})
}

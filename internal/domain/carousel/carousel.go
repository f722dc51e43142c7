// Package carousel implements the index state machine behind the photo and
// video galleries: wrap-around navigation, a transition lock that drops
// requests, autoplay, and keyboard/swipe input mapping.
package carousel

import (
	"errors"
	"sync"
	"time"
)

// DefaultTransition is how long a slide change locks out further changes.
const DefaultTransition = 500 * time.Millisecond

// ErrEmpty is returned when a carousel is built without slides.
var ErrEmpty = errors.New("carousel needs at least one slide")

// NextIndex returns the slide after i, wrapping to 0.
// PRE: n >= 1, 0 <= i < n
func NextIndex(i, n int) int {
	return (i + 1) % n
}

// PreviousIndex returns the slide before i, wrapping to n-1.
// PRE: n >= 1, 0 <= i < n
func PreviousIndex(i, n int) int {
	return (i - 1 + n) % n
}

// Option configures a Carousel.
type Option func(*Carousel)

// WithTransition sets the lock window after each accepted change.
// Zero disables the lock.
func WithTransition(d time.Duration) Option {
	return func(c *Carousel) { c.transition = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Carousel) { c.now = now }
}

// WithStart sets the initial slide; out-of-range values fall back to 0.
func WithStart(i int) Option {
	return func(c *Carousel) { c.index = i }
}

// Carousel holds the current slide of a gallery. Changes requested while a
// transition is running are dropped, not queued. Safe for concurrent use so
// that autoplay and user input can drive the same instance.
type Carousel struct {
	mu          sync.Mutex
	index       int
	length      int
	transition  time.Duration
	lockedUntil time.Time
	now         func() time.Time
}

// New creates a carousel over length slides.
// PRE: length >= 1
// POST: Index() is in [0, length)
func New(length int, opts ...Option) (*Carousel, error) {
	if length < 1 {
		return nil, ErrEmpty
	}
	c := &Carousel{length: length, transition: DefaultTransition, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.index < 0 || c.index >= length {
		c.index = 0
	}
	return c, nil
}

// Index returns the current slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Len returns the number of slides.
func (c *Carousel) Len() int {
	return c.length
}

// Next advances one slide, wrapping at the end.
// PRE: none
// POST: Returns the resulting index and whether the request was applied
func (c *Carousel) Next() (int, bool) {
	return c.move(NextIndex)
}

// Previous goes back one slide, wrapping at the start.
// PRE: none
// POST: Returns the resulting index and whether the request was applied
func (c *Carousel) Previous() (int, bool) {
	return c.move(PreviousIndex)
}

// Goto jumps to slide i. Out-of-range targets and requests during a
// transition are dropped.
// PRE: none
// POST: Returns the resulting index and whether the request was applied
func (c *Carousel) Goto(i int) (int, bool) {
	if i < 0 || i >= c.length {
		return c.Index(), false
	}
	return c.move(func(int, int) int { return i })
}

// Locked reports whether a transition is in progress.
func (c *Carousel) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Before(c.lockedUntil)
}

func (c *Carousel) move(step func(i, n int) int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Before(c.lockedUntil) {
		return c.index, false
	}
	c.index = step(c.index, c.length)
	c.lockedUntil = now.Add(c.transition)
	return c.index, true
}

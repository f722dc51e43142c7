package carousel

import (
	"context"
	"time"
)

// DefaultSwipeThreshold is the minimum horizontal travel, in pixels, that
// counts as a swipe.
const DefaultSwipeThreshold = 50

// Action is a navigation intent derived from user input.
type Action int

const (
	ActionNone Action = iota
	ActionPrevious
	ActionNext
	ActionToggleAutoplay
)

// KeyAction maps a keyboard key name to an action. Both the DOM key value
// (" ") and code ("Space") are accepted for the space bar.
func KeyAction(key string) Action {
	switch key {
	case "ArrowLeft":
		return ActionPrevious
	case "ArrowRight":
		return ActionNext
	case " ", "Space", "Spacebar":
		return ActionToggleAutoplay
	default:
		return ActionNone
	}
}

// Swipe tracks one touch gesture.
type Swipe struct {
	Threshold float64
	startX    float64
	active    bool
}

// Begin records where the touch started.
func (s *Swipe) Begin(x float64) {
	s.startX = x
	s.active = true
}

// End finishes the gesture at x. Moving left past the threshold means Next,
// moving right means Previous; shorter moves and End without Begin are ignored.
func (s *Swipe) End(x float64) Action {
	if !s.active {
		return ActionNone
	}
	s.active = false
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	dx := s.startX - x
	switch {
	case dx > threshold:
		return ActionNext
	case -dx > threshold:
		return ActionPrevious
	default:
		return ActionNone
	}
}

// Gallery pairs a carousel with its autoplay timer.
type Gallery struct {
	*Carousel
	Autoplay *Autoplay
}

// NewGallery builds a gallery over length slides.
// PRE: length >= 1
func NewGallery(length int, interval time.Duration, opts ...Option) (*Gallery, error) {
	c, err := New(length, opts...)
	if err != nil {
		return nil, err
	}
	return &Gallery{Carousel: c, Autoplay: NewAutoplay(c, interval)}, nil
}

// Apply performs an input action.
// PRE: none
// POST: Returns the current index and whether the action changed anything
func (g *Gallery) Apply(ctx context.Context, a Action) (int, bool) {
	switch a {
	case ActionNext:
		return g.Next()
	case ActionPrevious:
		return g.Previous()
	case ActionToggleAutoplay:
		g.Autoplay.Toggle(ctx)
		return g.Index(), true
	default:
		return g.Index(), false
	}
}

// HandleKey applies the action bound to key.
func (g *Gallery) HandleKey(ctx context.Context, key string) (int, bool) {
	return g.Apply(ctx, KeyAction(key))
}

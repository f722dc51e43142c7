package carousel

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the autoplay period of the photo gallery.
const DefaultInterval = 5 * time.Second

// Autoplay advances a carousel on a fixed interval until stopped.
type Autoplay struct {
	target   *Carousel
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutoplay binds an autoplay timer to c. A non-positive interval uses
// DefaultInterval.
func NewAutoplay(c *Carousel, interval time.Duration) *Autoplay {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autoplay{target: c, interval: interval}
}

// Start begins advancing. Starting a running autoplay is a no-op.
// The timer stops on Stop or when ctx is cancelled.
// PRE: none
// POST: Running() == true unless ctx is already done
func (a *Autoplay) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				a.clear(done)
				return
			case <-ticker.C:
				a.target.Next()
			}
		}
	}()
}

// Stop cancels the timer and waits for it to exit.
// PRE: none
// POST: Running() == false and no tick fires afterwards
func (a *Autoplay) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Toggle stops a running autoplay or starts a stopped one.
// PRE: none
// POST: Returns the new running state
func (a *Autoplay) Toggle(ctx context.Context) bool {
	if a.Running() {
		a.Stop()
		return false
	}
	a.Start(ctx)
	return true
}

// Running reports whether the timer is active.
func (a *Autoplay) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

// clear forgets the goroutine identified by done when its context ends on
// its own, so a later Start can run again.
func (a *Autoplay) clear(done chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == done {
		a.cancel()
		a.cancel, a.done = nil, nil
	}
}

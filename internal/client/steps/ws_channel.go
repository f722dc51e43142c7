package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	domain "dkl/internal/domain/steps"
)

const (
	wsPath        = "/api/ws/steps?user_id=public"
	totalPath     = "/api/total-steps"
	pollTimeout   = 5 * time.Second
	maxTotalBytes = 4 << 10
)

// WSChannel is a Channel backed by the site's websocket push channel.
// After the reconnect attempts are used up it polls the REST total instead.
type WSChannel struct {
	base   *url.URL
	wsURL  string
	client *http.Client

	baseDelay    time.Duration
	maxDelay     time.Duration
	maxAttempts  int
	pollInterval time.Duration
}

// WSOption configures a WSChannel.
type WSOption func(*WSChannel)

// WithHTTPClient sets the client used for REST polling.
func WithHTTPClient(c *http.Client) WSOption {
	return func(w *WSChannel) { w.client = c }
}

// WithReconnect sets the reconnect backoff and the number of attempts
// before falling back to polling.
func WithReconnect(base, maxDelay time.Duration, attempts int) WSOption {
	return func(w *WSChannel) {
		w.baseDelay = base
		w.maxDelay = maxDelay
		w.maxAttempts = attempts
	}
}

// WithPollInterval sets the REST polling interval.
func WithPollInterval(d time.Duration) WSOption {
	return func(w *WSChannel) { w.pollInterval = d }
}

// NewWSChannel creates a channel for the site at baseURL, e.g.
// "https://www.dekoninklijkeloop.nl".
// PRE: baseURL is an absolute http or https URL
// POST: Returns a channel that has not dialled yet
func NewWSChannel(baseURL string, opts ...WSOption) (*WSChannel, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	var scheme string
	switch u.Scheme {
	case "http":
		scheme = "ws"
	case "https":
		scheme = "wss"
	default:
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	c := &WSChannel{
		base:         u,
		wsURL:        scheme + "://" + u.Host + u.Path + wsPath,
		client:       &http.Client{Timeout: pollTimeout},
		baseDelay:    2 * time.Second,
		maxDelay:     30 * time.Second,
		maxAttempts:  3,
		pollInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Subscribe runs the connection loop in the background until release is
// called or ctx ends. release waits for the loop to exit.
func (c *WSChannel) Subscribe(ctx context.Context, ev Events) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(ctx, ev)
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

func (c *WSChannel) run(ctx context.Context, ev Events) {
	failures := 0
	for {
		connected, err := c.session(ctx, ev)
		if ctx.Err() != nil {
			return
		}
		ev.Disconnected(err)
		if connected {
			failures = 0
		}
		failures++
		if failures > c.maxAttempts {
			break
		}
		delay := c.backoff(failures - 1)
		slog.Warn("steps_ws_reconnect", "attempt", failures, "delay", delay, "error", err)
		if !sleep(ctx, delay) {
			return
		}
	}
	slog.Warn("steps_ws_fallback_polling", "interval", c.pollInterval)
	c.poll(ctx, ev)
}

// backoff returns baseDelay * 1.5^n, capped at maxDelay.
func (c *WSChannel) backoff(n int) time.Duration {
	d := time.Duration(float64(c.baseDelay) * math.Pow(1.5, float64(n)))
	return min(d, c.maxDelay)
}

// session holds one websocket connection until it fails or ctx ends.
// connected reports whether the server's welcome was received.
func (c *WSChannel) session(ctx context.Context, ev Events) (connected bool, err error) {
	cfg, err := websocket.NewConfig(c.wsURL, c.base.String())
	if err != nil {
		return false, fmt.Errorf("steps channel config: %w", err)
	}
	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return false, fmt.Errorf("dial steps channel: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		_ = conn.Close()
	}()

	sub := domain.Frame{Type: domain.TypeSubscribe, Channels: domain.Channels}
	if err := websocket.JSON.Send(conn, sub); err != nil {
		return false, fmt.Errorf("send subscribe: %w", err)
	}

	for {
		var f domain.Frame
		if err := websocket.JSON.Receive(conn, &f); err != nil {
			return connected, fmt.Errorf("read steps frame: %w", err)
		}
		switch f.Type {
		case domain.TypeWelcome:
			if !connected {
				connected = true
				ev.Connected()
			}
		case domain.TypeTotalUpdate:
			switch {
			case f.TotalSteps == nil:
			case *f.TotalSteps < 0:
				slog.Warn("steps_ws_total_rejected", "total", *f.TotalSteps)
			default:
				ev.Total(*f.TotalSteps)
			}
		case domain.TypeStepUpdate:
			slog.Debug("steps_ws_step", "naam", f.Naam, "delta", f.Delta)
		case domain.TypeLeaderboardUpdate:
			slog.Debug("steps_ws_leaderboard", "entries", len(f.TopN))
		case domain.TypePong:
		case domain.TypeError:
			slog.Warn("steps_ws_server_error", "message", f.Message)
		}
	}
}

func (c *WSChannel) poll(ctx context.Context, ev Events) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		total, err := c.fetchTotal(ctx)
		switch {
		case err == nil:
			ev.Total(total)
		case ctx.Err() == nil:
			slog.Warn("steps_poll_failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *WSChannel) fetchTotal(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String()+totalPath, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get total steps: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("get total steps: status %d", resp.StatusCode)
	}
	var body struct {
		TotalSteps *int64 `json:"total_steps"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTotalBytes)).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode total steps: %w", err)
	}
	if body.TotalSteps == nil {
		return 0, errors.New("decode total steps: missing total_steps")
	}
	if *body.TotalSteps < 0 {
		return 0, fmt.Errorf("decode total steps: negative total %d", *body.TotalSteps)
	}
	return *body.TotalSteps, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

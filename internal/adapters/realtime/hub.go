// Package realtime serves the live step counter push channel over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"dkl/internal/adapters/http/perf"
	domain "dkl/internal/domain/steps"
)

const (
	maxFramePayloadBytes   = 16 * 1024
	maxFramesPerSecond     = 40
	maxDecodeErrorsPerConn = 3

	peerBufferSize = 16
	writeTimeout   = 5 * time.Second
)

const welcomeMessage = "Verbonden met de stappenteller"

// TotalSource returns the current step total. It is called when a peer
// subscribes to the total channel.
type TotalSource func(ctx context.Context) (int64, error)

// Hub tracks connected peers and fans counter changes out to the ones
// subscribed to the matching channel.
type Hub struct {
	total     TotalSource
	collector *perf.Collector
	now       func() time.Time

	mu     sync.Mutex
	peers  map[*peer]struct{}
	closed bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithCollector records every broadcast in c.
func WithCollector(c *perf.Collector) Option {
	return func(h *Hub) { h.collector = c }
}

// WithClock overrides the clock used for frame timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

// NewHub creates a hub. total may be nil, in which case new subscribers to
// the total channel wait for the next publish.
func NewHub(total TotalSource, opts ...Option) *Hub {
	h := &Hub{
		total: total,
		now:   time.Now,
		peers: make(map[*peer]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handler returns the websocket endpoint.
func (h *Hub) Handler() http.Handler {
	ws := websocket.Handler(h.serveConn)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ws.ServeHTTP(w, r)
	})
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Close disconnects every peer and rejects new connections.
// PRE: none
// POST: All peer connections are closing; later connections are refused
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	clear(h.peers)
	h.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
}

// PublishTotal sends a total_update frame to total subscribers.
func (h *Hub) PublishTotal(total int64) {
	h.broadcast(domain.ChannelTotal, domain.TotalFrame(total, h.now()))
}

// PublishStep sends a step_update frame to step subscribers.
func (h *Hub) PublishStep(p domain.Participant, delta int64) {
	h.broadcast(domain.ChannelStep, domain.Frame{
		Type:      domain.TypeStepUpdate,
		Naam:      p.Naam,
		Delta:     delta,
		Steps:     p.Steps,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// PublishLeaderboard sends a leaderboard_update frame to leaderboard
// subscribers.
func (h *Hub) PublishLeaderboard(top []domain.Entry) {
	h.broadcast(domain.ChannelLeaderboard, domain.Frame{
		Type:      domain.TypeLeaderboardUpdate,
		TopN:      top,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// broadcast never blocks on a peer: a peer whose buffer is full is dropped.
func (h *Hub) broadcast(channel string, frame domain.Frame) {
	start := time.Now()

	h.mu.Lock()
	targets := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		if p.subscribed(channel) {
			targets = append(targets, p)
		}
	}
	h.mu.Unlock()

	dropped := 0
	for _, p := range targets {
		if !p.enqueue(frame) {
			h.remove(p)
			p.close()
			dropped++
		}
	}
	if dropped > 0 {
		slog.Warn("ws_peers_dropped", "channel", channel, "count", dropped)
	}
	if h.collector != nil {
		h.collector.Record(perf.Entry{
			Kind:       perf.KindBroadcast,
			Path:       channel,
			DurationMs: float64(time.Since(start).Microseconds()) / 1000,
			Timestamp:  start,
		})
	}
}

func (h *Hub) add(p *peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.peers[p] = struct{}{}
	return true
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	delete(h.peers, p)
	h.mu.Unlock()
}

func (h *Hub) serveConn(conn *websocket.Conn) {
	conn.MaxPayloadBytes = maxFramePayloadBytes
	p := newPeer(conn)
	if !h.add(p) {
		_ = conn.Close()
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		p.writeLoop()
	}()
	defer func() {
		h.remove(p)
		p.close()
		<-writerDone
	}()

	p.enqueue(domain.Frame{
		Type:              domain.TypeWelcome,
		Message:           welcomeMessage,
		AvailableChannels: domain.Channels,
	})
	h.readLoop(conn.Request().Context(), p)
}

// readLoop handles inbound frames until the peer leaves or misbehaves.
// Oversized and malformed frames count against both the per-second frame
// budget and the consecutive bad-frame budget.
func (h *Hub) readLoop(ctx context.Context, p *peer) {
	windowStart := time.Now()
	framesInWindow := 0
	badFrames := 0

	for {
		var frame domain.Frame
		err := websocket.JSON.Receive(p.conn, &frame)
		var reject string
		switch {
		case err == nil:
		case errors.Is(err, websocket.ErrFrameTooLarge):
			reject = "frame too large"
		case isDecodeError(err):
			reject = "invalid frame payload"
		default:
			return
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			p.enqueue(errorFrame("rate limit exceeded"))
			return
		}

		if reject != "" {
			badFrames++
			p.enqueue(errorFrame(reject))
			if badFrames >= maxDecodeErrorsPerConn {
				slog.Warn("ws_peer_bad_frames", "remote", p.conn.Request().RemoteAddr, "last", reject)
				return
			}
			continue
		}
		badFrames = 0

		switch frame.Type {
		case domain.TypeSubscribe:
			h.subscribe(ctx, p, frame.Channels)
		case domain.TypeUnsubscribe:
			p.unsubscribe(frame.Channels)
		case domain.TypePing:
			p.enqueue(domain.Frame{Type: domain.TypePong, Timestamp: h.now().UTC().Format(time.RFC3339)})
		default:
			p.enqueue(errorFrame("unsupported frame type"))
		}
	}
}

func (h *Hub) subscribe(ctx context.Context, p *peer, channels []string) {
	for _, ch := range channels {
		if !domain.ValidChannel(ch) {
			p.enqueue(errorFrame(domain.ErrUnknownChannel.Error() + ": " + ch))
			continue
		}
		if !p.join(ch) || ch != domain.ChannelTotal || h.total == nil {
			continue
		}
		total, err := h.total(ctx)
		if err != nil {
			slog.Error("ws_initial_total_failed", "error", err)
			continue
		}
		p.enqueue(domain.TotalFrame(total, h.now()))
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func errorFrame(msg string) domain.Frame {
	return domain.Frame{Type: domain.TypeError, Message: msg}
}

type peer struct {
	conn *websocket.Conn
	send chan domain.Frame
	done chan struct{}
	once sync.Once

	mu       sync.Mutex
	channels map[string]bool
}

func newPeer(conn *websocket.Conn) *peer {
	return &peer{
		conn:     conn,
		send:     make(chan domain.Frame, peerBufferSize),
		done:     make(chan struct{}),
		channels: make(map[string]bool),
	}
}

// join reports whether the channel was newly added.
func (p *peer) join(ch string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channels[ch] {
		return false
	}
	p.channels[ch] = true
	return true
}

func (p *peer) unsubscribe(channels []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range channels {
		delete(p.channels, ch)
	}
}

func (p *peer) subscribed(ch string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channels[ch]
}

func (p *peer) enqueue(f domain.Frame) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.send <- f:
		return true
	default:
		return false
	}
}

func (p *peer) close() {
	p.once.Do(func() { close(p.done) })
}

// writeLoop owns all writes to the connection and closes it on exit, which
// also ends the read loop.
func (p *peer) writeLoop() {
	defer func() { _ = p.conn.Close() }()
	for {
		select {
		case <-p.done:
			p.flush()
			return
		case f := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := websocket.JSON.Send(p.conn, f); err != nil {
				p.close()
				return
			}
		}
	}
}

// flush writes frames still buffered when the peer closes, so a final error
// frame reaches the client before the connection drops.
func (p *peer) flush() {
	for {
		select {
		case f := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := websocket.JSON.Send(p.conn, f); err != nil {
				return
			}
		default:
			return
		}
	}
}

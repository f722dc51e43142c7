// Package perf keeps a bounded window of request, query and broadcast timings
// for the /api/perf endpoint.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind says what was timed.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
	KindBroadcast // one fan-out on the steps push channel
)

// Entry is a single timing.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /api/sponsors", "SELECT sponsors" or a channel name
	StatusCode int    // HTTP status, 0 otherwise
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring of entries. When full, the oldest entry is
// overwritten. Aggregation happens on Snapshot only.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// PRE: none
// POST: size <= 0 selects DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns how many entries were ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregate over one window.
type Snapshot struct {
	Since          time.Time  `json:"since"`
	Requests       int        `json:"requests"`
	ServerErrors   int        `json:"serverErrors"`
	RequestP50Ms   float64    `json:"requestP50Ms"`
	RequestP95Ms   float64    `json:"requestP95Ms"`
	RequestP99Ms   float64    `json:"requestP99Ms"`
	SlowestPaths   []PathStat `json:"slowestPaths"`
	SlowestQueries []PathStat `json:"slowestQueries"`
	Broadcasts     []PathStat `json:"broadcasts"`
}

// PathStat aggregates the timings of one path, query label or channel.
type PathStat struct {
	Path    string  `json:"path"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	TotalMs float64 `json:"-"`
}

// Snapshot aggregates entries recorded at or after since. Each list holds at
// most topN stats, slowest average first.
// PRE: topN > 0
// POST: Returns percentiles over requests in the window
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since}
	var durations []float64
	stats := map[EntryKind]map[string]*PathStat{
		KindRequest:   {},
		KindQuery:     {},
		KindBroadcast: {},
	}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		byPath, ok := stats[e.Kind]
		if !ok {
			continue
		}
		if e.Kind == KindRequest {
			snap.Requests++
			durations = append(durations, e.DurationMs)
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
		}
		s, ok := byPath[e.Path]
		if !ok {
			s = &PathStat{Path: e.Path}
			byPath[e.Path] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = max(s.MaxMs, e.DurationMs)
	}

	snap.SlowestPaths = topByAvg(stats[KindRequest], topN)
	snap.SlowestQueries = topByAvg(stats[KindQuery], topN)
	snap.Broadcasts = topByAvg(stats[KindBroadcast], topN)

	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

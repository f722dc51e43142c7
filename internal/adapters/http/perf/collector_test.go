package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_Snapshot verifies request, query and broadcast timings are
// aggregated separately.
func TestCollector_Snapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /api/sponsors", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /api/sponsors", StatusCode: 500, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT sponsors", DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindBroadcast, Path: "total_updates", DurationMs: 1, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.Requests != 2 {
		t.Errorf("Requests = %d, want 2", snap.Requests)
	}
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", snap.ServerErrors)
	}
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].AvgMs != 20 || snap.SlowestPaths[0].MaxMs != 30 {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Path != "SELECT sponsors" {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
	if len(snap.Broadcasts) != 1 {
		t.Errorf("Broadcasts = %+v", snap.Broadcasts)
	}
	if c.TotalRecorded() != 4 {
		t.Errorf("TotalRecorded = %d, want 4", c.TotalRecorded())
	}
}

// TestCollector_RingOverwrites verifies the ring keeps only the newest entries.
func TestCollector_RingOverwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := range 5 {
		c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.SlowestPaths[0].Count != 3 {
		t.Errorf("Count = %d, want 3", snap.SlowestPaths[0].Count)
	}
	if snap.SlowestPaths[0].AvgMs != 3 {
		t.Errorf("AvgMs = %v, want 3 (entries 2,3,4)", snap.SlowestPaths[0].AvgMs)
	}
}

func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /media", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 49 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP99Ms < 98 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
}

func TestCollector_SinceAndTopN(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 500, Timestamp: now.Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Path: "GET /a", DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /b", DurationMs: 50, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /c", DurationMs: 20, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Hour), 2)
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths len = %d, want 2", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Path != "GET /b" || snap.SlowestPaths[1].Path != "GET /c" {
		t.Errorf("order = %s, %s", snap.SlowestPaths[0].Path, snap.SlowestPaths[1].Path)
	}
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(64)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Record(Entry{Kind: KindQuery, Path: "SELECT photos", DurationMs: 1, Timestamp: time.Now()})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 800 {
		t.Errorf("TotalRecorded = %d, want 800", c.TotalRecorded())
	}
}

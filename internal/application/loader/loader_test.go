package loader_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"dkl/internal/application/loader"
)

func TestResource_LoadOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	r := loader.New("partners", "Er ging iets mis bij het ophalen van de partners", func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"a", "b"}, nil
	})

	if s := r.State(); !s.IsLoading || len(s.Data) != 0 {
		t.Fatalf("initial state = %+v, want loading with no data", s)
	}

	var wg sync.WaitGroup
	results := make([]loader.State[string], 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Load(context.Background())
		}()
	}
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("fetch called %d times, want 1", calls.Load())
	}
	for i, s := range results {
		if s.IsLoading || s.Error != "" || len(s.Data) != 2 {
			t.Errorf("result[%d] = %+v", i, s)
		}
	}
	r.Load(context.Background())
	if calls.Load() != 1 {
		t.Errorf("second Load fetched again")
	}
}

func TestResource_ErrorMessage(t *testing.T) {
	r := loader.New("program", "Kon het programma niet laden.", func(ctx context.Context) ([]int, error) {
		return nil, errors.New("database is locked")
	})
	s := r.Load(context.Background())
	if s.IsLoading || s.Error != "Kon het programma niet laden." {
		t.Errorf("state = %+v", s)
	}
	if s.Data == nil || len(s.Data) != 0 {
		t.Errorf("Data = %#v, want empty non-nil", s.Data)
	}
}

func TestResource_NoAutomaticRetry(t *testing.T) {
	var calls atomic.Int32
	r := loader.New("videos", "fout", func(ctx context.Context) ([]int, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return []int{1}, nil
	})
	r.Load(context.Background())
	if s := r.Load(context.Background()); s.Error == "" || calls.Load() != 1 {
		t.Fatalf("Load retried: calls=%d state=%+v", calls.Load(), s)
	}
	s := r.Refetch(context.Background())
	if s.Error != "" || len(s.Data) != 1 || calls.Load() != 2 {
		t.Errorf("Refetch: calls=%d state=%+v", calls.Load(), s)
	}
}

func TestResource_CloseIgnoresInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	r := loader.New("photos", "fout", func(ctx context.Context) ([]int, error) {
		close(started)
		<-release
		return []int{1, 2, 3}, nil
	})

	done := make(chan loader.State[int])
	go func() { done <- r.Load(context.Background()) }()
	<-started
	r.Close()
	close(release)
	<-done

	if s := r.State(); len(s.Data) != 0 {
		t.Errorf("state after Close = %+v, want no data", s)
	}
	if s := r.Load(context.Background()); len(s.Data) != 0 {
		t.Errorf("Load after Close = %+v, want no data", s)
	}
}

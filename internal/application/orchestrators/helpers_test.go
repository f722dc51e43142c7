package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	emailAdapter "dkl/internal/adapters/email"
)

var testNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var errProvider = errors.New("resend: 503 service unavailable")

// fakeSender records requests and fails when err is set.
type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []emailAdapter.SendRequest
}

func (f *fakeSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return emailAdapter.SendResult{}, f.err
	}
	f.sent = append(f.sent, req)
	return emailAdapter.SendResult{MessageID: fmt.Sprintf("msg_%d", len(f.sent)), SentAt: testNow}, nil
}

func (f *fakeSender) SendBatch(ctx context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	var out []emailAdapter.SendResult
	for _, r := range reqs {
		res, err := f.Send(ctx, r)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (f *fakeSender) requests() []emailAdapter.SendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emailAdapter.SendRequest(nil), f.sent...)
}

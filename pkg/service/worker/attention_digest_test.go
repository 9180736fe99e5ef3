package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/service/worker"
)

type mockSender struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockSender) SendAttentionDigests(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return 1, nil
}

func (m *mockSender) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestAttentionDigestWorker_SendsPeriodically(t *testing.T) {
	sender := &mockSender{}
	w := worker.NewAttentionDigestWorker(sender, 20*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	time.Sleep(110 * time.Millisecond)
	w.Stop()

	gt.Number(t, sender.callCount()).GreaterOrEqual(2)
}

func TestAttentionDigestWorker_ContinuesAfterError(t *testing.T) {
	sender := &mockSender{err: errors.New("slack unavailable")}
	w := worker.NewAttentionDigestWorker(sender, 20*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	time.Sleep(110 * time.Millisecond)
	w.Stop()

	gt.Number(t, sender.callCount()).GreaterOrEqual(2)
}

func TestAttentionDigestWorker_StopsOnContextCancel(t *testing.T) {
	sender := &mockSender{}
	w := worker.NewAttentionDigestWorker(sender, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()
	cancel()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	gt.Value(t, sender.callCount()).Equal(0)
}

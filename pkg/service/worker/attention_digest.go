package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/aegis/pkg/utils/errutil"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

// DefaultDigestInterval is the period between two attention digests
const DefaultDigestInterval = 24 * time.Hour

// DigestSender sends one round of attention digests and returns how many were delivered
type DigestSender interface {
	SendAttentionDigests(ctx context.Context) (int, error)
}

// AttentionDigestWorker periodically posts digests of controls needing attention
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Digests are not sent at startup; the first one goes out after one interval
type AttentionDigestWorker struct {
	sender   DigestSender
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAttentionDigestWorker creates a new worker. A non-positive interval falls back to DefaultDigestInterval.
func NewAttentionDigestWorker(sender DigestSender, interval time.Duration) *AttentionDigestWorker {
	if interval <= 0 {
		interval = DefaultDigestInterval
	}
	return &AttentionDigestWorker{
		sender:   sender,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background digest loop without blocking
func (w *AttentionDigestWorker) Start(ctx context.Context) error {
	logging.From(ctx).Info("attention digest worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *AttentionDigestWorker) Stop() {
	logging.Default().Info("attention digest worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("attention digest worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *AttentionDigestWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.send(ctx)

		case <-w.stopCh:
			logging.Default().Info("attention digest worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("attention digest worker context cancelled")
			return
		}
	}
}

func (w *AttentionDigestWorker) send(ctx context.Context) {
	startTime := time.Now()

	sent, err := w.sender.SendAttentionDigests(ctx)
	if err != nil {
		// Log error but continue worker
		errutil.Handle(ctx, err, "attention digest failed (will retry next interval)")
		return
	}

	logging.From(ctx).Info("attention digests sent",
		"count", sent,
		"duration", time.Since(startTime).String())
}

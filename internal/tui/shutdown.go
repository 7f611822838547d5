package tui

import (
	"context"
	"time"
)

// ShutdownManager coordinates graceful teardown: the receiver drains
// in-flight exports first so the final snapshot sees every event, then
// the aggregator stops, then storage closes.
type ShutdownManager struct {
	// DrainTimeout is the maximum time to wait for in-flight exports.
	DrainTimeout time.Duration

	// StopReceiver stops the OTLP receiver from accepting new connections.
	StopReceiver func(ctx context.Context) error

	// StopAggregator stops the periodic snapshot loop.
	StopAggregator func()

	// Cleanup runs last: close storage, flush pending writes.
	Cleanup func()
}

// NewShutdownManager creates a ShutdownManager with a 5-second drain timeout.
func NewShutdownManager() *ShutdownManager {
	return &ShutdownManager{
		DrainTimeout: 5 * time.Second,
	}
}

// Shutdown runs the teardown sequence. It never blocks longer than
// DrainTimeout on the receiver.
func (sm *ShutdownManager) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sm.DrainTimeout)
	defer cancel()

	if sm.StopReceiver != nil {
		_ = sm.StopReceiver(ctx)
	}

	if sm.StopAggregator != nil {
		sm.StopAggregator()
	}

	if sm.Cleanup != nil {
		sm.Cleanup()
	}

	return nil
}

package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/roitop/roitop/internal/snapshot"
)

const defaultHistoryLimit = 500

// MetricsStore is the storage collaborator surface. Writes are atomic
// with respect to concurrent readers: a reader never observes a
// partially stored snapshot, and LatestMetrics always reflects the most
// recently completed StoreMetrics call.
type MetricsStore interface {
	// Put stores a flat key/value pair.
	Put(key, value string)

	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool)

	// StoreMetrics appends a (possibly partial) snapshot to the history
	// and merges it into the latest record section by section.
	StoreMetrics(snap snapshot.Snapshot)

	// LatestMetrics returns the merged latest snapshot. Sections never
	// stored remain nil.
	LatestMetrics() snapshot.Snapshot

	// MetricsHistory returns up to maxCount snapshots, newest first.
	MetricsHistory(maxCount int) []snapshot.Snapshot

	// ExportData serializes the store contents to JSON text containing a
	// "metrics" field. The output parses back into ExportPayload.
	ExportData() (string, error)

	// Close releases resources and flushes pending writes.
	Close() error
}

// ExportPayload is the shape produced by ExportData.
type ExportPayload struct {
	ExportedAt time.Time           `json:"exported_at"`
	Metrics    snapshot.Snapshot   `json:"metrics"`
	History    []snapshot.Snapshot `json:"history"`
	Values     map[string]string   `json:"values,omitempty"`
}

// MemoryMetricsStore is a thread-safe in-memory MetricsStore. It backs
// the no-persistence fallback and serves as the read cache inside the
// SQLite store.
type MemoryMetricsStore struct {
	mu           sync.RWMutex
	kv           map[string]string
	latest       snapshot.Snapshot
	history      []snapshot.Snapshot // oldest first
	historyLimit int
}

// NewMemoryMetricsStore creates an empty store keeping up to
// historyLimit snapshots (defaultHistoryLimit when <= 0).
func NewMemoryMetricsStore(historyLimit int) *MemoryMetricsStore {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &MemoryMetricsStore{
		kv:           make(map[string]string),
		historyLimit: historyLimit,
	}
}

// Put stores a flat key/value pair.
func (ms *MemoryMetricsStore) Put(key, value string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.kv[key] = value
}

// Get returns the value for key and whether it exists.
func (ms *MemoryMetricsStore) Get(key string) (string, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	v, ok := ms.kv[key]
	return v, ok
}

// StoreMetrics appends snap to the history and merges it into the
// latest record. Empty snapshots are dropped with a warning.
func (ms *MemoryMetricsStore) StoreMetrics(snap snapshot.Snapshot) {
	if snap.IsZero() {
		log.Printf("WARNING: dropping empty metrics snapshot")
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.storeLocked(snap)
}

// storeLocked records snap. Caller must hold ms.mu (write lock).
func (ms *MemoryMetricsStore) storeLocked(snap snapshot.Snapshot) {
	stored := snap.Clone()
	ms.latest = snapshot.Merge(ms.latest, stored)
	ms.history = append(ms.history, stored)
	if len(ms.history) > ms.historyLimit {
		ms.history = ms.history[len(ms.history)-ms.historyLimit:]
	}
}

// LatestMetrics returns the merged latest snapshot.
func (ms *MemoryMetricsStore) LatestMetrics() snapshot.Snapshot {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.latest.Clone()
}

// MetricsHistory returns up to maxCount snapshots, newest first.
func (ms *MemoryMetricsStore) MetricsHistory(maxCount int) []snapshot.Snapshot {
	if maxCount <= 0 {
		return nil
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	n := len(ms.history)
	if maxCount > n {
		maxCount = n
	}
	result := make([]snapshot.Snapshot, 0, maxCount)
	for i := n - 1; i >= n-maxCount; i-- {
		result = append(result, ms.history[i].Clone())
	}
	return result
}

// ExportData serializes the latest snapshot, the retained history, and
// the key/value pairs to indented JSON.
func (ms *MemoryMetricsStore) ExportData() (string, error) {
	ms.mu.RLock()
	payload := ExportPayload{
		ExportedAt: time.Now().UTC(),
		Metrics:    ms.latest.Clone(),
	}
	for i := range ms.history {
		payload.History = append(payload.History, ms.history[i].Clone())
	}
	if len(ms.kv) > 0 {
		payload.Values = make(map[string]string, len(ms.kv))
		for k, v := range ms.kv {
			payload.Values[k] = v
		}
	}
	ms.mu.RUnlock()

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling export payload: %w", err)
	}
	return string(data), nil
}

// Close is a no-op for the in-memory store.
func (ms *MemoryMetricsStore) Close() error {
	return nil
}

package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/roitop/roitop/internal/productivity"
	"github.com/roitop/roitop/internal/quality"
	"github.com/roitop/roitop/internal/roi"
	"github.com/roitop/roitop/internal/snapshot"
)

// recoverState reloads the key/value pairs and the retained snapshot
// history into the memory store at startup. Rows are replayed oldest
// first through the normal store path, so the merged latest record
// after recovery matches what a continuously running process would
// have held.
func (s *SQLiteStore) recoverState() error {
	if err := s.recoverKV(); err != nil {
		return err
	}
	return s.recoverSnapshots()
}

func (s *SQLiteStore) recoverKV() error {
	rows, err := s.db.Query("SELECT key, value FROM kv")
	if err != nil {
		return fmt.Errorf("querying kv pairs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Printf("ERROR: failed to scan kv row: %v", err)
			continue
		}
		s.MemoryMetricsStore.Put(key, value)
	}

	return rows.Err()
}

func (s *SQLiteStore) recoverSnapshots() error {
	rows, err := s.db.Query(`
		SELECT timestamp, quality, productivity, roi FROM (
			SELECT id, timestamp, quality, productivity, roi
			FROM snapshots
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC
	`, s.historyLimit)
	if err != nil {
		return fmt.Errorf("querying snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var failCount int
	for rows.Next() {
		var timestamp string
		var qualityJSON, productivityJSON, roiJSON sql.NullString

		if err := rows.Scan(&timestamp, &qualityJSON, &productivityJSON, &roiJSON); err != nil {
			failCount++
			log.Printf("ERROR: failed to scan snapshot row: %v", err)
			continue
		}

		snap, err := decodeSnapshotRow(timestamp, qualityJSON, productivityJSON, roiJSON)
		if err != nil {
			failCount++
			log.Printf("ERROR: failed to decode snapshot row: %v", err)
			continue
		}
		if snap.IsZero() {
			continue
		}

		s.mu.Lock()
		s.storeLocked(snap)
		s.mu.Unlock()
	}

	if failCount > 0 {
		log.Printf("WARNING: %d snapshots failed to recover from database", failCount)
	}

	return rows.Err()
}

func decodeSnapshotRow(timestamp string, qualityJSON, productivityJSON, roiJSON sql.NullString) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot

	if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
		snap.Timestamp = t
	}

	if qualityJSON.Valid && qualityJSON.String != "" {
		var q quality.Metrics
		if err := json.Unmarshal([]byte(qualityJSON.String), &q); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("unmarshaling quality column: %w", err)
		}
		snap.Quality = &q
	}

	if productivityJSON.Valid && productivityJSON.String != "" {
		var p productivity.Metrics
		if err := json.Unmarshal([]byte(productivityJSON.String), &p); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("unmarshaling productivity column: %w", err)
		}
		snap.Productivity = &p
	}

	if roiJSON.Valid && roiJSON.String != "" {
		var r roi.Metrics
		if err := json.Unmarshal([]byte(roiJSON.String), &r); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("unmarshaling roi column: %w", err)
		}
		snap.ROI = &r
	}

	return snap, nil
}

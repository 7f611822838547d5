package storage

import (
	"database/sql"
	"log"
	"time"

	"github.com/roitop/roitop/internal/snapshot"
)

// QuerySnapshots returns the stored snapshots from the last `days`
// days, newest first. Unlike MetricsHistory this reads the database
// directly, so it can reach past the in-memory history ring.
func (s *SQLiteStore) QuerySnapshots(days int) []snapshot.Snapshot {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339Nano)

	rows, err := s.db.Query(`
		SELECT timestamp, quality, productivity, roi
		FROM snapshots
		WHERE timestamp >= ?
		ORDER BY id DESC
	`, cutoff)
	if err != nil {
		log.Printf("ERROR: querying snapshots: %v", err)
		return nil
	}
	defer func() { _ = rows.Close() }()

	var snaps []snapshot.Snapshot
	for rows.Next() {
		var timestamp string
		var qualityJSON, productivityJSON, roiJSON sql.NullString

		if err := rows.Scan(&timestamp, &qualityJSON, &productivityJSON, &roiJSON); err != nil {
			log.Printf("ERROR: scanning snapshot row: %v", err)
			continue
		}

		snap, err := decodeSnapshotRow(timestamp, qualityJSON, productivityJSON, roiJSON)
		if err != nil {
			log.Printf("ERROR: decoding snapshot row: %v", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		log.Printf("ERROR: iterating snapshot rows: %v", err)
	}
	return snaps
}

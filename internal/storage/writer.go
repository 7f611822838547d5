package storage

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/roitop/roitop/internal/snapshot"
)

// snapshotRow holds the data for a single snapshots row. The three
// analyzer sections are stored as independent JSON columns so partial
// snapshots round-trip with their absent sections still absent.
type snapshotRow struct {
	Timestamp    string
	Quality      interface{} // JSON-marshalable
	Productivity interface{} // JSON-marshalable
	ROI          interface{} // JSON-marshalable
}

func buildSnapshotRow(snap snapshot.Snapshot) *snapshotRow {
	row := &snapshotRow{
		Timestamp: snap.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if snap.Quality != nil {
		row.Quality = snap.Quality
	}
	if snap.Productivity != nil {
		row.Productivity = snap.Productivity
	}
	if snap.ROI != nil {
		row.ROI = snap.ROI
	}
	return row
}

// marshalJSONColumn marshals v to JSON, returning nil on failure and logging the error.
func marshalJSONColumn(name string, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("WARNING: failed to marshal %s JSON: %v", name, err)
		return nil
	}
	if len(data) > 1<<20 {
		log.Printf("WARNING: %s JSON column exceeds 1MB (%d bytes)", name, len(data))
	}
	return string(data)
}

func (s *SQLiteStore) writeKV(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) writeSnapshot(tx *sql.Tx, row *snapshotRow) error {
	_, err := tx.Exec(`
		INSERT INTO snapshots (timestamp, quality, productivity, roi)
		VALUES (?, ?, ?, ?)
	`,
		row.Timestamp,
		marshalJSONColumn("quality", row.Quality),
		marshalJSONColumn("productivity", row.Productivity),
		marshalJSONColumn("roi", row.ROI),
	)
	return err
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/roitop/roitop/internal/snapshot"
)

const (
	writeChannelSize = 1000
	batchSize        = 50
	flushInterval    = 100 * time.Millisecond
)

type writeOp struct {
	opType   string
	key      string
	value    string
	snapshot *snapshotRow
}

// SQLiteStore persists metrics snapshots and key/value pairs to SQLite
// through an asynchronous batched writer. All reads are served from the
// embedded memory store, so readers always see the most recently
// completed write without touching the database.
type SQLiteStore struct {
	*MemoryMetricsStore
	db              *sql.DB
	writeChan       chan writeOp
	droppedWrites   atomic.Int64
	doneChan        chan struct{}
	closed          atomic.Bool
	cancelMaint     context.CancelFunc
	maintenanceDone chan struct{}
}

func NewSQLiteStore(dbPath string, retentionDays, historyLimit int) (*SQLiteStore, error) {
	return newSQLiteStoreWithChannelSize(dbPath, writeChannelSize, retentionDays, historyLimit)
}

func newSQLiteStoreWithChannelSize(dbPath string, chanSize, retentionDays, historyLimit int) (*SQLiteStore, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	store := &SQLiteStore{
		MemoryMetricsStore: NewMemoryMetricsStore(historyLimit),
		db:                 db,
		writeChan:          make(chan writeOp, chanSize),
		doneChan:           make(chan struct{}),
		cancelMaint:        cancel,
		maintenanceDone:    make(chan struct{}),
	}

	if err := store.recoverState(); err != nil {
		cancel()
		_ = db.Close()
		return nil, fmt.Errorf("recovering stored state: %w", err)
	}

	go store.writerLoop()
	store.startMaintenance(ctx, retentionDays)

	return store, nil
}

// Put stores the pair in memory and schedules the durable write.
func (s *SQLiteStore) Put(key, value string) {
	s.MemoryMetricsStore.Put(key, value)

	s.sendWrite(writeOp{
		opType: "kv",
		key:    key,
		value:  value,
	})
}

// StoreMetrics records the snapshot in memory and schedules the durable
// write. The row keeps the snapshot as stored, not the merged latest,
// so history read back from disk matches history served from memory.
func (s *SQLiteStore) StoreMetrics(snap snapshot.Snapshot) {
	if snap.IsZero() {
		log.Printf("WARNING: dropping empty metrics snapshot")
		return
	}

	s.MemoryMetricsStore.StoreMetrics(snap)

	s.sendWrite(writeOp{
		opType:   "snapshot",
		snapshot: buildSnapshotRow(snap),
	})
}

func (s *SQLiteStore) sendWrite(op writeOp) {
	if s.closed.Load() {
		return
	}
	defer func() { _ = recover() }()
	select {
	case s.writeChan <- op:
	default:
		s.droppedWrites.Add(1)
		log.Printf("WARNING: SQLite write channel full, dropped write (type=%s)", op.opType)
	}
}

func (s *SQLiteStore) DroppedWrites() int64 {
	return s.droppedWrites.Load()
}

func (s *SQLiteStore) Close() error {
	// Step 1: Mark closed so no new writes are accepted.
	s.closed.Store(true)

	// Step 2: Cancel maintenance (30s timeout).
	s.cancelMaint()
	select {
	case <-s.maintenanceDone:
	case <-time.After(30 * time.Second):
		log.Printf("WARNING: maintenance goroutine did not stop within 30s")
	}

	// Step 3: Close write channel.
	close(s.writeChan)

	// Step 4: Drain writer (10s timeout).
	select {
	case <-s.doneChan:
	case <-time.After(10 * time.Second):
		log.Printf("ERROR: failed to drain writes within 10s, data may be lost")
	}

	// Step 5: Close database.
	return s.db.Close()
}

func (s *SQLiteStore) writerLoop() {
	defer close(s.doneChan)

	batch := make([]writeOp, 0, batchSize)
	flushTimer := time.NewTimer(flushInterval)
	defer flushTimer.Stop()

	for {
		select {
		case op, ok := <-s.writeChan:
			if !ok {
				if len(batch) > 0 {
					s.flushBatch(batch)
				}
				return
			}

			batch = append(batch, op)

			if len(batch) >= batchSize {
				s.flushBatch(batch)
				batch = batch[:0]
				flushTimer.Reset(flushInterval)
			}

		case <-flushTimer.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
			flushTimer.Reset(flushInterval)
		}
	}
}

func (s *SQLiteStore) flushBatch(batch []writeOp) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("ERROR: failed to begin transaction: %v", err)
		return
	}
	defer func() { _ = tx.Rollback() }()

	for _, op := range batch {
		if err := s.executeOp(tx, op); err != nil {
			log.Printf("ERROR: failed to execute write op (type=%s): %v", op.opType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("ERROR: failed to commit transaction: %v", err)
	}
}

func (s *SQLiteStore) executeOp(tx *sql.Tx, op writeOp) error {
	switch op.opType {
	case "kv":
		return s.writeKV(tx, op.key, op.value)
	case "snapshot":
		return s.writeSnapshot(tx, op.snapshot)
	default:
		return fmt.Errorf("unknown op type: %s", op.opType)
	}
}

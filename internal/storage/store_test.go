package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore_StoreMetrics_PersistsToSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, 7, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	store.StoreMetrics(qualitySnapshot(time.Now()))

	time.Sleep(150 * time.Millisecond)

	db := store.db
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	if err != nil {
		t.Fatalf("failed to query snapshots: %v", err)
	}
	if count != 1 {
		t.Errorf("snapshot not persisted: want 1 row, got %d", count)
	}

	var qualityJSON string
	err = db.QueryRow("SELECT COALESCE(quality, '') FROM snapshots").Scan(&qualityJSON)
	if err != nil {
		t.Fatalf("failed to read quality column: %v", err)
	}
	if qualityJSON == "" {
		t.Error("quality column not persisted")
	}
	var roiJSON any
	err = db.QueryRow("SELECT roi FROM snapshots").Scan(&roiJSON)
	if err != nil {
		t.Fatalf("failed to read roi column: %v", err)
	}
	if roiJSON != nil {
		t.Errorf("absent roi section should persist as NULL, got %v", roiJSON)
	}
}

func TestSQLiteStore_Put_PersistsToSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, 7, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	store.Put("editor", "vscode")
	store.Put("editor", "neovim")

	time.Sleep(150 * time.Millisecond)

	db := store.db
	var value string
	err = db.QueryRow("SELECT value FROM kv WHERE key = ?", "editor").Scan(&value)
	if err != nil {
		t.Fatalf("failed to query kv: %v", err)
	}
	if value != "neovim" {
		t.Errorf("kv upsert failed: want 'neovim', got %q", value)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM kv WHERE key = ?", "editor").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count kv rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected single kv row after upsert, got %d", count)
	}
}

func TestSQLiteStore_BatchFlush50Ops(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, 7, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	start := time.Now()
	for i := 0; i < 50; i++ {
		store.StoreMetrics(qualitySnapshot(time.Now()))
	}

	time.Sleep(50 * time.Millisecond)
	elapsed := time.Since(start)

	db := store.db
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	if err != nil {
		t.Fatalf("failed to query snapshots: %v", err)
	}
	if count != 50 {
		t.Errorf("batch flush failed: want 50 rows, got %d", count)
	}

	if elapsed > 200*time.Millisecond {
		t.Errorf("batch flush too slow: elapsed %v, want <200ms", elapsed)
	}
}

func TestSQLiteStore_TimeFlush100ms(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, 7, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	store.StoreMetrics(qualitySnapshot(time.Now()))

	time.Sleep(150 * time.Millisecond)

	db := store.db
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	if err != nil {
		t.Fatalf("failed to query snapshots: %v", err)
	}
	if count != 1 {
		t.Errorf("time-based flush failed: want 1 row, got %d", count)
	}
}

func TestSQLiteStore_ReadsFromMemory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, 7, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	store.StoreMetrics(qualitySnapshot(time.Now()))

	// No sleep: the latest record is readable before the async flush.
	latest := store.LatestMetrics()
	if latest.Quality == nil {
		t.Fatal("latest snapshot not readable from memory")
	}
	if got := len(store.MetricsHistory(10)); got != 1 {
		t.Errorf("history not readable from memory: want 1, got %d", got)
	}
}

func TestSQLiteStore_WriteErrorDoesNotCrash(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, 7, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	_ = store.db.Close()

	store.StoreMetrics(qualitySnapshot(time.Now()))

	time.Sleep(150 * time.Millisecond)

	if store.LatestMetrics().Quality == nil {
		t.Fatal("latest snapshot lost from memory after write error")
	}

	err = store.Close()
	if err != nil {
		t.Logf("Close returned error (expected due to closed db): %v", err)
	}
}

func TestSQLiteStore_ChannelOverflow_IncrementsCounter(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := newSQLiteStoreWithChannelSize(dbPath, 5, 7, 0)
	if err != nil {
		t.Fatalf("newSQLiteStoreWithChannelSize failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	_ = store.db.Close()

	time.Sleep(50 * time.Millisecond)

	for range 20 {
		store.StoreMetrics(qualitySnapshot(time.Now()))
	}

	time.Sleep(50 * time.Millisecond)

	dropped := store.DroppedWrites()
	if dropped == 0 {
		t.Error("expected DroppedWrites > 0 when channel overflows, got 0")
	}
	t.Logf("Dropped %d writes out of 20 attempted", dropped)
}

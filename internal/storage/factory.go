package storage

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/roitop/roitop/internal/config"
)

// NewStore builds the metrics store described by cfg. An empty DBPath
// selects the in-memory store; a SQLite failure falls back to memory
// with a warning rather than refusing to start. The boolean reports
// whether persistence is active.
func NewStore(cfg config.StorageConfig) (MetricsStore, bool, error) {
	if cfg.DBPath == "" {
		return NewMemoryMetricsStore(cfg.HistoryLimit), false, nil
	}

	dbPath := expandTilde(cfg.DBPath)

	store, err := NewSQLiteStore(dbPath, cfg.RetentionDays, cfg.HistoryLimit)
	if err != nil {
		log.Printf("WARNING: SQLite storage unavailable (%v), falling back to in-memory store", err)
		return NewMemoryMetricsStore(cfg.HistoryLimit), false, nil
	}

	return store, true, nil
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

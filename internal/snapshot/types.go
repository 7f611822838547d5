package snapshot

import (
	"time"

	"github.com/roitop/roitop/internal/productivity"
	"github.com/roitop/roitop/internal/quality"
	"github.com/roitop/roitop/internal/roi"
)

// Snapshot is one aggregated metrics record. Any subset of the three
// analyzer sections may be present; a nil section means that analyzer
// did not contribute to this record.
type Snapshot struct {
	Quality      *quality.Metrics      `json:"quality,omitempty"`
	Productivity *productivity.Metrics `json:"productivity,omitempty"`
	ROI          *roi.Metrics          `json:"roi,omitempty"`
	Timestamp    time.Time             `json:"timestamp"`
}

// IsZero reports whether the snapshot carries no analyzer sections.
func (s Snapshot) IsZero() bool {
	return s.Quality == nil && s.Productivity == nil && s.ROI == nil
}

// Merge overlays update onto base section by section: sections present
// in update win, sections absent in update keep the base value. The
// result carries update's timestamp.
func Merge(base, update Snapshot) Snapshot {
	merged := base
	if update.Quality != nil {
		merged.Quality = update.Quality
	}
	if update.Productivity != nil {
		merged.Productivity = update.Productivity
	}
	if update.ROI != nil {
		merged.ROI = update.ROI
	}
	merged.Timestamp = update.Timestamp
	return merged
}

// Clone returns a deep copy so callers cannot mutate stored sections.
func (s Snapshot) Clone() Snapshot {
	cp := Snapshot{Timestamp: s.Timestamp}
	if s.Quality != nil {
		q := *s.Quality
		cp.Quality = &q
	}
	if s.Productivity != nil {
		p := *s.Productivity
		cp.Productivity = &p
	}
	if s.ROI != nil {
		r := *s.ROI
		cp.ROI = &r
	}
	return cp
}

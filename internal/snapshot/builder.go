// Package snapshot aggregates the three analyzer outputs into a single
// timestamped record for storage and display. Data flows one way:
// collector inputs feed the analyzers, the builder merges their outputs,
// and nothing downstream mutates an analyzer's result.
package snapshot

import (
	"time"

	"github.com/roitop/roitop/internal/collector"
	"github.com/roitop/roitop/internal/productivity"
	"github.com/roitop/roitop/internal/quality"
	"github.com/roitop/roitop/internal/roi"
)

// SessionSource supplies the session snapshots the builder derives
// analyzer inputs from.
type SessionSource interface {
	ListSessions() []collector.SessionData
}

// Builder runs the configured analyzer strategies over collector inputs
// and merges the results into one snapshot. Builders are safe for
// concurrent use as long as the configured analyzers are pure.
type Builder struct {
	quality      quality.Analyzer
	productivity productivity.Analyzer
	roi          roi.Calculator
	now          func() time.Time
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a builder over the three analyzer strategies.
// Any nil analyzer simply leaves its section absent from built
// snapshots; partial snapshots are legal throughout the system.
func NewBuilder(q quality.Analyzer, p productivity.Analyzer, r roi.Calculator, opts ...BuilderOption) *Builder {
	b := &Builder{
		quality:      q,
		productivity: p,
		roi:          r,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives analyzer inputs from the given sessions and produces one
// aggregated snapshot. The ROI section consumes the productivity section,
// so a nil productivity analyzer also disables ROI.
func (b *Builder) Build(src SessionSource) Snapshot {
	in := collector.Derive(src.ListSessions())
	return b.BuildFromInputs(in)
}

// BuildFromInputs produces a snapshot from already-derived inputs.
func (b *Builder) BuildFromInputs(in collector.Inputs) Snapshot {
	snap := Snapshot{Timestamp: b.now()}

	if b.quality != nil {
		q := b.quality.Analyze(in)
		snap.Quality = &q
	}
	if b.productivity != nil {
		p := b.productivity.Analyze(in)
		snap.Productivity = &p

		if b.roi != nil {
			r := b.roi.Calculate(p, in)
			snap.ROI = &r
		}
	}

	return snap
}

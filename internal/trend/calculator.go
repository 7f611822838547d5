// Package trend computes rolling-window drift of the headline scores
// from successive metrics snapshots. It compares the current window
// against the previous one to classify each metric as rising, falling,
// or flat for the dashboard trend strip.
package trend

import (
	"sync"
	"time"

	"github.com/roitop/roitop/internal/snapshot"
)

const (
	// windowDuration is the rolling window used for drift comparison.
	windowDuration = 30 * time.Minute

	// epsilon suppresses jitter around zero drift.
	epsilon = 0.001
)

// Calculator accumulates snapshot observations and derives trend
// directions. All methods are safe for concurrent use.
type Calculator struct {
	mu         sync.Mutex
	thresholds Thresholds
	samples    []sample
}

// NewCalculator creates a Calculator with the given score color
// thresholds.
func NewCalculator(thresholds Thresholds) *Calculator {
	return &Calculator{thresholds: thresholds}
}

// Observe records a snapshot observation at the current time and
// returns the updated trend.
func (c *Calculator) Observe(snap snapshot.Snapshot) Trend {
	return c.ObserveAt(snap, time.Now())
}

// ObserveAt is like Observe but uses a specific timestamp. This is
// primarily useful for testing deterministic behavior.
func (c *Calculator) ObserveAt(snap snapshot.Snapshot, now time.Time) Trend {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := sample{at: now}
	if snap.Productivity != nil {
		s.net = snap.Productivity.NetTimeSavedHours
		s.hasNet = true
	}
	if snap.ROI != nil {
		s.roi = snap.ROI.OverallROI
		s.hasROI = true
	}
	if snap.Quality != nil {
		s.quality = snap.Quality.OverallScore
		s.hasQual = true
	}
	c.samples = append(c.samples, s)

	// Two windows of history are enough for the comparison.
	cutoff := now.Add(-2 * windowDuration)
	c.samples = pruneSamples(c.samples, cutoff)

	return c.trendLocked(now)
}

// Current returns the trend as of now without recording a new sample.
func (c *Calculator) Current() Trend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trendLocked(time.Now())
}

// ColorForScore returns the display color for a 0..1 score based on
// the calculator's configured thresholds.
func (c *Calculator) ColorForScore(score float64) ScoreColor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return colorForScore(score, c.thresholds)
}

// colorForScore is the pure function for threshold comparison. Higher
// scores are better.
func colorForScore(score float64, t Thresholds) ScoreColor {
	switch {
	case score > t.GoodAbove:
		return ColorGreen
	case score > t.WarnAbove:
		return ColorYellow
	default:
		return ColorRed
	}
}

// trendLocked derives the trend from the sample history. Caller must
// hold c.mu.
func (c *Calculator) trendLocked(now time.Time) Trend {
	currentStart := now.Add(-windowDuration)
	prevStart := now.Add(-2 * windowDuration)

	var t Trend
	t.Samples = len(c.samples)

	t.NetTimeSavedHours, t.NetDirection = c.metricDrift(
		prevStart, currentStart, now,
		func(s sample) (float64, bool) { return s.net, s.hasNet },
	)
	t.ROI, t.ROIDirection = c.metricDrift(
		prevStart, currentStart, now,
		func(s sample) (float64, bool) { return s.roi, s.hasROI },
	)
	t.QualityScore, t.QualityDirection = c.metricDrift(
		prevStart, currentStart, now,
		func(s sample) (float64, bool) { return s.quality, s.hasQual },
	)
	return t
}

// metricDrift returns the latest value of a metric and its direction,
// comparing the current window mean against the previous window mean.
func (c *Calculator) metricDrift(prevStart, currentStart, now time.Time, value func(sample) (float64, bool)) (float64, Direction) {
	currentMean, currentN, latest := c.windowMean(currentStart, now, value)
	prevMean, prevN, _ := c.windowMean(prevStart, currentStart, value)

	// Both windows need data for a meaningful comparison.
	if currentN == 0 {
		return latest, Flat
	}
	if prevN == 0 {
		return latest, Flat
	}

	diff := currentMean - prevMean
	switch {
	case diff > epsilon:
		return latest, Up
	case diff < -epsilon:
		return latest, Down
	default:
		return latest, Flat
	}
}

// windowMean computes the mean of a metric over samples within
// (start, end], returning the mean, the sample count, and the latest
// value seen.
func (c *Calculator) windowMean(start, end time.Time, value func(sample) (float64, bool)) (mean float64, n int, latest float64) {
	var sum float64
	var latestAt time.Time
	for i := range c.samples {
		s := &c.samples[i]
		if !s.at.After(start) || s.at.After(end) {
			continue
		}
		v, ok := value(*s)
		if !ok {
			continue
		}
		sum += v
		n++
		if s.at.After(latestAt) {
			latestAt = s.at
			latest = v
		}
	}
	if n > 0 {
		mean = sum / float64(n)
	}
	return mean, n, latest
}

// pruneSamples removes samples older than the cutoff time.
func pruneSamples(samples []sample, cutoff time.Time) []sample {
	n := 0
	for _, s := range samples {
		if !s.at.Before(cutoff) {
			samples[n] = s
			n++
		}
	}
	return samples[:n]
}

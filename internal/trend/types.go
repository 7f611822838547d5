package trend

import "time"

// Direction indicates which way a metric is moving across windows.
type Direction int

const (
	Flat Direction = iota
	Up
	Down
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "flat"
	}
}

// Arrow returns the dashboard glyph for the direction.
func (d Direction) Arrow() string {
	switch d {
	case Up:
		return "↑"
	case Down:
		return "↓"
	default:
		return "→"
	}
}

// Trend holds the rolling-window drift of the headline metrics.
type Trend struct {
	NetTimeSavedHours float64
	NetDirection      Direction

	ROI          float64
	ROIDirection Direction

	QualityScore     float64
	QualityDirection Direction

	Samples int
}

// ScoreColor maps a 0..1 score to a display color.
type ScoreColor int

const (
	ColorGreen ScoreColor = iota
	ColorYellow
	ColorRed
)

// String returns a human-readable name for the color.
func (c ScoreColor) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorRed:
		return "red"
	default:
		return "unknown"
	}
}

// Thresholds configures the score color boundaries. Scores are 0..1
// and higher is better.
type Thresholds struct {
	GoodAbove float64 // score above this is green
	WarnAbove float64 // score above this (but <= GoodAbove) is yellow
}

// DefaultThresholds returns the default score color boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GoodAbove: 0.7,
		WarnAbove: 0.4,
	}
}

// sample records one snapshot observation at a point in time.
type sample struct {
	net     float64
	roi     float64
	quality float64
	hasNet  bool
	hasROI  bool
	hasQual bool
	at      time.Time
}

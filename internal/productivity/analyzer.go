// Package productivity derives task-completion, flow, and value-delivery
// scores from collector inputs. The analyzer is a pure function: it never
// fails, substitutes documented defaults for missing inputs, and produces
// identical output for identical input.
package productivity

import "github.com/roitop/roitop/internal/collector"

// Analyzer produces a productivity snapshot from collector inputs.
type Analyzer interface {
	Analyze(in collector.Inputs) Metrics
}

// Config holds the tunable constants of the computed analyzer. Every
// field carries its unit; zero values are replaced by the documented
// defaults at construction.
type Config struct {
	// Empirical ceiling on observed velocity gain at 100% acceptance
	// (default: 0.26, i.e. 26% faster).
	VelocityCeiling float64

	// Rework rate assumed when no churn telemetry arrived (default: 0.15).
	DefaultReworkRate float64

	// Minutes credited per accepted suggestion (default: 5).
	MinutesSavedPerAcceptedSuggestion float64

	// Minutes spent reviewing each suggestion, accepted or not (default: 2).
	ReviewMinutesPerSuggestion float64

	// Minutes spent fixing each reworked accepted suggestion (default: 15).
	FixMinutesPerReworkedSuggestion float64

	// Self-reported gain per unit of acceptance rate (default: 1.5).
	// Perception consistently overstates the measured gain; the asymmetry
	// against VelocityCeiling is a deliberate modeling choice.
	PerceptionMultiplier float64

	// Accepted-suggestion volume counted as one shipped feature
	// (default: 10). A coarse proxy until issue-tracker data is wired in.
	SuggestionsPerFeature int
}

// DefaultConfig returns the calibrated defaults for the computed analyzer.
func DefaultConfig() Config {
	return Config{
		VelocityCeiling:                   0.26,
		DefaultReworkRate:                 0.15,
		MinutesSavedPerAcceptedSuggestion: 5,
		ReviewMinutesPerSuggestion:        2,
		FixMinutesPerReworkedSuggestion:   15,
		PerceptionMultiplier:              1.5,
		SuggestionsPerFeature:             10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VelocityCeiling == 0 {
		c.VelocityCeiling = d.VelocityCeiling
	}
	if c.DefaultReworkRate == 0 {
		c.DefaultReworkRate = d.DefaultReworkRate
	}
	if c.MinutesSavedPerAcceptedSuggestion == 0 {
		c.MinutesSavedPerAcceptedSuggestion = d.MinutesSavedPerAcceptedSuggestion
	}
	if c.ReviewMinutesPerSuggestion == 0 {
		c.ReviewMinutesPerSuggestion = d.ReviewMinutesPerSuggestion
	}
	if c.FixMinutesPerReworkedSuggestion == 0 {
		c.FixMinutesPerReworkedSuggestion = d.FixMinutesPerReworkedSuggestion
	}
	if c.PerceptionMultiplier == 0 {
		c.PerceptionMultiplier = d.PerceptionMultiplier
	}
	if c.SuggestionsPerFeature == 0 {
		c.SuggestionsPerFeature = d.SuggestionsPerFeature
	}
	return c
}

// Computed is the data-driven analyzer strategy.
type Computed struct {
	cfg Config
}

// NewComputed creates a computed analyzer with zero config fields
// replaced by defaults.
func NewComputed(cfg Config) *Computed {
	return &Computed{cfg: cfg.withDefaults()}
}

// Analyze derives the productivity snapshot from collector inputs.
// Out-of-range inputs are clamped at the boundary: acceptance rate into
// [0,1], suggestion counts to >= 0.
func (a *Computed) Analyze(in collector.Inputs) Metrics {
	cfg := a.cfg

	accept := clamp01(in.AIEvents.AcceptanceRate)
	total := in.AIEvents.TotalSuggestions
	if total < 0 {
		total = 0
	}

	rework := cfg.DefaultReworkRate
	if in.AIEvents.ChurnMeasured {
		rework = clamp01(in.AIEvents.ChurnRate)
	}

	saved := float64(total) * accept * cfg.MinutesSavedPerAcceptedSuggestion / 60
	review := float64(total) * cfg.ReviewMinutesPerSuggestion / 60
	fix := float64(total) * accept * rework * cfg.FixMinutesPerReworkedSuggestion / 60

	velocity := accept * cfg.VelocityCeiling

	return Metrics{
		TaskCompletion: TaskCompletion{
			VelocityChange: velocity,
			// Cycle time needs issue-tracker data; unmeasured for now.
			CycleTimeDays: 0,
			ReworkRate:    rework,
		},
		Flow: FlowEfficiency{
			FocusTimeMinutes: in.Time.FlowMinutes,
			ContextSwitches:  in.Time.ContextSwitches,
			// Wait time needs CI/review latency data; unmeasured for now.
			WaitTimeMinutes: 0,
		},
		ValueDelivery: ValueDelivery{
			FeaturesShipped: total / cfg.SuggestionsPerFeature,
			// Bug rate and customer impact need VCS and tracker data;
			// unmeasured for now.
			BugRate:        0,
			CustomerImpact: 0,
		},
		ActualGain:        velocity,
		PerceivedGain:     accept * cfg.PerceptionMultiplier,
		TimeSavedHours:    saved,
		ReviewTimeHours:   review,
		FixTimeHours:      fix,
		NetTimeSavedHours: saved - (review + fix),
	}
}

// FixedExample is the demo/calibration strategy: it returns the published
// research-baseline snapshot regardless of input. Deployments pick one
// strategy via configuration and never mix the two.
type FixedExample struct{}

// NewFixedExample creates the fixed-example analyzer.
func NewFixedExample() FixedExample {
	return FixedExample{}
}

// Analyze returns the baseline example snapshot. The input is ignored.
func (FixedExample) Analyze(collector.Inputs) Metrics {
	return Metrics{
		TaskCompletion: TaskCompletion{
			VelocityChange: BaselineActualProductivity,
			CycleTimeDays:  0,
			ReworkRate:     0.15,
		},
		Flow: FlowEfficiency{
			FocusTimeMinutes: 90,
			ContextSwitches:  12,
			WaitTimeMinutes:  0,
		},
		ValueDelivery: ValueDelivery{
			FeaturesShipped: 2,
			BugRate:         0,
			CustomerImpact:  0,
		},
		ActualGain:        BaselineActualProductivity,
		PerceivedGain:     BaselinePerceivedProductivity,
		TimeSavedHours:    2.5,
		ReviewTimeHours:   3.1,
		FixTimeHours:      0,
		NetTimeSavedHours: BaselineNetTimeSavedHours,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

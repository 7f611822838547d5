// Package quality derives churn, duplication, complexity, and refactoring
// sub-scores plus one overall quality score from collector inputs. The
// analyzer is pure and total: missing inputs fall back to fixed sentinels
// and every bounded score is clamped into its declared range.
package quality

import "github.com/roitop/roitop/internal/collector"

// Analyzer produces a quality snapshot from collector inputs.
type Analyzer interface {
	Analyze(in collector.Inputs) Metrics
}

// Config holds the heuristic constants of the computed analyzer.
// Zero values are replaced by the documented defaults at construction.
type Config struct {
	// Churn rate assumed when no churn telemetry arrived (default: 0.15).
	// Also the reference point for the trend classification.
	BaselineChurnRate float64

	// Trend tolerance band around the baseline (default: 0.2, i.e. churn
	// within ±20% of baseline reads as stable).
	TrendTolerance float64

	// AI-to-human churn ratio assumed until per-author attribution data
	// is wired in (default: 1.3; AI-authored code churns more).
	AIVsHumanChurnRatio float64

	// Clone rate of the codebase before AI assistance (default: 0.05).
	BaseCloneRate float64

	// Clone-rate growth per unit of acceptance rate (default: 0.08).
	// Accepted suggestions skew toward repeated boilerplate.
	CloneRatePerAcceptance float64

	// Cyclomatic complexity baseline per function (default: 8).
	BaselineCyclomatic float64

	// Cognitive load baseline on the 0-10 scale (default: 3).
	BaselineCognitiveLoad float64

	// Cognitive load added per unit of rework rate (default: 5).
	CognitiveLoadPerRework float64

	// Nesting depth sentinel until AST analysis is wired in (default: 3).
	BaselineNestingDepth float64

	// Fraction of churned AI code that counts as refactoring rather than
	// rework (default: 0.5).
	RefactoringShare float64
}

// DefaultConfig returns the calibrated defaults for the computed analyzer.
func DefaultConfig() Config {
	return Config{
		BaselineChurnRate:      0.15,
		TrendTolerance:         0.2,
		AIVsHumanChurnRatio:    1.3,
		BaseCloneRate:          0.05,
		CloneRatePerAcceptance: 0.08,
		BaselineCyclomatic:     8,
		BaselineCognitiveLoad:  3,
		CognitiveLoadPerRework: 5,
		BaselineNestingDepth:   3,
		RefactoringShare:       0.5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaselineChurnRate == 0 {
		c.BaselineChurnRate = d.BaselineChurnRate
	}
	if c.TrendTolerance == 0 {
		c.TrendTolerance = d.TrendTolerance
	}
	if c.AIVsHumanChurnRatio == 0 {
		c.AIVsHumanChurnRatio = d.AIVsHumanChurnRatio
	}
	if c.BaseCloneRate == 0 {
		c.BaseCloneRate = d.BaseCloneRate
	}
	if c.CloneRatePerAcceptance == 0 {
		c.CloneRatePerAcceptance = d.CloneRatePerAcceptance
	}
	if c.BaselineCyclomatic == 0 {
		c.BaselineCyclomatic = d.BaselineCyclomatic
	}
	if c.BaselineCognitiveLoad == 0 {
		c.BaselineCognitiveLoad = d.BaselineCognitiveLoad
	}
	if c.CognitiveLoadPerRework == 0 {
		c.CognitiveLoadPerRework = d.CognitiveLoadPerRework
	}
	if c.BaselineNestingDepth == 0 {
		c.BaselineNestingDepth = d.BaselineNestingDepth
	}
	if c.RefactoringShare == 0 {
		c.RefactoringShare = d.RefactoringShare
	}
	return c
}

// Sub-score weights for the overall score. Churn dominates because it is
// the only directly measured signal.
const (
	weightChurn       = 0.30
	weightDuplication = 0.25
	weightComplexity  = 0.25
	weightRefactoring = 0.20
)

// Computed is the data-driven analyzer strategy.
type Computed struct {
	cfg Config
}

// NewComputed creates a computed analyzer with zero config fields
// replaced by defaults.
func NewComputed(cfg Config) *Computed {
	return &Computed{cfg: cfg.withDefaults()}
}

// Analyze derives the quality snapshot from collector inputs.
func (a *Computed) Analyze(in collector.Inputs) Metrics {
	cfg := a.cfg

	accept := clamp01(in.AIEvents.AcceptanceRate)

	churnRate := cfg.BaselineChurnRate
	trend := TrendStable
	if in.AIEvents.ChurnMeasured {
		churnRate = clamp01(in.AIEvents.ChurnRate)
		switch {
		case churnRate > cfg.BaselineChurnRate*(1+cfg.TrendTolerance):
			trend = TrendIncreasing
		case churnRate < cfg.BaselineChurnRate*(1-cfg.TrendTolerance):
			trend = TrendDecreasing
		}
	}

	cloneRate := clamp01(cfg.BaseCloneRate + accept*cfg.CloneRatePerAcceptance)

	cyclomatic := cfg.BaselineCyclomatic * (1 + churnRate)
	cognitive := clampRange(cfg.BaselineCognitiveLoad+churnRate*cfg.CognitiveLoadPerRework, 0, 10)

	refactored := clamp01(churnRate * cfg.RefactoringShare)

	overall := clamp01(
		weightChurn*(1-churnRate) +
			weightDuplication*(1-cloneRate) +
			weightComplexity*(1-cognitive/10) +
			weightRefactoring*(1-refactored))

	return Metrics{
		Churn: CodeChurn{
			Rate:      churnRate,
			Trend:     trend,
			AIVsHuman: cfg.AIVsHumanChurnRatio,
		},
		Duplication: Duplication{
			CloneRate:      cloneRate,
			CopyPasteRatio: clamp01(cloneRate * 1.5),
			BeforeAI:       cfg.BaseCloneRate,
			AfterAI:        cloneRate,
		},
		Complexity: Complexity{
			Cyclomatic:            cyclomatic,
			CognitiveLoad:         cognitive,
			NestingDepth:          cfg.BaselineNestingDepth,
			AIGeneratedComplexity: cyclomatic * accept,
		},
		Refactoring: Refactoring{
			Rate:             refactored,
			AICodeRefactored: clamp01(churnRate),
		},
		OverallScore: overall,
	}
}

// FixedExample is the demo/calibration strategy: it returns an
// illustrative snapshot regardless of input.
type FixedExample struct{}

// NewFixedExample creates the fixed-example analyzer.
func NewFixedExample() FixedExample {
	return FixedExample{}
}

// Analyze returns the illustrative example snapshot. The input is ignored.
func (FixedExample) Analyze(collector.Inputs) Metrics {
	return Metrics{
		Churn: CodeChurn{
			Rate:      0.22,
			Trend:     TrendIncreasing,
			AIVsHuman: 1.3,
		},
		Duplication: Duplication{
			CloneRate:      0.12,
			CopyPasteRatio: 0.18,
			BeforeAI:       0.05,
			AfterAI:        0.12,
		},
		Complexity: Complexity{
			Cyclomatic:            9.8,
			CognitiveLoad:         6.5,
			NestingDepth:          3,
			AIGeneratedComplexity: 5.4,
		},
		Refactoring: Refactoring{
			Rate:             0.11,
			AICodeRefactored: 0.22,
		},
		OverallScore: 0.68,
	}
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package roi derives cost-benefit, hidden-cost, and team-impact scores
// plus an overall ROI ratio, break-even horizon, and recommendation from
// a productivity snapshot. The calculator is pure and total: it never
// fails and substitutes documented baselines for missing inputs.
package roi

import (
	"github.com/roitop/roitop/internal/collector"
	"github.com/roitop/roitop/internal/productivity"
)

// Calculator produces an ROI snapshot from a productivity snapshot and
// the raw collector inputs.
type Calculator interface {
	Calculate(p productivity.Metrics, in collector.Inputs) Metrics
}

// Config holds the tunable cost constants. Every dollar field carries
// USD in its name; zero values are replaced by the documented defaults
// at construction.
type Config struct {
	// Annual salary used for deriving the hourly rate (default: $150,000).
	AnnualSalaryUSD float64

	// Benefits multiplier applied to salary (default: 1.3 = 30% benefits).
	BenefitsMultiplier float64

	// Working hours per year for the hourly rate (default: 2080).
	HoursPerYear float64

	// Per-seat monthly license cost (default: $19). Must stay positive;
	// the ROI ratio divides by it.
	LicenseCostMonthlyUSD float64

	// Days in the license billing period (default: 30). Used to convert
	// monthly net value into a break-even horizon.
	BillingPeriodDays float64

	// Dollars of technical debt per unit of churn rate (default: $400/month).
	TechnicalDebtPerChurnUSD float64

	// Maintenance drag per accepted suggestion (default: $0.80).
	MaintenancePerAcceptedSuggestionUSD float64

	// Knowledge-gap cost per unit of acceptance rate (default: $120/month).
	// High acceptance means more code the team never wrote themselves.
	KnowledgeGapPerAcceptanceUSD float64

	// Hidden-cost baselines used when no telemetry arrived (defaults:
	// $50 debt, $30 maintenance, $40 knowledge gaps).
	BaselineTechnicalDebtUSD float64
	BaselineMaintenanceUSD   float64
	BaselineKnowledgeGapsUSD float64

	// Onboarding cost baseline per seat (default: $75/month).
	OnboardingCostUSD float64

	// Collaboration friction per context switch (default: 0.01, clamped
	// to [0,1]).
	FrictionPerContextSwitch float64

	// Recommendation ladder thresholds over the ROI ratio. Strong above
	// 3.0, positive above 1.0, marginal above 0, negative otherwise.
	StrongROIThreshold   float64
	PositiveROIThreshold float64
}

// DefaultConfig returns the calibrated defaults for the calculator.
func DefaultConfig() Config {
	return Config{
		AnnualSalaryUSD:                     150000,
		BenefitsMultiplier:                  1.3,
		HoursPerYear:                        2080,
		LicenseCostMonthlyUSD:               19,
		BillingPeriodDays:                   30,
		TechnicalDebtPerChurnUSD:            400,
		MaintenancePerAcceptedSuggestionUSD: 0.80,
		KnowledgeGapPerAcceptanceUSD:        120,
		BaselineTechnicalDebtUSD:            50,
		BaselineMaintenanceUSD:              30,
		BaselineKnowledgeGapsUSD:            40,
		OnboardingCostUSD:                   75,
		FrictionPerContextSwitch:            0.01,
		StrongROIThreshold:                  3.0,
		PositiveROIThreshold:                1.0,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AnnualSalaryUSD == 0 {
		c.AnnualSalaryUSD = d.AnnualSalaryUSD
	}
	if c.BenefitsMultiplier == 0 {
		c.BenefitsMultiplier = d.BenefitsMultiplier
	}
	if c.HoursPerYear == 0 {
		c.HoursPerYear = d.HoursPerYear
	}
	if c.LicenseCostMonthlyUSD <= 0 {
		c.LicenseCostMonthlyUSD = d.LicenseCostMonthlyUSD
	}
	if c.BillingPeriodDays == 0 {
		c.BillingPeriodDays = d.BillingPeriodDays
	}
	if c.TechnicalDebtPerChurnUSD == 0 {
		c.TechnicalDebtPerChurnUSD = d.TechnicalDebtPerChurnUSD
	}
	if c.MaintenancePerAcceptedSuggestionUSD == 0 {
		c.MaintenancePerAcceptedSuggestionUSD = d.MaintenancePerAcceptedSuggestionUSD
	}
	if c.KnowledgeGapPerAcceptanceUSD == 0 {
		c.KnowledgeGapPerAcceptanceUSD = d.KnowledgeGapPerAcceptanceUSD
	}
	if c.BaselineTechnicalDebtUSD == 0 {
		c.BaselineTechnicalDebtUSD = d.BaselineTechnicalDebtUSD
	}
	if c.BaselineMaintenanceUSD == 0 {
		c.BaselineMaintenanceUSD = d.BaselineMaintenanceUSD
	}
	if c.BaselineKnowledgeGapsUSD == 0 {
		c.BaselineKnowledgeGapsUSD = d.BaselineKnowledgeGapsUSD
	}
	if c.OnboardingCostUSD == 0 {
		c.OnboardingCostUSD = d.OnboardingCostUSD
	}
	if c.FrictionPerContextSwitch == 0 {
		c.FrictionPerContextSwitch = d.FrictionPerContextSwitch
	}
	if c.StrongROIThreshold == 0 {
		c.StrongROIThreshold = d.StrongROIThreshold
	}
	if c.PositiveROIThreshold == 0 {
		c.PositiveROIThreshold = d.PositiveROIThreshold
	}
	return c
}

// HourlyRateUSD derives the loaded hourly rate from salary, benefits,
// and hours per year.
func (c Config) HourlyRateUSD() float64 {
	if c.HoursPerYear == 0 {
		return 0
	}
	return c.AnnualSalaryUSD * c.BenefitsMultiplier / c.HoursPerYear
}

// TierFor maps an ROI ratio onto the recommendation ladder. The mapping
// is a deterministic threshold ladder: higher ROI never yields a lower
// tier.
func (c Config) TierFor(overallROI float64) Tier {
	switch {
	case overallROI > c.StrongROIThreshold:
		return TierStrong
	case overallROI > c.PositiveROIThreshold:
		return TierPositive
	case overallROI > 0:
		return TierMarginal
	default:
		return TierNegative
	}
}

// Computed is the data-driven calculator strategy.
type Computed struct {
	cfg Config
}

// NewComputed creates a computed calculator with zero config fields
// replaced by defaults.
func NewComputed(cfg Config) *Computed {
	return &Computed{cfg: cfg.withDefaults()}
}

// Calculate derives the ROI snapshot. The saved/wasted split comes from
// the productivity time accounting, so saved minus wasted equals the
// observed net. BreakEvenDays is infinite exactly when OverallROI <= 0;
// that is a hard branch, not an approximation.
func (a *Computed) Calculate(p productivity.Metrics, in collector.Inputs) Metrics {
	cfg := a.cfg

	saved := nonNegative(p.TimeSavedHours)
	wasted := nonNegative(p.ReviewTimeHours) + nonNegative(p.FixTimeHours)
	netValue := (saved - wasted) * cfg.HourlyRateUSD()

	hidden := a.hiddenCosts(in)

	overallROI := netValue / (cfg.LicenseCostMonthlyUSD + hidden.Total())

	breakEven := Never()
	if overallROI > 0 {
		// Days until the cumulative net value covers one license period.
		dailyNetValue := netValue / cfg.BillingPeriodDays
		breakEven = BreakEven(cfg.LicenseCostMonthlyUSD / dailyNetValue)
	}

	friction := clamp01(float64(in.Time.ContextSwitches) * cfg.FrictionPerContextSwitch)

	tier := cfg.TierFor(overallROI)

	return Metrics{
		CostBenefit: CostBenefit{
			LicenseCostMonthlyUSD: cfg.LicenseCostMonthlyUSD,
			TimeSavedHours:        saved,
			TimeWastedHours:       wasted,
			NetValueUSD:           netValue,
		},
		HiddenCosts: hidden,
		TeamImpact: TeamImpact{
			ReviewTimeHours:       nonNegative(p.ReviewTimeHours),
			OnboardingCostUSD:     cfg.OnboardingCostUSD,
			CollaborationFriction: friction,
		},
		OverallROI:     overallROI,
		BreakEvenDays:  breakEven,
		Recommendation: tier.Recommendation(),
	}
}

// hiddenCosts scales debt, maintenance, and knowledge-gap estimates from
// churn and acceptance signals, falling back to fixed baselines when the
// telemetry never arrived.
func (a *Computed) hiddenCosts(in collector.Inputs) HiddenCosts {
	cfg := a.cfg

	accept := clamp01(in.AIEvents.AcceptanceRate)
	total := in.AIEvents.TotalSuggestions
	if total < 0 {
		total = 0
	}

	if !in.AIEvents.ChurnMeasured && total == 0 {
		return HiddenCosts{
			TechnicalDebtUSD:     cfg.BaselineTechnicalDebtUSD,
			MaintenanceBurdenUSD: cfg.BaselineMaintenanceUSD,
			KnowledgeGapsUSD:     cfg.BaselineKnowledgeGapsUSD,
		}
	}

	churn := clamp01(in.AIEvents.ChurnRate)
	if !in.AIEvents.ChurnMeasured {
		churn = 0
	}

	return HiddenCosts{
		TechnicalDebtUSD:     nonNegative(churn * cfg.TechnicalDebtPerChurnUSD),
		MaintenanceBurdenUSD: nonNegative(float64(total) * accept * cfg.MaintenancePerAcceptedSuggestionUSD),
		KnowledgeGapsUSD:     nonNegative(accept * cfg.KnowledgeGapPerAcceptanceUSD),
	}
}

// FixedExample is the demo/calibration strategy: it returns an
// illustrative snapshot regardless of input.
type FixedExample struct{}

// NewFixedExample creates the fixed-example calculator.
func NewFixedExample() FixedExample {
	return FixedExample{}
}

// Calculate returns the illustrative example snapshot. Inputs are ignored.
func (FixedExample) Calculate(productivity.Metrics, collector.Inputs) Metrics {
	return Metrics{
		CostBenefit: CostBenefit{
			LicenseCostMonthlyUSD: 19,
			TimeSavedHours:        2.5,
			TimeWastedHours:       3.1,
			NetValueUSD:           -56.25,
		},
		HiddenCosts: HiddenCosts{
			TechnicalDebtUSD:     50,
			MaintenanceBurdenUSD: 30,
			KnowledgeGapsUSD:     40,
		},
		TeamImpact: TeamImpact{
			ReviewTimeHours:       3.1,
			OnboardingCostUSD:     75,
			CollaborationFriction: 0.12,
		},
		OverallROI:     -0.4,
		BreakEvenDays:  Never(),
		Recommendation: TierNegative.Recommendation(),
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

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

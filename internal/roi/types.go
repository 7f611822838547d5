package roi

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// CostBenefit captures the dollar accounting of a single seat.
type CostBenefit struct {
	LicenseCostMonthlyUSD float64 `json:"licenseCost"`
	TimeSavedHours        float64 `json:"timeSaved"`
	TimeWastedHours       float64 `json:"timeWasted"`
	NetValueUSD           float64 `json:"netValue"`
}

// HiddenCosts captures non-obvious drag, in dollars. All fields are
// non-negative estimates.
type HiddenCosts struct {
	TechnicalDebtUSD     float64 `json:"technicalDebt"`
	MaintenanceBurdenUSD float64 `json:"maintenanceBurden"`
	KnowledgeGapsUSD     float64 `json:"knowledgeGaps"`
}

// Total returns the sum of all hidden cost components.
func (h HiddenCosts) Total() float64 {
	return h.TechnicalDebtUSD + h.MaintenanceBurdenUSD + h.KnowledgeGapsUSD
}

// TeamImpact captures effects beyond the individual seat.
type TeamImpact struct {
	ReviewTimeHours       float64 `json:"reviewTime"`
	OnboardingCostUSD     float64 `json:"onboardingCost"`
	CollaborationFriction float64 `json:"collaborationFriction"`
}

// BreakEven is a day count that may be infinite. Infinity marshals as
// the JSON string "never" so snapshots survive the JSON round trip;
// encoding/json rejects +Inf as a bare number.
type BreakEven float64

// Never is the infinite break-even horizon: benefit never exceeds cost.
func Never() BreakEven {
	return BreakEven(math.Inf(1))
}

// IsNever reports whether the horizon is infinite.
func (b BreakEven) IsNever() bool {
	return math.IsInf(float64(b), 1)
}

// Days returns the horizon as a float64, +Inf when never.
func (b BreakEven) Days() float64 {
	return float64(b)
}

// MarshalJSON encodes finite horizons as numbers and infinity as "never".
func (b BreakEven) MarshalJSON() ([]byte, error) {
	if b.IsNever() {
		return []byte(`"never"`), nil
	}
	return []byte(strconv.FormatFloat(float64(b), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts either a number or the string "never".
func (b *BreakEven) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`"never"`)) {
		*b = Never()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parsing break-even days: %w", err)
	}
	*b = BreakEven(v)
	return nil
}

// Tier is the position of a recommendation in the fixed four-step ladder.
// Higher ROI never maps to a lower tier.
type Tier int

const (
	TierNegative Tier = iota
	TierMarginal
	TierPositive
	TierStrong
)

// Recommendation texts, one per tier. The vocabulary is fixed; the
// dashboard and exports rely on these exact strings.
var recommendations = [...]string{
	TierNegative: "Negative ROI: AI assistance is costing more than it saves",
	TierMarginal: "Marginal ROI: review suggestion quality before renewing seats",
	TierPositive: "Positive ROI: keep current adoption and monitor churn",
	TierStrong:   "Strong ROI: expand AI-assist adoption across the team",
}

// Recommendation returns the fixed text for the tier.
func (t Tier) Recommendation() string {
	if t < TierNegative || t > TierStrong {
		return recommendations[TierNegative]
	}
	return recommendations[t]
}

// Metrics is the full ROI snapshot.
type Metrics struct {
	CostBenefit CostBenefit `json:"costBenefit"`
	HiddenCosts HiddenCosts `json:"hiddenCosts"`
	TeamImpact  TeamImpact  `json:"teamImpact"`

	OverallROI     float64   `json:"overallROI"`
	BreakEvenDays  BreakEven `json:"breakEvenDays"`
	Recommendation string    `json:"recommendation"`
}

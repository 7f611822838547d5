package tui

import (
	"strings"
	"testing"

	"github.com/roitop/roitop/internal/productivity"
	"github.com/roitop/roitop/internal/quality"
	"github.com/roitop/roitop/internal/roi"
)

func TestRenderSections_NilMetrics(t *testing.T) {
	m := newTestModel()

	for name, section := range map[string]string{
		"productivity": m.renderProductivitySection(nil),
		"quality":      m.renderQualitySection(nil),
		"roi":          m.renderROISection(nil),
	} {
		if !strings.Contains(section, "No data yet") {
			t.Errorf("%s section missing placeholder:\n%s", name, section)
		}
	}
}

func TestRenderProductivitySection(t *testing.T) {
	m := newTestModel()
	p := &productivity.Metrics{
		TimeSavedHours:    5.0,
		ReviewTimeHours:   1.0,
		FixTimeHours:      0.5,
		NetTimeSavedHours: 3.5,
	}
	p.TaskCompletion.VelocityChange = 0.25
	p.Flow.ContextSwitches = 7

	out := stripAnsi(m.renderProductivitySection(p))
	if !strings.Contains(out, "Net time saved:   +3.5h") {
		t.Errorf("section missing net hours:\n%s", out)
	}
	if !strings.Contains(out, "Velocity change:  +25%") {
		t.Errorf("section missing velocity:\n%s", out)
	}
	if !strings.Contains(out, "Context switches: 7") {
		t.Errorf("section missing context switches:\n%s", out)
	}
}

func TestRenderQualitySection(t *testing.T) {
	m := newTestModel()
	q := &quality.Metrics{OverallScore: 0.85}
	q.Churn.Rate = 0.3
	q.Churn.Trend = quality.TrendIncreasing
	q.Complexity.CognitiveLoad = 4.2

	out := stripAnsi(m.renderQualitySection(q))
	if !strings.Contains(out, "(increasing)") {
		t.Errorf("section missing churn trend:\n%s", out)
	}
	if !strings.Contains(out, "85%") {
		t.Errorf("section missing overall score:\n%s", out)
	}
}

func TestRenderROISection(t *testing.T) {
	m := newTestModel()
	r := &roi.Metrics{
		OverallROI:     1.4,
		BreakEvenDays:  roi.Never(),
		Recommendation: "Keep the seat; net value is positive.",
	}
	r.CostBenefit.LicenseCostMonthlyUSD = 19.0

	out := stripAnsi(m.renderROISection(r))
	if !strings.Contains(out, "Overall ROI:      1.40x") {
		t.Errorf("section missing ROI:\n%s", out)
	}
	if !strings.Contains(out, "Break-even:       never") {
		t.Errorf("section missing break-even:\n%s", out)
	}
	if !strings.Contains(out, "Keep the seat") {
		t.Errorf("section missing recommendation:\n%s", out)
	}
}

func TestRenderMeterBar(t *testing.T) {
	t.Run("clamps out-of-range ratios", func(t *testing.T) {
		full := stripAnsi(renderMeterBar(1.5, 10))
		if full != strings.Repeat("█", 10) {
			t.Errorf("overfull bar = %q", full)
		}
		empty := stripAnsi(renderMeterBar(-0.5, 10))
		if empty != strings.Repeat("░", 10) {
			t.Errorf("negative bar = %q", empty)
		}
	})

	t.Run("partial fill", func(t *testing.T) {
		bar := stripAnsi(renderMeterBar(0.5, 10))
		if bar != strings.Repeat("█", 5)+strings.Repeat("░", 5) {
			t.Errorf("half bar = %q", bar)
		}
	})
}

package collector

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDerive_Empty(t *testing.T) {
	in := Derive(nil)

	if in.AIEvents.TotalSuggestions != 0 {
		t.Errorf("expected TotalSuggestions=0, got %d", in.AIEvents.TotalSuggestions)
	}
	if in.AIEvents.AcceptanceRate != 0 {
		t.Errorf("expected AcceptanceRate=0, got %f", in.AIEvents.AcceptanceRate)
	}
	if in.AIEvents.ChurnMeasured {
		t.Error("expected ChurnMeasured=false with no telemetry")
	}
	if in.Time.FlowEfficiency != 0 {
		t.Errorf("expected FlowEfficiency=0, got %f", in.Time.FlowEfficiency)
	}
}

func TestDerive_AcceptanceRateAcrossSessions(t *testing.T) {
	sessions := []SessionData{
		{SuggestionsShown: 10, SuggestionsAccepted: 4},
		{SuggestionsShown: 30, SuggestionsAccepted: 12},
	}

	in := Derive(sessions)

	if in.AIEvents.TotalSuggestions != 40 {
		t.Errorf("expected TotalSuggestions=40, got %d", in.AIEvents.TotalSuggestions)
	}
	// 16 accepted / 40 shown = 0.4.
	if !almostEqual(in.AIEvents.AcceptanceRate, 0.4) {
		t.Errorf("expected AcceptanceRate=0.4, got %f", in.AIEvents.AcceptanceRate)
	}
}

func TestDerive_ChurnUnmeasuredWithoutRewrittenSamples(t *testing.T) {
	sessions := []SessionData{
		{
			LinesAdded:   100,
			LinesRemoved: 20,
		},
	}

	in := Derive(sessions)

	if in.AIEvents.ChurnMeasured {
		t.Error("expected ChurnMeasured=false without rewritten-lines telemetry")
	}
	if in.AIEvents.ChurnRate != 0 {
		t.Errorf("expected ChurnRate=0, got %f", in.AIEvents.ChurnRate)
	}
}

func TestDerive_ChurnMeasuredFromRewrittenSamples(t *testing.T) {
	sessions := []SessionData{
		{
			LinesAdded:     200,
			LinesRewritten: 30,
			Metrics: []Metric{
				{
					Name:       "ai_assist.lines_of_code.count",
					Value:      30,
					Attributes: map[string]string{"type": "rewritten"},
				},
			},
		},
	}

	in := Derive(sessions)

	if !in.AIEvents.ChurnMeasured {
		t.Fatal("expected ChurnMeasured=true with a rewritten-lines sample")
	}
	// 30 rewritten / 200 added = 0.15.
	if !almostEqual(in.AIEvents.ChurnRate, 0.15) {
		t.Errorf("expected ChurnRate=0.15, got %f", in.AIEvents.ChurnRate)
	}
}

func TestDerive_ZeroValuedRewrittenSampleStillMeasures(t *testing.T) {
	sessions := []SessionData{
		{
			LinesAdded: 50,
			Metrics: []Metric{
				{
					Name:       "ai_assist.lines_of_code.count",
					Value:      0,
					Attributes: map[string]string{"type": "rewritten"},
				},
			},
		},
	}

	in := Derive(sessions)

	if !in.AIEvents.ChurnMeasured {
		t.Error("expected ChurnMeasured=true even for a zero-valued sample")
	}
	if in.AIEvents.ChurnRate != 0 {
		t.Errorf("expected ChurnRate=0, got %f", in.AIEvents.ChurnRate)
	}
}

func TestDerive_CodeTotals(t *testing.T) {
	sessions := []SessionData{
		{LinesAdded: 100, LinesRemoved: 10, LinesRewritten: 5},
		{LinesAdded: 60, LinesRemoved: 30, LinesRewritten: 15},
	}

	in := Derive(sessions)

	if in.Code.LinesAdded != 160 {
		t.Errorf("expected LinesAdded=160, got %d", in.Code.LinesAdded)
	}
	if in.Code.LinesRemoved != 40 {
		t.Errorf("expected LinesRemoved=40, got %d", in.Code.LinesRemoved)
	}
	if in.Code.LinesRewritten != 20 {
		t.Errorf("expected LinesRewritten=20, got %d", in.Code.LinesRewritten)
	}
}

func TestDerive_TimeMetrics(t *testing.T) {
	sessions := []SessionData{
		{
			ActiveTime:      30 * time.Minute,
			FlowTime:        18 * time.Minute,
			ContextSwitches: 4,
		},
		{
			ActiveTime:      10 * time.Minute,
			FlowTime:        6 * time.Minute,
			ContextSwitches: 2,
		},
	}

	in := Derive(sessions)

	if !almostEqual(in.Time.ActiveMinutes, 40) {
		t.Errorf("expected ActiveMinutes=40, got %f", in.Time.ActiveMinutes)
	}
	if !almostEqual(in.Time.FlowMinutes, 24) {
		t.Errorf("expected FlowMinutes=24, got %f", in.Time.FlowMinutes)
	}
	// 24/40 = 0.6.
	if !almostEqual(in.Time.FlowEfficiency, 0.6) {
		t.Errorf("expected FlowEfficiency=0.6, got %f", in.Time.FlowEfficiency)
	}
	if in.Time.ContextSwitches != 6 {
		t.Errorf("expected ContextSwitches=6, got %d", in.Time.ContextSwitches)
	}
}

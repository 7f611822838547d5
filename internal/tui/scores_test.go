package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/roitop/roitop/internal/productivity"
	"github.com/roitop/roitop/internal/roi"
	"github.com/roitop/roitop/internal/snapshot"
)

func TestDigitWidth(t *testing.T) {
	cases := []struct {
		s     string
		charW int
		want  int
	}{
		{"", 6, 2},
		{"5", 6, 8},        // 2 + 6
		{"2.5", 6, 22},     // 2 + 3*6 + 2
		{"12.0", 4, 21},    // 2 + 4*4 + 3
	}

	for _, tc := range cases {
		if got := digitWidth(tc.s, tc.charW); got != tc.want {
			t.Errorf("digitWidth(%q, %d) = %d, want %d", tc.s, tc.charW, got, tc.want)
		}
	}
}

func TestRenderNetDisplay_PicksFontBySpace(t *testing.T) {
	t.Run("large font when tall enough", func(t *testing.T) {
		out := renderNetDisplay("2.5", "+", 6, 80, scoreGreenStyle)
		if lines := strings.Count(out, "\n") + 1; lines != 5 {
			t.Errorf("large display has %d rows, want 5", lines)
		}
	})

	t.Run("medium font when short", func(t *testing.T) {
		out := renderNetDisplay("2.5", "+", 3, 80, scoreGreenStyle)
		if lines := strings.Count(out, "\n") + 1; lines != 3 {
			t.Errorf("medium display has %d rows, want 3", lines)
		}
	})

	t.Run("plain fallback when cramped", func(t *testing.T) {
		out := stripAnsi(renderNetDisplay("2.5", "-", 1, 10, scoreRedStyle))
		if out != "-2.5h" {
			t.Errorf("fallback = %q, want -2.5h", out)
		}
	})

	t.Run("narrow width falls back even when tall", func(t *testing.T) {
		out := stripAnsi(renderNetDisplay("1234.5", "+", 6, 12, scoreGreenStyle))
		if out != "+1234.5h" {
			t.Errorf("narrow fallback = %q, want +1234.5h", out)
		}
	})
}

func TestRenderDigitFont_SignAndUnit(t *testing.T) {
	out := stripAnsi(renderDigitFont("7", "-", digitFontMedium, 3, scoreRedStyle))
	rows := strings.Split(out, "\n")
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !strings.HasPrefix(rows[1], "-") || !strings.HasSuffix(rows[1], "h") {
		t.Errorf("middle row = %q, want sign prefix and h suffix", rows[1])
	}
	if strings.HasPrefix(rows[0], "-") {
		t.Errorf("top row = %q, should not carry the sign", rows[0])
	}
}

func TestStyleForROI(t *testing.T) {
	m := newTestModel()

	if m.styleForROI(1.5).Render("x") != scoreGreenStyle.Render("x") {
		t.Error("ROI above 1 should be green")
	}
	if m.styleForROI(0.5).Render("x") != scoreYellowStyle.Render("x") {
		t.Error("ROI between 0 and 1 should be yellow")
	}
	if m.styleForROI(-0.2).Render("x") != scoreRedStyle.Render("x") {
		t.Error("negative ROI should be red")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}

	for _, tc := range cases {
		if got := formatNumber(tc.n); got != tc.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestRenderScorePanel_WaitingForTelemetry(t *testing.T) {
	m := newTestModel()
	out := stripAnsi(m.renderScorePanel(50, 12))
	if !strings.Contains(out, "Waiting for telemetry") {
		t.Errorf("panel missing waiting message:\n%s", out)
	}
	if !strings.Contains(out, "ROI —") {
		t.Errorf("panel missing ROI placeholder:\n%s", out)
	}
}

func TestRenderScorePanel_WithMetrics(t *testing.T) {
	m := newTestModel()
	m.cachedSnapshot = snapshot.Snapshot{
		Productivity: &productivity.Metrics{NetTimeSavedHours: 3.2},
		ROI: &roi.Metrics{
			OverallROI:    1.4,
			BreakEvenDays: roi.BreakEven(12),
		},
		Timestamp: time.Now(),
	}

	out := stripAnsi(m.renderScorePanel(60, 14))
	if !strings.Contains(out, "ROI 1.40x") {
		t.Errorf("panel missing ROI line:\n%s", out)
	}
	if !strings.Contains(out, "Break-even: 12 days") {
		t.Errorf("panel missing break-even line:\n%s", out)
	}
}

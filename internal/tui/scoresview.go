package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roitop/roitop/internal/productivity"
	"github.com/roitop/roitop/internal/quality"
	"github.com/roitop/roitop/internal/roi"
)

// renderScoresView renders the full-screen score breakdown: every
// sub-metric of the quality, productivity, and ROI snapshots.
func (m Model) renderScoresView() string {
	var sb strings.Builder

	viewLabel := " [Scores] Global"
	indicators := m.headerIndicators()
	help := "Tab:History  q:Quit "
	padding := m.width - lipgloss.Width(" roitop") - lipgloss.Width(viewLabel) - lipgloss.Width(indicators) - lipgloss.Width(help)
	if padding < 0 {
		padding = 0
	}
	headerLine := headerStyle.Width(m.width).Render(
		" roitop" + viewLabel + indicators + strings.Repeat(" ", padding) + help)
	sb.WriteString(headerLine)
	sb.WriteByte('\n')

	snap := m.cachedSnapshot

	sections := []string{
		m.renderProductivitySection(snap.Productivity),
		m.renderQualitySection(snap.Quality),
		m.renderROISection(snap.ROI),
	}

	allLines := []string{}
	for _, section := range sections {
		allLines = append(allLines, strings.Split(section, "\n")...)
		allLines = append(allLines, "")
	}

	visibleH := m.height - 3
	if visibleH < 1 {
		visibleH = 1
	}
	startIdx := m.scoresScrollPos
	if startIdx > len(allLines)-visibleH {
		startIdx = len(allLines) - visibleH
	}
	if startIdx < 0 {
		startIdx = 0
	}
	endIdx := startIdx + visibleH
	if endIdx > len(allLines) {
		endIdx = len(allLines)
	}

	for i := startIdx; i < endIdx; i++ {
		sb.WriteString(allLines[i])
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (m Model) renderProductivitySection(p *productivity.Metrics) string {
	title := panelTitleStyle.Render("Productivity")
	if p == nil {
		return title + "\n" + dimStyle.Render("  No data yet")
	}

	lines := []string{
		title,
		fmt.Sprintf("  Velocity change:  %+.0f%%", p.TaskCompletion.VelocityChange*100),
		fmt.Sprintf("  Rework rate:      %s %.0f%%",
			renderMeterBar(p.TaskCompletion.ReworkRate, 20), p.TaskCompletion.ReworkRate*100),
		fmt.Sprintf("  Focus time:       %.0f min", p.Flow.FocusTimeMinutes),
		fmt.Sprintf("  Context switches: %d", p.Flow.ContextSwitches),
		fmt.Sprintf("  Features shipped: %d", p.ValueDelivery.FeaturesShipped),
		"",
		fmt.Sprintf("  Time saved:       %.1fh", p.TimeSavedHours),
		fmt.Sprintf("  Review overhead:  %.1fh", p.ReviewTimeHours),
		fmt.Sprintf("  Fix overhead:     %.1fh", p.FixTimeHours),
		fmt.Sprintf("  Net time saved:   %+.1fh", p.NetTimeSavedHours),
		"",
		fmt.Sprintf("  Perceived gain:   %+.0f%%", p.PerceivedGain*100),
		fmt.Sprintf("  Actual gain:      %+.0f%%", p.ActualGain*100),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderQualitySection(q *quality.Metrics) string {
	title := panelTitleStyle.Render("Quality")
	if q == nil {
		return title + "\n" + dimStyle.Render("  No data yet")
	}

	lines := []string{
		title,
		fmt.Sprintf("  Churn rate:       %s %.0f%% (%s)",
			renderMeterBar(q.Churn.Rate, 20), q.Churn.Rate*100, q.Churn.Trend),
		fmt.Sprintf("  AI vs human:      %.1fx", q.Churn.AIVsHuman),
		fmt.Sprintf("  Clone rate:       %s %.0f%%",
			renderMeterBar(q.Duplication.CloneRate, 20), q.Duplication.CloneRate*100),
		fmt.Sprintf("  Cyclomatic:       %.1f", q.Complexity.Cyclomatic),
		fmt.Sprintf("  Cognitive load:   %.1f/10", q.Complexity.CognitiveLoad),
		fmt.Sprintf("  Refactoring rate: %.0f%%", q.Refactoring.Rate*100),
		"",
		"  Overall:          " + m.styleForScore(q.OverallScore).Render(
			fmt.Sprintf("%.0f%%", q.OverallScore*100)),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderROISection(r *roi.Metrics) string {
	title := panelTitleStyle.Render("ROI")
	if r == nil {
		return title + "\n" + dimStyle.Render("  No data yet")
	}

	breakEven := "never"
	if !r.BreakEvenDays.IsNever() {
		breakEven = fmt.Sprintf("%.0f days", r.BreakEvenDays.Days())
	}

	lines := []string{
		title,
		fmt.Sprintf("  License cost:     $%.2f/mo", r.CostBenefit.LicenseCostMonthlyUSD),
		fmt.Sprintf("  Time saved:       %.1fh", r.CostBenefit.TimeSavedHours),
		fmt.Sprintf("  Time wasted:      %.1fh", r.CostBenefit.TimeWastedHours),
		fmt.Sprintf("  Net value:        $%.2f", r.CostBenefit.NetValueUSD),
		"",
		fmt.Sprintf("  Technical debt:   $%.2f", r.HiddenCosts.TechnicalDebtUSD),
		fmt.Sprintf("  Maintenance:      $%.2f", r.HiddenCosts.MaintenanceBurdenUSD),
		fmt.Sprintf("  Knowledge gaps:   $%.2f", r.HiddenCosts.KnowledgeGapsUSD),
		"",
		"  Overall ROI:      " + m.styleForROI(r.OverallROI).Render(
			fmt.Sprintf("%.2fx", r.OverallROI)),
		fmt.Sprintf("  Break-even:       %s", breakEven),
		"",
		"  " + r.Recommendation,
	}
	return strings.Join(lines, "\n")
}

// renderMeterBar renders a ratio as a bar where higher is worse: low
// values are green, high values red.
func renderMeterBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if ratio >= 0.8 {
		return scoreRedStyle.Render(bar)
	}
	if ratio >= 0.5 {
		return scoreYellowStyle.Render(bar)
	}
	return scoreGreenStyle.Render(bar)
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/roitop/roitop/internal/snapshot"
)

type historyRow struct {
	label     string
	net       float64
	roi       float64
	quality   float64
	snapshots int
}

// snapshotsPerGranularity caps how many history records are pulled for
// each granularity, assuming the default snapshot cadence.
var snapshotsPerGranularity = map[string]int{
	"daily":   500,
	"weekly":  2000,
	"monthly": 5000,
}

func (m Model) renderHistory() string {
	var sb strings.Builder

	viewLabel := " [History] Global"
	indicators := m.headerIndicators()
	help := "d:Daily w:Weekly m:Monthly  Tab:Dashboard  q:Quit "
	padding := m.width - lipgloss.Width(" roitop") - lipgloss.Width(viewLabel) - lipgloss.Width(indicators) - lipgloss.Width(help)
	if padding < 0 {
		padding = 0
	}
	headerLine := headerStyle.Width(m.width).Render(
		" roitop" + viewLabel + indicators + strings.Repeat(" ", padding) + help)
	sb.WriteString(headerLine)
	sb.WriteByte('\n')

	if !m.isPersistent {
		sb.WriteByte('\n')
		sb.WriteString(dimStyle.Render("  persistence is disabled — run with a valid db_path to enable history"))
		sb.WriteByte('\n')
		return sb.String()
	}

	var snaps []snapshot.Snapshot
	if m.snaps != nil {
		limit := snapshotsPerGranularity[m.historyGranularity]
		if limit == 0 {
			limit = snapshotsPerGranularity["daily"]
		}
		snaps = m.snaps.MetricsHistory(limit)
	}

	if len(snaps) == 0 {
		sb.WriteByte('\n')
		sb.WriteString(dimStyle.Render("  No historical data available"))
		sb.WriteByte('\n')
		return sb.String()
	}

	rows := aggregateSnapshots(snaps, m.historyGranularity)

	sb.WriteByte('\n')
	var dateHeader string
	switch m.historyGranularity {
	case "weekly":
		dateHeader = "Week"
	case "monthly":
		dateHeader = "Month"
	default:
		dateHeader = "Date"
	}
	sb.WriteString(fmt.Sprintf("  %-14s %10s %8s %9s %10s",
		dateHeader, "Net Hours", "ROI", "Quality", "Snapshots"))
	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render("  " + strings.Repeat("─", 56)))
	sb.WriteByte('\n')

	visibleH := m.height - 5
	if visibleH < 1 {
		visibleH = 1
	}
	startIdx := m.historyScrollPos
	if startIdx > len(rows)-visibleH {
		startIdx = len(rows) - visibleH
	}
	if startIdx < 0 {
		startIdx = 0
	}
	endIdx := startIdx + visibleH
	if endIdx > len(rows) {
		endIdx = len(rows)
	}

	for i := startIdx; i < endIdx; i++ {
		r := rows[i]
		sb.WriteString(fmt.Sprintf("  %-14s %+9.1fh %7.2fx %8.0f%% %10d",
			r.label, r.net, r.roi, r.quality*100, r.snapshots))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// aggregateSnapshots buckets snapshots (newest first) by period label and
// averages the headline metrics within each bucket. Sections missing from
// a snapshot do not drag the bucket average down.
func aggregateSnapshots(snaps []snapshot.Snapshot, granularity string) []historyRow {
	type bucket struct {
		row                    historyRow
		netN, roiN, qualN, all int
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, s := range snaps {
		label := periodLabel(s.Timestamp, granularity)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{row: historyRow{label: label}}
			buckets[label] = b
			order = append(order, label)
		}
		b.all++
		if s.Productivity != nil {
			b.row.net += s.Productivity.NetTimeSavedHours
			b.netN++
		}
		if s.ROI != nil {
			b.row.roi += s.ROI.OverallROI
			b.roiN++
		}
		if s.Quality != nil {
			b.row.quality += s.Quality.OverallScore
			b.qualN++
		}
	}

	rows := make([]historyRow, 0, len(order))
	for _, label := range order {
		b := buckets[label]
		if b.netN > 0 {
			b.row.net /= float64(b.netN)
		}
		if b.roiN > 0 {
			b.row.roi /= float64(b.roiN)
		}
		if b.qualN > 0 {
			b.row.quality /= float64(b.qualN)
		}
		b.row.snapshots = b.all
		rows = append(rows, b.row)
	}
	return rows
}

func periodLabel(t time.Time, granularity string) string {
	switch granularity {
	case "weekly":
		y, w := t.ISOWeek()
		return fmt.Sprintf("Week %d-%02d", y, w)
	case "monthly":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

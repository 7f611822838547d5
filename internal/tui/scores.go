package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roitop/roitop/internal/trend"
)

// ---------------------------------------------------------------------------
// Multi-size block-character digit fonts for the net-time-saved odometer.
//
// Three sizes are available; renderNetDisplay picks the largest one that
// fits the available content height.
//
//   - Large  (5 rows, 6-wide) — full block segments, easy to read at a glance
//   - Medium (3 rows, 4-wide) — compact flip-clock style
//   - Small  — plain styled text, used when the panel is very short
// ---------------------------------------------------------------------------

// digitFontLarge: 6-wide x 5-tall block segments.
var digitFontLarge = map[rune][5]string{
	'0': {"█▀▀▀▀█", "█    █", "█    █", "█    █", "█▄▄▄▄█"},
	'1': {"    ▀█", "     █", "     █", "     █", "    ▄█"},
	'2': {" ▀▀▀▀█", "     █", "█▀▀▀▀ ", "█     ", "█▄▄▄▄▄"},
	'3': {"▀▀▀▀▀█", "     █", " ▀▀▀▀█", "     █", "▄▄▄▄▄█"},
	'4': {"█    █", "█    █", "▀▀▀▀▀█", "     █", "     █"},
	'5': {"█▀▀▀▀▀", "█     ", "▀▀▀▀▀█", "     █", "▄▄▄▄▄█"},
	'6': {"█▀▀▀▀▀", "█     ", "█▀▀▀▀█", "█    █", "█▄▄▄▄█"},
	'7': {"▀▀▀▀▀█", "     █", "     █", "     █", "     █"},
	'8': {"█▀▀▀▀█", "█    █", "█▀▀▀▀█", "█    █", "█▄▄▄▄█"},
	'9': {"█▀▀▀▀█", "█    █", "▀▀▀▀▀█", "     █", "▄▄▄▄▄█"},
	'.': {"      ", "      ", "      ", "      ", "  █   "},
}

// digitFontMedium: 4-wide x 3-tall half-block flip-clock style.
var digitFontMedium = map[rune][3]string{
	'0': {"█▀▀█", "█  █", "█▄▄█"},
	'1': {"  ▀█", "   █", "  ▄█"},
	'2': {"▀▀▀█", "█▀▀▀", "█▄▄▄"},
	'3': {"▀▀▀█", " ▀▀█", "▄▄▄█"},
	'4': {"█  █", "▀▀▀█", "   █"},
	'5': {"█▀▀▀", "▀▀▀█", "▄▄▄█"},
	'6': {"█▀▀▀", "█▀▀█", "█▄▄█"},
	'7': {"▀▀▀█", "   █", "   █"},
	'8': {"█▀▀█", "█▀▀█", "█▄▄█"},
	'9': {"█▀▀█", "▀▀▀█", "▄▄▄█"},
	'.': {"   ", "   ", " ▄ "},
}

// renderScorePanel renders the headline score panel: net time saved as a
// large odometer plus ROI, quality, and break-even summary lines with
// trend arrows.
func (m Model) renderScorePanel(w, h int) string {
	snap := m.cachedSnapshot
	tr := m.cachedTrend

	contentH := h - 2
	if contentH < 1 {
		contentH = 1
	}

	contentW := w - 4
	if contentW < 10 {
		contentW = 10
	}

	var lines []string

	lines = append(lines, panelTitleStyle.Render("Scores"))

	// Rows below the odometer: ROI, quality, break-even.
	const extraLines = 3

	var net float64
	if snap.Productivity != nil {
		net = snap.Productivity.NetTimeSavedHours
	}

	sign := "+"
	netStyle := scoreGreenStyle
	if net < 0 {
		sign = "-"
		netStyle = scoreRedStyle
	}
	netStr := fmt.Sprintf("%.1f", absFloat(net))
	netDisplay := renderNetDisplay(netStr, sign, contentH-1-extraLines, contentW, netStyle)
	lines = append(lines, netDisplay)

	roiLine := "ROI —"
	roiStyle := dimStyle
	if snap.ROI != nil {
		roiLine = fmt.Sprintf("ROI %.2fx %s", snap.ROI.OverallROI, tr.ROIDirection.Arrow())
		roiStyle = m.styleForROI(snap.ROI.OverallROI)
	}
	lines = append(lines, roiStyle.Render(roiLine))

	qualLine := "Quality —"
	qualStyle := dimStyle
	if snap.Quality != nil {
		qualLine = fmt.Sprintf("Quality %.0f%% %s", snap.Quality.OverallScore*100, tr.QualityDirection.Arrow())
		qualStyle = m.styleForScore(snap.Quality.OverallScore)
	}
	lines = append(lines, qualStyle.Render(qualLine))

	beLine := ""
	if snap.ROI != nil {
		if snap.ROI.BreakEvenDays.IsNever() {
			beLine = "Break-even: never"
		} else {
			beLine = fmt.Sprintf("Break-even: %.0f days", snap.ROI.BreakEvenDays.Days())
		}
	} else {
		beLine = "Waiting for telemetry..."
	}
	lines = append(lines, dimStyle.Render(beLine))

	content := strings.Join(lines, "\n")
	return renderBorderedPanel(content, w, h)
}

// renderNetDisplay renders the hours string at the largest font size that
// fits within the given height and width budget. Sizes tried (largest
// first):
//
//	5-row large  (needs availH >= 5, ~7 chars per digit width)
//	3-row medium (needs availH >= 3, ~5 chars per digit width)
//	1-row plain  (always fits)
func renderNetDisplay(s, sign string, availH, availW int, style lipgloss.Style) string {
	if availH >= 5 {
		if digitWidth(s, 6) <= availW {
			return renderDigitFont(s, sign, digitFontLarge, 5, style)
		}
	}

	if availH >= 3 {
		if digitWidth(s, 4) <= availW {
			return renderDigitFont(s, sign, digitFontMedium, 3, style)
		}
	}

	return style.Render(sign + s + "h")
}

// digitWidth returns the total rendered width for a string at a given
// per-character width (charW wide + 1 space gap between characters),
// plus 2 for the sign prefix and unit suffix columns.
func digitWidth(s string, charW int) int {
	n := len([]rune(s))
	if n == 0 {
		return 2
	}
	return 2 + n*charW + (n - 1)
}

// renderDigitFont renders a numeric string using the given font map.
// The sign prefix and an "h" unit suffix sit on the vertically-centred
// row.
func renderDigitFont[T [3]string | [5]string](s, sign string, font map[rune]T, nRows int, style lipgloss.Style) string {
	rows := make([]string, nRows)
	for i, ch := range s {
		pattern, ok := font[ch]
		if !ok {
			pattern = font['.']
		}
		for row := 0; row < nRows; row++ {
			if i > 0 {
				rows[row] += " "
			}
			rows[row] += pattern[row]
		}
	}

	midRow := nRows / 2
	var result []string
	for i, row := range rows {
		prefix, suffix := " ", " "
		if i == midRow {
			prefix, suffix = sign, "h"
		}
		result = append(result, style.Render(prefix+row+suffix))
	}
	return strings.Join(result, "\n")
}

// styleForScore maps a 0..1 score to a color style via the trend
// provider's thresholds, defaulting to the configured display thresholds
// when no provider is wired.
func (m Model) styleForScore(score float64) lipgloss.Style {
	var color trend.ScoreColor
	if m.trends != nil {
		color = m.trends.ColorForScore(score)
	} else {
		switch {
		case score > m.cfg.Display.ScoreColorGoodAbove:
			color = trend.ColorGreen
		case score > m.cfg.Display.ScoreColorWarnAbove:
			color = trend.ColorYellow
		default:
			color = trend.ColorRed
		}
	}
	return styleForColor(color)
}

// styleForROI classifies an ROI ratio: above 1 the seat pays for itself.
func (m Model) styleForROI(roi float64) lipgloss.Style {
	switch {
	case roi > 1:
		return scoreGreenStyle
	case roi > 0:
		return scoreYellowStyle
	default:
		return scoreRedStyle
	}
}

func styleForColor(c trend.ScoreColor) lipgloss.Style {
	switch c {
	case trend.ColorGreen:
		return scoreGreenStyle
	case trend.ColorYellow:
		return scoreYellowStyle
	default:
		return scoreRedStyle
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// formatNumber formats an int64 with comma separators (e.g., 1,234,567).
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

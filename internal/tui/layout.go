package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type panelDimensions struct {
	sessionListW, sessionListH int
	scoreW, scoreH             int
	eventStreamW, eventStreamH int
	alertsW, alertsH           int
	headerH                    int
}

const (
	minWidth  = 40
	minHeight = 10

	headerHeight = 1

	alertsHeight = 3

	scorePanelMinHeight = 7

	scorePanelMaxHeight = 10
)

func computeDimensions(totalW, totalH int) panelDimensions {
	if totalW < minWidth {
		totalW = minWidth
	}
	if totalH < minHeight {
		totalH = minHeight
	}

	d := panelDimensions{
		headerH: headerHeight,
	}

	usableH := totalH - headerHeight - alertsHeight
	if usableH < 4 {
		usableH = 4
	}

	d.sessionListW = totalW * 40 / 100
	if d.sessionListW < 20 {
		d.sessionListW = 20
	}
	if d.sessionListW > totalW-20 {
		d.sessionListW = totalW - 20
	}
	d.sessionListH = usableH

	rightW := totalW - d.sessionListW
	if rightW < 20 {
		rightW = 20
	}

	d.scoreW = rightW
	maxScore := usableH * 30 / 100
	if maxScore < scorePanelMinHeight {
		maxScore = scorePanelMinHeight
	}
	if maxScore > scorePanelMaxHeight {
		maxScore = scorePanelMaxHeight
	}
	d.scoreH = maxScore
	if d.scoreH > usableH/2 {
		d.scoreH = usableH / 2
	}

	d.eventStreamW = rightW
	d.eventStreamH = usableH - d.scoreH
	if d.eventStreamH < 3 {
		d.eventStreamH = 3
	}

	d.alertsW = totalW
	d.alertsH = alertsHeight

	return d
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	exitedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	scoreGreenStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	scoreYellowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("226"))

	scoreRedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	alertWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("226"))

	alertCriticalStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("196"))

	filterMenuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	detailOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("69")).
				Padding(1, 2)
)

func renderBorderedPanel(content string, w, h int) string {
	contentH := h - 2
	if contentH < 1 {
		contentH = 1
	}

	lines := strings.Split(content, "\n")
	if len(lines) > contentH {
		lines = lines[:contentH]
		content = strings.Join(lines, "\n")
	}

	return panelBorderStyle.
		Width(w - 2).
		Height(contentH).
		Render(content)
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func (m Model) renderDashboard() string {
	dims := computeDimensions(m.width, m.height)

	header := m.renderHeader(dims)

	sessionList := m.renderSessionListPanel(dims.sessionListW, dims.sessionListH)
	scorePanel := m.renderScorePanel(dims.scoreW, dims.scoreH)
	eventStream := m.renderEventStreamPanel(dims.eventStreamW, dims.eventStreamH)
	alertsBar := m.renderAlertsPanel(dims.alertsW, dims.alertsH)

	rightCol := lipgloss.JoinVertical(lipgloss.Left, scorePanel, eventStream)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sessionList, rightCol)

	usableH := m.height - dims.headerH - dims.alertsH
	if usableH < 4 {
		usableH = 4
	}
	mcLines := strings.Split(mainContent, "\n")
	if len(mcLines) > usableH {
		mcLines = mcLines[:usableH]
		mainContent = strings.Join(mcLines, "\n")
	}

	layout := lipgloss.JoinVertical(lipgloss.Left, header, mainContent, alertsBar)

	if m.filterMenu.Active {
		layout = m.overlayFilterMenu(layout)
	}

	if m.detailOverlay {
		layout = m.overlayDetail(layout)
	}

	return layout
}

func (m Model) renderHeader(dims panelDimensions) string {
	title := " roitop"
	viewLabel := " [Dashboard]"
	if m.selectedSession != "" {
		viewLabel += " Session: " + truncateID(m.selectedSession, 8)
	} else {
		viewLabel += " Global"
	}

	indicators := m.headerIndicators()
	help := m.headerHelp()

	padding := m.width - lipgloss.Width(title) - lipgloss.Width(viewLabel) - lipgloss.Width(indicators) - lipgloss.Width(help)
	if padding < 0 {
		padding = 0
	}

	return headerStyle.Width(m.width).Render(title + viewLabel + indicators + strings.Repeat(" ", padding) + help)
}

func (m Model) headerHelp() string {
	switch m.panelFocus {
	case FocusEvents:
		return "Enter:Detail  Esc:Back  a:Alerts  Tab:Scores  q:Quit "
	case FocusAlerts:
		return "Enter:Detail  Esc:Back  e:Events  Tab:Scores  q:Quit "
	default:
		return "a:Alerts  e:Events  Tab:Scores  f:Filter  r:Refresh  x:Export  q:Quit "
	}
}

func truncateID(id string, maxLen int) string {
	if len(id) <= maxLen {
		return id
	}
	return id[:maxLen]
}

func (m Model) overlayFilterMenu(base string) string {
	content := panelTitleStyle.Render("Event Filter") + "\n\n"
	for i, opt := range m.filterMenu.Options {
		cursor := "  "
		if i == m.filterMenu.Cursor {
			cursor = "> "
		}
		check := "[ ]"
		if opt.Enabled {
			check = "[x]"
		}
		line := cursor + check + " " + opt.Label
		if i == m.filterMenu.Cursor {
			line = selectedStyle.Render(line)
		}
		content += line + "\n"
	}
	content += "\nEnter: Toggle  Esc: Close"

	dialog := filterMenuStyle.Render(content)
	return placeOverlay(dialog, base)
}

func (m Model) overlayDetail(base string) string {
	overlayW := m.width * 70 / 100
	if overlayW < 40 {
		overlayW = 40
	}
	if overlayW > m.width-4 {
		overlayW = m.width - 4
	}
	overlayH := m.height * 60 / 100
	if overlayH < 10 {
		overlayH = 10
	}
	if overlayH > m.height-4 {
		overlayH = m.height - 4
	}

	contentW := overlayW - 6
	if contentW < 10 {
		contentW = 10
	}
	contentH := overlayH - 4
	if contentH < 3 {
		contentH = 3
	}

	wrapped := wrapLines(strings.Split(m.detailContent, "\n"), contentW)

	startIdx := m.detailScrollPos
	if startIdx > len(wrapped)-contentH {
		startIdx = len(wrapped) - contentH
	}
	if startIdx < 0 {
		startIdx = 0
	}
	endIdx := startIdx + contentH
	if endIdx > len(wrapped) {
		endIdx = len(wrapped)
	}

	body := strings.Join(wrapped[startIdx:endIdx], "\n")

	title := panelTitleStyle.Render(m.detailTitle)
	footer := dimStyle.Render("Esc/Enter: Close")
	if len(wrapped) > contentH {
		footer += dimStyle.Render("  Up/Down: Scroll")
	}

	content := title + "\n\n" + body + "\n\n" + footer

	dialog := detailOverlayStyle.
		Width(overlayW - 2).
		Render(content)

	return placeOverlay(dialog, base)
}

// wrapLines word-wraps each line to the given width, splitting at the
// last space that fits.
func wrapLines(lines []string, width int) []string {
	var wrapped []string
	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}
		for len(line) > width {
			cutAt := width
			for i := width; i > 0; i-- {
				if line[i] == ' ' {
					cutAt = i
					break
				}
			}
			wrapped = append(wrapped, line[:cutAt])
			line = line[cutAt:]
			if len(line) > 0 && line[0] == ' ' {
				line = line[1:]
			}
		}
		if line != "" {
			wrapped = append(wrapped, line)
		}
	}
	return wrapped
}

func placeOverlay(fg, bg string) string {
	return lipgloss.Place(
		lipgloss.Width(bg),
		lipgloss.Height(bg),
		lipgloss.Center,
		lipgloss.Center,
		fg,
		lipgloss.WithWhitespaceChars(" "),
	)
}

package tui

import (
	"strings"

	"github.com/roitop/roitop/internal/alerts"
)

// getActiveAlerts returns the alerts to display, narrowed to the
// selected session (plus global alerts) when one is selected.
func (m Model) getActiveAlerts() []alerts.Alert {
	if m.alerts == nil {
		return nil
	}
	active := m.alerts.Active()
	if m.selectedSession == "" {
		return active
	}

	var filtered []alerts.Alert
	for _, a := range active {
		if a.SessionID == m.selectedSession || a.SessionID == "" {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// renderAlertsPanel renders the alert strip at the bottom of the
// dashboard.
func (m Model) renderAlertsPanel(w, h int) string {
	contentH := h - 2
	if contentH < 1 {
		contentH = 1
	}

	active := m.getActiveAlerts()

	var lines []string
	title := panelTitleStyle.Render("Alerts")
	if len(active) == 0 {
		lines = append(lines, title+dimStyle.Render("  None"))
	} else {
		header := title
		if m.panelFocus == FocusAlerts {
			header += dimStyle.Render("  [focused]")
		}
		lines = append(lines, header)
		for i, a := range active {
			line := renderAlertLine(a, w-4, m.selectedSession)
			if m.panelFocus == FocusAlerts && i == m.alertCursor {
				line = selectedStyle.Render(stripAnsi(line))
			}
			lines = append(lines, line)
		}
	}

	content := strings.Join(lines, "\n")
	return renderBorderedPanel(content, w, h)
}

// renderAlertLine formats one alert for the strip. Critical alerts are
// bold red, warnings yellow; the selected session's alerts get a marker.
func renderAlertLine(a alerts.Alert, maxW int, selectedSession string) string {
	marker := "!"
	if a.Severity == alerts.SeverityCritical {
		marker = "!!"
	}

	scope := "global"
	if a.SessionID != "" {
		scope = truncateID(a.SessionID, 8)
	}

	line := marker + " [" + scope + "] " + a.Message
	if len(line) > maxW && maxW > 3 {
		line = line[:maxW-3] + "..."
	}

	style := alertWarningStyle
	if a.Severity == alerts.SeverityCritical {
		style = alertCriticalStyle
	}
	rendered := style.Render(line)

	if selectedSession != "" && a.SessionID == selectedSession {
		rendered = selectedStyle.Render(line)
	}
	return rendered
}

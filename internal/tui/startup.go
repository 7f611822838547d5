package tui

import (
	"fmt"
	"strings"
)

// renderStartup renders the welcome screen shown before any telemetry
// arrives: receiver endpoints, setup instructions, and the result of the
// last setup action.
func (m Model) renderStartup() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Width(m.width).Render(" roitop — AI-assist ROI monitor"))
	sb.WriteByte('\n')
	sb.WriteByte('\n')

	sb.WriteString(panelTitleStyle.Render("  Listening for editor telemetry"))
	sb.WriteByte('\n')
	sb.WriteString(fmt.Sprintf("    OTLP gRPC  localhost:%d\n", m.cfg.Receiver.GRPCPort))
	sb.WriteString(fmt.Sprintf("    OTLP HTTP  localhost:%d\n", m.cfg.Receiver.HTTPPort))
	sb.WriteByte('\n')

	sessions := m.getSessions()
	if len(sessions) == 0 {
		sb.WriteString(dimStyle.Render("  No editor sessions connected yet."))
		sb.WriteByte('\n')
		sb.WriteString(dimStyle.Render("  Press 's' to write the OTel env vars into your editor plugin settings."))
		sb.WriteByte('\n')
	} else {
		sb.WriteString(fmt.Sprintf("  %d session(s) connected.\n", len(sessions)))
	}
	sb.WriteByte('\n')

	if m.statusMessage != "" {
		sb.WriteString("  " + m.statusMessage)
		sb.WriteByte('\n')
		sb.WriteByte('\n')
	}

	sb.WriteString(dimStyle.Render("  Enter: Dashboard   s: Setup telemetry   q: Quit"))
	sb.WriteByte('\n')

	return sb.String()
}

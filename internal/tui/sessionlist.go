package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/roitop/roitop/internal/collector"
)

// renderSessionListPanel renders the session list panel with columns for
// Session ID, Started, Editor, Workspace, Model, Status, Acceptance,
// Suggestions, Active Time.
func (m Model) renderSessionListPanel(w, h int) string {
	sessions := m.getSessions()

	contentW := w - 4
	if contentW < 16 {
		contentW = 16
	}

	contentH := h - 4 // borders + title
	if contentH < 2 {
		contentH = 2
	}

	var lines []string

	title := panelTitleStyle.Render("Sessions")
	if m.selectedSession != "" {
		title += dimStyle.Render(" [" + truncateID(m.selectedSession, 8) + "]")
	} else {
		title += dimStyle.Render(" [Global]")
	}
	lines = append(lines, title)

	if len(sessions) == 0 {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("No sessions yet"))
		content := strings.Join(lines, "\n")
		return renderBorderedPanel(content, w, h)
	}

	header := formatSessionHeader(contentW)
	lines = append(lines, dimStyle.Render(header))
	lines = append(lines, dimStyle.Render(strings.Repeat("─", min(contentW, len(header)))))

	// Limit done/exited sessions to the most recent 5.
	const maxDone = 5
	visible, hidden := filterDoneSessions(sessions, maxDone)

	for rowIdx, s := range visible {
		line := formatSessionRow(&s, contentW)
		if rowIdx == m.sessionCursor {
			line = selectedStyle.Render(line)
		} else if s.Status() == collector.StatusExited {
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if hidden > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("── +%d done sessions hidden ──", hidden)))
	}

	if len(lines) > contentH {
		lines = lines[:contentH]
	}

	content := strings.Join(lines, "\n")
	return renderBorderedPanel(content, w, h)
}

// formatSessionHeader returns the column header string.
func formatSessionHeader(maxW int) string {
	if maxW >= 90 {
		return fmt.Sprintf("%-8s %-9s %-8s %-15s %-6s %-8s %-5s %-6s %-6s",
			"Session", "Started", "Editor", "Workspace", "Model", "Status", "Acc%", "Sugg", "Time")
	}
	if maxW >= 60 {
		return fmt.Sprintf("%-8s %-9s %-8s %-12s %-6s %-5s",
			"Session", "Started", "Editor", "Workspace", "Status", "Acc%")
	}
	return fmt.Sprintf("%-8s %-9s %-6s %-5s",
		"Session", "Started", "Status", "Acc%")
}

// formatSessionRow formats a single session row based on available width.
func formatSessionRow(s *collector.SessionData, maxW int) string {
	sessionID := truncateID(s.SessionID, 8)
	started := formatStartedAt(s.StartedAt)
	editor := truncateStr(s.Editor, 8)
	workspace := truncateWorkspace(s.Workspace, 15)
	model := truncateStr(s.Model, 6)
	statusStr := renderStatus(s.Status())
	acc := formatAcceptance(s)
	sugg := formatNumber(s.SuggestionsShown)
	activeTime := formatDuration(s.ActiveTime)

	if maxW >= 90 {
		return fmt.Sprintf("%-8s %-9s %-8s %-15s %-6s %-8s %5s %6s %6s",
			sessionID, started, editor, workspace, model, statusStr, acc, sugg, activeTime)
	}
	if maxW >= 60 {
		return fmt.Sprintf("%-8s %-9s %-8s %-12s %-6s %5s",
			sessionID, started, editor, truncateWorkspace(s.Workspace, 12), statusStr, acc)
	}
	return fmt.Sprintf("%-8s %-9s %-6s %5s",
		sessionID, started, statusStr, acc)
}

// formatAcceptance renders accepted/shown as a percentage, or a dash when
// no suggestions have been shown yet.
func formatAcceptance(s *collector.SessionData) string {
	if s.SuggestionsShown == 0 {
		return "—"
	}
	rate := float64(s.SuggestionsAccepted) / float64(s.SuggestionsShown)
	return fmt.Sprintf("%.0f%%", rate*100)
}

// formatStartedAt formats a timestamp as DDMM HHMM (day, month, hour, minute).
func formatStartedAt(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("0201 1504")
}

// renderStatus returns a styled string for the session status.
func renderStatus(s collector.SessionStatus) string {
	switch s {
	case collector.StatusActive:
		return activeStyle.Render("active")
	case collector.StatusIdle:
		return idleStyle.Render("idle")
	case collector.StatusDone:
		return doneStyle.Render("done")
	case collector.StatusExited:
		return exitedStyle.Render("exited")
	default:
		return string(s)
	}
}

// truncateWorkspace shortens a path by replacing the home directory with ~
// and using ellipsis for long paths.
func truncateWorkspace(path string, maxLen int) string {
	if path == "" {
		return "—"
	}

	home, err := os.UserHomeDir()
	if err == nil && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}

	if len(path) <= maxLen {
		return path
	}

	if maxLen <= 4 {
		return path[:maxLen]
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if len(base) >= maxLen-3 {
		return "..." + base[len(base)-(maxLen-3):]
	}

	available := maxLen - len(base) - 4 // for .../
	if available <= 0 {
		return "..." + string(filepath.Separator) + base
	}

	return dir[:available] + "..." + string(filepath.Separator) + base
}

// truncateStr truncates a string to maxLen characters.
func truncateStr(s string, maxLen int) string {
	if s == "" {
		return "—"
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-1] + "."
}

// formatDuration formats a duration into a human-readable short form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

// filterDoneSessions keeps all active/idle sessions and limits done/exited
// sessions to the most recent maxDone (by LastEventAt). Returns the filtered
// list preserving original order and the count of hidden done sessions.
func filterDoneSessions(sessions []collector.SessionData, maxDone int) ([]collector.SessionData, int) {
	var done []collector.SessionData
	for _, s := range sessions {
		status := s.Status()
		if status == collector.StatusDone || status == collector.StatusExited {
			done = append(done, s)
		}
	}

	if len(done) <= maxDone {
		return sessions, 0
	}

	// Sort done sessions by LastEventAt descending to keep the most recent.
	sort.Slice(done, func(i, j int) bool {
		return done[i].LastEventAt.After(done[j].LastEventAt)
	})
	hiddenCount := len(done) - maxDone
	keptDone := done[:maxDone]

	kept := make(map[string]bool, maxDone)
	for _, s := range keptDone {
		kept[s.SessionID] = true
	}

	var result []collector.SessionData
	for _, s := range sessions {
		status := s.Status()
		if status == collector.StatusDone || status == collector.StatusExited {
			if kept[s.SessionID] {
				result = append(result, s)
			}
		} else {
			result = append(result, s)
		}
	}

	return result, hiddenCount
}

// min returns the smaller of two ints.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

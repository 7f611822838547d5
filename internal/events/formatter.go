// Package events provides formatting and buffering for OTLP events
// received from editor AI-assist plugins.
package events

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roitop/roitop/internal/collector"
)

// FormatEvent converts a raw OTLP event into a display-ready FormattedEvent.
// It applies type-specific formatting rules:
//   - suggestion_decision: "[session] model check_or_x decision (N chars, duration)"
//   - session_end:         "[session] session ended (reason)"
//   - context_switch:      "[session] context switch -> target"
func FormatEvent(sessionID string, e collector.Event) FormattedEvent {
	fe := FormattedEvent{
		SessionID: sessionID,
		EventType: stripPrefix(e.Name),
		Timestamp: e.Timestamp,
	}
	if fe.Timestamp.IsZero() {
		fe.Timestamp = time.Now()
	}

	// Deep copy raw attributes.
	if len(e.Attributes) > 0 {
		fe.RawAttributes = make(map[string]string, len(e.Attributes))
		for k, v := range e.Attributes {
			fe.RawAttributes[k] = v
		}
	}

	shortSession := shortID(sessionID)

	switch e.Name {
	case "ai_assist.suggestion_decision":
		fe.Formatted = formatSuggestionDecision(shortSession, e, &fe)
	case "ai_assist.session_end":
		fe.Formatted = formatSessionEnd(shortSession, e)
	case "ai_assist.context_switch":
		fe.Formatted = formatContextSwitch(shortSession, e)
	default:
		fe.Formatted = fmt.Sprintf("[%s] %s", shortSession, e.Name)
	}

	return fe
}

// formatSuggestionDecision formats accepted/rejected/shown suggestions
// with the model, suggestion size and latency when present.
func formatSuggestionDecision(session string, e collector.Event, fe *FormattedEvent) string {
	model := attrStr(e, "model")
	decision := attrStr(e, "decision")
	length := attrStr(e, "suggestion_length")
	latencyMS := attrStr(e, "latency_ms")

	if model == "" {
		model = "suggestion"
	}

	detail := ""
	switch {
	case length != "" && latencyMS != "":
		detail = fmt.Sprintf(" (%s chars, %s)", length, formatDuration(latencyMS))
	case length != "":
		detail = fmt.Sprintf(" (%s chars)", length)
	case latencyMS != "":
		detail = fmt.Sprintf(" (%s)", formatDuration(latencyMS))
	}

	switch strings.ToLower(decision) {
	case "accepted", "accept":
		trueVal := true
		fe.Success = &trueVal
		return fmt.Sprintf("[%s] %s ✓ accepted%s", session, model, detail)
	case "rejected", "reject":
		falseVal := false
		fe.Success = &falseVal
		return fmt.Sprintf("[%s] %s ✗ rejected%s", session, model, detail)
	default:
		return fmt.Sprintf("[%s] %s shown%s", session, model, detail)
	}
}

// formatSessionEnd formats: [session] session ended (reason)
func formatSessionEnd(session string, e collector.Event) string {
	reason := attrStr(e, "reason")
	if reason != "" {
		return fmt.Sprintf("[%s] session ended (%s)", session, reason)
	}
	return fmt.Sprintf("[%s] session ended", session)
}

// formatContextSwitch formats: [session] context switch -> target
func formatContextSwitch(session string, e collector.Event) string {
	target := attrStr(e, "target")
	if target != "" {
		return fmt.Sprintf("[%s] context switch → %s", session, target)
	}
	return fmt.Sprintf("[%s] context switch", session)
}

// FormatLineCount converts a line count to human-readable format.
// Counts >= 1000 display as Xk (e.g., 2100 -> "2.1k").
func FormatLineCount(count int64) string {
	if count >= 1000 {
		return fmt.Sprintf("%.1fk", float64(count)/1000)
	}
	return fmt.Sprintf("%d", count)
}

// formatDuration converts a millisecond string to seconds with 1 decimal.
// E.g., "1200" -> "1.2s".
func formatDuration(ms string) string {
	n, err := strconv.ParseFloat(ms, 64)
	if err != nil {
		return ms
	}
	return fmt.Sprintf("%.1fs", n/1000)
}

// FormatDurationMS is an exported version converting milliseconds to a
// display string.
func FormatDurationMS(ms float64) string {
	return fmt.Sprintf("%.1fs", ms/1000)
}

// FormatHours formats a duration in hours with 1 decimal place.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}

// FormatPercent formats a 0..1 fraction as a percentage.
func FormatPercent(frac float64) string {
	return fmt.Sprintf("%.0f%%", frac*100)
}

// attrStr returns the attribute value for the given key, or "".
func attrStr(e collector.Event, key string) string {
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}

// shortID returns a shortened session ID for display.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}

// stripPrefix removes the "ai_assist." prefix from event names.
func stripPrefix(name string) string {
	return strings.TrimPrefix(name, "ai_assist.")
}

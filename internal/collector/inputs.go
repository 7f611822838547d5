// Package collector indexes AI-assist telemetry by editor session and
// derives the scalar inputs consumed by the scoring analyzers. Input
// derivation is a pure computation over session snapshots with no side
// effects.
package collector

// Derive computes analyzer inputs from the given session snapshots.
// Sessions with no suggestion telemetry contribute nothing to the
// acceptance rate; churn is only reported as measured when at least one
// rewritten-lines sample arrived.
func Derive(sessions []SessionData) Inputs {
	var in Inputs

	var shown, accepted int64
	var added, removed, rewritten int64
	var churnSeen bool
	var activeSeconds, flowSeconds float64
	var switches int64

	for i := range sessions {
		s := &sessions[i]

		shown += s.SuggestionsShown
		accepted += s.SuggestionsAccepted

		added += s.LinesAdded
		removed += s.LinesRemoved
		rewritten += s.LinesRewritten
		if sessionMeasuredChurn(s) {
			churnSeen = true
		}

		activeSeconds += s.ActiveTime.Seconds()
		flowSeconds += s.FlowTime.Seconds()
		switches += s.ContextSwitches
	}

	in.AIEvents.TotalSuggestions = int(shown)
	if shown > 0 {
		in.AIEvents.AcceptanceRate = float64(accepted) / float64(shown)
	}
	if churnSeen && added > 0 {
		in.AIEvents.ChurnRate = float64(rewritten) / float64(added)
		in.AIEvents.ChurnMeasured = true
	}

	in.Code.LinesAdded = int(added)
	in.Code.LinesRemoved = int(removed)
	in.Code.LinesRewritten = int(rewritten)

	in.Time.ActiveMinutes = activeSeconds / 60
	in.Time.FlowMinutes = flowSeconds / 60
	if activeSeconds > 0 {
		in.Time.FlowEfficiency = flowSeconds / activeSeconds
	}
	in.Time.ContextSwitches = int(switches)

	return in
}

// sessionMeasuredChurn reports whether the session received any
// rewritten-lines telemetry, even a zero-valued sample.
func sessionMeasuredChurn(s *SessionData) bool {
	for _, m := range s.Metrics {
		if m.Name == "ai_assist.lines_of_code.count" && m.Attributes["type"] == "rewritten" {
			return true
		}
	}
	return false
}

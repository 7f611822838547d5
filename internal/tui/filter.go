package tui

// EventFilter holds the current filter state for the event stream panel.
type EventFilter struct {
	// SessionID filters events to a specific session. Empty means all sessions.
	SessionID string

	// EventTypes is the set of event types to display. If empty, all types are shown.
	EventTypes map[string]bool

	// AcceptedOnly when true shows only accepted-suggestion events.
	AcceptedOnly bool

	// RejectedOnly when true shows only rejected-suggestion events.
	RejectedOnly bool
}

// AllEventTypes returns a map of all event types set to true (no filtering).
func AllEventTypes() map[string]bool {
	return map[string]bool{
		"suggestion_decision": true,
		"session_end":         true,
		"context_switch":      true,
	}
}

// NewEventFilter returns a filter that shows all events.
func NewEventFilter() EventFilter {
	return EventFilter{
		EventTypes: AllEventTypes(),
	}
}

// Matches returns true if the given event passes this filter.
func (f *EventFilter) Matches(sessionID, eventType string, success *bool) bool {
	if f.SessionID != "" && sessionID != f.SessionID {
		return false
	}

	if len(f.EventTypes) > 0 {
		if !f.EventTypes[eventType] {
			return false
		}
	}

	// Decision filters only apply to events that carry a decision.
	if f.AcceptedOnly && success != nil && !*success {
		return false
	}
	if f.RejectedOnly && success != nil && *success {
		return false
	}

	return true
}

// FilterMenuState tracks the interactive filter menu.
type FilterMenuState struct {
	Active  bool
	Cursor  int
	Options []FilterOption
}

// FilterOption represents one toggleable filter option in the filter menu.
type FilterOption struct {
	Label   string
	Key     string
	Enabled bool
}

// NewFilterMenu creates a filter menu with default options.
func NewFilterMenu() FilterMenuState {
	return FilterMenuState{
		Options: []FilterOption{
			{Label: "Suggestion Decisions", Key: "suggestion_decision", Enabled: true},
			{Label: "Session Ends", Key: "session_end", Enabled: true},
			{Label: "Context Switches", Key: "context_switch", Enabled: true},
			{Label: "Accepted Only", Key: "accepted_only", Enabled: false},
			{Label: "Rejected Only", Key: "rejected_only", Enabled: false},
		},
	}
}

package events

import "time"

// FormattedEvent holds a display-ready event with metadata.
type FormattedEvent struct {
	SessionID     string
	EventType     string // suggestion_decision, session_end, context_switch
	Formatted     string // display-ready string
	Timestamp     time.Time
	Success       *bool // accepted=true, rejected=false, nil if not applicable
	RawAttributes map[string]string
}

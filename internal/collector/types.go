package collector

import "time"

const UnknownSessionID = "unknown"

type SessionData struct {
	SessionID string
	Editor    string
	Workspace string
	Model     string

	SuggestionsShown    int64
	SuggestionsAccepted int64
	SuggestionsRejected int64

	LinesAdded     int64
	LinesRemoved   int64
	LinesRewritten int64

	ActiveTime      time.Duration
	FlowTime        time.Duration
	ContextSwitches int64

	LastEventAt time.Time
	StartedAt   time.Time
	Exited      bool

	Metrics []Metric
	Events  []Event

	Metadata SessionMetadata

	PreviousValues map[string]float64
}

type SessionMetadata struct {
	PluginVersion string
	EditorVersion string
	OSType        string
	HostArch      string
}

func (s *SessionData) Status() SessionStatus {
	if s.Exited {
		return StatusExited
	}
	if s.LastEventAt.IsZero() {
		return StatusDone
	}
	elapsed := time.Since(s.LastEventAt)
	switch {
	case elapsed <= 30*time.Second:
		return StatusActive
	case elapsed <= 5*time.Minute:
		return StatusIdle
	default:
		return StatusDone
	}
}

type Metric struct {
	Name       string
	Value      float64
	Attributes map[string]string
	Timestamp  time.Time
}

type Event struct {
	Name       string
	Attributes map[string]string
	Timestamp  time.Time
	Sequence   int64
}

type SessionStatus string

const (
	StatusActive SessionStatus = "active"
	StatusIdle   SessionStatus = "idle"
	StatusDone   SessionStatus = "done"
	StatusExited SessionStatus = "exited"
)

// AIEventMetrics summarizes suggestion activity across sessions.
// AcceptanceRate is accepted/shown in [0,1]; ChurnMeasured reports
// whether any churn telemetry arrived (the analyzers substitute a
// default rework rate when it did not).
type AIEventMetrics struct {
	AcceptanceRate   float64
	TotalSuggestions int
	ChurnRate        float64
	ChurnMeasured    bool
}

// CodeMetrics summarizes code-change telemetry.
type CodeMetrics struct {
	LinesAdded     int
	LinesRemoved   int
	LinesRewritten int
}

// TimeMetrics summarizes time-tracking telemetry. Durations are carried
// in minutes; FlowEfficiency is FlowMinutes/ActiveMinutes in [0,1].
type TimeMetrics struct {
	ActiveMinutes   float64
	FlowMinutes     float64
	FlowEfficiency  float64
	ContextSwitches int
}

// Inputs is the full set of collector outputs handed to the analyzers.
type Inputs struct {
	AIEvents AIEventMetrics
	Code     CodeMetrics
	Time     TimeMetrics
}

package alerts

import "time"

// Alert rule name constants.
const (
	RuleNegativeNet   = "NegativeNetTime"
	RuleChurnSpike    = "ChurnSpike"
	RulePerceptionGap = "PerceptionGap"
	RuleHighRejection = "HighRejection"
)

// Alert severity constants.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert represents a triggered alert from the alert engine.
type Alert struct {
	Rule      string // NegativeNetTime, ChurnSpike, PerceptionGap, HighRejection
	Severity  string // warning, critical
	Message   string
	SessionID string // empty for global alerts
	FiredAt   time.Time
}

// alertKey returns a deduplication key for this alert, combining the
// rule name and session ID. Two alerts with the same key within the
// dedup window are considered duplicates.
func (a Alert) alertKey() string {
	return a.Rule + ":" + a.SessionID
}

// Notifier sends alert notifications via platform-specific mechanisms.
type Notifier interface {
	// Notify sends an alert notification. Implementations must be non-blocking.
	Notify(alert Alert)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify is a no-op.
func (NopNotifier) Notify(Alert) {}

// Package alerts evaluates threshold rules over metrics snapshots and
// session telemetry, firing deduplicated alerts for the dashboard strip
// and optional desktop notifications.
package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/roitop/roitop/internal/collector"
	"github.com/roitop/roitop/internal/config"
	"github.com/roitop/roitop/internal/snapshot"
)

const (
	// dedupWindow suppresses re-firing of an alert with the same key.
	dedupWindow = 10 * time.Minute

	// activeWindow is how long a fired alert stays in the active strip.
	activeWindow = 15 * time.Minute

	// minSuggestionsForRejection is the floor below which the rejection
	// rule does not fire; tiny samples produce meaningless percentages.
	minSuggestionsForRejection = 20
)

// Engine evaluates alert rules against the latest metrics snapshot and
// collector sessions. All methods are safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	cfg       config.AlertsConfig
	notifier  Notifier
	lastFired map[string]time.Time
	active    []Alert

	// negativeSince tracks how long net time saved has been negative.
	negativeSince time.Time
}

// NewEngine creates an alert engine with the given thresholds. A nil
// notifier disables notifications.
func NewEngine(cfg config.AlertsConfig, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{
		cfg:       cfg,
		notifier:  notifier,
		lastFired: make(map[string]time.Time),
	}
}

// Evaluate runs all rules against the given snapshot and sessions,
// returning any newly fired alerts. Deduplicated alerts are dropped
// silently.
func (e *Engine) Evaluate(snap snapshot.Snapshot, sessions []collector.SessionData, now time.Time) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var candidates []Alert
	candidates = append(candidates, e.checkNegativeNet(snap, now)...)
	candidates = append(candidates, e.checkChurnSpike(snap, now)...)
	candidates = append(candidates, e.checkPerceptionGap(snap, now)...)
	candidates = append(candidates, e.checkHighRejection(sessions, now)...)

	var fired []Alert
	for _, a := range candidates {
		key := a.alertKey()
		if last, ok := e.lastFired[key]; ok && now.Sub(last) < dedupWindow {
			continue
		}
		e.lastFired[key] = now
		e.active = append(e.active, a)
		e.notifier.Notify(a)
		fired = append(fired, a)
	}

	e.pruneActiveLocked(now)
	return fired
}

// Active returns the alerts fired within the active window, newest
// first.
func (e *Engine) Active() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]Alert, len(e.active))
	for i, a := range e.active {
		result[len(e.active)-1-i] = a
	}
	return result
}

// checkNegativeNet fires when net time saved has been negative for the
// configured sustained window.
func (e *Engine) checkNegativeNet(snap snapshot.Snapshot, now time.Time) []Alert {
	if snap.Productivity == nil {
		return nil
	}

	net := snap.Productivity.NetTimeSavedHours
	if net >= 0 {
		e.negativeSince = time.Time{}
		return nil
	}

	if e.negativeSince.IsZero() {
		e.negativeSince = now
		return nil
	}

	sustained := time.Duration(e.cfg.NegativeNetSustainedMinutes) * time.Minute
	if now.Sub(e.negativeSince) < sustained {
		return nil
	}

	return []Alert{{
		Rule:     RuleNegativeNet,
		Severity: SeverityCritical,
		Message: fmt.Sprintf("net time saved has been negative (%.1fh) for %d+ minutes",
			net, e.cfg.NegativeNetSustainedMinutes),
		FiredAt: now,
	}}
}

// checkChurnSpike fires when the measured churn rate exceeds the
// configured threshold.
func (e *Engine) checkChurnSpike(snap snapshot.Snapshot, now time.Time) []Alert {
	if snap.Quality == nil {
		return nil
	}

	rate := snap.Quality.Churn.Rate
	if rate <= e.cfg.ChurnSpikeThreshold {
		return nil
	}

	return []Alert{{
		Rule:     RuleChurnSpike,
		Severity: SeverityWarning,
		Message: fmt.Sprintf("AI code churn rate %.0f%% exceeds %.0f%% threshold",
			rate*100, e.cfg.ChurnSpikeThreshold*100),
		FiredAt: now,
	}}
}

// checkPerceptionGap fires when perceived productivity gain runs ahead
// of the measured gain by more than the configured gap.
func (e *Engine) checkPerceptionGap(snap snapshot.Snapshot, now time.Time) []Alert {
	if snap.Productivity == nil {
		return nil
	}

	gap := snap.Productivity.PerceivedGain - snap.Productivity.ActualGain
	if gap <= e.cfg.PerceptionGapThreshold {
		return nil
	}

	return []Alert{{
		Rule:     RulePerceptionGap,
		Severity: SeverityWarning,
		Message: fmt.Sprintf("perceived gain %.0f%% vs actual %.0f%%: AI feels faster than it measures",
			snap.Productivity.PerceivedGain*100, snap.Productivity.ActualGain*100),
		FiredAt: now,
	}}
}

// checkHighRejection fires per session when the rejection percentage
// exceeds the configured threshold. Sessions running variants of the
// same model family share one alert via the normalized model key.
func (e *Engine) checkHighRejection(sessions []collector.SessionData, now time.Time) []Alert {
	var result []Alert
	for i := range sessions {
		s := &sessions[i]
		if s.SuggestionsShown < minSuggestionsForRejection {
			continue
		}

		rejectionPct := float64(s.SuggestionsRejected) / float64(s.SuggestionsShown) * 100
		if rejectionPct <= float64(e.cfg.HighRejectionPercent) {
			continue
		}

		sessionKey := s.SessionID
		if family := NormalizeModel(s.Model); family != "" {
			sessionKey = family
		}

		model := s.Model
		if model == "" {
			model = "unknown model"
		}

		result = append(result, Alert{
			Rule:     RuleHighRejection,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%s rejecting %.0f%% of suggestions (session %s)",
				model, rejectionPct, truncateSessionID(s.SessionID)),
			SessionID: sessionKey,
			FiredAt:   now,
		})
	}
	return result
}

// pruneActiveLocked drops alerts older than the active window. Caller
// must hold e.mu.
func (e *Engine) pruneActiveLocked(now time.Time) {
	cutoff := now.Add(-activeWindow)
	n := 0
	for _, a := range e.active {
		if a.FiredAt.After(cutoff) {
			e.active[n] = a
			n++
		}
	}
	e.active = e.active[:n]
}

package collector

import (
	"sync"
	"testing"
	"time"
)

func TestStore_IndexMetricBySessionID(t *testing.T) {
	store := NewMemoryStore()

	m := Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      4,
		Attributes: map[string]string{"decision": "shown", "model": "gpt-5-codex"},
		Timestamp:  time.Now(),
	}

	store.AddMetric("sess-001", m)

	// Verify metric is indexed under the correct session.
	s := store.GetSession("sess-001")
	if s == nil {
		t.Fatal("expected session 'sess-001' to exist")
	}
	if s.SessionID != "sess-001" {
		t.Errorf("expected SessionID='sess-001', got %q", s.SessionID)
	}
	if len(s.Metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(s.Metrics))
	}
	if s.Metrics[0].Name != "ai_assist.suggestion.count" {
		t.Errorf("expected metric name 'ai_assist.suggestion.count', got %q", s.Metrics[0].Name)
	}
	if s.SuggestionsShown != 4 {
		t.Errorf("expected SuggestionsShown=4, got %d", s.SuggestionsShown)
	}
	if s.Model != "gpt-5-codex" {
		t.Errorf("expected Model='gpt-5-codex', got %q", s.Model)
	}

	// Verify another session does not have this metric.
	other := store.GetSession("sess-002")
	if other != nil {
		t.Error("expected session 'sess-002' to not exist")
	}
}

func TestStore_IndexEventBySessionID(t *testing.T) {
	store := NewMemoryStore()

	e := Event{
		Name: "ai_assist.suggestion_decision",
		Attributes: map[string]string{
			"decision": "accepted",
			"model":    "gpt-5-codex",
		},
		Timestamp: time.Now(),
	}

	store.AddEvent("sess-abc", e)

	s := store.GetSession("sess-abc")
	if s == nil {
		t.Fatal("expected session 'sess-abc' to exist")
	}
	if len(s.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(s.Events))
	}
	if s.Events[0].Name != "ai_assist.suggestion_decision" {
		t.Errorf("expected event name 'ai_assist.suggestion_decision', got %q", s.Events[0].Name)
	}
	if s.Model != "gpt-5-codex" {
		t.Errorf("expected Model='gpt-5-codex', got %q", s.Model)
	}

	// Verify a different session does not have this event.
	other := store.GetSession("sess-def")
	if other != nil {
		t.Error("expected session 'sess-def' to not exist")
	}
}

func TestStore_EventDoesNotAccumulateCounters(t *testing.T) {
	store := NewMemoryStore()

	// A suggestion_decision event must not move the counters — those come
	// only from metrics.
	store.AddEvent("sess-dec", Event{
		Name:       "ai_assist.suggestion_decision",
		Attributes: map[string]string{"decision": "accepted"},
		Timestamp:  time.Now(),
	})

	s := store.GetSession("sess-dec")
	if s == nil {
		t.Fatal("expected session to exist")
	}
	if s.SuggestionsAccepted != 0 {
		t.Errorf("expected SuggestionsAccepted=0 (events should not count), got %d", s.SuggestionsAccepted)
	}
}

func TestStore_MissingSessID(t *testing.T) {
	store := NewMemoryStore()

	m := Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      2,
		Attributes: map[string]string{"decision": "shown"},
		Timestamp:  time.Now(),
	}
	store.AddMetric("", m)

	// Metric should be stored under "unknown".
	s := store.GetSession(UnknownSessionID)
	if s == nil {
		t.Fatal("expected 'unknown' session to exist")
	}
	if len(s.Metrics) != 1 {
		t.Fatalf("expected 1 metric under 'unknown', got %d", len(s.Metrics))
	}

	// Also test events with empty session ID.
	e := Event{
		Name:      "ai_assist.suggestion_decision",
		Timestamp: time.Now(),
	}
	store.AddEvent("", e)

	s = store.GetSession(UnknownSessionID)
	if s == nil {
		t.Fatal("expected 'unknown' session to exist after event")
	}
	if len(s.Events) != 1 {
		t.Fatalf("expected 1 event under 'unknown', got %d", len(s.Events))
	}
}

func TestStore_CounterReset(t *testing.T) {
	store := NewMemoryStore()

	attrs := map[string]string{"decision": "shown"}

	// First metric value: 10.
	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      10,
		Attributes: attrs,
		Timestamp:  time.Now(),
	})

	s := store.GetSession("sess-001")
	if s.SuggestionsShown != 10 {
		t.Errorf("expected SuggestionsShown=10, got %d", s.SuggestionsShown)
	}

	// Cumulative counter increases to 15 (delta = 5).
	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      15,
		Attributes: attrs,
		Timestamp:  time.Now(),
	})

	s = store.GetSession("sess-001")
	if s.SuggestionsShown != 15 {
		t.Errorf("expected SuggestionsShown=15, got %d", s.SuggestionsShown)
	}

	// Counter reset: new value is 3 (less than previous 15).
	// Delta should be treated as 3 (previous treated as 0).
	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      3,
		Attributes: attrs,
		Timestamp:  time.Now(),
	})

	s = store.GetSession("sess-001")
	if s.SuggestionsShown != 18 {
		t.Errorf("expected SuggestionsShown=18 after counter reset, got %d", s.SuggestionsShown)
	}
}

func TestStore_CountersTrackedPerAttributeSet(t *testing.T) {
	store := NewMemoryStore()

	// Counters with different decision attributes are independent series
	// and must not interfere with each other's delta tracking.
	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      10,
		Attributes: map[string]string{"decision": "shown"},
		Timestamp:  time.Now(),
	})
	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      4,
		Attributes: map[string]string{"decision": "accepted"},
		Timestamp:  time.Now(),
	})
	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      12,
		Attributes: map[string]string{"decision": "shown"},
		Timestamp:  time.Now(),
	})

	s := store.GetSession("sess-001")
	if s.SuggestionsShown != 12 {
		t.Errorf("expected SuggestionsShown=12, got %d", s.SuggestionsShown)
	}
	if s.SuggestionsAccepted != 4 {
		t.Errorf("expected SuggestionsAccepted=4, got %d", s.SuggestionsAccepted)
	}
}

func TestStore_LinesOfCodeMetric(t *testing.T) {
	store := NewMemoryStore()

	store.AddMetric("sess-loc", Metric{
		Name:       "ai_assist.lines_of_code.count",
		Value:      120,
		Attributes: map[string]string{"type": "added"},
		Timestamp:  time.Now(),
	})
	store.AddMetric("sess-loc", Metric{
		Name:       "ai_assist.lines_of_code.count",
		Value:      30,
		Attributes: map[string]string{"type": "removed"},
		Timestamp:  time.Now(),
	})
	store.AddMetric("sess-loc", Metric{
		Name:       "ai_assist.lines_of_code.count",
		Value:      18,
		Attributes: map[string]string{"type": "rewritten"},
		Timestamp:  time.Now(),
	})

	s := store.GetSession("sess-loc")
	if s.LinesAdded != 120 {
		t.Errorf("expected LinesAdded=120, got %d", s.LinesAdded)
	}
	if s.LinesRemoved != 30 {
		t.Errorf("expected LinesRemoved=30, got %d", s.LinesRemoved)
	}
	if s.LinesRewritten != 18 {
		t.Errorf("expected LinesRewritten=18, got %d", s.LinesRewritten)
	}
}

func TestStore_TimeMetrics(t *testing.T) {
	store := NewMemoryStore()

	// Active and flow time arrive in seconds.
	store.AddMetric("sess-time", Metric{
		Name:      "ai_assist.active_time.total",
		Value:     600,
		Timestamp: time.Now(),
	})
	store.AddMetric("sess-time", Metric{
		Name:      "ai_assist.flow_time.total",
		Value:     450,
		Timestamp: time.Now(),
	})
	store.AddMetric("sess-time", Metric{
		Name:      "ai_assist.context_switch.count",
		Value:     7,
		Timestamp: time.Now(),
	})

	s := store.GetSession("sess-time")
	if s.ActiveTime != 10*time.Minute {
		t.Errorf("expected ActiveTime=10m, got %v", s.ActiveTime)
	}
	if s.FlowTime != 450*time.Second {
		t.Errorf("expected FlowTime=7m30s, got %v", s.FlowTime)
	}
	if s.ContextSwitches != 7 {
		t.Errorf("expected ContextSwitches=7, got %d", s.ContextSwitches)
	}
}

func TestStore_MarkExited(t *testing.T) {
	store := NewMemoryStore()

	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      5,
		Attributes: map[string]string{"decision": "shown"},
		Timestamp:  time.Now(),
	})

	store.MarkExited("sess-001")

	s := store.GetSession("sess-001")
	if s == nil {
		t.Fatal("expected session to exist")
	}
	if !s.Exited {
		t.Error("expected session to be marked exited")
	}
	if s.SuggestionsShown != 5 {
		t.Errorf("expected telemetry preserved after exit, got SuggestionsShown=%d", s.SuggestionsShown)
	}
}

func TestStore_MarkExited_IgnoresUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	store.AddMetric("sess-001", Metric{
		Name:      "ai_assist.session.count",
		Value:     1,
		Timestamp: time.Now(),
	})

	// Should not create or mark anything for an unknown ID.
	store.MarkExited("sess-nonexistent")

	if s := store.GetSession("sess-nonexistent"); s != nil {
		t.Error("MarkExited must not create sessions")
	}
	if s := store.GetSession("sess-001"); s.Exited {
		t.Error("expected sess-001 NOT to be marked exited")
	}
}

func TestStore_SessionCountSetsStartedAt(t *testing.T) {
	store := NewMemoryStore()

	metricTime := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)

	store.AddMetric("sess-ts", Metric{
		Name:      "ai_assist.session.count",
		Value:     1,
		Timestamp: metricTime,
	})

	s := store.GetSession("sess-ts")
	if s == nil {
		t.Fatal("expected session to exist")
	}
	// StartedAt should be the metric timestamp, not time.Now().
	if !s.StartedAt.Equal(metricTime) {
		t.Errorf("expected StartedAt=%v, got %v", metricTime, s.StartedAt)
	}
}

func TestStore_SessionCountDoesNotOverwriteStartedAt(t *testing.T) {
	store := NewMemoryStore()

	firstTime := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	laterTime := time.Date(2026, 6, 15, 11, 0, 0, 0, time.UTC)

	// First session.count creates the session.
	store.AddMetric("sess-ts2", Metric{
		Name:      "ai_assist.session.count",
		Value:     1,
		Timestamp: firstTime,
	})

	// Second session.count should not overwrite StartedAt.
	store.AddMetric("sess-ts2", Metric{
		Name:      "ai_assist.session.count",
		Value:     2,
		Timestamp: laterTime,
	})

	s := store.GetSession("sess-ts2")
	if !s.StartedAt.Equal(firstTime) {
		t.Errorf("expected StartedAt=%v (first metric), got %v", firstTime, s.StartedAt)
	}
}

func TestStore_SessionCountZeroTimestamp(t *testing.T) {
	store := NewMemoryStore()

	before := time.Now()
	store.AddMetric("sess-zero-ts", Metric{
		Name:  "ai_assist.session.count",
		Value: 1,
		// Zero timestamp — should fallback to time.Now().
	})
	after := time.Now()

	s := store.GetSession("sess-zero-ts")
	if s.StartedAt.Before(before) || s.StartedAt.After(after) {
		t.Errorf("expected StartedAt near now, got %v (before=%v, after=%v)", s.StartedAt, before, after)
	}
}

func TestStore_ListSessions(t *testing.T) {
	store := NewMemoryStore()

	// Add sessions in non-alphabetical order.
	store.AddMetric("sess-bravo", Metric{
		Name:      "ai_assist.session.count",
		Value:     1,
		Timestamp: time.Now(),
	})
	// Small delay to ensure ordering.
	time.Sleep(time.Millisecond)
	store.AddMetric("sess-alpha", Metric{
		Name:      "ai_assist.session.count",
		Value:     1,
		Timestamp: time.Now(),
	})

	sessions := store.ListSessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	// First session should be the one started first (bravo).
	if sessions[0].SessionID != "sess-bravo" {
		t.Errorf("expected first session='sess-bravo', got %q", sessions[0].SessionID)
	}
	if sessions[1].SessionID != "sess-alpha" {
		t.Errorf("expected second session='sess-alpha', got %q", sessions[1].SessionID)
	}
}

func TestStore_UpdateMetadata(t *testing.T) {
	store := NewMemoryStore()

	store.UpdateMetadata("sess-meta", SessionMetadata{
		PluginVersion: "1.4.2",
		EditorVersion: "1.92.0",
		OSType:        "linux",
		HostArch:      "arm64",
	})

	s := store.GetSession("sess-meta")
	if s == nil {
		t.Fatal("expected session to exist")
	}
	if s.Metadata.PluginVersion != "1.4.2" {
		t.Errorf("expected PluginVersion=1.4.2, got %q", s.Metadata.PluginVersion)
	}
	if s.Metadata.HostArch != "arm64" {
		t.Errorf("expected HostArch=arm64, got %q", s.Metadata.HostArch)
	}

	// Empty fields must not overwrite existing values.
	store.UpdateMetadata("sess-meta", SessionMetadata{OSType: "darwin"})

	s = store.GetSession("sess-meta")
	if s.Metadata.PluginVersion != "1.4.2" {
		t.Errorf("expected PluginVersion preserved, got %q", s.Metadata.PluginVersion)
	}
	if s.Metadata.OSType != "darwin" {
		t.Errorf("expected OSType updated to darwin, got %q", s.Metadata.OSType)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup

	// Concurrent writers.
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sid := "sess-001"
			if n%2 == 0 {
				sid = "sess-002"
			}
			store.AddMetric(sid, Metric{
				Name:       "ai_assist.suggestion.count",
				Value:      float64(n),
				Attributes: map[string]string{"decision": "shown"},
				Timestamp:  time.Now(),
			})
			store.AddEvent(sid, Event{
				Name:      "ai_assist.suggestion_decision",
				Timestamp: time.Now(),
			})
		}(i)
	}

	// Concurrent readers.
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.GetSession("sess-001")
			store.ListSessions()
		}()
	}

	wg.Wait()

	sessions := store.ListSessions()
	if len(sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestStore_GetSessionReturnsNilForMissing(t *testing.T) {
	store := NewMemoryStore()
	s := store.GetSession("nonexistent")
	if s != nil {
		t.Error("expected nil for nonexistent session")
	}
}

func TestStore_GetSessionReturnsCopy(t *testing.T) {
	store := NewMemoryStore()

	store.AddMetric("sess-001", Metric{
		Name:       "ai_assist.suggestion.count",
		Value:      1,
		Attributes: map[string]string{"decision": "shown"},
		Timestamp:  time.Now(),
	})

	s := store.GetSession("sess-001")
	// Mutate the copy; original should be unaffected.
	s.SuggestionsShown = 999
	s.Metrics = append(s.Metrics, Metric{Name: "injected"})

	original := store.GetSession("sess-001")
	if original.SuggestionsShown == 999 {
		t.Error("mutation of copy should not affect store")
	}
	if len(original.Metrics) != 1 {
		t.Error("mutation of copy's metrics slice should not affect store")
	}
}

func TestStore_IdentityFromMetricAttributes(t *testing.T) {
	store := NewMemoryStore()

	store.AddMetric("sess-id", Metric{
		Name:  "ai_assist.suggestion.count",
		Value: 1,
		Attributes: map[string]string{
			"decision":       "shown",
			"editor.type":    "jetbrains",
			"workspace.path": "/home/dev/proj",
		},
		Timestamp: time.Now(),
	})

	s := store.GetSession("sess-id")
	if s.Editor != "jetbrains" {
		t.Errorf("expected Editor='jetbrains', got %q", s.Editor)
	}
	if s.Workspace != "/home/dev/proj" {
		t.Errorf("expected Workspace='/home/dev/proj', got %q", s.Workspace)
	}
}

func TestStore_IdentityEmptyIgnored(t *testing.T) {
	store := NewMemoryStore()

	store.AddEvent("sess-empty", Event{
		Name: "ai_assist.suggestion_decision",
		Attributes: map[string]string{
			"model":       "gpt-5-codex",
			"editor.type": "vscode",
		},
		Timestamp: time.Now(),
	})

	// Empty values should not overwrite.
	store.AddEvent("sess-empty", Event{
		Name: "ai_assist.suggestion_decision",
		Attributes: map[string]string{
			"model":       "",
			"editor.type": "",
		},
		Timestamp: time.Now(),
	})

	s := store.GetSession("sess-empty")
	if s.Model != "gpt-5-codex" {
		t.Errorf("expected Model preserved, got %q", s.Model)
	}
	if s.Editor != "vscode" {
		t.Errorf("expected Editor preserved, got %q", s.Editor)
	}
}

func TestStore_EventSequenceOrdering(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Add events out of sequence order.
	store.AddEvent("sess-seq", Event{
		Name:       "ai_assist.suggestion_decision",
		Attributes: map[string]string{"event.sequence": "3"},
		Timestamp:  base.Add(1 * time.Second),
	})
	store.AddEvent("sess-seq", Event{
		Name:       "ai_assist.suggestion_decision",
		Attributes: map[string]string{"event.sequence": "1"},
		Timestamp:  base.Add(2 * time.Second),
	})
	store.AddEvent("sess-seq", Event{
		Name:       "ai_assist.suggestion_decision",
		Attributes: map[string]string{"event.sequence": "2"},
		Timestamp:  base.Add(3 * time.Second),
	})

	s := store.GetSession("sess-seq")
	if len(s.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(s.Events))
	}
	// Events should be sorted by sequence: 1, 2, 3.
	if s.Events[0].Sequence != 1 {
		t.Errorf("expected first event sequence=1, got %d", s.Events[0].Sequence)
	}
	if s.Events[1].Sequence != 2 {
		t.Errorf("expected second event sequence=2, got %d", s.Events[1].Sequence)
	}
	if s.Events[2].Sequence != 3 {
		t.Errorf("expected third event sequence=3, got %d", s.Events[2].Sequence)
	}
}

func TestStore_EventSequenceBeforeNoSequence(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Event without sequence (timestamp-based).
	store.AddEvent("sess-seq2", Event{
		Name:      "ai_assist.session_end",
		Timestamp: base,
	})
	// Event with sequence should sort before event without.
	store.AddEvent("sess-seq2", Event{
		Name:       "ai_assist.suggestion_decision",
		Attributes: map[string]string{"event.sequence": "1"},
		Timestamp:  base.Add(1 * time.Second),
	})

	s := store.GetSession("sess-seq2")
	if len(s.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.Events))
	}
	// Event with sequence should come first.
	if s.Events[0].Sequence != 1 {
		t.Errorf("expected sequenced event first, got sequence=%d", s.Events[0].Sequence)
	}
	if s.Events[1].Sequence != 0 {
		t.Errorf("expected non-sequenced event second, got sequence=%d", s.Events[1].Sequence)
	}
}

func TestStore_EventTimestampFallback(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Two events without sequences should sort by timestamp.
	store.AddEvent("sess-ts", Event{
		Name:      "ai_assist.suggestion_decision",
		Timestamp: base.Add(2 * time.Second),
	})
	store.AddEvent("sess-ts", Event{
		Name:      "ai_assist.suggestion_decision",
		Timestamp: base,
	})

	s := store.GetSession("sess-ts")
	if len(s.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.Events))
	}
	// Earlier timestamp should come first.
	if !s.Events[0].Timestamp.Before(s.Events[1].Timestamp) {
		t.Error("expected events sorted by timestamp (earlier first)")
	}
}

func TestStore_OnEventListener(t *testing.T) {
	store := NewMemoryStore()

	var gotSession string
	var gotEvent Event
	store.OnEvent(func(sessionID string, e Event) {
		gotSession = sessionID
		gotEvent = e
	})

	store.AddEvent("sess-listen", Event{
		Name:      "ai_assist.suggestion_decision",
		Timestamp: time.Now(),
	})

	if gotSession != "sess-listen" {
		t.Errorf("expected listener called with sess-listen, got %q", gotSession)
	}
	if gotEvent.Name != "ai_assist.suggestion_decision" {
		t.Errorf("expected listener to receive the event, got %q", gotEvent.Name)
	}
}

func TestSessionStatus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		session  SessionData
		expected SessionStatus
	}{
		{
			name:     "exited always returns StatusExited",
			session:  SessionData{Exited: true, LastEventAt: now},
			expected: StatusExited,
		},
		{
			name:     "active within 30s",
			session:  SessionData{LastEventAt: now.Add(-10 * time.Second)},
			expected: StatusActive,
		},
		{
			name:     "idle between 30s and 5m",
			session:  SessionData{LastEventAt: now.Add(-2 * time.Minute)},
			expected: StatusIdle,
		},
		{
			name:     "done after 5m",
			session:  SessionData{LastEventAt: now.Add(-10 * time.Minute)},
			expected: StatusDone,
		},
		{
			name:     "done with zero last event",
			session:  SessionData{},
			expected: StatusDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.session.Status()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSessionHelpers(t *testing.T) {
	t.Run("TruncateSessionID", func(t *testing.T) {
		if got := TruncateSessionID("abcdefghij", 7); got != "abcd..." {
			t.Errorf("expected 'abcd...', got %q", got)
		}
		if got := TruncateSessionID("abc", 10); got != "abc" {
			t.Errorf("expected 'abc', got %q", got)
		}
		if got := TruncateSessionID("abc", 3); got != "abc" {
			t.Errorf("expected 'abc', got %q", got)
		}
		if got := TruncateSessionID("abcdef", 2); got != "ab" {
			t.Errorf("expected 'ab', got %q", got)
		}
	})

	t.Run("ActiveSessions", func(t *testing.T) {
		sessions := []SessionData{
			{SessionID: "s1", Exited: false},
			{SessionID: "s2", Exited: true},
			{SessionID: "s3", Exited: false},
		}

		result := ActiveSessions(sessions)
		if len(result) != 2 {
			t.Errorf("expected 2 active sessions, got %d", len(result))
		}
	})

	t.Run("MetricsByName", func(t *testing.T) {
		s := &SessionData{
			Metrics: []Metric{
				{Name: "ai_assist.suggestion.count"},
				{Name: "ai_assist.lines_of_code.count"},
				{Name: "ai_assist.suggestion.count"},
			},
		}
		result := MetricsByName(s, "ai_assist.suggestion.count")
		if len(result) != 2 {
			t.Errorf("expected 2 suggestion metrics, got %d", len(result))
		}
	})

	t.Run("EventsByName", func(t *testing.T) {
		s := &SessionData{
			Events: []Event{
				{Name: "ai_assist.suggestion_decision"},
				{Name: "ai_assist.session_end"},
				{Name: "ai_assist.suggestion_decision"},
			},
		}
		result := EventsByName(s, "ai_assist.suggestion_decision")
		if len(result) != 2 {
			t.Errorf("expected 2 decision events, got %d", len(result))
		}
	})
}

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/roitop/roitop/internal/events"
)

func TestEventFilter_Matches(t *testing.T) {
	accepted := true
	rejected := false

	t.Run("default passes everything", func(t *testing.T) {
		f := NewEventFilter()
		if !f.Matches("s1", "suggestion_decision", &accepted) {
			t.Error("default filter should pass suggestion_decision")
		}
		if !f.Matches("s1", "context_switch", nil) {
			t.Error("default filter should pass context_switch")
		}
	})

	t.Run("session filter", func(t *testing.T) {
		f := NewEventFilter()
		f.SessionID = "s1"
		if f.Matches("s2", "suggestion_decision", nil) {
			t.Error("should reject other sessions")
		}
		if !f.Matches("s1", "suggestion_decision", nil) {
			t.Error("should pass matching session")
		}
	})

	t.Run("type filter", func(t *testing.T) {
		f := NewEventFilter()
		f.EventTypes = map[string]bool{"session_end": true}
		if f.Matches("s1", "suggestion_decision", nil) {
			t.Error("should reject disabled type")
		}
		if !f.Matches("s1", "session_end", nil) {
			t.Error("should pass enabled type")
		}
	})

	t.Run("accepted only", func(t *testing.T) {
		f := NewEventFilter()
		f.AcceptedOnly = true
		if f.Matches("s1", "suggestion_decision", &rejected) {
			t.Error("should reject rejected decisions")
		}
		if !f.Matches("s1", "suggestion_decision", &accepted) {
			t.Error("should pass accepted decisions")
		}
		// Events without a decision are unaffected.
		if !f.Matches("s1", "context_switch", nil) {
			t.Error("should pass decisionless events")
		}
	})

	t.Run("rejected only", func(t *testing.T) {
		f := NewEventFilter()
		f.RejectedOnly = true
		if f.Matches("s1", "suggestion_decision", &accepted) {
			t.Error("should reject accepted decisions")
		}
		if !f.Matches("s1", "suggestion_decision", &rejected) {
			t.Error("should pass rejected decisions")
		}
	})
}

func TestRenderEventLine(t *testing.T) {
	e := events.FormattedEvent{
		EventType: "suggestion_decision",
		Formatted: "accepted 12 lines in main.go",
	}
	line := stripAnsi(renderEventLine(e, 80))
	if !strings.HasPrefix(line, "S: ") {
		t.Errorf("line = %q, want S: prefix", line)
	}

	unknown := events.FormattedEvent{EventType: "mystery", Formatted: "something"}
	line = stripAnsi(renderEventLine(unknown, 80))
	if !strings.HasPrefix(line, "?? ") {
		t.Errorf("unknown-type line = %q, want ?? prefix", line)
	}
}

func TestRenderEventLine_Truncates(t *testing.T) {
	e := events.FormattedEvent{
		EventType: "context_switch",
		Formatted: strings.Repeat("x", 200),
	}
	line := stripAnsi(renderEventLine(e, 40))
	if len(line) > 40 {
		t.Errorf("line length = %d, want <= 40", len(line))
	}
	if !strings.HasSuffix(line, "...") {
		t.Errorf("truncated line %q missing ellipsis", line)
	}
}

func TestFormatScrollPos(t *testing.T) {
	if got := formatScrollPos(10, 20, 100); got != "[10-20/100]" {
		t.Errorf("formatScrollPos = %q, want [10-20/100]", got)
	}
	if got := formatScrollPos(1, 50, 1500); got != "[1-50/1,500]" {
		t.Errorf("formatScrollPos = %q, want [1-50/1,500]", got)
	}
}

func TestGetFilteredEvents_SessionScoped(t *testing.T) {
	evts := []events.FormattedEvent{
		{SessionID: "s1", EventType: "suggestion_decision", Timestamp: time.Now()},
		{SessionID: "s2", EventType: "suggestion_decision", Timestamp: time.Now()},
	}
	m := newTestModel(WithEventProvider(&mockEventProvider{events: evts}))
	m.eventFilter.SessionID = "s1"

	got := m.getFilteredEvents(100)
	if len(got) != 1 || got[0].SessionID != "s1" {
		t.Errorf("got %d events, want only s1's", len(got))
	}
}

func TestRenderEventStreamPanel_Empty(t *testing.T) {
	m := newTestModel()
	out := m.renderEventStreamPanel(50, 10)
	if !strings.Contains(out, "No data received yet") {
		t.Errorf("empty panel missing placeholder:\n%s", out)
	}
}

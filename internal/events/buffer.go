package events

import "sync"

// RingBuffer is a fixed-capacity, thread-safe ring buffer for
// FormattedEvents feeding the dashboard event stream. When the buffer
// is full the oldest event is evicted to make room for new entries.
type RingBuffer struct {
	mu    sync.RWMutex
	items []FormattedEvent
	next  int // index the next event is written to
	full  bool
}

// NewRingBuffer creates a new RingBuffer with the given capacity.
// Capacity must be at least 1.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{
		items: make([]FormattedEvent, capacity),
	}
}

// Add inserts an event into the buffer, evicting the oldest when full.
func (rb *RingBuffer) Add(e FormattedEvent) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.items[rb.next] = e
	rb.next = (rb.next + 1) % len(rb.items)
	if rb.next == 0 {
		rb.full = true
	}
}

// ListAll returns all events in chronological order (oldest first).
func (rb *RingBuffer) ListAll() []FormattedEvent {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	return rb.listLocked()
}

// ListBySession returns all events for the given session ID in
// chronological order.
func (rb *RingBuffer) ListBySession(sessionID string) []FormattedEvent {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	var result []FormattedEvent
	for _, e := range rb.listLocked() {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result
}

// ListByType returns all events of the given type in chronological
// order. The type matches the EventType field (e.g. "suggestion_decision").
func (rb *RingBuffer) ListByType(eventType string) []FormattedEvent {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	var result []FormattedEvent
	for _, e := range rb.listLocked() {
		if e.EventType == eventType {
			result = append(result, e)
		}
	}
	return result
}

// Len returns the number of events currently in the buffer.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.full {
		return len(rb.items)
	}
	return rb.next
}

// Cap returns the capacity of the buffer.
func (rb *RingBuffer) Cap() int {
	return len(rb.items)
}

// Clear discards all buffered events.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.next = 0
	rb.full = false
}

// listLocked returns all events oldest first. Caller must hold at
// least a read lock.
func (rb *RingBuffer) listLocked() []FormattedEvent {
	if !rb.full {
		if rb.next == 0 {
			return nil
		}
		result := make([]FormattedEvent, rb.next)
		copy(result, rb.items[:rb.next])
		return result
	}

	result := make([]FormattedEvent, 0, len(rb.items))
	result = append(result, rb.items[rb.next:]...)
	result = append(result, rb.items[:rb.next]...)
	return result
}

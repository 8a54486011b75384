package session

import (
	"github.com/vk/sweepview/internal/archive"
	"github.com/vk/sweepview/internal/notify"
)

// EventKind names what happened in an Event.
type EventKind string

const (
	// EventProgress follows every inserted frame.
	EventProgress EventKind = "progress"
	// EventReady is sent once an animation has all of its frames.
	EventReady EventKind = "ready"
	// EventValue reports a parameter change.
	EventValue EventKind = "value"
	// EventFrame carries the frame matching the current parameter values.
	EventFrame EventKind = "frame"
	// EventError reports failures of background work such as loads started
	// by a synced partner.
	EventError EventKind = "error"
)

const topic notify.Kind = "session"

// Event is delivered to subscribers.
type Event struct {
	Kind      EventKind
	Animation string

	// Progress and ready.
	Loaded int
	Total  int

	// Value.
	Parameter string
	Value     float64

	// Frame.
	Frame *Frame

	// Error.
	Err error
}

// Frame is the frame displayed for the current parameter values.
type Frame struct {
	Animation string
	// Key is the composite key the frame was looked up with.
	Key   string
	Entry archive.Entry
}

// Subscribe registers fn for every session event.
func (s *Session) Subscribe(fn func(Event)) notify.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.Subscribe(topic, fn)
}

// Unsubscribe removes a subscription made with Subscribe.
func (s *Session) Unsubscribe(h notify.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.Unsubscribe(h)
}

// publish must be called with s.mu held.
func (s *Session) publish(e Event) {
	s.events.Publish(topic, e)
}

// Package state provides thread-safe publication of engine frames and the
// event log for readers outside the frame loop.
package state

import (
	"sync"
	"time"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventSelected     EventType = "SELECTED"
	EventUnfocused    EventType = "UNFOCUSED"
	EventRebuilt      EventType = "REBUILT"
	EventPaused       EventType = "PAUSED"
	EventResumed      EventType = "RESUMED"
	EventSpeedClamped EventType = "SPEED_CLAMPED"
)

// Event represents a change in the simulation or navigation state.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Frame is what the engine publishes after each tick.
type Frame struct {
	Number        uint64
	Generation    string
	SimTime       float64
	Speed         float64
	Running       bool
	Mode          string
	Selected      string
	Subject       string
	Bodies        int
	VisibleRings  int
	PromotedRings int
	TickDuration  time.Duration
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current    *Frame
	lastUpdate time.Time

	// Tick duration history, in milliseconds
	history       []TimeSeries
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxEvents     int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 120, // two seconds of ticks at 60 Hz
		MaxEvents:     50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 120
	}
	return &Manager{
		maxHistoryLen: maxHistory,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
	}
}

// Update atomically publishes a new frame and records the events implied
// by the change from the previous one.
func (m *Manager) Update(f Frame, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.detectEvents(f, now)

	frame := f
	m.current = &frame
	m.lastUpdate = now

	m.history = append(m.history, TimeSeries{
		Timestamp: now,
		Value:     float64(f.TickDuration) / float64(time.Millisecond),
	})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}
}

// detectEvents compares the new frame with the current one.
func (m *Manager) detectEvents(f Frame, now time.Time) {
	prev := m.current
	if prev == nil || prev.Generation != f.Generation {
		if f.Generation != "" {
			m.addEvent(Event{Type: EventRebuilt, Timestamp: now, Body: f.Subject, Detail: f.Generation})
		}
		if f.Selected != "" {
			m.addEvent(Event{Type: EventSelected, Timestamp: now, Body: f.Selected})
		}
		return
	}

	if prev.Selected != f.Selected {
		if f.Selected == "" {
			m.addEvent(Event{Type: EventUnfocused, Timestamp: now, Body: prev.Selected})
		} else {
			m.addEvent(Event{Type: EventSelected, Timestamp: now, Body: f.Selected})
		}
	}
	if prev.Running != f.Running {
		if f.Running {
			m.addEvent(Event{Type: EventResumed, Timestamp: now})
		} else {
			m.addEvent(Event{Type: EventPaused, Timestamp: now})
		}
	}
}

// AddEvent records an event that cannot be derived from frame changes.
func (m *Manager) AddEvent(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Frame      Frame
	HasFrame   bool
	LastUpdate time.Time
	TickAvg    time.Duration
	FPS        float64
	Events     []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		LastUpdate: m.lastUpdate,
		Events:     m.getEventsOrdered(),
		FPS:        m.fps(),
		TickAvg:    m.tickAvg(),
	}
	if m.current != nil {
		s.Frame = *m.current
		s.HasFrame = true
	}
	return s
}

// fps estimates the frame rate from the history timestamps.
func (m *Manager) fps() float64 {
	n := len(m.history)
	if n < 2 {
		return 0
	}
	span := m.history[n-1].Timestamp.Sub(m.history[0].Timestamp).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span
}

func (m *Manager) tickAvg() time.Duration {
	if len(m.history) == 0 {
		return 0
	}
	sum := 0.0
	for _, h := range m.history {
		sum += h.Value
	}
	return time.Duration(sum / float64(len(m.history)) * float64(time.Millisecond))
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasData returns true once a frame has been published.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

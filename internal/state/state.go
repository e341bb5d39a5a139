// Package state provides thread-safe state management for the application.
package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/litescript/ls-orbits/internal/target"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventLoaded    EventType = "LOADED"
	EventRejected  EventType = "REJECTED"
	EventSelected  EventType = "SELECTED"
	EventLoadError EventType = "LOAD_ERROR"
)

// Event represents a change in the loaded target set.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Target    string    `json:"target,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// TargetCounter receives the number of loaded targets after each update.
// *metrics.Collector satisfies it.
type TargetCounter interface {
	SetTargets(n int)
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	targets      []*target.Target
	selected     int
	source       string
	lastLoad     time.Time
	lastError    error
	loadDuration time.Duration

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
	counter         TargetCounter
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	RefreshInterval time.Duration // TLE re-fetch period; 0 disables
	Counter         TargetCounter // Optional
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		RefreshInterval: 30 * time.Minute, // Element sets change a few times a day
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		counter:         cfg.Counter,
	}
}

// Update replaces the loaded targets. On a load error with no targets the
// previous set is kept so the UI keeps showing something. The selection is
// kept on the same target ID when it survives the reload.
func (m *Manager) Update(source string, targets []*target.Target, loadDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastLoad = now
	m.lastError = err
	m.loadDuration = loadDuration

	if err != nil {
		m.addEvent(Event{Type: EventLoadError, Timestamp: now, Target: source, Detail: err.Error()})
	}
	if len(targets) == 0 && err != nil {
		return
	}

	var prevID string
	if m.selected < len(m.targets) {
		prevID = m.targets[m.selected].ID
	}

	m.targets = targets
	m.source = source
	m.selected = 0
	for i, t := range targets {
		if prevID != "" && t.ID == prevID {
			m.selected = i
		}
		if t.Err != nil {
			m.addEvent(Event{Type: EventRejected, Timestamp: now, Target: t.Label(), Detail: t.Err.Error()})
		}
	}
	m.addEvent(Event{Type: EventLoaded, Timestamp: now, Target: source, Detail: plural(len(targets), "target")})

	if m.counter != nil {
		m.counter.SetTargets(len(targets))
	}
}

// Select moves the selection to index i, clamped to the loaded range.
func (m *Manager) Select(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectLocked(i)
}

// Move shifts the selection by delta, wrapping at either end.
func (m *Manager) Move(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.targets)
	if n == 0 {
		return
	}
	m.selectLocked(((m.selected+delta)%n + n) % n)
}

func (m *Manager) selectLocked(i int) {
	if len(m.targets) == 0 {
		m.selected = 0
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(m.targets) {
		i = len(m.targets) - 1
	}
	if i == m.selected {
		return
	}
	m.selected = i
	m.addEvent(Event{Type: EventSelected, Timestamp: time.Now(), Target: m.targets[i].Label()})
}

// Selected returns the selected target, or nil when nothing is loaded.
func (m *Manager) Selected() *target.Target {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.selected < len(m.targets) {
		return m.targets[m.selected]
	}
	return nil
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
	Source       string
	Targets      []*target.Target
	Selected     int
	LastLoad     time.Time
	LastError    error
	LoadDuration time.Duration
	Events       []Event
}

// SelectedTarget returns the snapshot's selected target, or nil.
func (s Snapshot) SelectedTarget() *target.Target {
	if s.Selected >= 0 && s.Selected < len(s.Targets) {
		return s.Targets[s.Selected]
	}
	return nil
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	targets := make([]*target.Target, len(m.targets))
	copy(targets, m.targets)

	return Snapshot{
		Source:       m.source,
		Targets:      targets,
		Selected:     m.selected,
		LastLoad:     m.lastLoad,
		LastError:    m.lastError,
		LoadDuration: m.loadDuration,
		Events:       m.getEventsOrdered(),
	}
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

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once at least one target set has been loaded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.targets) > 0
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

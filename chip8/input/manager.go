package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]time.Time
	keys          *Keys
}

// NewManager creates a manager that writes keypad actions into keys.
// keys may be nil, in which case keypad actions go to registered callbacks.
func NewManager(keys *Keys) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]time.Time),
		keys:          keys,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}

	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	// keypad state goes straight to the key set, undebounced
	if m.keys != nil && act.IsKeypad() {
		switch evt {
		case event.Press, event.Hold:
			m.keys.Press(act.Key())
		case event.Release:
			m.keys.Release(act.Key())
		}
		return
	}

	if evt == event.Press && !act.IsKeypad() {
		now := time.Now()
		if now.Sub(m.lastTriggered[act]) < debounceDuration {
			return
		}
		m.lastTriggered[act] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

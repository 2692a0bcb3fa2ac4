package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

func TestHandler_Debouncing(t *testing.T) {
	tests := []struct {
		name           string
		action         action.Action
		eventType      event.Type
		timeBetween    time.Duration
		expectDebounce bool
	}{
		{
			name:           "UI action rapid press - should debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Press,
			timeBetween:    100 * time.Millisecond,
			expectDebounce: true,
		},
		{
			name:           "UI action slow press - should not debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Press,
			timeBetween:    400 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "Keypad rapid press - should not debounce",
			action:         action.KeypadA,
			eventType:      event.Press,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "UI action release event - should not debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Release,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "Hold event type - should not debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Hold,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler()

			// First event should always go through
			assert.True(t, handler.ProcessEvent(tt.action, tt.eventType), "First event should always pass")

			time.Sleep(tt.timeBetween)

			result := handler.ProcessEvent(tt.action, tt.eventType)
			if tt.expectDebounce {
				assert.False(t, result, "Second event should be debounced")
			} else {
				assert.True(t, result, "Second event should not be debounced")
			}
		})
	}
}

func TestHandler_MultipleActions(t *testing.T) {
	handler := NewHandler()

	// Different actions shouldn't interfere with each other
	assert.True(t, handler.ProcessEvent(action.EmulatorDebugToggle, event.Press), "First debug toggle should pass")
	assert.True(t, handler.ProcessEvent(action.EmulatorSnapshot, event.Press), "First snapshot should pass")

	assert.False(t, handler.ProcessEvent(action.EmulatorDebugToggle, event.Press), "Rapid debug toggle should be debounced")
	assert.False(t, handler.ProcessEvent(action.EmulatorSnapshot, event.Press), "Rapid snapshot should be debounced")
}

func TestManager_KeypadWritesKeys(t *testing.T) {
	var keys Keys
	m := NewManager(&keys)

	m.Trigger(action.KeypadC, event.Press)
	assert.True(t, keys.IsPressed(0xC))

	// keypad presses are not debounced
	m.Trigger(action.KeypadC, event.Release)
	m.Trigger(action.KeypadC, event.Press)
	assert.True(t, keys.IsPressed(0xC))

	m.Trigger(action.KeypadC, event.Release)
	assert.True(t, keys.Empty())
}

func TestManager_Callbacks(t *testing.T) {
	m := NewManager(nil)

	calls := 0
	m.On(action.EmulatorPauseToggle, event.Press, func() { calls++ })

	m.Trigger(action.EmulatorPauseToggle, event.Press)
	m.Trigger(action.EmulatorPauseToggle, event.Press) // debounced
	assert.Equal(t, 1, calls)

	m.Trigger(action.EmulatorQuit, event.Press) // no handler registered
	assert.Equal(t, 1, calls)
}

func TestDefaultKeyMap_CoversKeypad(t *testing.T) {
	seen := make(map[uint8]bool)
	for _, act := range DefaultKeyMap {
		if act.IsKeypad() {
			seen[act.Key()] = true
		}
	}
	assert.Len(t, seen, 16)

	act, ok := GetDefaultMapping("x")
	assert.True(t, ok)
	assert.Equal(t, action.Keypad0, act)

	act, ok = GetDefaultMapping("4")
	assert.True(t, ok)
	assert.Equal(t, action.KeypadC, act)
}

package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// Handler manages input processing with debouncing for UI actions
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  debounceDuration,
	}
}

// ProcessEvent applies debouncing to Press events of emulator and debug
// actions. Keypad actions and Release/Hold events always pass.
// Returns true if the event should be handled, false if it was debounced
func (h *Handler) ProcessEvent(act action.Action, typ event.Type) bool {
	if typ != event.Press || act.IsKeypad() {
		return true
	}

	now := time.Now()
	if lastTime, exists := h.lastActionTime[act]; exists {
		if now.Sub(lastTime) < h.debounceDelay {
			return false
		}
	}
	h.lastActionTime[act] = now

	return true
}

package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// CHIP-8 hex keypad, one action per key. The numeric value of each
	// keypad action is the key index it represents.
	Keypad0 Action = iota
	Keypad1
	Keypad2
	Keypad3
	Keypad4
	Keypad5
	Keypad6
	Keypad7
	Keypad8
	Keypad9
	KeypadA
	KeypadB
	KeypadC
	KeypadD
	KeypadE
	KeypadF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorReset
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorTestPatternCycle
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by the part of the system that consumes them.
type Category int

const (
	CategoryKeypad Category = iota
	CategoryEmulator
	CategoryDebug
)

// Keypad returns the keypad action for key index k (0x0-0xF).
func Keypad(k uint8) Action {
	return Keypad0 + Action(k&0xF)
}

// IsKeypad reports whether the action maps to a CHIP-8 key.
func (a Action) IsKeypad() bool {
	return a >= Keypad0 && a <= KeypadF
}

// Key returns the keypad index of a keypad action. Only meaningful when IsKeypad is true.
func (a Action) Key() uint8 {
	return uint8(a - Keypad0)
}

// Category returns the action's category.
func (a Action) Category() Category {
	switch {
	case a.IsKeypad():
		return CategoryKeypad
	case a >= DebugLogLevelIncrease:
		return CategoryDebug
	default:
		return CategoryEmulator
	}
}

var names = map[Action]string{
	EmulatorDebugToggle:      "debug-toggle",
	EmulatorSnapshot:         "snapshot",
	EmulatorPauseToggle:      "pause",
	EmulatorReset:            "reset",
	EmulatorStepFrame:        "step-frame",
	EmulatorStepInstruction:  "step-instruction",
	EmulatorTestPatternCycle: "test-pattern",
	EmulatorQuit:             "quit",
	DebugLogLevelIncrease:    "log-level-up",
	DebugLogLevelDecrease:    "log-level-down",
}

func (a Action) String() string {
	if a.IsKeypad() {
		return fmt.Sprintf("key-%X", a.Key())
	}
	if name, ok := names[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

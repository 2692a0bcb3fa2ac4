package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypadActions(t *testing.T) {
	for k := uint8(0); k < 16; k++ {
		act := Keypad(k)
		assert.True(t, act.IsKeypad())
		assert.Equal(t, k, act.Key())
		assert.Equal(t, CategoryKeypad, act.Category())
	}
	assert.Equal(t, "key-A", KeypadA.String())
}

func TestCategory(t *testing.T) {
	assert.Equal(t, CategoryEmulator, EmulatorQuit.Category())
	assert.Equal(t, CategoryEmulator, EmulatorPauseToggle.Category())
	assert.Equal(t, CategoryDebug, DebugLogLevelDecrease.Category())
	assert.False(t, EmulatorReset.IsKeypad())
	assert.Equal(t, "reset", EmulatorReset.String())
}

package chip8

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
)

var (
	// LD V0, 0; loop: ADD V0, 1; JP loop
	counterProgram = []byte{0x60, 0x00, 0x70, 0x01, 0x12, 0x02}
	// LD VA, 60; LD DT, VA; LD ST, VA; JP self
	timerProgram = []byte{0x6A, 0x3C, 0xFA, 0x15, 0xFA, 0x18, 0x12, 0x06}
	// RND V0, FF; RND V1, FF; JP self
	randomProgram = []byte{0xC0, 0xFF, 0xC1, 0xFF, 0x12, 0x04}
)

func newTestVM(t testing.TB, program []byte, mutate func(*Config)) *VM {
	t.Helper()
	config := DefaultConfig()
	config.Seed = 42
	if mutate != nil {
		mutate(&config)
	}
	vm := New(config)
	require.NoError(t, vm.LoadProgram(program))
	vm.SetFrameLimiter(nil)
	return vm
}

func TestVM_RunsInstructionBudget(t *testing.T) {
	vm := newTestVM(t, counterProgram, nil)

	for range 60 {
		require.NoError(t, vm.RunUntilFrame())
	}

	assert.Equal(t, uint64(60), vm.GetFrameCount())
	assert.Equal(t, uint64(500), vm.GetInstructionCount())
	assert.Equal(t, uint8(250), vm.CPU().Registers()[0])
}

func TestVM_TimersTickOncePerFrame(t *testing.T) {
	vm := newTestVM(t, timerProgram, nil)

	require.NoError(t, vm.RunUntilFrame())
	assert.Equal(t, uint8(59), vm.CPU().DelayTimer())
	assert.Equal(t, uint8(59), vm.CPU().SoundTimer())
	assert.True(t, vm.Audio().IsPlaying())

	for range 59 {
		require.NoError(t, vm.RunUntilFrame())
	}
	assert.Equal(t, uint8(0), vm.CPU().DelayTimer())
	assert.False(t, vm.Audio().IsPlaying())
}

func TestVM_FaultHalts(t *testing.T) {
	vm := newTestVM(t, []byte{0x00, 0x00}, nil)

	err := vm.RunUntilFrame()
	require.Error(t, err)
	assert.True(t, errors.Is(err, cpu.ErrUnknownOpcode))

	var fault *cpu.Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.Address)

	assert.Equal(t, debug.DebuggerHalted, vm.State())
	assert.Equal(t, err, vm.LastError())

	// halted machines stay put
	assert.NoError(t, vm.RunUntilFrame())
	assert.Equal(t, uint64(0), vm.GetInstructionCount())

	vm.HandleAction(action.EmulatorReset, true)
	assert.Equal(t, debug.DebuggerRunning, vm.State())
	assert.NoError(t, vm.LastError())
}

func TestVM_PauseAndStep(t *testing.T) {
	vm := newTestVM(t, counterProgram, func(c *Config) { c.StartPaused = true })
	require.Equal(t, debug.DebuggerPaused, vm.State())

	require.NoError(t, vm.RunUntilFrame())
	assert.Equal(t, uint64(0), vm.GetInstructionCount(), "paused machines do not execute")

	vm.HandleAction(action.EmulatorStepInstruction, true)
	assert.Equal(t, debug.DebuggerStepInstruction, vm.State())
	require.NoError(t, vm.RunUntilFrame())
	assert.Equal(t, uint64(1), vm.GetInstructionCount())
	assert.Equal(t, uint16(0x202), vm.CPU().PC())
	assert.Equal(t, debug.DebuggerPaused, vm.State())
	assert.Equal(t, uint64(0), vm.GetFrameCount())

	vm.HandleAction(action.EmulatorStepFrame, true)
	require.NoError(t, vm.RunUntilFrame())
	assert.Equal(t, uint64(1), vm.GetFrameCount())
	assert.Greater(t, vm.GetInstructionCount(), uint64(1))
	assert.Equal(t, debug.DebuggerPaused, vm.State())

	vm.HandleAction(action.EmulatorPauseToggle, true)
	assert.Equal(t, debug.DebuggerRunning, vm.State())

	// a second toggle inside the debounce window is ignored
	vm.HandleAction(action.EmulatorPauseToggle, true)
	assert.Equal(t, debug.DebuggerRunning, vm.State())
}

func TestVM_StepIgnoredWhileRunning(t *testing.T) {
	vm := newTestVM(t, counterProgram, nil)

	vm.HandleAction(action.EmulatorStepInstruction, true)
	assert.Equal(t, debug.DebuggerRunning, vm.State())
}

func TestVM_KeypadActions(t *testing.T) {
	vm := newTestVM(t, counterProgram, nil)

	vm.HandleAction(action.Keypad5, true)
	vm.HandleAction(action.KeypadF, true)
	assert.True(t, vm.Keys().IsPressed(0x5))
	assert.True(t, vm.Keys().IsPressed(0xF))

	vm.HandleAction(action.Keypad5, false)
	assert.False(t, vm.Keys().IsPressed(0x5))
	assert.True(t, vm.Keys().IsPressed(0xF))

	vm.Reset()
	assert.True(t, vm.Keys().Empty())
}

func TestVM_SameSeedSameRandomSequence(t *testing.T) {
	a := newTestVM(t, randomProgram, nil)
	b := newTestVM(t, randomProgram, nil)

	require.NoError(t, a.RunUntilFrame())
	require.NoError(t, b.RunUntilFrame())
	assert.Equal(t, a.CPU().Registers(), b.CPU().Registers())

	// reset replays the sequence
	first := a.CPU().Registers()
	a.Reset()
	require.NoError(t, a.RunUntilFrame())
	assert.Equal(t, first, a.CPU().Registers())
}

func TestVM_ExtractDebugData(t *testing.T) {
	// CALL 0x204; JP self; sub: LD I, 0x300; JP self
	program := []byte{0x22, 0x04, 0x12, 0x02, 0xA3, 0x00, 0x12, 0x06}
	vm := newTestVM(t, program, func(c *Config) { c.StartPaused = true })

	vm.HandleAction(action.EmulatorStepInstruction, true)
	require.NoError(t, vm.RunUntilFrame())

	data := vm.ExtractDebugData()
	require.NotNil(t, data)
	require.NotNil(t, data.CPU)
	assert.Equal(t, uint16(0x204), data.CPU.PC)
	assert.Equal(t, []uint16{0x200}, data.CPU.Stack, "return address is the CALL itself")
	assert.Equal(t, uint64(1), data.CPU.Instructions)
	assert.Equal(t, debug.DebuggerPaused, data.DebuggerState)
	assert.Len(t, data.RAM, 0x1000)

	snap := data.Memory
	assert.True(t, data.CPU.PC >= snap.StartAddr && int(data.CPU.PC) < int(snap.StartAddr)+len(snap.Bytes),
		"PC 0x%03X outside window starting at 0x%03X", data.CPU.PC, snap.StartAddr)
	assert.Equal(t, data.CPU.I, data.IndexMemory.StartAddr)
}

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()

	romPath := filepath.Join(dir, "counter.ch8")
	require.NoError(t, os.WriteFile(romPath, counterProgram, 0o644))

	vm, err := NewWithFile(romPath, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, len(counterProgram), vm.CPU().ProgramLength())
	assert.Contains(t, vm.DumpProgram(), "0x0200: 60 00 70 01 12 02")
	assert.Contains(t, vm.Listing(), "ADD V0, $01")

	_, err = NewWithFile(filepath.Join(dir, "missing.ch8"), DefaultConfig())
	assert.ErrorIs(t, err, os.ErrNotExist)

	bigPath := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(bigPath, make([]byte, 0x1000), 0o644))
	_, err = NewWithFile(bigPath, DefaultConfig())
	assert.ErrorIs(t, err, memory.ErrProgramTooLarge)
}

func TestVM_RunHeadless(t *testing.T) {
	vm := newTestVM(t, counterProgram, nil)
	b := headless.New(10, headless.SnapshotConfig{})

	require.NoError(t, vm.Run(b, backend.BackendConfig{Title: "test"}))
	assert.Equal(t, 10, b.FrameCount())
	assert.Equal(t, uint64(10), vm.GetFrameCount())
}

func TestVM_RunReturnsFault(t *testing.T) {
	vm := newTestVM(t, []byte{0xF0, 0xFF}, nil)
	b := headless.New(3, headless.SnapshotConfig{})

	err := vm.Run(b, backend.BackendConfig{Title: "test"})
	assert.ErrorIs(t, err, cpu.ErrUnknownOpcode)
	assert.Equal(t, 3, b.FrameCount())
}

func TestVM_Trace(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	vm := newTestVM(t, counterProgram, func(c *Config) {
		c.Trace = true
		c.StartPaused = true
	})
	vm.HandleAction(action.EmulatorStepInstruction, true)
	require.NoError(t, vm.RunUntilFrame())

	out := buf.String()
	assert.Contains(t, out, "msg=exec")
	assert.Contains(t, out, "pc=200")
	assert.True(t, strings.Contains(out, `instr="LD V0, $00"`), out)
}

func TestTestPatternEmulator(t *testing.T) {
	e := NewTestPatternEmulator()
	e.SetFrameLimiter(nil)

	lit := e.GetCurrentFrame().CountLit()
	assert.Greater(t, lit, 0)

	e.HandleAction(action.EmulatorTestPatternCycle, true)
	assert.Equal(t, 1, e.PatternType())
	e.HandleAction(action.EmulatorTestPatternCycle, false)
	assert.Equal(t, 1, e.PatternType())

	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, debug.DebuggerRunning, e.ExtractDebugData().DebuggerState)

	// headless quits straight away in test pattern mode
	require.NoError(t, e.Run(headless.New(0, headless.SnapshotConfig{}), backend.BackendConfig{}))
}

func BenchmarkVM_RunUntilFrame(b *testing.B) {
	vm := newTestVM(b, counterProgram, func(c *Config) { c.InstructionsPerSecond = 60_000 })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vm.RunUntilFrame(); err != nil {
			b.Fatal(err)
		}
	}
}

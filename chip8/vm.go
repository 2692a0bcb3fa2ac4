package chip8

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// RomExtension is the conventional file extension of CHIP-8 programs.
const RomExtension = ".ch8"

const (
	disasmBefore = 12
	disasmAfter  = 12
	indexWindow  = 16
)

// Config holds the machine options of a VM.
type Config struct {
	// InstructionsPerSecond is the CPU speed, spread evenly over frames.
	InstructionsPerSecond int
	// TimerHz is the frame and timer rate.
	TimerHz int
	// Seed seeds the RND generator. Zero picks a random seed.
	Seed uint64
	// SpriteWrap wraps sprite pixels around the screen edges instead of clipping them.
	SpriteWrap  bool
	StartPaused bool
	// Trace logs every executed instruction at debug level.
	Trace bool
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		InstructionsPerSecond: timing.DefaultInstructionsPerSecond,
		TimerHz:               timing.FrameRate,
	}
}

// VM drives a CHIP-8 CPU in frames: a batch of instructions followed by one
// timer tick. It also owns the keypad state, the debugger state and the
// beeper.
type VM struct {
	cpu     *cpu.CPU
	config  Config
	program []byte

	keys   input.Keys
	inputs *input.Manager

	budget  *timing.Budget
	limiter timing.Limiter
	beeper  *audio.Beeper

	state            debug.DebuggerState
	lastErr          error
	frameCount       uint64
	instructionCount uint64
}

// New creates a VM with no program loaded.
func New(config Config) *VM {
	if config.InstructionsPerSecond <= 0 {
		config.InstructionsPerSecond = timing.DefaultInstructionsPerSecond
	}
	if config.TimerHz <= 0 {
		config.TimerHz = timing.FrameRate
	}
	if config.Seed == 0 {
		config.Seed = rand.Uint64()
		slog.Info("Using random seed", "seed", config.Seed)
	}

	v := &VM{
		cpu:     cpu.New(cpu.WithSeed(config.Seed), cpu.WithSpriteWrap(config.SpriteWrap)),
		config:  config,
		budget:  timing.NewBudgetAt(config.InstructionsPerSecond, config.TimerHz),
		limiter: timing.NewAdaptiveLimiter(config.TimerHz),
	}
	v.inputs = input.NewManager(&v.keys)
	v.beeper = audio.NewBeeper(v.soundGate)
	v.state = v.initialState()
	v.setupCallbacks()

	return v
}

// NewWithFile creates a VM and loads the program at path into it.
func NewWithFile(path string, config Config) (*VM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != RomExtension {
		slog.Warn("Unexpected ROM extension", "path", path, "extension", ext)
	}

	v := New(config)
	if err := v.LoadProgram(data); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data))
	return v, nil
}

// LoadProgram loads program into memory and resets the machine.
func (v *VM) LoadProgram(program []byte) error {
	if err := v.cpu.LoadProgram(program); err != nil {
		return err
	}
	v.program = append([]byte(nil), program...)
	v.Reset()
	return nil
}

func (v *VM) initialState() debug.DebuggerState {
	if v.config.StartPaused {
		return debug.DebuggerPaused
	}
	return debug.DebuggerRunning
}

func (v *VM) soundGate() bool {
	running := v.state == debug.DebuggerRunning || v.state == debug.DebuggerStepFrame
	return running && v.cpu.SoundActive()
}

func (v *VM) setupCallbacks() {
	v.inputs.On(action.EmulatorPauseToggle, event.Press, func() {
		switch v.state {
		case debug.DebuggerHalted:
			slog.Info("Machine halted, reset to continue")
		case debug.DebuggerPaused:
			v.state = debug.DebuggerRunning
			v.limiter.Reset()
			slog.Info("Resumed")
		default:
			v.state = debug.DebuggerPaused
			slog.Info("Paused", "pc", fmt.Sprintf("0x%03X", v.cpu.PC()))
		}
	})

	v.inputs.On(action.EmulatorStepInstruction, event.Press, func() {
		if v.state == debug.DebuggerPaused {
			v.state = debug.DebuggerStepInstruction
		}
	})

	v.inputs.On(action.EmulatorStepFrame, event.Press, func() {
		if v.state == debug.DebuggerPaused {
			v.state = debug.DebuggerStepFrame
		}
	})

	v.inputs.On(action.EmulatorReset, event.Press, func() {
		v.Reset()
		slog.Info("Machine reset")
	})
}

// Reset returns the machine to its power-on state, keeping the program.
func (v *VM) Reset() {
	v.cpu.Reset()
	v.keys = 0
	v.budget.Reset()
	v.lastErr = nil
	v.state = v.initialState()
}

// RunUntilFrame emulates one frame according to the debugger state. A CPU
// fault halts the machine and is returned; further calls do nothing until
// Reset.
func (v *VM) RunUntilFrame() error {
	switch v.state {
	case debug.DebuggerRunning:
		return v.runFrame()
	case debug.DebuggerStepFrame:
		err := v.runFrame()
		if v.state == debug.DebuggerStepFrame {
			v.state = debug.DebuggerPaused
		}
		return err
	case debug.DebuggerStepInstruction:
		v.state = debug.DebuggerPaused
		return v.step()
	}
	return nil
}

func (v *VM) runFrame() error {
	n := v.budget.Next()
	for i := 0; i < n; i++ {
		if err := v.step(); err != nil {
			return err
		}
	}
	v.cpu.TickTimers()
	v.frameCount++
	return nil
}

func (v *VM) step() error {
	if v.config.Trace && slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		line := disasm.DisassembleAt(v.cpu.PC(), v.cpu.Memory()[:])
		slog.Debug("exec", "pc", fmt.Sprintf("%03X", line.Address),
			"opcode", fmt.Sprintf("%04X", line.Opcode), "instr", line.Instruction)
	}

	if _, err := v.cpu.Step(v.keys); err != nil {
		v.state = debug.DebuggerHalted
		v.lastErr = err
		slog.Error("CPU fault, machine halted", "error", err, "frame", v.frameCount)
		return err
	}
	v.instructionCount++
	return nil
}

// HandleAction forwards a backend action to the input manager. Keypad
// actions update the key set, emulator actions drive the debugger.
func (v *VM) HandleAction(act action.Action, pressed bool) {
	typ := event.Release
	if pressed {
		typ = event.Press
	}
	v.inputs.Trigger(act, typ)
}

// Run initializes b and drives the VM until the backend asks to quit. If the
// machine was halted by a fault when the loop ends, the fault is returned.
func (v *VM) Run(b backend.Backend, config backend.BackendConfig) error {
	config.DebugProvider = v
	config.Audio = v.beeper
	if err := b.Init(config); err != nil {
		return err
	}
	defer b.Cleanup()

	if err := drive(v, b, v.limiter); err != nil {
		return err
	}
	return v.lastErr
}

// SetFrameLimiter replaces the frame pacing. nil disables pacing.
func (v *VM) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		v.limiter = timing.NewNoOpLimiter()
	} else {
		v.limiter = limiter
	}
}

// ExtractDebugData returns a snapshot of the machine state for debug views.
func (v *VM) ExtractDebugData() *debug.CompleteDebugData {
	if v.cpu == nil {
		return nil
	}

	mem := v.cpu.Memory()[:]
	stack := v.cpu.Stack()
	sp := min(int(v.cpu.SP()), len(stack))

	state := &debug.CPUState{
		V:            v.cpu.Registers(),
		I:            v.cpu.Index(),
		PC:           v.cpu.PC(),
		SP:           v.cpu.SP(),
		Stack:        append([]uint16(nil), stack[:sp]...),
		DelayTimer:   v.cpu.DelayTimer(),
		SoundTimer:   v.cpu.SoundTimer(),
		Opcode:       v.cpu.CurrentOpcode(),
		Instructions: v.instructionCount,
	}

	return &debug.CompleteDebugData{
		CPU:           state,
		Memory:        debug.Window(mem, state.PC, disasmBefore, disasmAfter),
		IndexMemory:   debug.Snapshot(mem, state.I, indexWindow),
		DebuggerState: v.state,
		Frame:         v.frameCount,
		SoundActive:   v.cpu.SoundActive(),
		LastError:     v.lastErr,
		RAM:           append([]byte(nil), mem...),
	}
}

// GetCurrentFrame returns the live frame buffer.
func (v *VM) GetCurrentFrame() *video.FrameBuffer {
	return v.cpu.Pixels()
}

func (v *VM) GetFrameCount() uint64       { return v.frameCount }
func (v *VM) GetInstructionCount() uint64 { return v.instructionCount }

// Audio returns the beeper gated by the sound timer.
func (v *VM) Audio() audio.Provider {
	return v.beeper
}

// State returns the debugger state.
func (v *VM) State() debug.DebuggerState { return v.state }

// LastError returns the fault that halted the machine, if any.
func (v *VM) LastError() error { return v.lastErr }

// CPU exposes the underlying machine.
func (v *VM) CPU() *cpu.CPU { return v.cpu }

// Keys returns the current keypad state.
func (v *VM) Keys() input.Keys { return v.keys }

// DumpProgram returns the hex dump of the loaded program.
func (v *VM) DumpProgram() string {
	return v.cpu.DumpProgram()
}

// Listing returns the disassembly of the loaded program.
func (v *VM) Listing() string {
	return disasm.Listing(v.program)
}

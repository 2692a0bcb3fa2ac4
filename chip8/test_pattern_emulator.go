package chip8

import (
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// TestPatternEmulator displays test patterns without actual emulation
type TestPatternEmulator struct {
	frameBuffer      *video.FrameBuffer
	patternType      int
	animationCounter int
	limiter          timing.Limiter
}

func NewTestPatternEmulator() *TestPatternEmulator {
	e := &TestPatternEmulator{
		frameBuffer: video.NewFrameBuffer(),
		limiter:     timing.NewTickerLimiter(timing.FrameRate),
	}
	e.frameBuffer.FillTestPattern(e.patternType, 0)
	return e
}

func (e *TestPatternEmulator) RunUntilFrame() error {
	e.animationCounter++
	if e.animationCounter%display.TestPatternAnimationFrames == 0 {
		e.frameBuffer.FillTestPattern(e.patternType, e.animationCounter/display.TestPatternAnimationFrames)
	}
	return nil
}

func (e *TestPatternEmulator) GetCurrentFrame() *video.FrameBuffer {
	return e.frameBuffer
}

func (e *TestPatternEmulator) HandleAction(act action.Action, pressed bool) {
	if act == action.EmulatorTestPatternCycle && pressed {
		e.CycleTestPattern()
	}
}

func (e *TestPatternEmulator) ExtractDebugData() *debug.CompleteDebugData {
	return &debug.CompleteDebugData{DebuggerState: debug.DebuggerRunning}
}

func (e *TestPatternEmulator) CycleTestPattern() {
	e.patternType = (e.patternType + 1) % display.TestPatternCount
	e.frameBuffer.FillTestPattern(e.patternType, 0)
}

// PatternType returns the index of the pattern on display.
func (e *TestPatternEmulator) PatternType() int {
	return e.patternType
}

func (e *TestPatternEmulator) SetFrameLimiter(limiter timing.Limiter) {
	if t, ok := e.limiter.(*timing.TickerLimiter); ok {
		t.Stop()
	}
	if limiter == nil {
		e.limiter = timing.NewNoOpLimiter()
	} else {
		e.limiter = limiter
	}
}

// Run initializes b in test pattern mode and shows patterns until quit.
func (e *TestPatternEmulator) Run(b backend.Backend, config backend.BackendConfig) error {
	config.TestPattern = true
	config.DebugProvider = e
	if err := b.Init(config); err != nil {
		return err
	}
	defer b.Cleanup()

	return drive(e, b, e.limiter)
}

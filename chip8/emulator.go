package chip8

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// Emulator is the interface for all emulator implementations
type Emulator interface {
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	ExtractDebugData() *debug.CompleteDebugData
}

var (
	_ Emulator = (*VM)(nil)
	_ Emulator = (*TestPatternEmulator)(nil)
)

// drive runs emu against b, one frame per iteration, until the backend
// reports a quit action. Frame errors are logged by the emulator and do not
// end the loop, so a halted machine stays on screen for inspection.
func drive(emu Emulator, b backend.Backend, limiter timing.Limiter) error {
	if s, ok := limiter.(interface{ Stop() }); ok {
		defer s.Stop()
	}
	limiter.Reset()

	for {
		if err := emu.RunUntilFrame(); err != nil {
			slog.Debug("Frame ended with error", "error", err)
		}

		events, err := b.Update(emu.GetCurrentFrame())
		if err != nil {
			return err
		}

		for _, evt := range events {
			if evt.Action == action.EmulatorQuit && evt.Type == event.Press {
				slog.Info("Quit requested")
				return nil
			}
			emu.HandleAction(evt.Action, evt.Type != event.Release)
		}

		limiter.WaitForNextFrame()
	}
}

package timing

import "time"

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// CHIP-8 clock defaults. Timers and the display both run at 60Hz, the
// instruction rate is a host choice.
const (
	FrameRate                    = 60
	DefaultInstructionsPerSecond = 500
)

// FrameDuration returns the duration of a single frame at the given rate.
// Non-positive rates fall back to FrameRate.
func FrameDuration(hz int) time.Duration {
	if hz <= 0 {
		hz = FrameRate
	}
	return time.Second / time.Duration(hz)
}

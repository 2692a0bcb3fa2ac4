package timing

import (
	"log/slog"
	"time"
)

// spinWindow is the final stretch of each frame that is busy-waited instead
// of slept, since sleep granularity on most hosts is about a millisecond.
const spinWindow = time.Millisecond

// maxLag is how far behind schedule a frame may fall before the limiter
// gives up on catching up and restarts its schedule from now.
const maxLag = 5 * time.Millisecond

// AdaptiveLimiter paces frames against an absolute schedule, so that sleep
// overshoot in one frame is absorbed by the next instead of accumulating.
type AdaptiveLimiter struct {
	period   time.Duration
	deadline time.Time
	hz       int

	frames  int64
	skipped int64
}

func NewAdaptiveLimiter(hz int) *AdaptiveLimiter {
	if hz <= 0 {
		hz = FrameRate
	}
	return &AdaptiveLimiter{
		period:   FrameDuration(hz),
		deadline: time.Now(),
		hz:       hz,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	remaining := time.Until(a.deadline)

	switch {
	case remaining > 0:
		if remaining > 2*spinWindow {
			time.Sleep(remaining - spinWindow)
		}
		for time.Now().Before(a.deadline) {
		}
	case remaining < -maxLag:
		a.deadline = time.Now()
		a.skipped++
	}

	a.deadline = a.deadline.Add(a.period)
	a.frames++

	// once a second, nudge the schedule towards the wall clock
	if a.frames%int64(a.hz) == 0 {
		drift := time.Since(a.deadline)
		if drift.Abs() > 10*time.Millisecond {
			a.deadline = a.deadline.Add(drift / 10)
			slog.Debug("Frame timing drift correction", "drift_ms", drift.Milliseconds(), "late_frames", a.skipped)
		}
	}
}

// LateFrames returns how many frames started too late to keep the schedule.
func (a *AdaptiveLimiter) LateFrames() int64 {
	return a.skipped
}

func (a *AdaptiveLimiter) Reset() {
	a.deadline = time.Now()
	a.frames = 0
}

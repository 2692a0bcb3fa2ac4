package timing

import "time"

// TickerLimiter paces frames with a time.Ticker. Ticks missed while the
// caller was busy are dropped by the ticker, so it never bursts to catch up.
// It is coarser than AdaptiveLimiter and cheaper on the CPU.
type TickerLimiter struct {
	ticker *time.Ticker
	period time.Duration
}

func NewTickerLimiter(hz int) *TickerLimiter {
	period := FrameDuration(hz)
	return &TickerLimiter{ticker: time.NewTicker(period), period: period}
}

func (t *TickerLimiter) WaitForNextFrame() { <-t.ticker.C }

// Reset restarts the period from now, e.g. after resuming from pause.
func (t *TickerLimiter) Reset() { t.ticker.Reset(t.period) }

// Stop releases the ticker. The limiter must not be used afterwards.
func (t *TickerLimiter) Stop() { t.ticker.Stop() }

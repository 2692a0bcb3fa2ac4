package timing

// Budget splits an instruction rate into whole per-frame instruction counts.
// The fractional remainder carries over, so over one second exactly
// perSecond instructions are handed out.
type Budget struct {
	perSecond int
	frameRate int
	perFrame  int
	remainder int
}

// NewBudget creates a budget for perSecond instructions at FrameRate frames
// per second. Non-positive rates use DefaultInstructionsPerSecond.
func NewBudget(perSecond int) *Budget {
	return NewBudgetAt(perSecond, FrameRate)
}

// NewBudgetAt creates a budget for perSecond instructions spread over
// frameRate frames per second. Non-positive frame rates use FrameRate.
func NewBudgetAt(perSecond, frameRate int) *Budget {
	if perSecond <= 0 {
		perSecond = DefaultInstructionsPerSecond
	}
	if frameRate <= 0 {
		frameRate = FrameRate
	}
	return &Budget{
		perSecond: perSecond,
		frameRate: frameRate,
		perFrame:  perSecond / frameRate,
	}
}

// Next returns how many instructions to run in the coming frame.
func (b *Budget) Next() int {
	n := b.perFrame
	b.remainder += b.perSecond % b.frameRate
	if b.remainder >= b.frameRate {
		b.remainder -= b.frameRate
		n++
	}
	return n
}

// PerSecond returns the configured instruction rate.
func (b *Budget) PerSecond() int {
	return b.perSecond
}

// Reset drops any accumulated fraction.
func (b *Budget) Reset() {
	b.remainder = 0
}

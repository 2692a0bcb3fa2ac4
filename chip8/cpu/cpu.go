package cpu

import (
	"math/rand/v2"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

// StackDepth is the number of return addresses the call stack can hold.
const StackDepth = 16

// flagRegister is VF, overwritten by carry, borrow, shift and collision results.
const flagRegister = 0xF

// StepResult describes the visible effects of a single step.
type StepResult struct {
	// NeedsRender is set when the instruction changed the frame buffer.
	NeedsRender bool
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithSeed sets the seed of the random generator used by RND.
// The same seed always yields the same sequence, also across Reset.
func WithSeed(seed uint64) Option {
	return func(c *CPU) {
		c.seed = seed
	}
}

// WithSpriteWrap makes sprites that cross the right or bottom edge of the
// screen continue on the opposite edge instead of being clipped.
func WithSpriteWrap(wrap bool) Option {
	return func(c *CPU) {
		c.spriteWrap = wrap
	}
}

// CPU is the complete CHIP-8 machine state: registers, stack, timers,
// memory and frame buffer.
type CPU struct {
	// registers
	v  [16]uint8
	i  uint16
	pc uint16
	sp uint8

	stack [StackDepth]uint16

	delayTimer uint8
	soundTimer uint8

	memory  *memory.Memory
	display *video.FrameBuffer

	// metadata
	currentOpcode uint16
	programLength int
	seed          uint64
	rng           *rand.Rand
	spriteWrap    bool
}

// New returns a machine with the font loaded, PC at the program origin and
// everything else zeroed.
func New(opts ...Option) *CPU {
	c := &CPU{
		memory:  memory.New(),
		display: video.NewFrameBuffer(),
		pc:      addr.ProgramStart,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rng = rand.New(rand.NewPCG(c.seed, c.seed))

	return c
}

// LoadProgram copies a raw program image into memory at the program origin.
// It fails with memory.ErrProgramTooLarge if the image does not fit.
func (c *CPU) LoadProgram(program []byte) error {
	if err := c.memory.LoadProgram(program); err != nil {
		return err
	}
	c.programLength = len(program)
	return nil
}

// Reset returns registers, stack, timers and display to their power-on
// state. Memory, including the loaded program, is left untouched.
func (c *CPU) Reset() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = addr.ProgramStart
	c.sp = 0
	c.stack = [StackDepth]uint16{}
	c.delayTimer = 0
	c.soundTimer = 0
	c.currentOpcode = 0
	c.display.Clear()
	c.rng = rand.New(rand.NewPCG(c.seed, c.seed))
}

// TickTimers decrements the delay and sound timers, stopping at zero.
// Callers are expected to invoke it at 60Hz.
func (c *CPU) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

// SoundActive reports whether the buzzer should be sounding.
func (c *CPU) SoundActive() bool {
	return c.soundTimer > 0
}

// Step fetches, decodes and executes a single instruction using keys as the
// current keypad state. Any returned error is a *Fault and leaves PC on the
// faulting instruction.
func (c *CPU) Step(keys input.Keys) (StepResult, error) {
	address := c.pc

	word, err := c.memory.ReadWord(address)
	if err != nil {
		return StepResult{}, &Fault{Err: err, Address: address}
	}
	c.currentOpcode = word

	in, err := Decode(word)
	if err != nil {
		return StepResult{}, &Fault{Err: err, Opcode: word, Address: address}
	}

	update, err := executors[in.Op](c, in, keys)
	if err != nil {
		return StepResult{}, &Fault{Err: err, Opcode: word, Address: address}
	}

	switch update {
	case pcAdvance:
		c.pc = (c.pc + addr.InstructionSize) & addr.AddressMask
	case pcSkip:
		c.pc = (c.pc + 2*addr.InstructionSize) & addr.AddressMask
	}

	return StepResult{NeedsRender: in.Op == OpDRW || in.Op == OpCLS}, nil
}

// Registers returns a copy of V0-VF.
func (c *CPU) Registers() [16]uint8 { return c.v }

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// Index returns the I register.
func (c *CPU) Index() uint16 { return c.i }

// SP returns the stack pointer, the index of the next free stack slot.
func (c *CPU) SP() uint8 { return c.sp }

// Stack returns a copy of the call stack.
func (c *CPU) Stack() [StackDepth]uint16 { return c.stack }

// DelayTimer returns the delay timer value.
func (c *CPU) DelayTimer() uint8 { return c.delayTimer }

// SoundTimer returns the sound timer value.
func (c *CPU) SoundTimer() uint8 { return c.soundTimer }

// CurrentOpcode returns the last instruction word fetched.
func (c *CPU) CurrentOpcode() uint16 { return c.currentOpcode }

// Pixels returns the frame buffer. It is owned by the CPU and must be
// treated as read-only.
func (c *CPU) Pixels() *video.FrameBuffer { return c.display }

// Memory returns the memory image. It is owned by the CPU and must be
// treated as read-only.
func (c *CPU) Memory() *memory.Memory { return c.memory }

// ProgramLength returns the size of the last loaded program.
func (c *CPU) ProgramLength() int { return c.programLength }

// DumpProgram returns a hex dump of the loaded program region.
func (c *CPU) DumpProgram() string {
	return c.memory.Dump(addr.ProgramStart, c.programLength)
}

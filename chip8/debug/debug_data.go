package debug

// CPUState contains all CPU register information for debugging
type CPUState struct {
	V          [16]uint8
	I          uint16
	PC         uint16
	SP         uint8
	Stack      []uint16 // live entries only, oldest first
	DelayTimer uint8
	SoundTimer uint8
	Opcode     uint16 // last fetched instruction word

	Instructions uint64
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
	DebuggerHalted
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step"
	case DebuggerStepFrame:
		return "step-frame"
	case DebuggerHalted:
		return "halted"
	}
	return "unknown"
}

// CompleteDebugData contains all debug information needed by debug displays
type CompleteDebugData struct {
	CPU           *CPUState
	Memory        *MemorySnapshot // window around PC
	IndexMemory   *MemorySnapshot // bytes at I
	DebuggerState DebuggerState
	Frame         uint64
	SoundActive   bool
	LastError     error

	RAM []byte // full address space copy, for memory map views
}

// Snapshot copies length bytes of mem starting at start. The window is
// clamped to the bounds of mem and always starts on an even address so
// that it stays aligned with instructions.
func Snapshot(mem []byte, start uint16, length int) *MemorySnapshot {
	begin := int(start) &^ 1
	if begin > len(mem) {
		begin = len(mem)
	}
	end := min(begin+max(length, 0), len(mem))

	bytes := make([]uint8, end-begin)
	copy(bytes, mem[begin:end])
	return &MemorySnapshot{StartAddr: uint16(begin), Bytes: bytes}
}

// Window copies the bytes around center, before bytes ahead and after bytes
// past it, clamped to mem.
func Window(mem []byte, center uint16, before, after int) *MemorySnapshot {
	start := max(int(center)-before, 0)
	return Snapshot(mem, uint16(start), int(center)-start+after)
}

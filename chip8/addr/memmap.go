package addr

// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: reserved for the interpreter, holds the font glyphs
//	0x200-0xFFF: program space
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000
	// MaxAddress is the highest valid memory address.
	MaxAddress uint16 = 0xFFF
	// AddressMask keeps an address within the 12-bit address space.
	AddressMask uint16 = 0x0FFF

	// FontStart is where the 16 built-in hex digit glyphs are stored.
	FontStart uint16 = 0x050
	// FontGlyphSize is the size in bytes of a single font glyph.
	FontGlyphSize = 5

	// ProgramStart is the load origin and initial program counter.
	ProgramStart uint16 = 0x200
	// MaxProgramSize is the largest program that fits in memory.
	MaxProgramSize = MemorySize - int(ProgramStart)
)

// InstructionSize is the size in bytes of every CHIP-8 instruction.
const InstructionSize = 2

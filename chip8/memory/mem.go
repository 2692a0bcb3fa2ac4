package memory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
)

var (
	// ErrOutOfBounds is returned by any access past the last addressable byte.
	ErrOutOfBounds = errors.New("memory access out of bounds")
	// ErrProgramTooLarge is returned when a program does not fit in program space.
	ErrProgramTooLarge = errors.New("program too large")
)

// Memory is the 4KB CHIP-8 address space.
type Memory [addr.MemorySize]byte

// New returns a zeroed memory image with the font glyphs installed.
func New() *Memory {
	m := &Memory{}
	m.LoadFont()
	return m
}

// LoadFont (re)writes the built-in hex digit glyphs at addr.FontStart.
func (m *Memory) LoadFont() {
	copy(m[addr.FontStart:], fontSet[:])
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= addr.MemorySize {
		return 0, fmt.Errorf("%w: read at 0x%04X", ErrOutOfBounds, address)
	}
	return m[address], nil
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= addr.MemorySize {
		return fmt.Errorf("%w: write at 0x%04X", ErrOutOfBounds, address)
	}
	m[address] = value
	return nil
}

// ReadWord reads a big-endian 16 bit word starting at address.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if int(address)+1 >= addr.MemorySize {
		return 0, fmt.Errorf("%w: word read at 0x%04X", ErrOutOfBounds, address)
	}
	return bit.Combine(m[address], m[address+1]), nil
}

// Slice returns a view of length bytes starting at address.
// The returned slice aliases memory, callers that write through it mutate state.
func (m *Memory) Slice(address uint16, length int) ([]byte, error) {
	end := int(address) + length
	if length < 0 || end > addr.MemorySize {
		return nil, fmt.Errorf("%w: range 0x%04X+%d", ErrOutOfBounds, address, length)
	}
	return m[address:end], nil
}

// LoadProgram copies program into memory at addr.ProgramStart. Bytes of any
// previously loaded program past the new length are cleared.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > addr.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrProgramTooLarge, len(program), addr.MaxProgramSize)
	}
	n := copy(m[addr.ProgramStart:], program)
	clear(m[int(addr.ProgramStart)+n:])
	return nil
}

const dumpBytesPerLine = 16

// Dump renders length bytes starting at start as a hex dump, 16 bytes per line:
//
//	0x0200: 00 E0 A2 2A 60 0C 61 08 D0 1F 70 09 A2 39 D0 1F
func (m *Memory) Dump(start uint16, length int) string {
	if int(start) >= addr.MemorySize || length <= 0 {
		return ""
	}
	end := min(int(start)+length, addr.MemorySize)

	var sb strings.Builder
	for lineStart := int(start); lineStart < end; lineStart += dumpBytesPerLine {
		fmt.Fprintf(&sb, "0x%04X:", lineStart)
		lineEnd := min(lineStart+dumpBytesPerLine, end)
		for a := lineStart; a < lineEnd; a++ {
			fmt.Fprintf(&sb, " %02X", m[a])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

package disasm

import (
	"fmt"
	"strings"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
)

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Opcode      uint16
	Instruction string
	Valid       bool
}

func (l DisassemblyLine) String() string {
	return fmt.Sprintf("%03X: %04X  %s", l.Address, l.Opcode, l.Instruction)
}

// Format renders a decoded instruction in assembler syntax, e.g. "DRW V1, V2, $5".
func Format(in cpu.Instruction) string {
	if params := operands(in); params != "" {
		return in.Op.String() + " " + params
	}
	return in.Op.String()
}

// FormatWord decodes and formats an instruction word. Words outside the
// instruction set are rendered as a data directive.
func FormatWord(word uint16) string {
	in, err := cpu.Decode(word)
	if err != nil {
		return fmt.Sprintf("DW $%04X", word)
	}
	return Format(in)
}

func operands(in cpu.Instruction) string {
	switch in.Op {
	case cpu.OpCLS, cpu.OpRET:
		return ""
	case cpu.OpJP, cpu.OpCALL:
		return fmt.Sprintf("$%03X", in.NNN)
	case cpu.OpJPV0:
		return fmt.Sprintf("V0, $%03X", in.NNN)
	case cpu.OpSEByte, cpu.OpSNEByte, cpu.OpLDByte, cpu.OpADDByte, cpu.OpRND:
		return fmt.Sprintf("V%X, $%02X", in.X, in.NN)
	case cpu.OpSEReg, cpu.OpSNEReg, cpu.OpLDReg, cpu.OpOR, cpu.OpAND, cpu.OpXOR,
		cpu.OpADDReg, cpu.OpSUB, cpu.OpSUBN:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case cpu.OpSHR, cpu.OpSHL, cpu.OpSKP, cpu.OpSKNP:
		return fmt.Sprintf("V%X", in.X)
	case cpu.OpLDI:
		return fmt.Sprintf("I, $%03X", in.NNN)
	case cpu.OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	case cpu.OpLDVxDT:
		return fmt.Sprintf("V%X, DT", in.X)
	case cpu.OpLDVxK:
		return fmt.Sprintf("V%X, K", in.X)
	case cpu.OpLDDTVx:
		return fmt.Sprintf("DT, V%X", in.X)
	case cpu.OpLDSTVx:
		return fmt.Sprintf("ST, V%X", in.X)
	case cpu.OpADDI:
		return fmt.Sprintf("I, V%X", in.X)
	case cpu.OpLDF:
		return fmt.Sprintf("F, V%X", in.X)
	case cpu.OpLDB:
		return fmt.Sprintf("B, V%X", in.X)
	case cpu.OpLDIVx:
		return fmt.Sprintf("[I], V%X", in.X)
	case cpu.OpLDVxI:
		return fmt.Sprintf("V%X, [I]", in.X)
	}
	return ""
}

// DisassembleAt disassembles the instruction at address in mem.
func DisassembleAt(address uint16, mem []byte) DisassemblyLine {
	if int(address)+1 >= len(mem) {
		return DisassemblyLine{Address: address, Instruction: "??"}
	}

	word := bit.Combine(mem[address], mem[address+1])
	_, err := cpu.Decode(word)
	return DisassemblyLine{
		Address:     address,
		Opcode:      word,
		Instruction: FormatWord(word),
		Valid:       err == nil,
	}
}

// DisassembleRange linearly disassembles length bytes starting at start.
// Data embedded in the program is decoded as if it were code.
func DisassembleRange(mem []byte, start uint16, length int) []DisassemblyLine {
	var lines []DisassemblyLine
	end := min(int(start)+length, len(mem))
	for a := int(start); a+1 < end; a += addr.InstructionSize {
		lines = append(lines, DisassembleAt(uint16(a), mem))
	}
	return lines
}

// Listing renders a program loaded at the program origin as text, one
// instruction per line.
func Listing(program []byte) string {
	mem := make([]byte, int(addr.ProgramStart)+len(program))
	copy(mem[addr.ProgramStart:], program)

	var sb strings.Builder
	for _, line := range DisassembleRange(mem, addr.ProgramStart, len(program)) {
		sb.WriteString(line.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

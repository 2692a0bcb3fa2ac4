package cpu

import (
	"github.com/valerio/go-chip8/chip8/bit"
)

// Op identifies a decoded CHIP-8 operation.
type Op uint8

const (
	OpInvalid Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEByte     // 3xnn
	OpSNEByte    // 4xnn
	OpSEReg      // 5xy0
	OpLDByte     // 6xnn
	OpADDByte    // 7xnn
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxnn
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65

	opCount
)

var mnemonics = [opCount]string{
	OpInvalid: "???",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEByte:  "SE",
	OpSNEByte: "SNE",
	OpSEReg:   "SE",
	OpLDByte:  "LD",
	OpADDByte: "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

// String returns the assembler mnemonic of the operation.
func (o Op) String() string {
	if o >= opCount {
		return mnemonics[OpInvalid]
	}
	return mnemonics[o]
}

// Instruction is a decoded instruction word with all operand fields extracted.
// Fields an operation does not use are still populated from the raw word.
type Instruction struct {
	Op     Op
	Opcode uint16 // raw instruction word
	X      uint8  // bits 8-11
	Y      uint8  // bits 4-7
	N      uint8  // bits 0-3
	NN     uint8  // bits 0-7
	NNN    uint16 // bits 0-11
}

// Decode splits an instruction word into its operation and operands. The top
// nibble selects the group, and groups 0, 8, E and F dispatch again on their
// low nibble or low byte. Words outside the instruction set return
// ErrUnknownOpcode along with an Instruction whose Op is OpInvalid.
func Decode(word uint16) (Instruction, error) {
	in := Instruction{
		Opcode: word,
		X:      bit.Nibble(word, 2),
		Y:      bit.Nibble(word, 1),
		N:      bit.Nibble(word, 0),
		NN:     bit.Low(word),
		NNN:    bit.Addr(word),
	}

	in.Op = decodeOp(word, in)
	if in.Op == OpInvalid {
		return in, ErrUnknownOpcode
	}
	return in, nil
}

func decodeOp(word uint16, in Instruction) Op {
	switch bit.Nibble(word, 3) {
	case 0x0:
		switch word {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEByte
	case 0x4:
		return OpSNEByte
	case 0x5:
		if in.N == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDByte
	case 0x7:
		return OpADDByte
	case 0x8:
		return decodeALU(in.N)
	case 0x9:
		if in.N == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch in.NN {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		return decodeMisc(in.NN)
	}

	return OpInvalid
}

func decodeALU(n uint8) Op {
	switch n {
	case 0x0:
		return OpLDReg
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDReg
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0x7:
		return OpSUBN
	case 0xE:
		return OpSHL
	}
	return OpInvalid
}

func decodeMisc(nn uint8) Op {
	switch nn {
	case 0x07:
		return OpLDVxDT
	case 0x0A:
		return OpLDVxK
	case 0x15:
		return OpLDDTVx
	case 0x18:
		return OpLDSTVx
	case 0x1E:
		return OpADDI
	case 0x29:
		return OpLDF
	case 0x33:
		return OpLDB
	case 0x55:
		return OpLDIVx
	case 0x65:
		return OpLDVxI
	}
	return OpInvalid
}

// IsJump reports whether the instruction unconditionally transfers control.
func (in Instruction) IsJump() bool {
	return in.Op == OpJP || in.Op == OpJPV0
}

// IsSkip reports whether the instruction may skip the following instruction.
func (in Instruction) IsSkip() bool {
	switch in.Op {
	case OpSEByte, OpSNEByte, OpSEReg, OpSNEReg, OpSKP, OpSKNP:
		return true
	}
	return false
}

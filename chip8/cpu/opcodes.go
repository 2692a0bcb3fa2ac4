package cpu

import (
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/memory"
)

// pcUpdate tells Step how to move the program counter after a handler ran.
// Exactly one update is applied per instruction.
type pcUpdate uint8

const (
	pcAdvance pcUpdate = iota // next instruction
	pcSkip                    // skip over the next instruction
	pcHold                    // re-execute this instruction
	pcJumped                  // handler already set pc
)

// handler executes a decoded instruction.
type handler func(c *CPU, in Instruction, keys input.Keys) (pcUpdate, error)

var executors = [opCount]handler{
	OpInvalid: opInvalid,
	OpCLS:     opCLS,
	OpRET:     opRET,
	OpJP:      opJP,
	OpCALL:    opCALL,
	OpSEByte:  opSEByte,
	OpSNEByte: opSNEByte,
	OpSEReg:   opSEReg,
	OpLDByte:  opLDByte,
	OpADDByte: opADDByte,
	OpLDReg:   opLDReg,
	OpOR:      opOR,
	OpAND:     opAND,
	OpXOR:     opXOR,
	OpADDReg:  opADDReg,
	OpSUB:     opSUB,
	OpSHR:     opSHR,
	OpSUBN:    opSUBN,
	OpSHL:     opSHL,
	OpSNEReg:  opSNEReg,
	OpLDI:     opLDI,
	OpJPV0:    opJPV0,
	OpRND:     opRND,
	OpDRW:     opDRW,
	OpSKP:     opSKP,
	OpSKNP:    opSKNP,
	OpLDVxDT:  opLDVxDT,
	OpLDVxK:   opLDVxK,
	OpLDDTVx:  opLDDTVx,
	OpLDSTVx:  opLDSTVx,
	OpADDI:    opADDI,
	OpLDF:     opLDF,
	OpLDB:     opLDB,
	OpLDIVx:   opLDIVx,
	OpLDVxI:   opLDVxI,
}

func skipIf(cond bool) pcUpdate {
	if cond {
		return pcSkip
	}
	return pcAdvance
}

func flag(cond bool) uint8 {
	if cond {
		return 1
	}
	return 0
}

func opInvalid(_ *CPU, _ Instruction, _ input.Keys) (pcUpdate, error) {
	return pcHold, ErrUnknownOpcode
}

// 00E0: CLS
func opCLS(c *CPU, _ Instruction, _ input.Keys) (pcUpdate, error) {
	c.display.Clear()
	return pcAdvance, nil
}

// 00EE: RET
// The stored address is the CALL itself, the advance moves past it.
func opRET(c *CPU, _ Instruction, _ input.Keys) (pcUpdate, error) {
	if c.sp == 0 {
		return pcHold, ErrStackUnderflow
	}
	c.sp--
	c.pc = c.stack[c.sp]
	return pcAdvance, nil
}

// 1nnn: JP addr
func opJP(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.pc = in.NNN
	return pcJumped, nil
}

// 2nnn: CALL addr
func opCALL(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	if int(c.sp) >= StackDepth {
		return pcHold, ErrStackOverflow
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = in.NNN
	return pcJumped, nil
}

// 3xnn: SE Vx, byte
func opSEByte(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	return skipIf(c.v[in.X] == in.NN), nil
}

// 4xnn: SNE Vx, byte
func opSNEByte(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	return skipIf(c.v[in.X] != in.NN), nil
}

// 5xy0: SE Vx, Vy
func opSEReg(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	return skipIf(c.v[in.X] == c.v[in.Y]), nil
}

// 6xnn: LD Vx, byte
func opLDByte(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] = in.NN
	return pcAdvance, nil
}

// 7xnn: ADD Vx, byte
// Wraps around without touching VF.
func opADDByte(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] += in.NN
	return pcAdvance, nil
}

// 8xy0: LD Vx, Vy
func opLDReg(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] = c.v[in.Y]
	return pcAdvance, nil
}

// 8xy1: OR Vx, Vy
func opOR(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] |= c.v[in.Y]
	return pcAdvance, nil
}

// 8xy2: AND Vx, Vy
func opAND(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] &= c.v[in.Y]
	return pcAdvance, nil
}

// 8xy3: XOR Vx, Vy
func opXOR(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] ^= c.v[in.Y]
	return pcAdvance, nil
}

// The flag-setting ALU ops write the result first and the flag last, so that
// VF ends up holding the flag when it is also the destination.

// 8xy4: ADD Vx, Vy
func opADDReg(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	result, carry := bit.CheckedAdd(c.v[in.X], c.v[in.Y])
	c.v[in.X] = result
	c.v[flagRegister] = flag(carry)
	return pcAdvance, nil
}

// 8xy5: SUB Vx, Vy
func opSUB(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	result, borrow := bit.CheckedSub(c.v[in.X], c.v[in.Y])
	c.v[in.X] = result
	c.v[flagRegister] = flag(!borrow)
	return pcAdvance, nil
}

// 8xy6: SHR Vx
func opSHR(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	value := c.v[in.X]
	c.v[in.X] = value >> 1
	c.v[flagRegister] = bit.GetBitValue(0, value)
	return pcAdvance, nil
}

// 8xy7: SUBN Vx, Vy
func opSUBN(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	result, borrow := bit.CheckedSub(c.v[in.Y], c.v[in.X])
	c.v[in.X] = result
	c.v[flagRegister] = flag(!borrow)
	return pcAdvance, nil
}

// 8xyE: SHL Vx
func opSHL(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	value := c.v[in.X]
	c.v[in.X] = value << 1
	c.v[flagRegister] = bit.GetBitValue(7, value)
	return pcAdvance, nil
}

// 9xy0: SNE Vx, Vy
func opSNEReg(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	return skipIf(c.v[in.X] != c.v[in.Y]), nil
}

// Annn: LD I, addr
func opLDI(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.i = in.NNN
	return pcAdvance, nil
}

// Bnnn: JP V0, addr
func opJPV0(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.pc = (uint16(c.v[0]) + in.NNN) & addr.AddressMask
	return pcJumped, nil
}

// Cxnn: RND Vx, byte
func opRND(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] = uint8(c.rng.UintN(256)) & in.NN
	return pcAdvance, nil
}

// Dxyn: DRW Vx, Vy, nibble
func opDRW(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	rows, err := c.memory.Slice(c.i, int(in.N))
	if err != nil {
		return pcHold, err
	}
	collision := c.display.DrawSprite(c.v[in.X], c.v[in.Y], rows, c.spriteWrap)
	c.v[flagRegister] = flag(collision)
	return pcAdvance, nil
}

// Ex9E: SKP Vx
func opSKP(c *CPU, in Instruction, keys input.Keys) (pcUpdate, error) {
	return skipIf(keys.IsPressed(c.v[in.X])), nil
}

// ExA1: SKNP Vx
func opSKNP(c *CPU, in Instruction, keys input.Keys) (pcUpdate, error) {
	return skipIf(!keys.IsPressed(c.v[in.X])), nil
}

// Fx07: LD Vx, DT
func opLDVxDT(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.v[in.X] = c.delayTimer
	return pcAdvance, nil
}

// Fx0A: LD Vx, K
// Blocks by holding PC until a key is down.
func opLDVxK(c *CPU, in Instruction, keys input.Keys) (pcUpdate, error) {
	key, ok := keys.Lowest()
	if !ok {
		return pcHold, nil
	}
	c.v[in.X] = key
	return pcAdvance, nil
}

// Fx15: LD DT, Vx
func opLDDTVx(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.delayTimer = c.v[in.X]
	return pcAdvance, nil
}

// Fx18: LD ST, Vx
func opLDSTVx(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.soundTimer = c.v[in.X]
	return pcAdvance, nil
}

// Fx1E: ADD I, Vx
func opADDI(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.i = (c.i + uint16(c.v[in.X])) & addr.AddressMask
	return pcAdvance, nil
}

// Fx29: LD F, Vx
func opLDF(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	c.i = memory.GlyphAddress(c.v[in.X])
	return pcAdvance, nil
}

// Fx33: LD B, Vx
func opLDB(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	dst, err := c.memory.Slice(c.i, 3)
	if err != nil {
		return pcHold, err
	}
	dst[0], dst[1], dst[2] = bit.BCD(c.v[in.X])
	return pcAdvance, nil
}

// Fx55: LD [I], Vx
func opLDIVx(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	dst, err := c.memory.Slice(c.i, int(in.X)+1)
	if err != nil {
		return pcHold, err
	}
	copy(dst, c.v[:in.X+1])
	return pcAdvance, nil
}

// Fx65: LD Vx, [I]
func opLDVxI(c *CPU, in Instruction, _ input.Keys) (pcUpdate, error) {
	src, err := c.memory.Slice(c.i, int(in.X)+1)
	if err != nil {
		return pcHold, err
	}
	copy(c.v[:in.X+1], src)
	return pcAdvance, nil
}

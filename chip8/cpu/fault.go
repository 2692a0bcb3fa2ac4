package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is reported for instruction words outside the CHIP-8 instruction set.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrStackOverflow is reported when a call is made with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is reported when a return is made with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// Fault is a fatal execution error. It identifies the instruction word and
// the address it was fetched from. Use errors.Is on a Fault to test for the
// underlying cause.
type Fault struct {
	Err     error
	Opcode  uint16
	Address uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("cpu fault: %v (opcode 0x%04X at 0x%03X)", f.Err, f.Opcode, f.Address)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

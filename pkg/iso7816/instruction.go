package iso7816

import (
	"fmt"
)

// Instruction Byte (INS) according to ISO/IEC 7816-4.
//
// INS values 6X and 9X are reserved for the transport layer and are rejected.

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instruction codes used by this package.
const (
	INS_SELECT       InsCode = 0xA4
	INS_READ_BINARY  InsCode = 0xB0
	INS_GET_RESPONSE InsCode = 0xC0
)

func (i InsCode) String() string {
	switch i {
	case INS_SELECT:
		return "SELECT"
	case INS_READ_BINARY:
		return "READ BINARY"
	case INS_GET_RESPONSE:
		return "GET RESPONSE"
	default:
		return fmt.Sprintf("InsCode(0x%02X)", byte(i))
	}
}

// Instruction represents the parsed INS byte.
type Instruction struct {
	Raw InsCode
}

// NewInstruction creates an Instruction with validation.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble := byte(ins) & 0xF0
	if highNibble == 0x60 || highNibble == 0x90 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{Raw: ins}, nil
}

// mustInstruction is for the package's own constants, which are known valid.
func mustInstruction(ins InsCode) Instruction {
	i, err := NewInstruction(ins)
	if err != nil {
		panic(err)
	}
	return i
}

// Verbose returns a human-readable description of the instruction.
func (i Instruction) Verbose() string {
	return fmt.Sprintf("INS: 0x%02X | Command: %s", byte(i.Raw), i.Raw)
}

package isa

import (
	"fmt"
)

// Header word layout: [opcode 31:27] [r1 26:24] [r2 23:21] [r3 20:18] [zero 17:0]
const (
	SHIFT_OPCODE = 27
	SHIFT_R1     = 24
	SHIFT_R2     = 21
	SHIFT_R3     = 18

	OPCODE_MASK   = 0x1f
	REGISTER_MASK = 0x7
)

// REGISTER_COUNT is the number of general purpose registers.
const REGISTER_COUNT = 8

// Register is a general purpose register index, r0 through r7.
type Register uint8

func (reg Register) String() string {
	return fmt.Sprintf("R%d", uint8(reg))
}

// Code is an instruction header word.
type Code uint32

// MakeCode packs an opcode and register fields into a header word.
func MakeCode(op Opcode, r1, r2, r3 Register) Code {
	word := uint32(op&OPCODE_MASK) << SHIFT_OPCODE
	word |= uint32(r1&REGISTER_MASK) << SHIFT_R1
	word |= uint32(r2&REGISTER_MASK) << SHIFT_R2
	word |= uint32(r3&REGISTER_MASK) << SHIFT_R3
	return Code(word)
}

// Opcode returns the opcode field.
func (code Code) Opcode() Opcode {
	return Opcode((uint32(code) >> SHIFT_OPCODE) & OPCODE_MASK)
}

// Decode returns the opcode and the three register fields.
func (code Code) Decode() (op Opcode, r1, r2, r3 Register) {
	word := uint32(code)
	op = code.Opcode()
	r1 = Register((word >> SHIFT_R1) & REGISTER_MASK)
	r2 = Register((word >> SHIFT_R2) & REGISTER_MASK)
	r3 = Register((word >> SHIFT_R3) & REGISTER_MASK)
	return
}

// String returns the assembly form of the header, without any trailing word.
func (code Code) String() (out string) {
	op, r1, r2, r3 := code.Decode()

	info, ok := Decode(op)
	if !ok {
		return fmt.Sprintf(".word 0x%08X", uint32(code))
	}

	switch info.Class {
	case CLASS_NONE:
		out = info.Mnemonic
	case CLASS_REG:
		reg := r1
		if op == OP_OUT {
			reg = r2
		}
		out = fmt.Sprintf("%v %v", info.Mnemonic, reg)
	case CLASS_REG2:
		out = fmt.Sprintf("%v %v, %v", info.Mnemonic, r1, r2)
	case CLASS_REG3:
		out = fmt.Sprintf("%v %v, %v, %v", info.Mnemonic, r1, r2, r3)
	case CLASS_IMM:
		if op == OP_IADD {
			out = fmt.Sprintf("%v %v, %v, imm", info.Mnemonic, r1, r2)
		} else {
			out = fmt.Sprintf("%v %v, imm", info.Mnemonic, r1)
		}
	case CLASS_MEM:
		out = fmt.Sprintf("%v %v, imm(%v)", info.Mnemonic, r1, r2)
	case CLASS_BRANCH:
		out = fmt.Sprintf("%v imm", info.Mnemonic)
	case CLASS_INT:
		out = fmt.Sprintf("%v %d", info.Mnemonic, uint8(r1))
	}

	return
}

// SignExtend16 widens a 16-bit pattern to 32 bits by replicating bit 15.
func SignExtend16(value uint16) uint32 {
	return uint32(int32(int16(value)))
}

package isa

import (
	"fmt"
	"strings"
)

// Opcode is the 5-bit operation selector of a header word.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP  = Opcode(0b00000) // NOP
	OP_HLT  = Opcode(0b00001) // HLT
	OP_SETC = Opcode(0b00010) // SETC
	OP_NOT  = Opcode(0b00011) // NOT
	OP_INC  = Opcode(0b00100) // INC
	OP_OUT  = Opcode(0b00101) // OUT
	OP_IN   = Opcode(0b00110) // IN
	OP_MOV  = Opcode(0b00111) // MOV
	OP_SWAP = Opcode(0b01000) // SWAP
	OP_ADD  = Opcode(0b01001) // ADD
	OP_SUB  = Opcode(0b01010) // SUB
	OP_AND  = Opcode(0b01011) // AND
	OP_IADD = Opcode(0b01100) // IADD
	OP_PUSH = Opcode(0b01101) // PUSH
	OP_POP  = Opcode(0b01110) // POP
	OP_LDM  = Opcode(0b01111) // LDM
	OP_LDD  = Opcode(0b10000) // LDD
	OP_STD  = Opcode(0b10001) // STD
	OP_JZ   = Opcode(0b10010) // JZ
	OP_JN   = Opcode(0b10011) // JN
	OP_JC   = Opcode(0b10100) // JC
	OP_JMP  = Opcode(0b10101) // JMP
	OP_CALL = Opcode(0b10110) // CALL
	OP_RET  = Opcode(0b10111) // RET
	OP_INT  = Opcode(0b11000) // INT
	OP_RTI  = Opcode(0b11001) // RTI
)

// OPCODE_SPACE is the number of encodable opcodes.
const OPCODE_SPACE = 1 << 5

// Class is the operand class of a mnemonic; it selects the encoder.
type Class int

//go:generate go tool stringer -linecomment -type=Class
const (
	CLASS_NONE   = Class(0) // none
	CLASS_REG    = Class(1) // reg
	CLASS_REG2   = Class(2) // reg2
	CLASS_REG3   = Class(3) // reg3
	CLASS_IMM    = Class(4) // imm
	CLASS_MEM    = Class(5) // mem
	CLASS_BRANCH = Class(6) // branch
	CLASS_INT    = Class(7) // int
)

// Info describes a single mnemonic.
type Info struct {
	Mnemonic string
	Opcode   Opcode
	Class    Class
	Words    int // 1, or 2 when a trailing immediate/offset/target word follows.
}

// mnemonicMap is the canonical mnemonic table.
var mnemonicMap = map[string]*Info{
	"NOP":  {Opcode: OP_NOP, Class: CLASS_NONE, Words: 1},
	"HLT":  {Opcode: OP_HLT, Class: CLASS_NONE, Words: 1},
	"SETC": {Opcode: OP_SETC, Class: CLASS_NONE, Words: 1},
	"NOT":  {Opcode: OP_NOT, Class: CLASS_REG, Words: 1},
	"INC":  {Opcode: OP_INC, Class: CLASS_REG, Words: 1},
	"OUT":  {Opcode: OP_OUT, Class: CLASS_REG, Words: 1},
	"IN":   {Opcode: OP_IN, Class: CLASS_REG, Words: 1},
	"MOV":  {Opcode: OP_MOV, Class: CLASS_REG2, Words: 1},
	"SWAP": {Opcode: OP_SWAP, Class: CLASS_REG2, Words: 1},
	"ADD":  {Opcode: OP_ADD, Class: CLASS_REG3, Words: 1},
	"SUB":  {Opcode: OP_SUB, Class: CLASS_REG3, Words: 1},
	"AND":  {Opcode: OP_AND, Class: CLASS_REG3, Words: 1},
	"IADD": {Opcode: OP_IADD, Class: CLASS_IMM, Words: 2},
	"PUSH": {Opcode: OP_PUSH, Class: CLASS_REG, Words: 1},
	"POP":  {Opcode: OP_POP, Class: CLASS_REG, Words: 1},
	"LDM":  {Opcode: OP_LDM, Class: CLASS_IMM, Words: 2},
	"LDD":  {Opcode: OP_LDD, Class: CLASS_MEM, Words: 2},
	"STD":  {Opcode: OP_STD, Class: CLASS_MEM, Words: 2},
	"JZ":   {Opcode: OP_JZ, Class: CLASS_BRANCH, Words: 2},
	"JN":   {Opcode: OP_JN, Class: CLASS_BRANCH, Words: 2},
	"JC":   {Opcode: OP_JC, Class: CLASS_BRANCH, Words: 2},
	"JMP":  {Opcode: OP_JMP, Class: CLASS_BRANCH, Words: 2},
	"CALL": {Opcode: OP_CALL, Class: CLASS_BRANCH, Words: 2},
	"RET":  {Opcode: OP_RET, Class: CLASS_NONE, Words: 1},
	"INT":  {Opcode: OP_INT, Class: CLASS_INT, Words: 1},
	"RTI":  {Opcode: OP_RTI, Class: CLASS_NONE, Words: 1},
}

// opcodeMap is the inverse of mnemonicMap, used by the decoder.
var opcodeMap [OPCODE_SPACE]*Info

func init() {
	for name, info := range mnemonicMap {
		if opcodeMap[info.Opcode] != nil {
			panic(fmt.Sprintf("isa: opcode %#x assigned to %v and %v", uint8(info.Opcode), opcodeMap[info.Opcode].Mnemonic, name))
		}
		info.Mnemonic = name
		opcodeMap[info.Opcode] = info
	}
}

// Lookup returns the definition of a mnemonic, ignoring case.
func Lookup(mnemonic string) (info *Info, ok bool) {
	info, ok = mnemonicMap[strings.ToUpper(mnemonic)]
	return
}

// Decode returns the definition of an opcode, if one is assigned.
func Decode(op Opcode) (info *Info, ok bool) {
	if int(op) >= len(opcodeMap) {
		return
	}
	info = opcodeMap[op]
	ok = info != nil
	return
}

// Mnemonics returns the number of defined mnemonics.
func Mnemonics() int {
	return len(mnemonicMap)
}

// Words returns the instruction size in words. Unassigned opcodes are one word.
func (op Opcode) Words() int {
	info, ok := Decode(op)
	if !ok {
		return 1
	}
	return info.Words
}

// Class returns the operand class of the opcode.
func (op Opcode) Class() Class {
	info, ok := Decode(op)
	if !ok {
		return CLASS_NONE
	}
	return info.Class
}

package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/port"
)

func word(op isa.Opcode, r1, r2, r3 isa.Register) uint32 {
	return uint32(isa.MakeCode(op, r1, r2, r3))
}

func load(words ...uint32) (cpu *Cpu) {
	img := isa.Image{}
	for n, w := range words {
		img[uint32(n)] = w
	}
	cpu = NewCpu()
	cpu.Load(img)
	return
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(uint32(0), cpu.Pc)
	assert.Equal(isa.INITIAL_SP, cpu.Sp)
	assert.NotNil(cpu.Memory)

	cpu.Register[3] = 9
	cpu.Ccr = FLAG_C
	cpu.Halted = true
	cpu.Cycles = 7
	cpu.Memory[5] = 5
	cpu.Reset()

	assert.Equal(uint32(0), cpu.Register[3])
	assert.Equal(uint32(0), cpu.Ccr)
	assert.False(cpu.Halted)
	assert.Equal(0, cpu.Cycles)
	assert.Equal(uint32(5), cpu.Memory[5])
}

func TestCpuExecute(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		regs [8]uint32
		ccr  uint32
		code uint32
		imm  uint32
		want [8]uint32
		flag uint32
	}){
		{"add_overflow", [8]uint32{0, 0xffff_ffff, 1}, 0,
			word(isa.OP_ADD, 0, 1, 2), 0,
			[8]uint32{0, 0xffff_ffff, 1}, FLAG_Z | FLAG_C},
		{"add", [8]uint32{0, 2, 3}, FLAG_C,
			word(isa.OP_ADD, 0, 1, 2), 0,
			[8]uint32{5, 2, 3}, 0},
		{"sub_no_borrow", [8]uint32{0, 5, 3}, 0,
			word(isa.OP_SUB, 0, 1, 2), 0,
			[8]uint32{2, 5, 3}, FLAG_C},
		{"sub_borrow", [8]uint32{0, 3, 5}, FLAG_C,
			word(isa.OP_SUB, 0, 1, 2), 0,
			[8]uint32{0xffff_fffe, 3, 5}, FLAG_N},
		{"sub_equal", [8]uint32{0, 4, 4}, 0,
			word(isa.OP_SUB, 0, 1, 2), 0,
			[8]uint32{0, 4, 4}, FLAG_Z | FLAG_C},
		{"and", [8]uint32{0, 0xf0, 0x3c}, FLAG_C,
			word(isa.OP_AND, 0, 1, 2), 0,
			[8]uint32{0x30, 0xf0, 0x3c}, 0},
		{"not", [8]uint32{0}, FLAG_C,
			word(isa.OP_NOT, 0, 0, 0), 0,
			[8]uint32{0xffff_ffff}, FLAG_N},
		{"not_reserved", [8]uint32{1}, 0b1000,
			word(isa.OP_NOT, 0, 0, 0), 0,
			[8]uint32{0xffff_fffe}, 0b1000 | FLAG_N},
		{"inc", [8]uint32{0, 0, 0, 41}, 0,
			word(isa.OP_INC, 3, 0, 0), 0,
			[8]uint32{0, 0, 0, 42}, 0},
		{"inc_wrap", [8]uint32{0xffff_ffff}, 0,
			word(isa.OP_INC, 0, 0, 0), 0,
			[8]uint32{0}, FLAG_Z | FLAG_C},
		{"mov", [8]uint32{0, 0x8000_0000}, FLAG_C,
			word(isa.OP_MOV, 0, 1, 0), 0,
			[8]uint32{0x8000_0000, 0x8000_0000}, FLAG_N},
		{"swap", [8]uint32{0, 7}, FLAG_C,
			word(isa.OP_SWAP, 0, 1, 0), 0,
			[8]uint32{7, 0}, 0},
		{"iadd_to_zero", [8]uint32{0, 1}, FLAG_C,
			word(isa.OP_IADD, 0, 1, 0), 0xffff_ffff,
			[8]uint32{0, 1}, FLAG_Z},
		{"iadd_decrement", [8]uint32{0, 5}, 0,
			word(isa.OP_IADD, 0, 1, 0), 0xffff_ffff,
			[8]uint32{4, 5}, 0},
		{"iadd_below_zero", [8]uint32{0, 0}, 0,
			word(isa.OP_IADD, 0, 1, 0), 0xffff_ffff,
			[8]uint32{0xffff_ffff, 0}, FLAG_N | FLAG_C},
		{"iadd_overflow", [8]uint32{0, 0xffff_ffff}, 0,
			word(isa.OP_IADD, 0, 1, 0), 1,
			[8]uint32{0, 0xffff_ffff}, FLAG_Z | FLAG_C},
		{"iadd_positive", [8]uint32{0, 0x10}, 0,
			word(isa.OP_IADD, 0, 1, 0), 0x7fff,
			[8]uint32{0x800f, 0x10}, 0},
		{"ldm", [8]uint32{}, FLAG_Z,
			word(isa.OP_LDM, 3, 0, 0), 0xffff_8000,
			[8]uint32{0, 0, 0, 0xffff_8000}, FLAG_Z},
		{"in", [8]uint32{0, 0, 9}, FLAG_N,
			word(isa.OP_IN, 2, 0, 0), 0,
			[8]uint32{}, FLAG_N},
		{"setc", [8]uint32{}, FLAG_Z,
			word(isa.OP_SETC, 0, 0, 0), 0,
			[8]uint32{}, FLAG_Z | FLAG_C},
		{"nop", [8]uint32{1, 2, 3, 4, 5, 6, 7, 8}, FLAG_N,
			word(isa.OP_NOP, 0, 0, 0), 0,
			[8]uint32{1, 2, 3, 4, 5, 6, 7, 8}, FLAG_N},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Register = entry.regs
		cpu.Ccr = entry.ccr

		err := cpu.Execute(isa.Code(entry.code), entry.imm)
		assert.NoError(err, entry.name)
		assert.Equal(entry.want, cpu.Register, entry.name)
		assert.Equal(entry.flag, cpu.Ccr, entry.name)
		assert.False(cpu.Halted, entry.name)
	}
}

func TestCpuStack(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[1] = 0xcafe_f00d

	assert.NoError(cpu.Execute(isa.MakeCode(isa.OP_PUSH, 1, 0, 0), 0))
	assert.Equal(isa.INITIAL_SP-1, cpu.Sp)
	assert.Equal(uint32(0xcafe_f00d), cpu.Memory[isa.INITIAL_SP])
	assert.Equal(uint32(0xcafe_f00d), cpu.Peek())
	assert.Equal(1, cpu.Depth())

	assert.NoError(cpu.Execute(isa.MakeCode(isa.OP_POP, 2, 0, 0), 0))
	assert.Equal(isa.INITIAL_SP, cpu.Sp)
	assert.Equal(uint32(0xcafe_f00d), cpu.Register[2])
	assert.Equal(0, cpu.Depth())

	// SP wraps at both ends of memory.
	cpu.Sp = 0
	cpu.Push(1)
	assert.Equal(isa.ADDRESS_MASK, cpu.Sp)
	assert.Equal(uint32(1), cpu.Pop())
	assert.Equal(uint32(0), cpu.Sp)
}

func TestCpuMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[1] = 0x1234_5678
	cpu.Register[2] = isa.ADDRESS_MASK - 1

	// Effective address wraps around the top of memory.
	assert.NoError(cpu.Execute(isa.MakeCode(isa.OP_STD, 1, 2, 0), 4))
	assert.Equal(uint32(0x1234_5678), cpu.Memory[2])

	assert.NoError(cpu.Execute(isa.MakeCode(isa.OP_LDD, 3, 2, 0), 4))
	assert.Equal(uint32(0x1234_5678), cpu.Register[3])

	// Negative offsets.
	cpu.Register[2] = 10
	assert.NoError(cpu.Execute(isa.MakeCode(isa.OP_STD, 1, 2, 0), isa.SignExtend16(0xfffe)))
	assert.Equal(uint32(0x1234_5678), cpu.Memory[8])
}

func TestCpuBranch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op    isa.Opcode
		ccr   uint32
		taken bool
	}){
		{isa.OP_JMP, 0, true},
		{isa.OP_JZ, 0, false},
		{isa.OP_JZ, FLAG_Z, true},
		{isa.OP_JN, FLAG_Z | FLAG_C, false},
		{isa.OP_JN, FLAG_N, true},
		{isa.OP_JC, FLAG_N, false},
		{isa.OP_JC, FLAG_C, true},
	}

	for _, entry := range table {
		cpu := load(word(entry.op, 0, 0, 0), 0x4_0010)
		cpu.Ccr = entry.ccr

		assert.NoError(cpu.Tick(), entry.op.String())
		if entry.taken {
			assert.Equal(uint32(0x10), cpu.Pc, entry.op.String())
		} else {
			assert.Equal(uint32(2), cpu.Pc, entry.op.String())
		}
		assert.Equal(entry.ccr, cpu.Ccr, entry.op.String())
	}
}

func TestCpuProgram(t *testing.T) {
	assert := assert.New(t)

	// LDM R0, 5 / INC R0 / HLT
	cpu := load(
		word(isa.OP_LDM, 0, 0, 0), 5,
		word(isa.OP_INC, 0, 0, 0),
		word(isa.OP_HLT, 0, 0, 0),
	)

	assert.NoError(cpu.Run())
	assert.True(cpu.Halted)
	assert.Equal(uint32(6), cpu.Register[0])
	assert.False(cpu.Flag(FLAG_Z))
	assert.False(cpu.Flag(FLAG_N))
	assert.Equal(3, cpu.Cycles)
	assert.Equal(uint32(4), cpu.Pc)

	assert.ErrorIs(cpu.Tick(), ErrHalted)
	assert.Equal(3, cpu.Cycles)
}

func TestCpuCall(t *testing.T) {
	assert := assert.New(t)

	cpu := load(
		word(isa.OP_CALL, 0, 0, 0), 4, // 0
		word(isa.OP_HLT, 0, 0, 0), // 2
		word(isa.OP_NOP, 0, 0, 0), // 3
		word(isa.OP_RET, 0, 0, 0), // 4
	)

	assert.NoError(cpu.Tick())
	assert.Equal(uint32(4), cpu.Pc)
	assert.Equal(uint32(2), cpu.Memory[isa.INITIAL_SP])
	assert.Equal(isa.INITIAL_SP-1, cpu.Sp)

	assert.NoError(cpu.Run())
	assert.Equal(uint32(3), cpu.Pc)
	assert.Equal(isa.INITIAL_SP, cpu.Sp)
	assert.Equal(3, cpu.Cycles)
}

func TestCpuInterrupt(t *testing.T) {
	assert := assert.New(t)

	cpu := load(
		word(isa.OP_INT, 1, 0, 0), // 0
		word(isa.OP_HLT, 0, 0, 0), // 1
		0,                         // 2: vector 0
		0x10,                      // 3: vector 1
	)
	cpu.Memory[0x10] = word(isa.OP_RTI, 0, 0, 0)

	assert.NoError(cpu.Tick())
	assert.Equal(uint32(0x10), cpu.Pc)
	assert.Equal(uint32(1), cpu.Peek())

	assert.NoError(cpu.Run())
	assert.Equal(uint32(2), cpu.Pc)
	assert.Equal(isa.INITIAL_SP, cpu.Sp)
	assert.Equal(3, cpu.Cycles)
}

func TestCpuOutput(t *testing.T) {
	assert := assert.New(t)

	buf := &port.Buffer{}
	cpu := load(
		word(isa.OP_LDM, 5, 0, 0), 42,
		word(isa.OP_OUT, 0, 5, 0),
		word(isa.OP_OUT, 0, 0, 0),
		word(isa.OP_HLT, 0, 0, 0),
	)
	cpu.Output = buf

	assert.NoError(cpu.Run())
	assert.Equal([]uint32{42, 0}, buf.Values())
	assert.Equal(uint32(42), cpu.Register[5])
}

func TestCpuBadOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu := load(0xf800_0000)

	err := cpu.Tick()
	assert.ErrorIs(err, ErrOpcode{})
	var eo ErrOpcode
	if assert.True(errors.As(err, &eo)) {
		assert.Equal(uint32(0), eo.Pc)
		assert.Equal(uint32(0xf800_0000), eo.Word)
	}
	assert.True(cpu.Halted)
	assert.Equal(0, cpu.Cycles)

	assert.ErrorIs(cpu.Tick(), ErrHalted)

	cpu = load(word(isa.OP_NOP, 0, 0, 0), 0xd000_0000)
	err = cpu.Run()
	assert.ErrorIs(err, ErrOpcode{})
	if assert.True(errors.As(err, &eo)) {
		assert.Equal(uint32(1), eo.Pc)
	}
	assert.Equal(1, cpu.Cycles)

	// Direct execution reports the address the word was fetched from.
	cpu = NewCpu()
	cpu.Pc = 8
	err = cpu.Execute(isa.Code(0xf800_0000), 0)
	if assert.True(errors.As(err, &eo)) {
		assert.Equal(uint32(7), eo.Pc)
		assert.Equal(uint32(0xf800_0000), eo.Word)
	}
	assert.True(cpu.Halted)

	cpu.Pc = 0
	err = cpu.Execute(isa.Code(0xf800_0000), 0)
	if assert.True(errors.As(err, &eo)) {
		assert.Equal(isa.ADDRESS_MASK, eo.Pc)
	}
}

func TestCpuWatchdog(t *testing.T) {
	assert := assert.New(t)

	cpu := load(word(isa.OP_JMP, 0, 0, 0), 0)
	assert.NoError(cpu.Run())
	assert.True(cpu.Halted)
	assert.Equal(WATCHDOG_LIMIT, cpu.Cycles)

	cpu.Reset()
	cpu.CycleLimit = 10
	assert.NoError(cpu.Run())
	assert.Equal(10, cpu.Cycles)

	// HLT counts as a cycle.
	cpu = load(word(isa.OP_HLT, 0, 0, 0))
	assert.NoError(cpu.Run())
	assert.Equal(1, cpu.Cycles)
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := load(
		word(isa.OP_LDM, 0, 0, 0), 5,
		word(isa.OP_INC, 0, 0, 0),
		word(isa.OP_HLT, 0, 0, 0),
	)
	assert.NoError(cpu.Run())

	text := cpu.String()
	assert.True(strings.Contains(text, "pc: 00004"), text)
	assert.True(strings.Contains(text, "sp: 3FFFF"), text)
	assert.True(strings.Contains(text, "ccr: --- halted"), text)
	assert.True(strings.Contains(text, "r0: 0000_0006"), text)
	assert.True(strings.Contains(text, "cycles: 3"), text)

	assert.True(strings.HasPrefix(cpu.Registers(), "R0=00000006 R1=00000000"))
}

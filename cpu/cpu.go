package cpu

import (
	"fmt"
	"log"
	"math"
	"math/bits"
	"strings"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/port"
)

// Condition code register flags.
const (
	FLAG_Z    = uint32(1 << 0) // Result was zero.
	FLAG_N    = uint32(1 << 1) // Result bit 31 was set.
	FLAG_C    = uint32(1 << 2) // Carry out, or no borrow.
	FLAG_MASK = FLAG_Z | FLAG_N | FLAG_C
)

// WATCHDOG_LIMIT is the default number of instructions after which the CPU
// is forcibly halted.
const WATCHDOG_LIMIT = 5000

// Cpu is the simulation context of the processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [isa.REGISTER_COUNT]uint32 // Register bank.
	Pc       uint32                     // Program counter.
	Sp       uint32                     // Stack pointer.
	Ccr      uint32                     // Condition code register.
	Halted   bool                       // Set by HLT, a bad opcode or the watchdog.

	Cycles     int // Instructions executed since reset.
	CycleLimit int // Watchdog limit; WATCHDOG_LIMIT if zero or negative.

	Memory isa.Image // Main memory.
	Output port.Port // Device receiving OUT values, if any.
}

// NewCpu creates a new CPU with empty memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: isa.Image{},
	}
	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers and flags.
// - Sets PC to zero and SP to the top of memory.
// - Zeros the cycle counter.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Pc = 0
	cpu.Sp = isa.INITIAL_SP
	cpu.Ccr = 0
	cpu.Halted = false
	cpu.Cycles = 0
}

// Load replaces memory with an image, by reference, and resets the CPU.
func (cpu *Cpu) Load(img isa.Image) {
	if img == nil {
		img = isa.Image{}
	}
	cpu.Memory = img
	cpu.Reset()
}

// Flag returns true if all of the requested flags are set.
func (cpu *Cpu) Flag(flag uint32) bool {
	return cpu.Ccr&flag == flag
}

// limit returns the effective watchdog limit.
func (cpu *Cpu) limit() int {
	if cpu.CycleLimit <= 0 {
		return WATCHDOG_LIMIT
	}
	return cpu.CycleLimit
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "sp", "ccr",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"cycles",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%05X", cpu.Pc)
		case "sp":
			strval = fmt.Sprintf("%05X", cpu.Sp)
		case "ccr":
			flags := []byte("---")
			for n, flag := range []uint32{FLAG_C, FLAG_N, FLAG_Z} {
				if cpu.Flag(flag) {
					flags[n] = "CNZ"[n]
				}
			}
			strval = string(flags)
			if cpu.Halted {
				strval += " halted"
			}
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7":
			val := cpu.Register[byte(reg[1]-'0')]
			strval = fmt.Sprintf("%04X_%04X", val>>16, val&0xffff)
		case "cycles":
			strval = fmt.Sprintf("%d", cpu.Cycles)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// FetchCode fetches the instruction at PC, and its trailing word if it has
// one, advancing PC past both.
func (cpu *Cpu) FetchCode() (code isa.Code, imm uint32, err error) {
	pc := cpu.Pc
	code = isa.Code(cpu.Memory.Load(pc))
	cpu.Pc = isa.Mask(pc + 1)

	info, ok := isa.Decode(code.Opcode())
	if !ok {
		err = ErrOpcode{Pc: pc, Word: uint32(code)}
		return
	}

	if info.Words == 2 {
		imm = cpu.Memory.Load(cpu.Pc)
		cpu.Pc = isa.Mask(cpu.Pc + 1)
	}

	return
}

// Tick executes a single instruction. An unassigned opcode halts the CPU
// without counting a cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.Pc
	code, imm, err := cpu.FetchCode()
	if err != nil {
		if cpu.Verbose {
			log.Printf("cpu: %05X: %v", pc, err)
		}
		cpu.Halted = true
		return
	}

	if cpu.Verbose {
		if code.Opcode().Words() == 2 {
			log.Printf("cpu: %05X: %v (%08X)", pc, code, imm)
		} else {
			log.Printf("cpu: %05X: %v", pc, code)
		}
	}

	err = cpu.Execute(code, imm)

	cpu.Cycles++
	if !cpu.Halted && cpu.Cycles >= cpu.limit() {
		if cpu.Verbose {
			log.Printf("cpu: watchdog halt after %d cycles", cpu.Cycles)
		}
		cpu.Halted = true
	}

	return
}

// Run executes instructions until the CPU halts.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// setFlags updates Z and N from a result, and C from carry.
func (cpu *Cpu) setFlags(result uint32, carry bool) {
	ccr := cpu.Ccr &^ FLAG_MASK
	if result == 0 {
		ccr |= FLAG_Z
	}
	if result&0x8000_0000 != 0 {
		ccr |= FLAG_N
	}
	if carry {
		ccr |= FLAG_C
	}
	cpu.Ccr = ccr
}

// branch jumps to a target if the condition holds.
func (cpu *Cpu) branch(cond bool, target uint32) {
	if cond {
		cpu.Pc = isa.Mask(target)
	}
}

// Execute executes a single decoded instruction. imm is the trailing word of
// two word instructions. PC must already be past the instruction, as
// FetchCode leaves it.
func (cpu *Cpu) Execute(code isa.Code, imm uint32) (err error) {
	op, r1, r2, r3 := code.Decode()
	reg := &cpu.Register

	switch op {
	case isa.OP_NOP:
		// pass
	case isa.OP_HLT:
		cpu.Halted = true
	case isa.OP_SETC:
		cpu.Ccr |= FLAG_C
	case isa.OP_NOT:
		reg[r1] = ^reg[r1]
		cpu.setFlags(reg[r1], false)
	case isa.OP_INC:
		var carry uint32
		reg[r1], carry = bits.Add32(reg[r1], 1, 0)
		cpu.setFlags(reg[r1], carry != 0)
	case isa.OP_OUT:
		if cpu.Output != nil {
			err = cpu.Output.Send(reg[r2])
		}
	case isa.OP_IN:
		reg[r1] = 0
	case isa.OP_MOV:
		reg[r1] = reg[r2]
		cpu.setFlags(reg[r1], false)
	case isa.OP_SWAP:
		reg[r1], reg[r2] = reg[r2], reg[r1]
		cpu.setFlags(reg[r1], false)
	case isa.OP_ADD:
		var carry uint32
		reg[r1], carry = bits.Add32(reg[r2], reg[r3], 0)
		cpu.setFlags(reg[r1], carry != 0)
	case isa.OP_SUB:
		var borrow uint32
		reg[r1], borrow = bits.Sub32(reg[r2], reg[r3], 0)
		cpu.setFlags(reg[r1], borrow == 0)
	case isa.OP_AND:
		reg[r1] = reg[r2] & reg[r3]
		cpu.setFlags(reg[r1], false)
	case isa.OP_IADD:
		// The immediate is signed; C is set when the sum leaves [0, 2^32).
		sum := int64(reg[r2]) + int64(int32(imm))
		reg[r1] = uint32(sum)
		cpu.setFlags(reg[r1], sum < 0 || sum > math.MaxUint32)
	case isa.OP_PUSH:
		cpu.Push(reg[r1])
	case isa.OP_POP:
		reg[r1] = cpu.Pop()
	case isa.OP_LDM:
		reg[r1] = imm
	case isa.OP_LDD:
		reg[r1] = cpu.Memory.Load(reg[r2] + imm)
	case isa.OP_STD:
		cpu.Memory.Store(reg[r2]+imm, reg[r1])
	case isa.OP_JZ:
		cpu.branch(cpu.Flag(FLAG_Z), imm)
	case isa.OP_JN:
		cpu.branch(cpu.Flag(FLAG_N), imm)
	case isa.OP_JC:
		cpu.branch(cpu.Flag(FLAG_C), imm)
	case isa.OP_JMP:
		cpu.branch(true, imm)
	case isa.OP_CALL:
		cpu.Push(cpu.Pc)
		cpu.branch(true, imm)
	case isa.OP_RET, isa.OP_RTI:
		cpu.Pc = isa.Mask(cpu.Pop())
	case isa.OP_INT:
		cpu.Push(cpu.Pc)
		cpu.Pc = isa.Mask(cpu.Memory.Load(uint32(r1) + isa.VECTOR_BASE))
	default:
		// Unassigned opcodes are single words.
		cpu.Halted = true
		err = ErrOpcode{Pc: isa.Mask(cpu.Pc - 1), Word: uint32(code)}
	}

	return
}

// Registers returns the register bank formatted on one line.
func (cpu *Cpu) Registers() string {
	var text strings.Builder
	for n, val := range cpu.Register {
		if n > 0 {
			text.WriteString(" ")
		}
		fmt.Fprintf(&text, "%v=%08X", isa.Register(n), val)
	}
	return text.String()
}

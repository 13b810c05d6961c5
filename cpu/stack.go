package cpu

import (
	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
)

// Push stores a value at SP, then moves SP down one word.
func (cpu *Cpu) Push(value uint32) {
	cpu.Memory.Store(cpu.Sp, value)
	cpu.Sp = isa.Mask(cpu.Sp - 1)
}

// Pop moves SP up one word, then loads the value at SP.
func (cpu *Cpu) Pop() (value uint32) {
	cpu.Sp = isa.Mask(cpu.Sp + 1)
	value = cpu.Memory.Load(cpu.Sp)
	return
}

// Peek returns the value Pop would return, without moving SP.
func (cpu *Cpu) Peek() (value uint32) {
	return cpu.Memory.Load(cpu.Sp + 1)
}

// Depth returns the number of words pushed since reset, modulo the address
// space.
func (cpu *Cpu) Depth() int {
	return int(isa.Mask(isa.INITIAL_SP - cpu.Sp))
}

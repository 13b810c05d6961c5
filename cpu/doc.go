// Package cpu implements the architectural simulator for the RISC
// instruction set.
//
// The CPU consists of eight 32-bit general-purpose registers (R0-R7), a
// program counter, a stack pointer into a memory-backed descending stack,
// and a condition code register holding the zero, negative and carry flags.
// Memory is a sparse isa.Image of 2^18 words. Execution is strictly one
// instruction per Tick, and a watchdog halts runaway programs.
package cpu

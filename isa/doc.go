// Package isa defines the instruction set shared by the assembler and the
// simulator.
//
// Every instruction starts with a 32-bit header word holding a 5-bit opcode
// and three 3-bit register fields. Instructions that carry an immediate,
// a memory offset or a branch target are followed by a second word. Memory is
// word addressed over an 18-bit address space.
//
// The package also owns the machine Image, the sparse address to word mapping
// handed from the assembler to the simulator, and its text serializations.
package isa

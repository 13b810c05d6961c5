// Package asm is a two-pass assembler for the 32-bit word-addressable RISC
// instruction set described by package isa.
//
// The first pass tokenizes each line, records labels and equates, and lays
// out instruction addresses. The second pass encodes every instruction into
// one or two machine words. Diagnostics from both passes are collected on
// the resulting Program rather than stopping at the first error.
package asm

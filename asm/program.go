package asm

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"slices"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/internal"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
)

// Instruction is a single assembled source line.
type Instruction struct {
	Label    string    // Label defined on the same line, if any.
	Mnemonic string    // Upper-cased mnemonic.
	Operands []string  // Raw operand tokens.
	LineNo   int       // Source line number.
	Line     string    // Source text, without comment.
	Address  uint32    // Address of the first word.
	Info     *isa.Info // Mnemonic definition.
	Words    []uint32  // Machine words; zero filled when encoding failed.
}

// Program is the result of an assembly, complete or not.
type Program struct {
	Instructions []Instruction
	Labels       map[string]uint32 // Symbol table.
	Equates      map[string]int64  // Equates defined by the source.
	Errors       []error
	Warnings     []error
}

// Err returns all program errors joined, or nil.
func (prog *Program) Err() error {
	return errors.Join(prog.Errors...)
}

// Debug locates the instruction occupying an address.
type Debug struct {
	*Instruction
	Index int // Word index within the instruction.
}

// Debug returns the instruction that covers addr. The embedded Instruction
// is nil if no instruction covers it.
func (prog *Program) Debug(addr uint32) (dbg Debug) {
	for n, inst := range prog.Instructions {
		if addr >= inst.Address && addr < inst.Address+uint32(len(inst.Words)) {
			dbg = Debug{
				Instruction: &prog.Instructions[n],
				Index:       int(addr - inst.Address),
			}
			break
		}
	}

	return
}

// Words iterates over every machine word in source order.
func (prog *Program) Words() iter.Seq2[uint32, uint32] {
	return func(yield func(addr uint32, word uint32) bool) {
		for _, inst := range prog.Instructions {
			for n, word := range inst.Words {
				if !yield(inst.Address+uint32(n), word) {
					return
				}
			}
		}
	}
}

// Image flattens the program into a memory image, offset by start. No
// word is wrapped around the address space.
func (prog *Program) Image(start uint32) (img isa.Image, err error) {
	img = isa.Image{}
	for addr, word := range prog.Words() {
		at := uint64(start) + uint64(addr)
		if at >= isa.MEMORY_WORDS {
			img = nil
			err = ErrImageRange(at)
			return
		}
		img[uint32(at)] = word
	}
	return
}

// Symbols iterates over the labels, then the equates, each ordered by value
// and then by name.
func (prog *Program) Symbols() iter.Seq2[string, int64] {
	labels := make(map[string]int64, len(prog.Labels))
	for name, addr := range prog.Labels {
		labels[name] = int64(addr)
	}

	return internal.IterSeq2Concat(sortedSymbols(labels), sortedSymbols(prog.Equates))
}

func sortedSymbols(symbols map[string]int64) iter.Seq2[string, int64] {
	names := slices.SortedFunc(maps.Keys(symbols), func(a, b string) int {
		return cmp.Or(cmp.Compare(symbols[a], symbols[b]), cmp.Compare(a, b))
	})

	return func(yield func(name string, value int64) bool) {
		for _, name := range names {
			if !yield(name, symbols[name]) {
				return
			}
		}
	}
}

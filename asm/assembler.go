// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"io"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
)

// Predefined system equates
var sysEquate = map[string]int64{
	"MEMORY_WORDS": isa.MEMORY_WORDS,
	"INITIAL_SP":   int64(isa.INITIAL_SP),
	"ADDRESS_MASK": int64(isa.ADDRESS_MASK),
	"VECTOR_BASE":  isa.VECTOR_BASE,
}

// Assembler is a two pass assembler.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Label     map[string]uint32 // Map of labels to addresses.
	Equate    map[string]int64  // Map of equates, including predefines.
}

// Predefine defines a new equate or redefines an existing one. The value is
// evaluated at the start of every Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Parse assembles an input stream. The returned Program is never nil; err is
// the join of all Program.Errors.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	prog = &Program{
		Labels:  map[string]uint32{},
		Equates: map[string]int64{},
	}

	asm.Label = map[string]uint32{}
	asm.Equate = maps.Clone(sysEquate)
	for _, name := range slices.Sorted(maps.Keys(asm.predefine)) {
		text := asm.predefine[name]
		value, perr := asm.valueOf(text)
		if perr != nil {
			prog.Errors = append(prog.Errors, &ErrSyntax{Line: name + "=" + text, Err: perr})
			continue
		}
		asm.Equate[name] = value
	}

	asm.layout(prog, input)
	if len(prog.Errors) == 0 {
		asm.encode(prog)
	}

	prog.Labels = maps.Clone(asm.Label)

	err = prog.Err()
	return
}

// layout is the first pass: it records labels and equates and assigns an
// address to every instruction.
func (asm *Assembler) layout(prog *Program, input io.Reader) {
	if asm.Verbose {
		log.Printf("asm: pass 1 (memory limit %v words)", isa.MEMORY_WORDS)
	}

	scanner := bufio.NewScanner(input)

	var lineno int
	var address uint32
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line, label, labeled, mnemonic, operands := tokenize(text)

		fail := func(err error) {
			prog.Errors = append(prog.Errors, &ErrSyntax{LineNo: lineno, Line: line, Err: err})
		}

		if address >= isa.MEMORY_WORDS {
			fail(ErrMemoryFull)
			return
		}

		if labeled {
			err := asm.defineLabel(label, address)
			if err != nil {
				fail(err)
			} else if asm.Verbose {
				log.Printf("asm: label %v -> %05X", label, address)
			}
		}

		if len(mnemonic) == 0 {
			continue
		}

		if strings.HasPrefix(mnemonic, ".") {
			next, err := asm.directive(prog, mnemonic, operands, address)
			if err != nil {
				fail(err)
				continue
			}
			address = next
			continue
		}

		info, ok := isa.Lookup(mnemonic)
		if !ok {
			fail(ErrOpcodeInvalid)
			continue
		}

		prog.Instructions = append(prog.Instructions, Instruction{
			Label:    label,
			Mnemonic: mnemonic,
			Operands: operands,
			LineNo:   lineno,
			Line:     line,
			Address:  address,
			Info:     info,
			Words:    make([]uint32, info.Words),
		})

		if asm.Verbose {
			log.Printf("asm: %05X: %v %v", address, mnemonic, strings.Join(operands, ", "))
		}

		address += uint32(info.Words)
		if address > isa.MEMORY_WORDS {
			fail(ErrMemoryFull)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		prog.Errors = append(prog.Errors, err)
	}
}

// defineLabel records a label at an address.
func (asm *Assembler) defineLabel(label string, address uint32) (err error) {
	if !validLabel(label) {
		err = ErrLabelInvalid
		return
	}
	if _, ok := asm.Label[label]; ok {
		err = ErrLabelDuplicate
		return
	}
	asm.Label[label] = address
	return
}

// directive handles a '.' directive, returning the next address.
func (asm *Assembler) directive(prog *Program, directive string, operands []string, address uint32) (next uint32, err error) {
	next = address

	switch directive {
	case ".ORG":
		if len(operands) == 0 || len(operands[0]) == 0 {
			err = ErrOrgMissing
			return
		}
		if len(operands) > 1 {
			err = ErrOperandExtra
			return
		}
		var value int64
		value, err = asm.valueOf(operands[0])
		switch {
		case err != nil:
			return
		case value < 0:
			err = ErrOrgNegative
		case value >= isa.MEMORY_WORDS:
			err = ErrOrgRange
		case value < int64(address):
			err = ErrOrgBackwards
		default:
			next = uint32(value)
			if asm.Verbose {
				log.Printf("asm: .ORG %05X", next)
			}
		}
	case ".EQU":
		var words []string
		switch len(operands) {
		case 1:
			words = strings.Fields(operands[0])
		case 2:
			words = operands
		}
		if len(words) != 2 || !identRe.MatchString(words[0]) {
			err = ErrEquateSyntax
			return
		}
		name := words[0]
		if _, ok := asm.Equate[name]; ok {
			err = ErrEquateDuplicate
			return
		}
		var value int64
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		asm.Equate[name] = value
		prog.Equates[name] = value
		if asm.Verbose {
			log.Printf("asm: .EQU %v = %v", name, value)
		}
	default:
		err = ErrDirectiveInvalid
	}

	return
}

// encode is the second pass: it fills in the machine words of every
// instruction laid out by the first pass.
func (asm *Assembler) encode(prog *Program) {
	if asm.Verbose {
		log.Printf("asm: pass 2")
	}

	for n := range prog.Instructions {
		inst := &prog.Instructions[n]

		words, warning, err := asm.encodeInstruction(inst)
		if warning != nil {
			prog.Warnings = append(prog.Warnings, &ErrSyntax{LineNo: inst.LineNo, Line: inst.Line, Err: warning})
		}
		if err != nil {
			prog.Errors = append(prog.Errors, &ErrSyntax{LineNo: inst.LineNo, Line: inst.Line, Err: err})
			continue
		}
		copy(inst.Words, words)

		if asm.Verbose {
			log.Printf("asm: %05X: %-5v %-15v -> %08X", inst.Address, inst.Mnemonic, strings.Join(inst.Operands, ", "), inst.Words)
		}
	}
}

// arity checks the operand count of an instruction.
func arity(inst *Instruction, count int) (err error) {
	switch {
	case len(inst.Operands) < count:
		err = ErrOperandMissing
	case len(inst.Operands) > count:
		err = ErrOperandExtra
	}
	return
}

// registers parses a list of register operands.
func registers(operands ...string) (regs []isa.Register, err error) {
	regs = make([]isa.Register, len(operands))
	for n, word := range operands {
		regs[n], err = parseRegister(word)
		if err != nil {
			return
		}
	}
	return
}

// encodeInstruction encodes a single instruction by operand class.
func (asm *Assembler) encodeInstruction(inst *Instruction) (words []uint32, warning error, err error) {
	op := inst.Info.Opcode
	var regs []isa.Register

	switch inst.Info.Class {
	case isa.CLASS_NONE:
		if err = arity(inst, 0); err != nil {
			return
		}
		words = []uint32{uint32(isa.MakeCode(op, 0, 0, 0))}
	case isa.CLASS_REG:
		if err = arity(inst, 1); err != nil {
			return
		}
		if regs, err = registers(inst.Operands...); err != nil {
			return
		}
		if op == isa.OP_OUT {
			words = []uint32{uint32(isa.MakeCode(op, 0, regs[0], 0))}
		} else {
			words = []uint32{uint32(isa.MakeCode(op, regs[0], 0, 0))}
		}
	case isa.CLASS_REG2:
		if err = arity(inst, 2); err != nil {
			return
		}
		if regs, err = registers(inst.Operands...); err != nil {
			return
		}
		words = []uint32{uint32(isa.MakeCode(op, regs[0], regs[1], 0))}
	case isa.CLASS_REG3:
		if err = arity(inst, 3); err != nil {
			return
		}
		if regs, err = registers(inst.Operands...); err != nil {
			return
		}
		words = []uint32{uint32(isa.MakeCode(op, regs[0], regs[1], regs[2]))}
	case isa.CLASS_IMM:
		count := 2
		if op == isa.OP_IADD {
			count = 3
		}
		if err = arity(inst, count); err != nil {
			return
		}
		if regs, err = registers(inst.Operands[:count-1]...); err != nil {
			return
		}
		var imm uint32
		if imm, err = asm.immediate(inst.Operands[count-1]); err != nil {
			return
		}
		var source isa.Register
		if op == isa.OP_IADD {
			source = regs[1]
		}
		words = []uint32{uint32(isa.MakeCode(op, regs[0], source, 0)), imm}
	case isa.CLASS_MEM:
		if err = arity(inst, 2); err != nil {
			return
		}
		if regs, err = registers(inst.Operands[0]); err != nil {
			return
		}
		var imm uint32
		var base isa.Register
		if imm, base, err = asm.offset(inst.Operands[1]); err != nil {
			return
		}
		words = []uint32{uint32(isa.MakeCode(op, regs[0], base, 0)), imm}
	case isa.CLASS_BRANCH:
		if err = arity(inst, 1); err != nil {
			return
		}
		var target int64
		if target, err = asm.target(inst.Operands[0]); err != nil {
			return
		}
		if target < 0 || target >= isa.MEMORY_WORDS {
			warning = ErrTargetRange
		}
		words = []uint32{uint32(isa.MakeCode(op, 0, 0, 0)), isa.Mask(uint32(target))}
	case isa.CLASS_INT:
		if err = arity(inst, 1); err != nil {
			return
		}
		var vector int64
		if vector, err = asm.valueOf(inst.Operands[0]); err != nil {
			return
		}
		if vector < 0 || vector >= isa.REGISTER_COUNT {
			err = ErrVectorInvalid
			return
		}
		words = []uint32{uint32(isa.MakeCode(op, isa.Register(vector), 0, 0))}
	default:
		err = ErrOpcodeInvalid
	}

	return
}

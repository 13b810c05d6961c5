package asm

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
)

var (
	registerRe = regexp.MustCompile(`^[Rr]([0-7])$`)
	offsetRe   = regexp.MustCompile(`^(.+)\(\s*([^()]+?)\s*\)$`)
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// tokenize splits a source line into its label, mnemonic and operands.
func tokenize(text string) (line string, label string, labeled bool, mnemonic string, operands []string) {
	line, _, _ = strings.Cut(text, ";")
	line = strings.TrimSpace(line)

	rest := line
	if before, after, found := strings.Cut(rest, ":"); found {
		label = strings.TrimSpace(before)
		labeled = true
		rest = strings.TrimSpace(after)
	}
	if len(rest) == 0 {
		return
	}

	mnemonic = rest
	if n := strings.IndexFunc(rest, unicode.IsSpace); n >= 0 {
		mnemonic, rest = rest[:n], rest[n:]
	} else {
		rest = ""
	}
	mnemonic = strings.ToUpper(mnemonic)
	operands = splitOperands(rest)

	return
}

// splitOperands splits on commas outside of parentheses.
func splitOperands(text string) (operands []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	depth := 0
	start := 0
	for n, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				operands = append(operands, strings.TrimSpace(text[start:n]))
				start = n + 1
			}
		}
	}
	operands = append(operands, strings.TrimSpace(text[start:]))

	return
}

// validLabel reports whether a label name is acceptable.
func validLabel(label string) bool {
	return len(label) > 0 && !strings.ContainsFunc(label, unicode.IsSpace)
}

// parseRegister returns the register index of an operand.
func parseRegister(word string) (reg isa.Register, err error) {
	word = strings.TrimSpace(word)
	if len(word) == 0 {
		err = ErrOperandMissing
		return
	}
	match := registerRe.FindStringSubmatch(word)
	if match == nil {
		err = ErrRegisterInvalid
		return
	}
	reg = isa.Register(match[1][0] - '0')
	return
}

// parseNumber parses a signed decimal, hexadecimal (0x prefix or h suffix)
// or binary (0b prefix or b suffix) literal.
func parseNumber(word string) (value int64, err error) {
	text := strings.TrimSpace(word)

	negative := false
	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		negative = text[0] == '-'
		text = text[1:]
	}

	lower := strings.ToLower(text)
	base := 10
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, text = 16, text[2:]
	case strings.HasSuffix(lower, "h"):
		base, text = 16, text[:len(text)-1]
	case strings.HasPrefix(lower, "0b"):
		base, text = 2, text[2:]
	case strings.HasSuffix(lower, "b"):
		base, text = 2, text[:len(text)-1]
	}

	if len(text) == 0 || text[0] == '-' || text[0] == '+' {
		err = ErrParseNumber(word)
		return
	}

	value, err = strconv.ParseInt(text, base, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if negative {
		value = -value
	}

	return
}

// valueOf returns the value of a numeric operand: an expression, an equate,
// a label or a literal.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	word = strings.TrimSpace(word)

	if len(word) == 0 {
		err = ErrOperandMissing
		return
	}

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		value, err = asm.parenEval(word[2 : len(word)-1])
		return
	}

	if equate, ok := asm.Equate[word]; ok {
		value = equate
		return
	}

	if addr, ok := asm.Label[word]; ok {
		value = int64(addr)
		return
	}

	value, err = parseNumber(word)
	return
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, addr := range asm.Label {
		pred[name] = starlark.MakeInt64(int64(addr))
	}
	for name, equate := range asm.Equate {
		pred[name] = starlark.MakeInt64(equate)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// immediate returns the second word of an immediate or offset operand.
func (asm *Assembler) immediate(word string) (imm uint32, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}
	if value < -0x8000 || value > 0xffff {
		err = ErrImmediateRange(value)
		return
	}
	imm = isa.SignExtend16(uint16(value & 0xffff))
	return
}

// offset parses an 'off(Rn)' memory operand.
func (asm *Assembler) offset(word string) (imm uint32, base isa.Register, err error) {
	match := offsetRe.FindStringSubmatch(strings.TrimSpace(word))
	if match == nil {
		err = ErrOffsetSyntax
		return
	}
	imm, err = asm.immediate(match[1])
	if err != nil {
		return
	}
	base, err = parseRegister(match[2])
	return
}

// target resolves a branch target, preferring labels over numbers.
func (asm *Assembler) target(word string) (addr int64, err error) {
	word = strings.TrimSpace(word)

	if label, ok := asm.Label[word]; ok {
		addr = int64(label)
		return
	}

	addr, err = asm.valueOf(word)
	if err == nil || errors.Is(err, ErrOperandMissing) || strings.HasPrefix(word, "$(") {
		return
	}

	if identRe.MatchString(word) {
		err = ErrLabelMissing(word)
	} else {
		err = ErrTargetInvalid
	}
	return
}

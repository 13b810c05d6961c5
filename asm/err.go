package asm

import (
	"errors"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/translate"
)

var f = translate.From

var (
	// Pass 1 errors
	ErrOpcodeInvalid    = errors.New(f("opcode invalid"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
	ErrOrgMissing       = errors.New(f(".org address missing"))
	ErrOrgNegative      = errors.New(f(".org address negative"))
	ErrOrgRange         = errors.New(f(".org address beyond memory"))
	ErrOrgBackwards     = errors.New(f(".org address before current address"))
	ErrMemoryFull       = errors.New(f("program exceeds memory"))
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))

	// Pass 2 errors
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrOffsetSyntax    = errors.New(f("offset syntax"))
	ErrTargetInvalid   = errors.New(f("target invalid"))
	ErrVectorInvalid   = errors.New(f("interrupt vector invalid"))

	// Warnings
	ErrTargetRange = errors.New(f("target outside address space"))
)

// ErrImageRange is the first address of a program image past the end of
// memory.
type ErrImageRange uint64

func (err ErrImageRange) Error() string {
	return f("image address %05X beyond memory", uint64(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrImmediateRange int64

func (err ErrImmediateRange) Error() string {
	return f("immediate %v out of 16-bit range", int64(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax ties a diagnostic to its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

package isa

import (
	"errors"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/translate"
)

var f = translate.From

var (
	ErrFormatInvalid = errors.New(f("image format invalid"))
	ErrImageSyntax   = errors.New(f("image syntax"))
	ErrImageAddress  = errors.New(f("image address out of range"))
)

// ErrImageLine locates a malformed line of a serialized image.
type ErrImageLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrImageLine) Error() string {
	return f("image line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrImageLine) Unwrap() error {
	return err.Err
}

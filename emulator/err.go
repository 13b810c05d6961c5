package emulator

import (
	"github.com/Exo1i/5-Staged-Pipelined-Processor/translate"
)

var f = translate.From

// ErrRuntime ties a simulation fault to the instruction that raised it.
// LineNo is zero when the faulting address has no source listing.
type ErrRuntime struct {
	Pc     uint32 // Address of the faulting instruction.
	LineNo int    // Source line, if known.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("%05X: %v", err.Pc, err.Err)
	}
	return f("line %d (%05X): %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

package cpu

import (
	"errors"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/translate"
)

var f = translate.From

var (
	ErrHalted = errors.New(f("cpu halted"))
)

// ErrOpcode is raised when the fetched word has no assigned opcode.
type ErrOpcode struct {
	Pc   uint32 // Address of the offending word.
	Word uint32 // The offending word.
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v at %05X: %v", uint8(isa.Code(eo.Word).Opcode()), eo.Pc, isa.Code(eo.Word).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

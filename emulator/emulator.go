// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"io"
	"log"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/asm"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/cpu"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/port"
)

// Emulator state. CPU + program listing + output port.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.

	Tape port.Tape // Output port.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &asm.Program{},
	}

	emu.Cpu.Output = &emu.Tape

	return
}

// Reset loads the program image into memory and resets the CPU.
func (emu *Emulator) Reset() (err error) {
	err = emu.Program.Err()
	if err != nil {
		return
	}

	img, err := emu.Program.Image(0)
	if err != nil {
		return
	}
	emu.Load(img)

	if emu.Verbose {
		log.Printf("emulator: loaded %d words", len(emu.Memory))
	}

	return
}

// LoadImage loads a raw image with no program listing, and resets the CPU.
func (emu *Emulator) LoadImage(img isa.Image) {
	emu.Program = &asm.Program{}
	emu.Load(img)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() isa.Code {
	return isa.Code(emu.Memory.Load(emu.Pc))
}

// LineNo returns the current line number for the executing instruction, or
// zero if the PC is outside of the program listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Pc)
	if dbg.Instruction == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Halted {
		done = true
		return
	}

	pc := emu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	done = emu.Halted

	if done && emu.Verbose {
		log.Printf("emulator: halted after %d cycles", emu.Cycles)
	}

	return
}

// Run ticks the emulator until it halts.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}

// Dump writes the memory state in hex format.
func (emu *Emulator) Dump(w io.Writer) (err error) {
	return emu.Memory.Dump(w, isa.FORMAT_HEX)
}

// Simulate runs an image to completion and returns the final memory. The
// image itself is modified.
func Simulate(img isa.Image) (mem isa.Image, err error) {
	emu := NewEmulator()
	emu.LoadImage(img)

	err = emu.Run()
	mem = emu.Memory

	return
}

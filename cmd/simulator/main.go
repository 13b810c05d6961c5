// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/asm"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/emulator"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
)

func main() {
	var verbose bool
	var limit int
	var image string

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&limit, "limit", 0, "Watchdog cycle limit (0 for the default)")
	flag.StringVar(&image, "image", "", "Load the input as an image in this format (hex, bin, dense) instead of assembling it")

	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf("%v: expected input and output files, got %v", os.Args[0], flag.Args())
	}
	input := flag.Arg(0)
	output := flag.Arg(1)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.CycleLimit = limit
	emu.Tape.Output = os.Stdout

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	if len(image) != 0 {
		var format isa.Format
		format, err = isa.ParseFormat(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		var img isa.Image
		img, err = isa.ReadImage(inf, format)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		emu.LoadImage(img)
	} else {
		assembler := &asm.Assembler{Verbose: verbose}
		emu.Program, err = assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		err = emu.Reset()
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	}

	run_err := emu.Run()

	if verbose {
		log.Printf("emulator: state\n%v", emu.Cpu.String())
		log.Printf("emulator: %v", emu.Registers())
		if depth := emu.Depth(); depth > 0 {
			log.Printf("emulator: stack depth %d, top %08X", depth, emu.Peek())
		}
		pp.Fprintf(os.Stderr, "Labels: %v\n", emu.Program.Labels)
	}

	ouf, err := os.Create(output)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
	err = emu.Dump(ouf)
	if err == nil {
		err = ouf.Close()
	}
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if run_err != nil {
		log.Fatalf("%v: %v", input, run_err)
	}

	fmt.Fprintf(os.Stderr, "%v: halted after %d cycles -> %v\n", input, emu.Cycles, output)
}

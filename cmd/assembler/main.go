// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/Exo1i/5-Staged-Pipelined-Processor/asm"
	"github.com/Exo1i/5-Staged-Pipelined-Processor/isa"
)

// defines collects repeated -D NAME=VALUE options.
type defines []string

func (d *defines) String() string {
	return strings.Join(*d, ",")
}

func (d *defines) Set(value string) error {
	*d = append(*d, value)
	return nil
}

func main() {
	var output string
	var format string
	var start uint
	var verbose bool
	var predefines defines

	flag.StringVar(&output, "o", "output.mem", "Output file")
	flag.StringVar(&format, "f", "dense", "Output format: hex, bin or dense")
	flag.UintVar(&start, "s", 0, "Start address of the image")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(&predefines, "D", "Predefine an equate, as NAME=VALUE")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one input file, got %v", os.Args[0], flag.Args())
	}
	input := flag.Arg(0)

	image_format, err := isa.ParseFormat(format)
	if err != nil {
		log.Fatalf("%v: %v", format, err)
	}

	assembler := &asm.Assembler{Verbose: verbose}
	for _, def := range predefines {
		name, value, ok := strings.Cut(def, "=")
		if !ok {
			value = "1"
		}
		assembler.Predefine(name, value)
	}

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	prog, err := assembler.Parse(inf)
	for _, warning := range prog.Warnings {
		fmt.Fprintf(os.Stderr, "%v: warning: %v\n", input, warning)
	}
	if err != nil {
		for _, perr := range prog.Errors {
			fmt.Fprintf(os.Stderr, "%v: error: %v\n", input, perr)
		}
		os.Exit(1)
	}

	if start >= isa.MEMORY_WORDS {
		log.Fatalf("%v: start address %X beyond memory", os.Args[0], start)
	}
	img, err := prog.Image(uint32(start))
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	ouf, err := os.Create(output)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	err = img.Dump(ouf, image_format)
	if err == nil {
		err = ouf.Close()
	}
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if verbose {
		pp.Fprintf(os.Stderr, "Symbols: %v\n", prog.Labels)
		for name, value := range prog.Symbols() {
			fmt.Fprintf(os.Stderr, "%-20s -> %05X\n", name, value)
		}
	}

	fmt.Printf("%v: %d instructions, %d words -> %v (%v)\n", input, len(prog.Instructions), len(img), output, image_format)
}

package isa

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Image is a sparse mapping of word address to word value. Addresses that
// are not present read as zero.
type Image map[uint32]uint32

// Format selects an Image serialization.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_HEX   = Format(0) // hex
	FORMAT_BIN   = Format(1) // bin
	FORMAT_DENSE = Format(2) // dense
)

// ParseFormat returns the Format with the given name. "mem" is accepted as
// an alias for the dense format.
func ParseFormat(name string) (format Format, err error) {
	switch strings.ToLower(name) {
	case FORMAT_HEX.String():
		format = FORMAT_HEX
	case FORMAT_BIN.String():
		format = FORMAT_BIN
	case FORMAT_DENSE.String(), "mem":
		format = FORMAT_DENSE
	default:
		err = ErrFormatInvalid
	}
	return
}

// Load reads the word at an address, wrapped into the address space.
func (img Image) Load(addr uint32) uint32 {
	return img[Mask(addr)]
}

// Store writes the word at an address, wrapped into the address space.
func (img Image) Store(addr uint32, value uint32) {
	img[Mask(addr)] = value
}

// All iterates over the occupied addresses in ascending order.
func (img Image) All() iter.Seq2[uint32, uint32] {
	return func(yield func(addr, value uint32) bool) {
		for _, addr := range slices.Sorted(maps.Keys(img)) {
			if !yield(addr, img[addr]) {
				return
			}
		}
	}
}

// Top returns the highest occupied address.
func (img Image) Top() (addr uint32, ok bool) {
	for key := range img {
		if !ok || key > addr {
			addr = key
			ok = true
		}
	}
	return
}

// Dump writes the image to w in the requested format.
func (img Image) Dump(w io.Writer, format Format) (err error) {
	bw := bufio.NewWriter(w)

	switch format {
	case FORMAT_HEX:
		for addr, value := range img.All() {
			fmt.Fprintf(bw, "%05X: %08X\n", addr, value)
		}
	case FORMAT_BIN:
		for addr, value := range img.All() {
			fmt.Fprintf(bw, "%0*b: %032b\n", ADDRESS_WIDTH, addr, value)
		}
	case FORMAT_DENSE:
		top, ok := img.Top()
		if ok {
			for addr := uint32(0); addr <= top; addr++ {
				fmt.Fprintf(bw, "%08X\n", img[addr])
			}
		}
	default:
		return ErrFormatInvalid
	}

	return bw.Flush()
}

// ReadImage parses an image previously written by Dump.
func ReadImage(r io.Reader, format Format) (img Image, err error) {
	if format < FORMAT_HEX || format > FORMAT_DENSE {
		err = ErrFormatInvalid
		return
	}

	img = Image{}
	scanner := bufio.NewScanner(r)

	var lineno int
	var next uint32
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		var addr, value uint64
		switch format {
		case FORMAT_DENSE:
			addr = uint64(next)
			value, err = strconv.ParseUint(line, 16, 32)
		default:
			base := 16
			if format == FORMAT_BIN {
				base = 2
			}
			a, v, found := strings.Cut(line, ":")
			if !found {
				err = ErrImageSyntax
				break
			}
			addr, err = strconv.ParseUint(strings.TrimSpace(a), base, 32)
			if err != nil {
				break
			}
			value, err = strconv.ParseUint(strings.TrimSpace(v), base, 32)
		}
		if err == nil && addr >= MEMORY_WORDS {
			err = ErrImageAddress
		}
		if err != nil {
			err = &ErrImageLine{LineNo: lineno, Line: line, Err: err}
			return
		}

		img[uint32(addr)] = uint32(value)
		next = uint32(addr) + 1
	}

	err = scanner.Err()
	return
}

// Package port models the devices attached to the simulator's output port.
package port

import (
	"fmt"
	"io"
	"slices"
)

// Port receives the values written by the OUT instruction.
type Port interface {
	// Send delivers one 32-bit word to the device.
	Send(value uint32) (err error)
}

// Tape writes each value as a line of hexadecimal text.
type Tape struct {
	Output io.Writer
}

// Send writes a value to the tape.
func (tp *Tape) Send(value uint32) (err error) {
	if tp.Output == nil {
		return
	}
	_, err = fmt.Fprintf(tp.Output, "%08X\n", value)
	return
}

// Buffer records every value sent to it.
type Buffer struct {
	values []uint32
}

// Send appends a value to the buffer.
func (buf *Buffer) Send(value uint32) (err error) {
	buf.values = append(buf.values, value)
	return
}

// Values returns a copy of the recorded values.
func (buf *Buffer) Values() []uint32 {
	return slices.Clone(buf.values)
}

// Rewind discards the recorded values.
func (buf *Buffer) Rewind() {
	buf.values = buf.values[:0]
}

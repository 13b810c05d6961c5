package isa

const (
	ADDRESS_WIDTH = 18                       // Address bus width, in bits.
	MEMORY_WORDS  = 1 << ADDRESS_WIDTH       // Number of addressable 32-bit words.
	ADDRESS_MASK  = uint32(MEMORY_WORDS - 1) // Mask applied to every address.
	INITIAL_SP    = uint32(MEMORY_WORDS - 1) // Stack pointer after reset; the stack grows down.
	VECTOR_BASE   = 2                        // INT n loads PC from memory[n + VECTOR_BASE].
)

// Mask wraps an address into the address space.
func Mask(addr uint32) uint32 {
	return addr & ADDRESS_MASK
}

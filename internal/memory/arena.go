// Package memory provides the digit arena used to hand out chunk buffers
// without per-buffer allocations.
package memory

// DigitArena pre-allocates one contiguous block of digits and hands out
// non-overlapping sub-slices of it. Every buffer a participant needs for one
// run (operand chunks, result chunk, assembled result) is cut from the same
// block, so the whole run releases its memory at once via Reset.
//
// The arena uses a bump-pointer allocation strategy: each Alloc call advances
// the offset. When capacity is exhausted, it falls back to standard heap
// allocation.
type DigitArena struct {
	buf    []byte
	offset int
}

// NewDigitArena creates an arena with room for capacity digits.
func NewDigitArena(capacity int) *DigitArena {
	if capacity <= 0 {
		return &DigitArena{}
	}
	return &DigitArena{buf: make([]byte, capacity)}
}

// Alloc returns a zeroed buffer of n digits. The buffer's capacity is capped
// at n so appending to it can never spill into a neighbouring buffer.
func (a *DigitArena) Alloc(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	if a.buf == nil || a.offset+n > len(a.buf) {
		return make([]byte, n)
	}
	s := a.buf[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	clear(s)
	return s
}

// Reset makes the whole block available again. Buffers handed out before
// the call must no longer be used.
func (a *DigitArena) Reset() {
	a.offset = 0
}

// Used returns the number of digits currently handed out from the block.
func (a *DigitArena) Used() int {
	return a.offset
}

// Capacity returns the size of the block.
func (a *DigitArena) Capacity() int {
	return len(a.buf)
}

// Package adder implements the purely local part of chunked addition: adding
// two digit runs of one chunk and applying a carry that arrives from the
// previous chunk. Nothing here communicates.
package adder

// Add writes a + b into result and returns the carry out of the chunk.
// a and b are least-significant-first digit runs no longer than result;
// positions past the end of an operand count as zero. Only result[0:len(result))
// is written.
func Add(result, a, b []byte) byte {
	if len(a) > len(result) || len(b) > len(result) {
		panic("adder: operand longer than result chunk")
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	var carry byte
	i := 0
	for ; i < len(small); i++ {
		sum := small[i] + large[i] + carry
		result[i] = sum % 10
		carry = sum / 10
	}
	// Remaining digits of the longer operand.
	for ; i < len(large); i++ {
		sum := large[i] + carry
		result[i] = sum % 10
		carry = sum / 10
	}
	// Neither operand reaches this far: only the carry is left.
	for ; i < len(result); i++ {
		result[i] = carry
		carry = 0
	}
	return carry
}

// Ripple adds an incoming carry at result[0] and propagates it upward until
// a digit absorbs it. It returns the carry that is still unabsorbed at the
// end of the chunk.
func Ripple(result []byte, carry byte) byte {
	for i := 0; carry > 0 && i < len(result); i++ {
		sum := result[i] + carry
		result[i] = sum % 10
		carry = sum / 10
	}
	return carry
}

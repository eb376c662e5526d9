package bignum

// Add returns a + b computed on a single process. It is the reference the
// distributed strategies are checked against and backs the sequential
// strategy.
func Add(a, b BigNumber) BigNumber {
	small, large := a, b
	if small.Len() > large.Len() {
		small, large = large, small
	}
	smallLen, largeLen := small.Len(), large.Len()

	result := make([]byte, largeLen+1)
	var carry byte
	for i := 0; i < smallLen; i++ {
		sum := small.Digit(i) + large.Digit(i) + carry
		result[i] = sum % 10
		carry = sum / 10
	}

	// Remaining digits of the longer operand: copy, carrying as needed.
	for i := smallLen; i < largeLen; i++ {
		sum := large.Digit(i) + carry
		result[i] = sum % 10
		carry = sum / 10
	}

	if carry != 0 {
		result[largeLen] = carry
		return BigNumber{digits: result}
	}
	return BigNumber{digits: trim(result[:largeLen])}
}

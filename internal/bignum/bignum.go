package bignum

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned by Parse for an empty digit string.
var ErrEmpty = errors.New("empty digit string")

// BigNumber is a non-negative decimal integer. digits[0] is the least
// significant digit. There is never a most-significant zero unless the
// value is exactly zero, in which case len(digits) == 1.
type BigNumber struct {
	digits []byte
}

// Zero returns the number 0.
func Zero() BigNumber {
	return BigNumber{digits: []byte{0}}
}

// Parse builds a BigNumber from a decimal string written most-significant
// digit first. Leading zeros are dropped.
func Parse(s string) (BigNumber, error) {
	if s == "" {
		return BigNumber{}, ErrEmpty
	}
	digits := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[len(s)-1-i]
		if c < '0' || c > '9' {
			return BigNumber{}, fmt.Errorf("invalid digit %q at position %d", c, len(s)-1-i)
		}
		digits[i] = c - '0'
	}
	return BigNumber{digits: trim(digits)}, nil
}

// MustParse is like Parse but panics on error. It is meant for tests and
// constants.
func MustParse(s string) BigNumber {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// New returns a number made of length copies of fill (0..9). A length below
// one yields zero.
func New(length int, fill byte) BigNumber {
	if length < 1 {
		return Zero()
	}
	if fill > 9 {
		panic(fmt.Sprintf("bignum: digit %d out of range", fill))
	}
	digits := make([]byte, length)
	for i := range digits {
		digits[i] = fill
	}
	return BigNumber{digits: trim(digits)}
}

// FromDigits copies a least-significant-first digit slice into a new
// number, dropping most-significant zeros. An empty slice yields zero.
func FromDigits(lsbFirst []byte) (BigNumber, error) {
	if len(lsbFirst) == 0 {
		return Zero(), nil
	}
	digits := make([]byte, len(lsbFirst))
	for i, d := range lsbFirst {
		if d > 9 {
			return BigNumber{}, fmt.Errorf("invalid digit %d at position %d", d, i)
		}
		digits[i] = d
	}
	return BigNumber{digits: trim(digits)}, nil
}

// trim drops most-significant zeros in place, keeping at least one digit.
func trim(digits []byte) []byte {
	n := len(digits)
	for n > 1 && digits[n-1] == 0 {
		n--
	}
	if n == 0 {
		return []byte{0}
	}
	return digits[:n:n]
}

// Len returns the number of decimal digits.
func (n BigNumber) Len() int {
	if len(n.digits) == 0 {
		return 1
	}
	return len(n.digits)
}

// Digit returns the i-th least significant digit, or 0 past the end.
func (n BigNumber) Digit(i int) byte {
	if i < 0 || i >= len(n.digits) {
		return 0
	}
	return n.digits[i]
}

// Digits returns a copy of the digits, least significant first.
func (n BigNumber) Digits() []byte {
	if len(n.digits) == 0 {
		return []byte{0}
	}
	out := make([]byte, len(n.digits))
	copy(out, n.digits)
	return out
}

// CopyDigits copies digits [start, start+len(dst)) into dst and returns how
// many were present; positions past the end of n are left untouched.
func (n BigNumber) CopyDigits(dst []byte, start int) int {
	if start >= len(n.digits) {
		return 0
	}
	return copy(dst, n.digits[start:])
}

// Clone returns an independent copy.
func (n BigNumber) Clone() BigNumber {
	return BigNumber{digits: n.Digits()}
}

// IsZero reports whether n is 0.
func (n BigNumber) IsZero() bool {
	return len(n.digits) <= 1 && n.Digit(0) == 0
}

// Equal reports whether n and m have the same value.
func (n BigNumber) Equal(m BigNumber) bool {
	if n.Len() != m.Len() {
		return false
	}
	for i := 0; i < n.Len(); i++ {
		if n.Digit(i) != m.Digit(i) {
			return false
		}
	}
	return true
}

// String renders the number most-significant digit first.
func (n BigNumber) String() string {
	var b strings.Builder
	b.Grow(n.Len())
	for i := n.Len() - 1; i >= 0; i-- {
		b.WriteByte('0' + n.Digit(i))
	}
	return b.String()
}

// Package verify cross-checks a distributed sum against an addition that
// shares no code with the engine. The reference is math/big by default and
// GMP when built with -tags gmp.
package verify

import (
	"fmt"

	"github.com/agbru/addcalc/internal/bignum"
)

// Reference returns a + b computed by the reference backend.
func Reference(a, b bignum.BigNumber) (bignum.BigNumber, error) {
	s, err := referenceSum(a.String(), b.String())
	if err != nil {
		return bignum.BigNumber{}, err
	}
	return bignum.Parse(s)
}

// MismatchError reports a sum that disagrees with the reference.
type MismatchError struct {
	Got, Want bignum.BigNumber
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("sum disagrees with %s reference: got %d digits, want %d",
		Backend, e.Got.Len(), e.Want.Len())
}

// Check returns a MismatchError unless sum equals a + b.
func Check(sum, a, b bignum.BigNumber) error {
	want, err := Reference(a, b)
	if err != nil {
		return err
	}
	if !sum.Equal(want) {
		return MismatchError{Got: sum, Want: want}
	}
	return nil
}

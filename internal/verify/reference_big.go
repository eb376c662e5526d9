//go:build !gmp

package verify

import (
	"fmt"
	"math/big"
)

// Backend names the reference implementation compiled in.
const Backend = "math/big"

func referenceSum(a, b string) (string, error) {
	x, ok := new(big.Int).SetString(a, 10)
	if !ok {
		return "", fmt.Errorf("verify: invalid operand %q", a)
	}
	y, ok := new(big.Int).SetString(b, 10)
	if !ok {
		return "", fmt.Errorf("verify: invalid operand %q", b)
	}
	return x.Add(x, y).String(), nil
}

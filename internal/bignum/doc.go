// Package bignum provides BigNumber, an arbitrary-precision non-negative
// decimal integer stored least-significant digit first.
//
// A BigNumber owns its digits: every constructor copies its input and every
// accessor that exposes digits returns a copy, so two values never alias.
// The zero value is not valid; use Zero, Parse, New or FromDigits.
package bignum

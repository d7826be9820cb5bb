// Package cofactor checks known factors of Mersenne numbers before a
// cofactor PRP test is queued.
//
// The check is algebraic only: every factor must divide 2^n-1, their product
// must divide it too, and a cofactor greater than one must remain. Whether
// the factors are themselves prime is not checked. 2^n-1 is never built;
// f divides it exactly when 2^n mod f == 1, so cost follows the size of the
// factors rather than the exponent.
package cofactor

import (
	"math/big"

	"github.com/teranos/worktodo/errors"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// dividesMersenne reports whether m > 1 divides 2^n-1
func dividesMersenne(n *big.Int, m *big.Int) bool {
	return new(big.Int).Exp(two, n, m).Cmp(one) == 0
}

// Check validates factors against 2^exponent-1. The error names the first
// factor that fails.
func Check(exponent uint32, factors []string) error {
	if exponent == 0 {
		return errors.New("exponent must be positive")
	}
	if len(factors) == 0 {
		return errors.New("no known factors")
	}

	n := new(big.Int).SetUint64(uint64(exponent))
	product := big.NewInt(1)

	for _, s := range factors {
		f, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return errors.Newf("factor %q is not a decimal integer", s)
		}
		if f.Cmp(one) <= 0 {
			return errors.Newf("factor %s must be greater than 1", s)
		}
		if !dividesMersenne(n, f) {
			return errors.Newf("factor %s does not divide 2^%d-1", s, exponent)
		}
		product.Mul(product, f)
	}

	if !dividesMersenne(n, product) {
		return errors.Newf("product of known factors does not divide 2^%d-1", exponent)
	}
	// A divisor is at most 2^n-1; equality leaves cofactor 1.
	if isAllOnes(product, exponent) {
		return errors.Newf("known factors leave no cofactor of 2^%d-1", exponent)
	}
	return nil
}

// isAllOnes reports whether p == 2^bits-1
func isAllOnes(p *big.Int, bits uint32) bool {
	if p.BitLen() != int(bits) {
		return false
	}
	q := new(big.Int).Add(p, one)
	return q.TrailingZeroBits() == uint(bits)
}

// Validate reports whether factors are consistent with 2^exponent-1
func Validate(exponent uint32, factors []string) bool {
	return Check(exponent, factors) == nil
}

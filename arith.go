package devm

import (
	"github.com/holiman/uint256"
)

// arith performs 256-bit unsigned arithmetic in either checked or wrapping mode.
// In checked mode overflow, underflow and division by zero are errors; in
// wrapping mode results are taken modulo 2^256. Division and modulo by zero
// fail in both modes.
type arith struct {
	wrapping bool
}

var (
	checkedArith  = arith{wrapping: false}
	wrappingArith = arith{wrapping: true}
)

func (a arith) add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow && !a.wrapping {
		return nil, ErrOverflow
	}
	return z, nil
}

func (a arith) sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow && !a.wrapping {
		return nil, ErrUnderflow
	}
	return z, nil
}

func (a arith) mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow && !a.wrapping {
		return nil, ErrOverflow
	}
	return z, nil
}

func (a arith) div(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

func (a arith) mod(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Mod(x, y), nil
}

func (a arith) exp(base, exponent *uint256.Int) (*uint256.Int, error) {
	if a.wrapping {
		return new(uint256.Int).Exp(base, exponent), nil
	}
	z, overflow := checkedExp(base, exponent)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// neg is unary minus: zero stays zero, anything else underflows unless wrapping.
func (a arith) neg(x *uint256.Int) (*uint256.Int, error) {
	if x.IsZero() {
		return new(uint256.Int), nil
	}
	if !a.wrapping {
		return nil, ErrUnderflow
	}
	return new(uint256.Int).Neg(x), nil
}

// shl and shr follow EVM SHL/SHR: bits shifted past either end are dropped and
// shift amounts of 256 or more yield zero. They never fail.
func shl(x, shift *uint256.Int) *uint256.Int {
	if !shift.IsUint64() || shift.Uint64() >= 256 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Lsh(x, uint(shift.Uint64()))
}

func shr(x, shift *uint256.Int) *uint256.Int {
	if !shift.IsUint64() || shift.Uint64() >= 256 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Rsh(x, uint(shift.Uint64()))
}

// checkedExp computes base**exponent by square-and-multiply, reporting
// whether the exact result exceeds 2^256 - 1.
func checkedExp(base, exponent *uint256.Int) (*uint256.Int, bool) {
	result := uint256.NewInt(1)
	if exponent.IsZero() {
		return result, false
	}
	if base.IsZero() || base.Eq(result) {
		return new(uint256.Int).Set(base), false
	}
	// base >= 2 here, so any exponent of 256 or more overflows.
	if !exponent.IsUint64() || exponent.Uint64() >= 256 {
		return nil, true
	}

	b := new(uint256.Int).Set(base)
	e := exponent.Uint64()
	var overflow bool
	for {
		if e&1 == 1 {
			if result, overflow = result.MulOverflow(result, b); overflow {
				return nil, true
			}
		}
		e >>= 1
		if e == 0 {
			return result, false
		}
		// A remaining set bit will multiply this square into the result.
		if b, overflow = b.MulOverflow(b, b); overflow {
			return nil, true
		}
	}
}

// isqrt returns the floor of the square root of x.
func isqrt(x *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sqrt(x)
}

// iroot returns the floor of the n-th root of x for n >= 1.
func iroot(x *uint256.Int, n uint64) (*uint256.Int, error) {
	if n == 0 {
		return nil, ErrInvalidArgument
	}
	if n == 1 || x.CmpUint64(2) < 0 {
		return new(uint256.Int).Set(x), nil
	}
	if n == 2 {
		return isqrt(x), nil
	}
	if n >= 256 {
		// x < 2^256 <= 2^n, so the root is 1.
		return uint256.NewInt(1), nil
	}

	// Binary search for the largest r with r**n <= x. The root has at most
	// ceil(bitlen/n) bits.
	bits := (uint64(x.BitLen()) + n - 1) / n
	lo := uint256.NewInt(1)
	hi := new(uint256.Int).Lsh(uint256.NewInt(1), uint(bits))
	exponent := uint256.NewInt(n)
	one := uint256.NewInt(1)
	for lo.Lt(hi) {
		// mid = lo + (hi - lo + 1) / 2, biased upward so the loop terminates.
		mid := new(uint256.Int).Sub(hi, lo)
		mid.Add(mid, one).Rsh(mid, 1).Add(mid, lo)
		p, overflow := checkedExp(mid, exponent)
		if overflow || p.Gt(x) {
			hi.Sub(mid, one)
		} else {
			lo.Set(mid)
		}
	}
	return lo, nil
}

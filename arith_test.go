package devm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
)

func u(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

func maxUint() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

func TestCheckedArith(t *testing.T) {
	tests := []struct {
		name string
		op   func(arith, *uint256.Int, *uint256.Int) (*uint256.Int, error)
		x, y *uint256.Int
		want string
		err  error
	}{
		{"add", arith.add, u("2"), u("3"), "5", nil},
		{"add overflow", arith.add, maxUint(), u("1"), "", ErrOverflow},
		{"sub", arith.sub, u("5"), u("3"), "2", nil},
		{"sub underflow", arith.sub, u("3"), u("5"), "", ErrUnderflow},
		{"mul", arith.mul, u("6"), u("7"), "42", nil},
		{"mul overflow", arith.mul, new(uint256.Int).Lsh(u("1"), 128), new(uint256.Int).Lsh(u("1"), 128), "", ErrOverflow},
		{"div floors", arith.div, u("100"), u("7"), "14", nil},
		{"div by zero", arith.div, u("1"), u("0"), "", ErrDivisionByZero},
		{"mod", arith.mod, u("100"), u("7"), "2", nil},
		{"mod by zero", arith.mod, u("1"), u("0"), "", ErrDivisionByZero},
		{"exp", arith.exp, u("2"), u("10"), "1024", nil},
		{"exp zero", arith.exp, u("0"), u("0"), "1", nil},
		{"exp of one", arith.exp, u("1"), maxUint(), "1", nil},
		{"exp 2**255", arith.exp, u("2"), u("255"), "57896044618658097711785492504343953926634992332820282019728792003956564819968", nil},
		{"exp 2**256", arith.exp, u("2"), u("256"), "", ErrOverflow},
		{"exp 10**78", arith.exp, u("10"), u("78"), "", ErrOverflow},
		{"exp 10**77", arith.exp, u("10"), u("77"), "100000000000000000000000000000000000000000000000000000000000000000000000000000", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(checkedArith, tt.x, tt.y)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("Expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Dec() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Dec())
			}
		})
	}
}

func TestWrappingArith(t *testing.T) {
	t.Run("sub wraps", func(t *testing.T) {
		got, err := wrappingArith.sub(u("0"), u("1"))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !got.Eq(maxUint()) {
			t.Errorf("Expected max_uint, got %s", got.Dec())
		}
	})

	t.Run("add wraps", func(t *testing.T) {
		got, _ := wrappingArith.add(maxUint(), u("1"))
		if !got.IsZero() {
			t.Errorf("Expected 0, got %s", got.Dec())
		}
	})

	t.Run("exp wraps", func(t *testing.T) {
		got, _ := wrappingArith.exp(u("2"), u("256"))
		if !got.IsZero() {
			t.Errorf("Expected 0, got %s", got.Dec())
		}
	})

	t.Run("neg is two's complement", func(t *testing.T) {
		got, _ := wrappingArith.neg(u("1"))
		if !got.Eq(maxUint()) {
			t.Errorf("Expected max_uint, got %s", got.Dec())
		}
	})

	t.Run("division by zero still fails", func(t *testing.T) {
		if _, err := wrappingArith.div(u("1"), u("0")); !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("Expected ErrDivisionByZero, got %v", err)
		}
	})
}

func TestSubMatchesModularDifference(t *testing.T) {
	values := []*uint256.Int{u("0"), u("1"), u("2"), u("1000"), maxUint(), new(uint256.Int).Lsh(u("1"), 255)}
	for _, a := range values {
		for _, b := range values {
			wrapped, err := wrappingArith.sub(a, b)
			if err != nil {
				t.Fatalf("unchecked %s - %s failed: %v", a.Dec(), b.Dec(), err)
			}
			want := new(uint256.Int).Sub(a, b)
			if !wrapped.Eq(want) {
				t.Errorf("unchecked %s - %s: expected %s, got %s", a.Dec(), b.Dec(), want.Dec(), wrapped.Dec())
			}

			_, err = checkedArith.sub(a, b)
			if failed := err != nil; failed != b.Gt(a) {
				t.Errorf("checked %s - %s: failed=%v, expected failure iff b > a", a.Dec(), b.Dec(), failed)
			}
		}
	}
}

func TestCheckedNeg(t *testing.T) {
	if got, err := checkedArith.neg(u("0")); err != nil || !got.IsZero() {
		t.Errorf("Expected -0 to be 0, got %v, %v", got, err)
	}
	if _, err := checkedArith.neg(u("1")); !errors.Is(err, ErrUnderflow) {
		t.Errorf("Expected ErrUnderflow, got %v", err)
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name  string
		shift func(x, s *uint256.Int) *uint256.Int
		x, s  *uint256.Int
		want  string
	}{
		{"shl", shl, u("1"), u("8"), "256"},
		{"shl drops high bits", shl, maxUint(), u("255"), "57896044618658097711785492504343953926634992332820282019728792003956564819968"},
		{"shl 256", shl, u("1"), u("256"), "0"},
		{"shl huge", shl, u("1"), maxUint(), "0"},
		{"shr", shr, u("256"), u("4"), "16"},
		{"shr 256", shr, maxUint(), u("256"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shift(tt.x, tt.s); got.Dec() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Dec())
			}
		})
	}
}

func TestRoots(t *testing.T) {
	tests := []struct {
		x    string
		n    uint64
		want string
	}{
		{"25", 2, "5"},
		{"26", 2, "5"},
		{"24", 2, "4"},
		{"125", 3, "5"},
		{"124", 3, "4"},
		{"0", 5, "0"},
		{"1", 7, "1"},
		{"7", 1, "7"},
		{"1024", 10, "2"},
		{"1023", 10, "1"},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", 2, "340282366920938463463374607431768211455"},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", 255, "2"},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", 256, "1"},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", 1000, "1"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.12s/%d", tt.x, tt.n), func(t *testing.T) {
			got, err := iroot(u(tt.x), tt.n)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Dec() != tt.want {
				t.Errorf("root(%s, %d): expected %s, got %s", tt.x, tt.n, tt.want, got.Dec())
			}
		})
	}

	if _, err := iroot(u("8"), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for n = 0, got %v", err)
	}
}

package devm

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Value represents any result or operand produced while evaluating a line.
// This is a sealed interface - only types within this package can implement it.
type Value interface {
	// isValue is unexported to seal the interface.
	isValue()

	// Kind returns a short name of the variant, used in type errors.
	Kind() string
}

// Kind names reported by Value.Kind.
const (
	KindNameUint  = "uint"
	KindNameText  = "text"
	KindNameBytes = "bytes"
	KindNameBool  = "bool"
	KindNameList  = "list"
)

// Uint is an unsigned 256-bit integer. It always holds a value in [0, 2^256-1].
type Uint struct {
	n uint256.Int
}

func (*Uint) isValue() {}

// Kind returns "uint".
func (*Uint) Kind() string { return KindNameUint }

// Int returns a copy of the underlying integer.
func (u *Uint) Int() *uint256.Int {
	return new(uint256.Int).Set(&u.n)
}

// NewUint creates a Uint holding a copy of x.
func NewUint(x *uint256.Int) *Uint {
	u := new(Uint)
	u.n.Set(x)
	return u
}

// Uint64 creates a Uint from a uint64.
func Uint64(x uint64) *Uint {
	u := new(Uint)
	u.n.SetUint64(x)
	return u
}

// Text is a string value, rendered as-is.
type Text string

func (Text) isValue() {}

// Kind returns "text".
func (Text) Kind() string { return KindNameText }

// Bytes is an ordered byte sequence, rendered as 0x-prefixed hex.
type Bytes []byte

func (Bytes) isValue() {}

// Kind returns "bytes".
func (Bytes) Kind() string { return KindNameBytes }

// Bool is a boolean value.
type Bool bool

func (Bool) isValue() {}

// Kind returns "bool".
func (Bool) Kind() string { return KindNameBool }

// Entry is one labeled element of a List.
type Entry struct {
	Name  string // parameter name, may be empty
	Type  string // declared type, e.g. "address" or "bytes32"
	Value Value
}

// List is an ordered sequence of labeled values, e.g. decoded ABI parameters.
type List []Entry

func (List) isValue() {}

// Kind returns "list".
func (List) Kind() string { return KindNameList }

// Compile-time checks that every variant implements Value.
var (
	_ Value = (*Uint)(nil)
	_ Value = Text("")
	_ Value = Bytes(nil)
	_ Value = Bool(false)
	_ Value = List(nil)
)

// uintFromBig converts a non-negative integer known to fit in 256 bits.
func uintFromBig(n *big.Int) *Uint {
	v, _ := uint256.FromBig(n)
	return NewUint(v)
}

package devm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// callContext carries the per-evaluation settings a handler may read.
// Handlers never mutate it.
type callContext struct {
	now            time.Time
	pricePrecision int32
	timeLayout     string
	contracts      []*Contract
}

func typeErr(expected string, v Value) error {
	return &TypeMismatchError{Expected: expected, Got: v.Kind()}
}

// operand reads v as a 256-bit word. Byte strings of up to 32 bytes are read
// big-endian, the way the EVM loads a word.
func operand(v Value) (*uint256.Int, error) {
	switch val := v.(type) {
	case *Uint:
		return val.Int(), nil
	case Bytes:
		if len(val) <= WordSize {
			return new(uint256.Int).SetBytes(val), nil
		}
	}
	return nil, typeErr(KindNameUint, v)
}

func argUint(args []Value, i int) (*uint256.Int, error) {
	x, err := operand(args[i])
	if err != nil {
		return nil, &ArgumentError{Index: i, Err: err}
	}
	return x, nil
}

// argSmall reads a Uint argument that must be at most max.
func argSmall(args []Value, i int, max uint64) (uint64, error) {
	x, err := argUint(args, i)
	if err != nil {
		return 0, err
	}
	if !x.IsUint64() || x.Uint64() > max {
		return 0, &ArgumentError{Index: i, Err: fmt.Errorf("%w: %s is larger than %d", ErrInvalidArgument, x.Dec(), max)}
	}
	return x.Uint64(), nil
}

// argInt64 reads a signed argument: a Uint as two's complement int256, or a
// decimal Text such as "-100".
func argInt64(args []Value, i int) (int64, error) {
	wrap := func(err error) error { return &ArgumentError{Index: i, Err: err} }
	switch val := args[i].(type) {
	case *Uint:
		x := val.Int()
		neg := x.Sign() < 0
		if neg {
			x.Neg(x)
		}
		if !x.IsUint64() || x.Uint64() > math.MaxInt64 {
			return 0, wrap(fmt.Errorf("%w: value does not fit in int64", ErrInvalidArgument))
		}
		if neg {
			return -int64(x.Uint64()), nil
		}
		return int64(x.Uint64()), nil
	case Text:
		n, err := strconv.ParseInt(strings.TrimSpace(string(val)), 10, 64)
		if err != nil {
			return 0, wrap(fmt.Errorf("%w: %q is not an integer", ErrInvalidLiteral, string(val)))
		}
		return n, nil
	}
	return 0, wrap(typeErr("int", args[i]))
}

// signedValue renders a signed result: a Uint when non-negative, decimal Text otherwise.
func signedValue(n int64) Value {
	if n < 0 {
		return Text(strconv.FormatInt(n, 10))
	}
	return Uint64(uint64(n))
}

func argText(args []Value, i int) (string, error) {
	if t, ok := args[i].(Text); ok {
		return string(t), nil
	}
	return "", &ArgumentError{Index: i, Err: typeErr(KindNameText, args[i])}
}

func argBool(args []Value, i int) (bool, error) {
	switch val := args[i].(type) {
	case Bool:
		return bool(val), nil
	case *Uint:
		if val.n.IsZero() {
			return false, nil
		}
		if val.n.IsUint64() && val.n.Uint64() == 1 {
			return true, nil
		}
	case Text:
		switch strings.TrimSpace(string(val)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, &ArgumentError{Index: i, Err: typeErr(KindNameBool, args[i])}
}

// argBytes reads raw bytes: Bytes as-is, Text as decoded hex when it is a
// valid 0x string and as UTF-8 otherwise, and a Uint as its 32-byte word.
func argBytes(args []Value, i int) ([]byte, error) {
	switch val := args[i].(type) {
	case Bytes:
		return val, nil
	case Text:
		if b, err := hexutil.Decode(string(val)); err == nil {
			return b, nil
		}
		return []byte(val), nil
	case *Uint:
		word := val.n.Bytes32()
		return word[:], nil
	}
	return nil, &ArgumentError{Index: i, Err: typeErr(KindNameBytes, args[i])}
}

// argCalldata reads calldata given as Bytes or as hex Text, with or without 0x.
func argCalldata(args []Value, i int) ([]byte, error) {
	switch val := args[i].(type) {
	case Bytes:
		return val, nil
	case Text:
		s := strings.TrimSpace(string(val))
		if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
			s = "0x" + s
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, &ArgumentError{Index: i, Err: fmt.Errorf("%w: %v", ErrMalformedCalldata, err)}
		}
		return b, nil
	}
	return nil, &ArgumentError{Index: i, Err: typeErr(KindNameBytes, args[i])}
}

// argAddress reads a 20-byte address from hex Text, 20 Bytes, or a Uint below 2^160.
func argAddress(args []Value, i int) (common.Address, error) {
	bad := func(err error) (common.Address, error) {
		return common.Address{}, &ArgumentError{Index: i, Err: err}
	}
	switch val := args[i].(type) {
	case Text:
		s := strings.TrimSpace(string(val))
		if !common.IsHexAddress(s) {
			return bad(fmt.Errorf("%w: %q is not a 40-digit hex address", ErrInvalidLiteral, s))
		}
		return common.HexToAddress(s), nil
	case Bytes:
		if len(val) != common.AddressLength {
			return bad(fmt.Errorf("%w: address needs %d bytes, got %d", ErrInvalidArgument, common.AddressLength, len(val)))
		}
		return common.BytesToAddress(val), nil
	case *Uint:
		if val.n.BitLen() > 8*common.AddressLength {
			return bad(fmt.Errorf("%w: %s does not fit in 160 bits", ErrInvalidArgument, val.n.Dec()))
		}
		return common.BytesToAddress(val.n.Bytes()), nil
	}
	return bad(typeErr("address", args[i]))
}

package devm

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ABI layout constants.
const (
	// WordSize is the size of one ABI word in bytes.
	WordSize = 32

	// SelectorSize is the size of a function selector in bytes.
	SelectorSize = 4
)

var errUnsupportedType = errors.New("only address, uintN, intN, bool and bytesN parameters are supported")

// Signature is a parsed function signature such as "transfer(address to,uint256)".
// Parameter names are optional and only used to label decoded values.
type Signature struct {
	raw    string
	method abi.Method
}

// ParseSignature parses a function signature. The function name may be
// omitted, as in "(uint256,bool)".
func ParseSignature(sig string) (*Signature, error) {
	s := strings.TrimSpace(sig)
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, &AbiError{Signature: sig, Err: fmt.Errorf("%w: expected name(type,...)", ErrInvalidArgument)}
	}
	name := strings.TrimSpace(s[:open])
	body := strings.TrimSpace(s[open+1 : len(s)-1])

	var inputs abi.Arguments
	if body != "" {
		for i, param := range strings.Split(body, ",") {
			arg, err := parseParam(param)
			if err != nil {
				return nil, &AbiError{Signature: sig, Err: &ArgumentError{Index: i, Err: err}}
			}
			inputs = append(inputs, arg)
		}
	}

	method := abi.NewMethod(name, name, abi.Function, "nonpayable", false, false, inputs, nil)
	return &Signature{raw: sig, method: method}, nil
}

// signatureOf wraps a method taken from a JSON ABI.
func signatureOf(m abi.Method) *Signature {
	return &Signature{raw: m.Sig, method: m}
}

// parseParam parses "type [location] [name]".
func parseParam(param string) (abi.Argument, error) {
	fields := strings.Fields(param)
	if len(fields) == 0 {
		return abi.Argument{}, fmt.Errorf("%w: empty parameter", ErrInvalidArgument)
	}
	typ := fields[0]
	switch typ {
	case "uint":
		typ = "uint256"
	case "int":
		typ = "int256"
	}
	t, err := abi.NewType(typ, "", nil)
	if err != nil {
		return abi.Argument{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	var name string
	for _, f := range fields[1:] {
		switch f {
		case "memory", "calldata", "storage", "indexed":
			continue
		}
		name = f
	}
	return abi.Argument{Name: name, Type: t}, nil
}

// Canonical returns the canonical signature, e.g. "transfer(address,uint256)".
func (s *Signature) Canonical() string {
	return s.method.Sig
}

// Selector returns the first four bytes of keccak256 of the canonical signature.
func (s *Signature) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], s.method.ID[:SelectorSize])
	return sel
}

// Inputs returns the parsed parameters.
func (s *Signature) Inputs() abi.Arguments {
	return s.method.Inputs
}

// checkStatic reports the first parameter the word codec can't handle. Any
// type is fine for computing a selector.
func (s *Signature) checkStatic() error {
	for i, input := range s.method.Inputs {
		switch input.Type.T {
		case abi.UintTy, abi.IntTy, abi.BoolTy, abi.AddressTy, abi.FixedBytesTy:
		default:
			return &AbiError{Signature: s.raw, Err: &ArgumentError{Index: i,
				Err: fmt.Errorf("%w: %s: %v", ErrTypeMismatch, input.Type.String(), errUnsupportedType)}}
		}
	}
	return nil
}

// Encode ABI-encodes one value per parameter. Text values are parsed as
// literals; other values are converted to the parameter type.
func (s *Signature) Encode(values []Value) ([]byte, error) {
	if err := s.checkStatic(); err != nil {
		return nil, err
	}
	inputs := s.method.Inputs
	if len(values) != len(inputs) {
		return nil, &AbiError{Signature: s.raw, Err: &ArityError{Func: "abi_encode", Got: len(values), Want: fmt.Sprint(len(inputs))}}
	}
	packed := make([]any, len(values))
	for i, v := range values {
		gv, err := toABIValue(inputs[i].Type, v)
		if err != nil {
			return nil, &AbiError{Signature: s.raw, Err: &ArgumentError{Index: i, Err: err}}
		}
		packed[i] = gv
	}
	data, err := inputs.Pack(packed...)
	if err != nil {
		return nil, &AbiError{Signature: s.raw, Err: fmt.Errorf("%w: %v", ErrTypeMismatch, err)}
	}
	return data, nil
}

// EncodeWithSelector is Encode with the 4-byte selector prepended.
func (s *Signature) EncodeWithSelector(values []Value) ([]byte, error) {
	data, err := s.Encode(values)
	if err != nil {
		return nil, err
	}
	sel := s.Selector()
	return append(sel[:], data...), nil
}

// Decode verifies the selector of calldata against the signature and decodes
// one 32-byte word per parameter.
func (s *Signature) Decode(calldata []byte) (List, error) {
	if len(calldata) < SelectorSize {
		return nil, &AbiError{Signature: s.raw, Err: fmt.Errorf("%w: %d bytes is shorter than a selector", ErrMalformedCalldata, len(calldata))}
	}
	sel := s.Selector()
	if !bytes.Equal(calldata[:SelectorSize], sel[:]) {
		return nil, &AbiError{Signature: s.raw, Err: fmt.Errorf("%w: calldata starts with %s, %s has %s",
			ErrSelectorMismatch, hexutil.Encode(calldata[:SelectorSize]), s.Canonical(), hexutil.Encode(sel[:]))}
	}
	return s.DecodeArgs(calldata[SelectorSize:])
}

// DecodeArgs decodes selector-less argument data.
func (s *Signature) DecodeArgs(data []byte) (List, error) {
	if err := s.checkStatic(); err != nil {
		return nil, err
	}
	inputs := s.method.Inputs
	if len(data) != len(inputs)*WordSize {
		return nil, &AbiError{Signature: s.raw, Err: fmt.Errorf("%w: expected %d bytes of arguments, got %d",
			ErrMalformedCalldata, len(inputs)*WordSize, len(data))}
	}
	out := make(List, len(inputs))
	for i, input := range inputs {
		word := data[i*WordSize : (i+1)*WordSize]
		v, err := decodeWord(input.Type, word)
		if err != nil {
			return nil, &AbiError{Signature: s.raw, Err: &ArgumentError{Index: i, Err: err}}
		}
		out[i] = Entry{Name: input.Name, Type: input.Type.String(), Value: v}
	}
	return out, nil
}

// SplitCalldata splits calldata into its selector and following words without
// interpreting them.
func SplitCalldata(calldata []byte) (List, error) {
	if len(calldata) < SelectorSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a selector", ErrMalformedCalldata, len(calldata))
	}
	rest := calldata[SelectorSize:]
	if len(rest)%WordSize != 0 {
		return nil, fmt.Errorf("%w: %d argument bytes is not a multiple of %d", ErrMalformedCalldata, len(rest), WordSize)
	}
	out := make(List, 0, 1+len(rest)/WordSize)
	out = append(out, Entry{Name: "selector", Value: Bytes(common.CopyBytes(calldata[:SelectorSize]))})
	for i := 0; i*WordSize < len(rest); i++ {
		word := rest[i*WordSize : (i+1)*WordSize]
		out = append(out, Entry{Name: fmt.Sprintf("[%d]", i), Value: Bytes(common.CopyBytes(word))})
	}
	return out, nil
}

// toABIValue converts a Value into the Go type Arguments.Pack expects for t.
func toABIValue(t abi.Type, v Value) (any, error) {
	switch val := v.(type) {
	case Text:
		return parseABILiteral(t, strings.TrimSpace(string(val)))
	case *Uint:
		switch t.T {
		case abi.UintTy, abi.IntTy:
			return packInteger(t, val.n.ToBig())
		case abi.AddressTy:
			if val.n.BitLen() > 160 {
				return nil, fmt.Errorf("%w: %s does not fit in an address", ErrInvalidArgument, val.n.Dec())
			}
			return common.BytesToAddress(val.n.Bytes()), nil
		case abi.BoolTy:
			if val.n.CmpUint64(1) > 0 {
				return nil, fmt.Errorf("%w: %s is not a bool", ErrInvalidArgument, val.n.Dec())
			}
			return val.n.IsUint64() && val.n.Uint64() == 1, nil
		}
	case Bytes:
		switch t.T {
		case abi.FixedBytesTy:
			return packFixedBytes(t, val)
		case abi.AddressTy:
			if len(val) != common.AddressLength {
				return nil, fmt.Errorf("%w: address needs %d bytes, got %d", ErrInvalidArgument, common.AddressLength, len(val))
			}
			return common.BytesToAddress(val), nil
		case abi.UintTy, abi.IntTy:
			if len(val) > WordSize {
				return nil, fmt.Errorf("%w: %d bytes is more than one word", ErrInvalidArgument, len(val))
			}
			return packInteger(t, new(big.Int).SetBytes(val))
		}
	case Bool:
		if t.T == abi.BoolTy {
			return bool(val), nil
		}
	}
	return nil, &TypeMismatchError{Expected: t.String(), Got: v.Kind()}
}

// parseABILiteral parses one comma-separated literal from an argument string.
func parseABILiteral(t abi.Type, raw string) (any, error) {
	bad := func() error {
		return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidLiteral, raw, t.String())
	}
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, bad()
		}
		return common.HexToAddress(raw), nil
	case abi.BoolTy:
		switch raw {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, bad()
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, bad()
		}
		return packFixedBytes(t, b)
	case abi.UintTy, abi.IntTy:
		neg := strings.HasPrefix(raw, "-")
		if neg && t.T == abi.UintTy {
			return nil, bad()
		}
		lit, err := parseNumber(token{kind: tokenNum, text: strings.TrimPrefix(raw, "-")})
		if err != nil {
			return nil, bad()
		}
		n := lit.(*literal).val.(*Uint).n.ToBig()
		if neg {
			n.Neg(n)
		}
		return packInteger(t, n)
	}
	return nil, errUnsupportedType
}

// packInteger range-checks n against t and returns the Go integer type the
// packer requires: uintN/intN for N <= 64, *big.Int otherwise.
func packInteger(t abi.Type, n *big.Int) (any, error) {
	bits := uint(t.Size)
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > int(bits) {
			return nil, fmt.Errorf("%w: %s out of range for %s", ErrOverflow, n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%w: %s out of range for %s", ErrOverflow, n, t.String())
		}
	}
	goType := t.GetType()
	if goType.Kind() == reflect.Ptr {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

// packFixedBytes builds the [N]byte array for bytesN, right-padding shorter input.
func packFixedBytes(t abi.Type, b []byte) (any, error) {
	if len(b) > t.Size {
		return nil, fmt.Errorf("%w: %d bytes does not fit in %s", ErrInvalidArgument, len(b), t.String())
	}
	arr := reflect.New(t.GetType()).Elem()
	reflect.Copy(arr, reflect.ValueOf(b))
	return arr.Interface(), nil
}

// decodeWord decodes one static 32-byte word, rejecting dirty padding.
func decodeWord(t abi.Type, word []byte) (Value, error) {
	dirty := func() error {
		return fmt.Errorf("%w: word 0x%s is not a valid %s", ErrMalformedCalldata, hex.EncodeToString(word), t.String())
	}
	switch t.T {
	case abi.UintTy:
		n := new(big.Int).SetBytes(word)
		if n.BitLen() > t.Size {
			return nil, dirty()
		}
		return uintFromBig(n), nil
	case abi.IntTy:
		n := new(big.Int).SetBytes(word)
		if word[0]&0x80 != 0 {
			n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 256))
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, dirty()
		}
		if n.Sign() < 0 {
			return Text(n.String()), nil
		}
		return uintFromBig(n), nil
	case abi.BoolTy:
		n := new(big.Int).SetBytes(word)
		if n.BitLen() > 1 {
			return nil, dirty()
		}
		return Bool(n.Sign() == 1), nil
	case abi.AddressTy:
		if !allZero(word[:WordSize-common.AddressLength]) {
			return nil, dirty()
		}
		return Text(common.BytesToAddress(word).Hex()), nil
	case abi.FixedBytesTy:
		if !allZero(word[t.Size:]) {
			return nil, dirty()
		}
		return Bytes(common.CopyBytes(word[:t.Size])), nil
	}
	return nil, errUnsupportedType
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

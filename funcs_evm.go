package devm

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/crypto"
)

var evmFuncs = []*builtin{
	fixed("address", 1, func(_ *callContext, args []Value) (Value, error) {
		addr, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return Bytes(addr.Bytes()), nil
	}),
	fixed("checksum", 1, func(_ *callContext, args []Value) (Value, error) {
		addr, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return Text(addr.Hex()), nil
	}),
	fixed("selector", 1, func(ctx *callContext, args []Value) (Value, error) {
		sig, err := argSignature(ctx, args, 0)
		if err != nil {
			return nil, err
		}
		sel := sig.Selector()
		return Bytes(sel[:]), nil
	}),
	fixed("keccak256", 1, func(_ *callContext, args []Value) (Value, error) {
		data, err := argBytes(args, 0)
		if err != nil {
			return nil, err
		}
		return Bytes(crypto.Keccak256(data)), nil
	}),
	fixed("b64_encode", 1, func(_ *callContext, args []Value) (Value, error) {
		data, err := argBytes(args, 0)
		if err != nil {
			return nil, err
		}
		return Text(base64.StdEncoding.EncodeToString(data)), nil
	}),
	fixed("b64_decode", 1, b64Decode),
	{name: "abi_encode", minArgs: 1, maxArgs: -1, fn: abiEncode(false)},
	{name: "abi_encode_with_selector", minArgs: 1, maxArgs: -1, fn: abiEncode(true)},
	fixed("abi_decode", 2, func(ctx *callContext, args []Value) (Value, error) {
		sig, err := argSignature(ctx, args, 0)
		if err != nil {
			return nil, err
		}
		calldata, err := argCalldata(args, 1)
		if err != nil {
			return nil, err
		}
		return sig.Decode(calldata)
	}),
	fixed("debug", 1, func(ctx *callContext, args []Value) (Value, error) {
		calldata, err := argCalldata(args, 0)
		if err != nil {
			return nil, err
		}
		words, err := SplitCalldata(calldata)
		if err != nil {
			return nil, err
		}
		// Name the method when a registered contract knows the selector.
		if sig, ok := lookupSelector(ctx.contracts, [4]byte(calldata[:SelectorSize])); ok {
			words[0].Type = sig.Canonical()
		}
		return words, nil
	}),
}

// argSignature reads a signature, or a bare method name of a registered contract.
func argSignature(ctx *callContext, args []Value, i int) (*Signature, error) {
	text, err := argText(args, i)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(text); !strings.Contains(name, "(") && name != "" {
		if sig, ok := lookupMethod(ctx.contracts, name); ok {
			return sig, nil
		}
	}
	return ParseSignature(text)
}

// b64Decode accepts padded and unpadded standard base64. Valid UTF-8 decodes
// to Text, anything else to Bytes.
func b64Decode(_ *callContext, args []Value) (Value, error) {
	text, err := argText(args, 0)
	if err != nil {
		return nil, err
	}
	s := strings.TrimSpace(text)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, &ArgumentError{Index: 0, Err: fmt.Errorf("%w: %v", ErrInvalidLiteral, err)}
	}
	if utf8.Valid(data) {
		return Text(data), nil
	}
	return Bytes(data), nil
}

// abiEncode takes either one comma-separated argument string after the
// signature or one value per parameter.
func abiEncode(withSelector bool) handler {
	return func(ctx *callContext, args []Value) (Value, error) {
		sig, err := argSignature(ctx, args, 0)
		if err != nil {
			return nil, err
		}
		values := args[1:]
		if len(values) == 1 {
			if text, ok := values[0].(Text); ok {
				values = splitArgs(string(text))
			}
		}
		var data []byte
		if withSelector {
			data, err = sig.EncodeWithSelector(values)
		} else {
			data, err = sig.Encode(values)
		}
		if err != nil {
			return nil, err
		}
		return Bytes(data), nil
	}
}

func splitArgs(s string) []Value {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	values := make([]Value, len(parts))
	for i, part := range parts {
		values[i] = Text(strings.TrimSpace(part))
	}
	return values
}

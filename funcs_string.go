package devm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var stringFuncs = []*builtin{
	fixed("upper", 1, func(_ *callContext, args []Value) (Value, error) {
		s, err := argText(args, 0)
		if err != nil {
			return nil, err
		}
		return Text(strings.ToUpper(s)), nil
	}),
	fixed("lower", 1, func(_ *callContext, args []Value) (Value, error) {
		s, err := argText(args, 0)
		if err != nil {
			return nil, err
		}
		return Text(strings.ToLower(s)), nil
	}),
	// len counts characters of Text and bytes of Bytes.
	fixed("len", 1, func(_ *callContext, args []Value) (Value, error) {
		switch val := args[0].(type) {
		case Text:
			return Uint64(uint64(utf8.RuneCountInString(string(val)))), nil
		case Bytes:
			return Uint64(uint64(len(val))), nil
		}
		return nil, &ArgumentError{Index: 0, Err: typeErr(KindNameText, args[0])}
	}),
	fixed("count", 2, func(_ *callContext, args []Value) (Value, error) {
		s, err := argText(args, 0)
		if err != nil {
			return nil, err
		}
		sub, err := argText(args, 1)
		if err != nil {
			return nil, err
		}
		if sub == "" {
			return nil, &ArgumentError{Index: 1, Err: fmt.Errorf("%w: empty substring", ErrInvalidArgument)}
		}
		return Uint64(uint64(strings.Count(s, sub))), nil
	}),
}

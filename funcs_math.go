package devm

import (
	"fmt"
)

var mathFuncs = []*builtin{
	fixed("sqrt", 1, func(_ *callContext, args []Value) (Value, error) {
		x, err := argUint(args, 0)
		if err != nil {
			return nil, err
		}
		return NewUint(isqrt(x)), nil
	}),
	fixed("root", 2, func(_ *callContext, args []Value) (Value, error) {
		x, err := argUint(args, 0)
		if err != nil {
			return nil, err
		}
		n, err := argSmall(args, 1, 1<<32)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, &ArgumentError{Index: 1, Err: fmt.Errorf("%w: root degree must be positive", ErrInvalidArgument)}
		}
		r, err := iroot(x, n)
		if err != nil {
			return nil, err
		}
		return NewUint(r), nil
	}),
}

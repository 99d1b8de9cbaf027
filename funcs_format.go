package devm

// maxDecimals is the largest scale format_units accepts; 10^78 exceeds 2^256.
const maxDecimals = 77

var formatFuncs = []*builtin{
	fixed("format_ether", 1, func(_ *callContext, args []Value) (Value, error) {
		x, err := argUint(args, 0)
		if err != nil {
			return nil, err
		}
		return Text(formatUnits(x, 18)), nil
	}),
	fixed("format_units", 2, func(_ *callContext, args []Value) (Value, error) {
		x, err := argUint(args, 0)
		if err != nil {
			return nil, err
		}
		decimals, err := argSmall(args, 1, maxDecimals)
		if err != nil {
			return nil, err
		}
		return Text(formatUnits(x, uint(decimals))), nil
	}),
}

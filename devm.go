// Package devm evaluates one-line expressions for Ethereum development:
// 256-bit arithmetic, unit conversion, ABI encoding, hashing and Uniswap V3
// tick math.
//
// # Basic Usage
//
//	out, err := devm.Evaluate(`1 ether to gwei`)
//	// out == "1000000000"
//
//	out, err = devm.Evaluate(`selector("transfer(address,uint256)")`)
//	// out == "0xa9059cbb"
//
// An Evaluator carries configuration and may be shared between goroutines:
//
//	ev := devm.New(
//	    devm.WithFullWords(true),
//	    devm.WithPricePrecision(4),
//	)
//	v, err := ev.Eval(`get_sqrt_ratio_from_tick(-100)`)
//
// # Grammar
//
// From highest to lowest precedence:
//
//   - function calls, unary minus and unit suffixes (2 gwei)
//   - ** (right-associative)
//   - * / %
//   - + -
//   - << >>
//   - to <unit>
//
// Arithmetic is checked by default: overflow, underflow and division by zero
// are errors. unchecked(expr) evaluates expr modulo 2^256. Shifts never fail.
//
// Amounts carry their unit through an expression: 1 ether to gwei to wei is
// 10^18, and adding amounts of different units (2 days + 1 ether) fails with
// ErrUnsupportedConversion.
//
// Numeric literals are decimal, 0x hex, 0b binary or 0o octal, with optional
// _ separators. Decimals with a fraction or exponent (1.5, 1.2e18) are rounded
// to the nearest integer, after unit scaling when a unit follows.
//
// # Ticks
//
// Tick arguments are signed. A leading minus is read as a sign, so
// get_sqrt_ratio_from_tick(-100) needs no unchecked block, while the rest of
// the argument is still checked. Negative tick results, and the min_tick
// constant, are Text such as "-887272"; they can be passed back as ticks but
// are not arithmetic operands: min_tick + 10 is a type error, written instead
// as -(max_tick - 10).
//
// # Values
//
// Every result is a Value: Uint, Text, Bytes, Bool or List. Bytes render as
// 0x hex, Uint as decimal (or as a 32-byte word with WithFullWords), and List
// as one labeled line per entry.
//
// # Errors
//
// Evaluation returns the first error encountered. Every error wraps one of the
// Err sentinels, and KindOf maps an error to its ErrorKind.
package devm

package devm

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

type unitFamily uint8

const (
	familyValue unitFamily = iota + 1
	familyTime
)

func (f unitFamily) String() string {
	switch f {
	case familyValue:
		return "value"
	case familyTime:
		return "time"
	default:
		return "unknown"
	}
}

// unit is a scale relative to its family's base unit (wei or seconds).
type unit struct {
	name   string
	family unitFamily
	factor *uint256.Int
}

func pow10(n uint64) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(n))
}

// Unit tables. Time units are fixed-width; a year is 365 days.
var units = func() map[string]unit {
	m := make(map[string]unit)
	add := func(family unitFamily, factor *uint256.Int, names ...string) {
		for _, name := range names {
			m[name] = unit{name: names[0], family: family, factor: factor}
		}
	}
	add(familyValue, pow10(0), "wei")
	add(familyValue, pow10(3), "kwei")
	add(familyValue, pow10(6), "mwei")
	add(familyValue, pow10(9), "gwei")
	add(familyValue, pow10(12), "szabo")
	add(familyValue, pow10(15), "finney")
	add(familyValue, pow10(18), "ether", "eth")

	add(familyTime, uint256.NewInt(1), "seconds", "second")
	add(familyTime, uint256.NewInt(60), "minutes", "minute")
	add(familyTime, uint256.NewInt(60*60), "hours", "hour")
	add(familyTime, uint256.NewInt(24*60*60), "days", "day")
	add(familyTime, uint256.NewInt(7*24*60*60), "weeks", "week")
	add(familyTime, uint256.NewInt(365*24*60*60), "years", "year")
	return m
}()

func lookupUnit(name string) (unit, bool) {
	u, ok := units[name]
	return u, ok
}

// convertUnits rescales amount from one unit to another by exact integer
// multiply then floor divide. Either unit name may be empty, meaning the base
// unit of the other's family.
func convertUnits(a arith, amount *uint256.Int, from, to string) (*uint256.Int, error) {
	src, dst, err := resolveUnits(from, to)
	if err != nil {
		return nil, err
	}
	base, err := a.mul(amount, src.factor)
	if err != nil {
		return nil, err
	}
	return a.div(base, dst.factor)
}

// convertExact is convertUnits for a decimal literal, so that fractional
// amounts such as 1.5 ether survive the scaling step.
func convertExact(amount decimal.Decimal, from, to string) (*uint256.Int, error) {
	src, dst, err := resolveUnits(from, to)
	if err != nil {
		return nil, err
	}
	base, err := decimalToUint(amount.Mul(decimal.NewFromBigInt(src.factor.ToBig(), 0)))
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Div(base, dst.factor), nil
}

func resolveUnits(from, to string) (unit, unit, error) {
	var src, dst unit
	var ok bool
	if from != "" {
		if src, ok = lookupUnit(from); !ok {
			return unit{}, unit{}, &ConversionError{From: from, To: to}
		}
	}
	if to != "" {
		if dst, ok = lookupUnit(to); !ok {
			return unit{}, unit{}, &ConversionError{From: from, To: to}
		}
	}
	switch {
	case from == "" && to == "":
		return unit{}, unit{}, &ConversionError{}
	case from == "":
		src = baseUnit(dst.family)
	case to == "":
		dst = baseUnit(src.family)
	}
	if src.family != dst.family {
		return unit{}, unit{}, &ConversionError{From: src.name, To: dst.name}
	}
	return src, dst, nil
}

func baseUnit(f unitFamily) unit {
	if f == familyTime {
		return units["seconds"]
	}
	return units["wei"]
}

package devm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Uniswap V3 tick bounds and the sqrt ratios at those ticks.
const (
	MinTick = -887272
	MaxTick = 887272
)

var (
	// MinSqrtRatio is GetSqrtRatioAtTick(MinTick).
	MinSqrtRatio = uint256.NewInt(4295128739)

	// MaxSqrtRatio is GetSqrtRatioAtTick(MaxTick).
	MaxSqrtRatio = uint256.MustFromDecimal("1461446703485210103287273052203988822378723970342")

	// Q96 is 2^96, the scale of sqrtPriceX96 values.
	Q96 = new(uint256.Int).Lsh(uint256.NewInt(1), 96)
)

// tickRatios[i] is the Q128 value of 1/sqrt(1.0001^(2^i)), used for the
// bit decomposition of |tick|.
var tickRatios = [...]*uint256.Int{
	uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001"),
	uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
	uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
	uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
	uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
	uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
	uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
	uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
	uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
	uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
	uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
	uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
	uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
	uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
	uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
	uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
	uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
	uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
	uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
	uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
}

// GetSqrtRatioAtTick returns sqrt(1.0001^tick) * 2^96 rounded up, computed
// with the same integer-only algorithm as the Uniswap V3 TickMath library.
func GetSqrtRatioAtTick(tick int64) (*uint256.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, fmt.Errorf("%w: tick %d outside [%d, %d]", ErrInvalidArgument, tick, MinTick, MaxTick)
	}
	absTick := uint64(tick)
	if tick < 0 {
		absTick = uint64(-tick)
	}

	ratio := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	if absTick&1 != 0 {
		ratio.Set(tickRatios[0])
	}
	for i := 1; i < len(tickRatios); i++ {
		if absTick&(1<<uint(i)) != 0 {
			// Both factors are below 2^129, so the product fits in 256 bits.
			ratio.Mul(ratio, tickRatios[i]).Rsh(ratio, 128)
		}
	}
	if tick > 0 {
		ratio.Div(new(uint256.Int).SetAllOne(), ratio)
	}

	// Q128.128 to Q64.96, rounding up so that the inverse search is exact.
	lowBits := new(uint256.Int).And(ratio, uint256.NewInt(0xffffffff))
	ratio.Rsh(ratio, 32)
	if !lowBits.IsZero() {
		ratio.AddUint64(ratio, 1)
	}
	return ratio, nil
}

// GetTickAtSqrtRatio returns the greatest tick whose sqrt ratio is <= sqrtPriceX96.
// Inputs range over [MinSqrtRatio, MaxSqrtRatio]; the upper bound is inclusive so
// that MaxTick round-trips.
func GetTickAtSqrtRatio(sqrtPriceX96 *uint256.Int) (int64, error) {
	if sqrtPriceX96.Lt(MinSqrtRatio) || sqrtPriceX96.Gt(MaxSqrtRatio) {
		return 0, fmt.Errorf("%w: sqrt ratio %s outside [%s, %s]", ErrInvalidArgument,
			sqrtPriceX96.Dec(), MinSqrtRatio.Dec(), MaxSqrtRatio.Dec())
	}
	lo, hi := int64(MinTick), int64(MaxTick)
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		ratio, err := GetSqrtRatioAtTick(mid)
		if err != nil {
			return 0, err
		}
		if ratio.Gt(sqrtPriceX96) {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return lo, nil
}

// PriceAtTick returns the price of token0 in token1 at tick, adjusted from raw
// units by 10^(decimals0-decimals1), or its reciprocal when inToken1 is set.
// The result is rounded to precision decimal places.
func PriceAtTick(tick int64, inToken1 bool, decimals0, decimals1 uint8, precision int32) (decimal.Decimal, error) {
	sqrtRatio, err := GetSqrtRatioAtTick(tick)
	if err != nil {
		return decimal.Decimal{}, err
	}
	// price = sqrtRatio^2 / 2^192, computed as an exact rational.
	num := new(big.Int).Mul(sqrtRatio.ToBig(), sqrtRatio.ToBig())
	den := new(big.Int).Lsh(big.NewInt(1), 192)
	shift := int32(decimals0) - int32(decimals1)
	if inToken1 {
		num, den = den, num
		shift = -shift
	}
	n := decimal.NewFromBigInt(num, 0).Shift(shift)
	d := decimal.NewFromBigInt(den, 0)
	return n.DivRound(d, precision), nil
}

// sortRatios returns the price range bounds in ascending order.
func sortRatios(a, b *uint256.Int) (*uint256.Int, *uint256.Int) {
	if a.Gt(b) {
		return b, a
	}
	return a, b
}

// activeRange0 is the part of [lower, upper] above the current price, where
// the position holds token0.
func activeRange0(price, a, b *uint256.Int) (lower, upper *uint256.Int, ok bool) {
	lower, upper = sortRatios(a, b)
	if !price.Lt(upper) {
		return nil, nil, false
	}
	if price.Gt(lower) {
		lower = price
	}
	return lower, upper, true
}

// activeRange1 is the part of [lower, upper] below the current price, where
// the position holds token1.
func activeRange1(price, a, b *uint256.Int) (lower, upper *uint256.Int, ok bool) {
	lower, upper = sortRatios(a, b)
	if !price.Gt(lower) {
		return nil, nil, false
	}
	if price.Lt(upper) {
		upper = price
	}
	return lower, upper, true
}

func checkRatios(ratios ...*uint256.Int) error {
	for _, r := range ratios {
		if r.IsZero() {
			return fmt.Errorf("%w: sqrt price must be non-zero", ErrInvalidArgument)
		}
	}
	return nil
}

func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// LiquidityForAmount0 is L = amount0 * (sqrtA * sqrtB / Q96) / (sqrtB - sqrtA)
// over the token0 part of the range.
func LiquidityForAmount0(sqrtPrice, sqrtA, sqrtB, amount0 *uint256.Int) (*uint256.Int, error) {
	if err := checkRatios(sqrtPrice, sqrtA, sqrtB); err != nil {
		return nil, err
	}
	lower, upper, ok := activeRange0(sqrtPrice, sqrtA, sqrtB)
	if !ok || lower.Eq(upper) {
		return new(uint256.Int), nil
	}
	intermediate, err := mulDiv(lower, upper, Q96)
	if err != nil {
		return nil, err
	}
	return mulDiv(amount0, intermediate, new(uint256.Int).Sub(upper, lower))
}

// LiquidityForAmount1 is L = amount1 * Q96 / (sqrtB - sqrtA) over the token1
// part of the range.
func LiquidityForAmount1(sqrtPrice, sqrtA, sqrtB, amount1 *uint256.Int) (*uint256.Int, error) {
	if err := checkRatios(sqrtPrice, sqrtA, sqrtB); err != nil {
		return nil, err
	}
	lower, upper, ok := activeRange1(sqrtPrice, sqrtA, sqrtB)
	if !ok || lower.Eq(upper) {
		return new(uint256.Int), nil
	}
	return mulDiv(amount1, Q96, new(uint256.Int).Sub(upper, lower))
}

// Amount0ForLiquidity is amount0 = (L << 96) * (sqrtB - sqrtA) / sqrtB / sqrtA.
func Amount0ForLiquidity(sqrtPrice, sqrtA, sqrtB, liquidity *uint256.Int) (*uint256.Int, error) {
	if err := checkRatios(sqrtPrice, sqrtA, sqrtB); err != nil {
		return nil, err
	}
	lower, upper, ok := activeRange0(sqrtPrice, sqrtA, sqrtB)
	if !ok {
		return new(uint256.Int), nil
	}
	if liquidity.BitLen() > 256-96 {
		return nil, ErrOverflow
	}
	shifted := new(uint256.Int).Lsh(liquidity, 96)
	z, err := mulDiv(shifted, new(uint256.Int).Sub(upper, lower), upper)
	if err != nil {
		return nil, err
	}
	return z.Div(z, lower), nil
}

// Amount1ForLiquidity is amount1 = L * (sqrtB - sqrtA) / Q96.
func Amount1ForLiquidity(sqrtPrice, sqrtA, sqrtB, liquidity *uint256.Int) (*uint256.Int, error) {
	if err := checkRatios(sqrtPrice, sqrtA, sqrtB); err != nil {
		return nil, err
	}
	lower, upper, ok := activeRange1(sqrtPrice, sqrtA, sqrtB)
	if !ok {
		return new(uint256.Int), nil
	}
	return mulDiv(liquidity, new(uint256.Int).Sub(upper, lower), Q96)
}

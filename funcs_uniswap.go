package devm

import (
	"math"

	"github.com/holiman/uint256"
)

var uniswapFuncs = []*builtin{
	fixed("get_tick_from_sqrt_ratio", 1, func(_ *callContext, args []Value) (Value, error) {
		x, err := argUint(args, 0)
		if err != nil {
			return nil, err
		}
		tick, err := GetTickAtSqrtRatio(x)
		if err != nil {
			return nil, err
		}
		return signedValue(tick), nil
	}),
	{name: "get_sqrt_ratio_from_tick", minArgs: 1, maxArgs: 1, signed: 1 << 0,
		fn: func(_ *callContext, args []Value) (Value, error) {
			tick, err := argInt64(args, 0)
			if err != nil {
				return nil, err
			}
			ratio, err := GetSqrtRatioAtTick(tick)
			if err != nil {
				return nil, err
			}
			return NewUint(ratio), nil
		}},
	{name: "get_price_from_tick", minArgs: 4, maxArgs: 4, signed: 1 << 0, fn: priceFromTick},
	fixed("get_liquidity_from_amount0", 4, positionFunc(LiquidityForAmount0)),
	fixed("get_liquidity_from_amount1", 4, positionFunc(LiquidityForAmount1)),
	fixed("get_amount0_from_liquidity", 4, positionFunc(Amount0ForLiquidity)),
	fixed("get_amount1_from_liquidity", 4, positionFunc(Amount1ForLiquidity)),
}

// priceFromTick renders "1 token0 : P token1", or the reciprocal quote
// "1 token1 : P token0" when in_token1 is set.
func priceFromTick(ctx *callContext, args []Value) (Value, error) {
	tick, err := argInt64(args, 0)
	if err != nil {
		return nil, err
	}
	inToken1, err := argBool(args, 1)
	if err != nil {
		return nil, err
	}
	d0, err := argSmall(args, 2, math.MaxUint8)
	if err != nil {
		return nil, err
	}
	d1, err := argSmall(args, 3, math.MaxUint8)
	if err != nil {
		return nil, err
	}
	price, err := PriceAtTick(tick, inToken1, uint8(d0), uint8(d1), ctx.pricePrecision)
	if err != nil {
		return nil, err
	}
	base, quote := "token0", "token1"
	if inToken1 {
		base, quote = quote, base
	}
	return Text("1 " + base + " : " + price.StringFixed(ctx.pricePrecision) + " " + quote), nil
}

// positionFunc adapts a (sqrtPrice, sqrtA, sqrtB, amount) formula.
func positionFunc(f func(sqrtPrice, sqrtA, sqrtB, amount *uint256.Int) (*uint256.Int, error)) handler {
	return func(_ *callContext, args []Value) (Value, error) {
		var in [4]*uint256.Int
		for i := range in {
			x, err := argUint(args, i)
			if err != nil {
				return nil, err
			}
			in[i] = x
		}
		out, err := f(in[0], in[1], in[2], in[3])
		if err != nil {
			return nil, err
		}
		return NewUint(out), nil
	}
}

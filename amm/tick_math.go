// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import "math/big"

// sqrtMagics[i] = sqrt(1/1.0001^(2^i)) in Q128, the per-bit factors used to
// assemble sqrt(1.0001^tick) for an arbitrary tick.
var sqrtMagics = [20]*big.Int{
	hexBig("fffcb933bd6fad37aa2d162d1a594001"),
	hexBig("fff97272373d413259a46990580e213a"),
	hexBig("fff2e50f5f656932ef12357cf3c7fdcc"),
	hexBig("ffe5caca7e10e4e61c3624eaa0941cd0"),
	hexBig("ffcb9843d60f6159c9db58835c926644"),
	hexBig("ff973b41fa98c081472e6896dfb254c0"),
	hexBig("ff2ea16466c96a3843ec78b326b52861"),
	hexBig("fe5dee046a99a2a811c461f1969c3053"),
	hexBig("fcbe86c7900a88aedcffc83b479aa3a4"),
	hexBig("f987a7253ac413176f2b074cf7815e54"),
	hexBig("f3392b0822b70005940c7a398e4b70f3"),
	hexBig("e7159475a2c29b7443b29c7fa6e889d9"),
	hexBig("d097f3bdfd2022b8845ad8f792aa5825"),
	hexBig("a9f746462d870fdf8a65dc1f90e061e5"),
	hexBig("70d869a156d2a1b890bb3df62baf32f7"),
	hexBig("31be135f97d08fd981231505542fcfa6"),
	hexBig("9aa508b5b7a84e1c677de54f3e99bc9"),
	hexBig("5d6af8dedb81196699c329225ee604"),
	hexBig("2216e584f5fa1ea926041bedfe98"),
	hexBig("48a170391f7dc42444e8fa2"),
}

var (
	oneQ128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

func hexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("amm: bad hex constant " + s)
	}
	return v
}

// SqrtRatioAtTick returns sqrt(1.0001^tick) * 2^96 as a Q64.96 value.
// Exact port of the reference fixed-point computation: per-bit Q128 factors,
// inversion for positive ticks, then truncation to Q96 rounding up.
func SqrtRatioAtTick(tick int24) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickOutOfRange
	}

	absTick := int(tick)
	if absTick < 0 {
		absTick = -absTick
	}

	ratio := new(big.Int).Set(oneQ128)
	if absTick&1 != 0 {
		ratio.Set(sqrtMagics[0])
	}
	for i := 1; i < len(sqrtMagics); i++ {
		if absTick&(1<<i) != 0 {
			ratio.Mul(ratio, sqrtMagics[i])
			ratio.Rsh(ratio, 128)
		}
	}

	// The table computes 1/sqrt(1.0001^|tick|); invert for positive ticks.
	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Q128 -> Q96, rounding up so that TickAtSqrtRatio(SqrtRatioAtTick(t)) == t.
	rem := new(big.Int).And(ratio, big.NewInt((1<<32)-1))
	ratio.Rsh(ratio, 32)
	if rem.Sign() != 0 {
		ratio.Add(ratio, big.NewInt(1))
	}
	return ratio, nil
}

// TickAtSqrtRatio returns the largest tick whose sqrt ratio is <= the given
// sqrt price. Binary search over SqrtRatioAtTick.
func TickAtSqrtRatio(sqrtPriceX96 *big.Int) (int24, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, ErrInvalidSqrtPrice
	}

	low, high := MinTick, MaxTick
	for low < high {
		mid := int24((int64(low) + int64(high) + 1) / 2)
		sqrtMid, err := SqrtRatioAtTick(mid)
		if err != nil {
			return 0, err
		}
		if sqrtMid.Cmp(sqrtPriceX96) <= 0 {
			low = mid
		} else {
			high = mid - 1
		}
	}
	return low, nil
}

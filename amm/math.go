// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import "math/big"

// MulDiv computes floor(x * y / denominator) with full intermediate precision.
func MulDiv(x, y, denominator *big.Int) *big.Int {
	return new(big.Int).Div(new(big.Int).Mul(x, y), denominator)
}

// MulDivRoundingUp computes ceil(x * y / denominator).
func MulDivRoundingUp(x, y, denominator *big.Int) *big.Int {
	div, mod := new(big.Int).QuoRem(new(big.Int).Mul(x, y), denominator, new(big.Int))
	if mod.Sign() != 0 {
		div.Add(div, big.NewInt(1))
	}
	return div
}

// Amount0Delta returns the currency0 amount spanned by liquidity between two
// sqrt prices: L * 2^96 * (sqrtB - sqrtA) / (sqrtB * sqrtA).
func Amount0Delta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	lo, hi := sqrtA, sqrtB
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	numerator := new(big.Int).Mul(liquidity, new(big.Int).Sub(hi, lo))
	denominator := new(big.Int).Mul(hi, lo)
	if roundUp {
		return MulDivRoundingUp(numerator, Q96, denominator)
	}
	return MulDiv(numerator, Q96, denominator)
}

// Amount1Delta returns the currency1 amount spanned by liquidity between two
// sqrt prices: L * (sqrtB - sqrtA) / 2^96.
func Amount1Delta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	lo, hi := sqrtA, sqrtB
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	diff := new(big.Int).Sub(hi, lo)
	if roundUp {
		return MulDivRoundingUp(liquidity, diff, Q96)
	}
	return MulDiv(liquidity, diff, Q96)
}

// LiquidityForAmount1 returns the largest liquidity amount fully funded by
// `amount1` of currency1 over [sqrtLower, sqrtUpper]:
// L = amount1 * 2^96 / (sqrtUpper - sqrtLower).
// With the pool price sitting exactly at sqrtUpper this is the single-sided
// deposit sizing: the position consumes only currency1.
func LiquidityForAmount1(sqrtLower, sqrtUpper, amount1 *big.Int) *big.Int {
	return MulDiv(amount1, Q96, new(big.Int).Sub(sqrtUpper, sqrtLower))
}

// nextSqrtPriceFromAmount0 returns the price after consuming amount0 of input
// while swapping currency0 for currency1 (price moves down). Rounds up so the
// pool never undercharges.
func nextSqrtPriceFromAmount0(sqrtP, liquidity, amount0 *big.Int) *big.Int {
	lq := new(big.Int).Mul(liquidity, Q96)
	numerator := new(big.Int).Mul(lq, sqrtP)
	denominator := new(big.Int).Add(lq, new(big.Int).Mul(amount0, sqrtP))
	next, mod := new(big.Int).QuoRem(numerator, denominator, new(big.Int))
	if mod.Sign() != 0 {
		next.Add(next, big.NewInt(1))
	}
	return next
}

// nextSqrtPriceFromAmount1 returns the price after consuming amount1 of input
// while swapping currency1 for currency0 (price moves up). Rounds down.
func nextSqrtPriceFromAmount1(sqrtP, liquidity, amount1 *big.Int) *big.Int {
	return new(big.Int).Add(sqrtP, MulDiv(amount1, Q96, liquidity))
}

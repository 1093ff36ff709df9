// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"fmt"
	"math/big"

	"github.com/huksdotfun/bsc-contracts/amm"
)

// Width of the single-sided range below the starting price, in raw ticks,
// keyed off the configured price multiplier. 23000 ticks is roughly 10x in
// price, 46000 roughly 100x, 92000 roughly 10000x of price movement; with
// price defined as token/native, a wider span below the start lets the
// token price fall further as buyers absorb the supply.
const (
	rangeTicks100x   = 92000
	rangeTicks10x    = 46000
	rangeTicksNarrow = 23000
)

var (
	wadScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil) // 1e18
	sqrtWad  = big.NewInt(1_000_000_000)                             // sqrt(1e18)
)

// PriceRange is the derived launch range: the position spans
// [TickLower, TickUpper] and the pool starts exactly at the upper bound so
// the full deposit is token-only.
type PriceRange struct {
	TickLower         int32
	TickUpper         int32
	StartSqrtPriceX96 *big.Int
}

// DerivePriceRange maps a supply and target launch valuation (both in wei) to
// a concentrated range. The starting price is totalSupply/initialValuation in
// token-per-native terms; its square root is taken in 1e18 fixed point, scaled
// to Q64.96, floored to a spacing-aligned tick, and the lower bound is placed
// rangeTicks below, clamped to the lowest usable tick.
func DerivePriceRange(totalSupply, initialValuation *big.Int, tickSpacing int32, rangeMultiplier uint64) (PriceRange, error) {
	if totalSupply == nil || totalSupply.Sign() <= 0 {
		return PriceRange{}, fmt.Errorf("%w: total supply must be positive", ErrInvalidArgument)
	}
	if initialValuation == nil || initialValuation.Sign() <= 0 {
		return PriceRange{}, fmt.Errorf("%w: initial valuation must be positive", ErrInvalidArgument)
	}
	if tickSpacing <= 0 {
		return PriceRange{}, fmt.Errorf("%w: tick spacing must be positive", ErrInvalidArgument)
	}

	// price ratio in 1e18 fixed point: token per native.
	ratio := new(big.Int).Mul(totalSupply, wadScale)
	ratio.Div(ratio, initialValuation)
	if ratio.Sign() == 0 {
		return PriceRange{}, fmt.Errorf("%w: valuation too large for supply", ErrInvalidArgument)
	}

	// sqrt(ratio/1e18) * 2^96 == isqrt(ratio) * 2^96 / 1e9.
	sqrtPriceX96 := isqrt(ratio)
	sqrtPriceX96.Lsh(sqrtPriceX96, 96)
	sqrtPriceX96.Div(sqrtPriceX96, sqrtWad)

	if sqrtPriceX96.Cmp(amm.MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(amm.MaxSqrtRatio) >= 0 {
		return PriceRange{}, fmt.Errorf("%w: launch price out of representable range", ErrInvalidArgument)
	}

	tick, err := amm.TickAtSqrtRatio(sqrtPriceX96)
	if err != nil {
		return PriceRange{}, err
	}

	tickUpper := alignTickDown(tick, tickSpacing)
	tickLower := alignTickDown(tickUpper-rangeTicks(rangeMultiplier), tickSpacing)
	if minTick := amm.MinUsableTick(tickSpacing); tickLower < minTick {
		tickLower = minTick
	}
	if tickLower >= tickUpper {
		return PriceRange{}, fmt.Errorf("%w: derived range is empty", ErrInvalidArgument)
	}

	// Start exactly on the upper bound so the deposit is 100% token.
	start, err := amm.SqrtRatioAtTick(tickUpper)
	if err != nil {
		return PriceRange{}, err
	}

	return PriceRange{
		TickLower:         tickLower,
		TickUpper:         tickUpper,
		StartSqrtPriceX96: start,
	}, nil
}

func rangeTicks(multiplier uint64) int32 {
	switch {
	case multiplier >= 100:
		return rangeTicks100x
	case multiplier >= 10:
		return rangeTicks10x
	default:
		return rangeTicksNarrow
	}
}

// alignTickDown floors a tick to a multiple of the spacing, toward negative
// infinity.
func alignTickDown(tick, spacing int32) int32 {
	q := tick / spacing
	if tick%spacing != 0 && tick < 0 {
		q--
	}
	return q * spacing
}

// isqrt computes the integer square root with Newton's method. The iterate
// decreases monotonically once above the root, so the loop terminates when it
// stops decreasing.
func isqrt(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return big.NewInt(0)
	}
	x := new(big.Int).Set(n)
	y := new(big.Int).Div(n, x)
	y.Add(y, x)
	y.Rsh(y, 1)
	for y.Cmp(x) < 0 {
		x.Set(y)
		y = new(big.Int).Div(n, x)
		y.Add(y, x)
		y.Rsh(y, 1)
	}
	return x
}

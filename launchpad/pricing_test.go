// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huksdotfun/bsc-contracts/amm"
)

func wad(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestDerivePriceRangeProperties(t *testing.T) {
	supply := wad(1_000_000_000) // 1e9 tokens
	valuation := wad(20)         // 20 native
	const spacing = int32(200)

	pr, err := DerivePriceRange(supply, valuation, spacing, 100)
	require.NoError(t, err)

	require.Less(t, pr.TickLower, pr.TickUpper)
	require.Zero(t, pr.TickLower%spacing)
	require.Zero(t, pr.TickUpper%spacing)

	// 92000 is a multiple of the spacing, so a 100x range keeps the exact
	// offset below the start.
	require.Equal(t, pr.TickUpper-92000, pr.TickLower)

	// The pool starts exactly on the upper bound.
	want, err := amm.SqrtRatioAtTick(pr.TickUpper)
	require.NoError(t, err)
	require.Zero(t, pr.StartSqrtPriceX96.Cmp(want))

	tick, err := amm.TickAtSqrtRatio(pr.StartSqrtPriceX96)
	require.NoError(t, err)
	require.Equal(t, pr.TickUpper, tick)

	// The aligned start tick never overstates the target price.
	ratio := new(big.Int).Mul(supply, wad(1))
	ratio.Div(ratio, valuation)
	targetSqrt := isqrt(ratio)
	targetSqrt.Lsh(targetSqrt, 96)
	targetSqrt.Div(targetSqrt, sqrtWad)
	require.LessOrEqual(t, pr.StartSqrtPriceX96.Cmp(targetSqrt), 0)
}

func TestDerivePriceRangeMultiplierWidths(t *testing.T) {
	supply := wad(1_000_000_000)
	valuation := wad(20)

	cases := []struct {
		multiplier uint64
		width      int32
	}{
		{100, 92000},
		{250, 92000},
		{10, 46000},
		{99, 46000},
		{2, 23000},
		{9, 23000},
	}
	for _, tc := range cases {
		pr, err := DerivePriceRange(supply, valuation, 200, tc.multiplier)
		require.NoError(t, err)
		require.Equal(t, tc.width, pr.TickUpper-pr.TickLower, "multiplier %d", tc.multiplier)
	}
}

func TestDerivePriceRangeDeterministic(t *testing.T) {
	supply := wad(1_000_000_000)
	valuation := wad(20)

	a, err := DerivePriceRange(supply, valuation, 200, 100)
	require.NoError(t, err)
	b, err := DerivePriceRange(supply, valuation, 200, 100)
	require.NoError(t, err)
	require.Equal(t, a.TickLower, b.TickLower)
	require.Equal(t, a.TickUpper, b.TickUpper)
	require.Zero(t, a.StartSqrtPriceX96.Cmp(b.StartSqrtPriceX96))
}

func TestDerivePriceRangeRejectsBadInputs(t *testing.T) {
	valuation := wad(20)

	_, err := DerivePriceRange(big.NewInt(0), valuation, 200, 100)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = DerivePriceRange(wad(1), big.NewInt(0), 200, 100)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = DerivePriceRange(wad(1), valuation, 0, 100)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Valuation so large the price ratio floors to zero.
	_, err = DerivePriceRange(big.NewInt(1), wad(1_000_000), 200, 100)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIsqrt(t *testing.T) {
	cases := []struct{ n, want int64 }{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{99, 9},
		{100, 10},
		{101, 10},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, isqrt(big.NewInt(tc.n)).Int64(), "isqrt(%d)", tc.n)
	}

	// Exactness at scale: isqrt(x^2) == x.
	x, _ := new(big.Int).SetString("123456789123456789123456789", 10)
	require.Zero(t, isqrt(new(big.Int).Mul(x, x)).Cmp(x))
}

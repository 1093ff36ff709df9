// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huksdotfun/bsc-contracts/amm"
)

func TestSplitFee(t *testing.T) {
	cases := []struct {
		amount   int64
		creator  int64
		operator int64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{5, 4, 1},
		{100, 80, 20},
		{101, 80, 21},
		{10000, 8000, 2000},
		{12345, 9876, 2469},
	}
	for _, tc := range cases {
		creator, operator := SplitFee(big.NewInt(tc.amount))
		require.Equal(t, tc.creator, creator.Int64(), "creator share of %d", tc.amount)
		require.Equal(t, tc.operator, operator.Int64(), "operator share of %d", tc.amount)
	}
}

func TestSplitFeeConserves(t *testing.T) {
	amounts := []int64{1, 2, 3, 7, 99, 101, 999_999_999}
	for _, n := range amounts {
		amount := big.NewInt(n)
		creator, operator := SplitFee(amount)
		require.Zero(t, new(big.Int).Add(creator, operator).Cmp(amount), "split of %d", n)
		require.True(t, creator.Sign() >= 0 && operator.Sign() >= 0)
	}
}

func TestPendingFeesUnknownPosition(t *testing.T) {
	pm := amm.NewPoolManager()
	positions := amm.NewPositionManager(pm)
	fl := NewFeeLedger(pm, positions)

	pending, err := fl.PendingFees(42)
	require.NoError(t, err)
	require.Zero(t, pending.Amount0.Sign())
	require.Zero(t, pending.Amount1.Sign())
	require.Zero(t, pending.CreatorAmount0.Sign())
	require.Zero(t, pending.OperatorAmount1.Sign())
}

func TestPendingFeesWithPriceBelowRange(t *testing.T) {
	p := newTestProtocol(t)
	tokenAddr := launchDemoToken(t, p)
	record, ok := p.Coordinator.LaunchInfo(tokenAddr)
	require.True(t, ok)
	key, _ := p.Coordinator.PoolKeyFor(tokenAddr)

	// A buy large enough to drain the range pushes the price through the
	// lower bound; the unconsumed remainder is refunded to the buyer.
	_, err := p.Router.BuyToken(buyerAddr, tokenAddr, wad(3000), nil)
	require.NoError(t, err)

	_, tick, err := p.Pools.Slot0(key)
	require.NoError(t, err)
	require.Less(t, tick, record.TickLower)

	pending, err := p.Custodian.PendingFees(tokenAddr)
	require.NoError(t, err)
	require.Positive(t, pending.Amount0.Sign())
	require.Zero(t, pending.Amount1.Sign())

	// The preview and the realized claim reconstruct growth-inside
	// independently; with the price below the range they must still agree.
	claimed0, claimed1, err := p.Custodian.ClaimFees(tokenAddr)
	require.NoError(t, err)
	require.Zero(t, claimed0.Cmp(pending.Amount0))
	require.Zero(t, claimed1.Cmp(pending.Amount1))
}

// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestBuySkimsFeeFromInput(t *testing.T) {
	p := newTestProtocol(t)
	tokenAddr := launchDemoToken(t, p)
	tok, _ := p.Coordinator.Token(tokenAddr)

	buyIn := wad(1)
	wantFee := new(big.Int).Div(buyIn, big.NewInt(100)) // 100 bps

	buyerBefore := p.State.GetBalance(buyerAddr).ToBig()
	treasuryBefore := p.State.GetBalance(treasuryAddr).ToBig()

	out, err := p.Router.BuyToken(buyerAddr, tokenAddr, buyIn, nil)
	require.NoError(t, err)
	require.Positive(t, out.Sign())

	// The fee comes off the top of the input.
	treasuryGain := new(big.Int).Sub(p.State.GetBalance(treasuryAddr).ToBig(), treasuryBefore)
	require.Zero(t, treasuryGain.Cmp(wantFee))

	// The buyer spends exactly the gross input and holds the output.
	spent := new(big.Int).Sub(buyerBefore, p.State.GetBalance(buyerAddr).ToBig())
	require.Zero(t, spent.Cmp(buyIn))
	require.Zero(t, tok.BalanceOf(buyerAddr).ToBig().Cmp(out))

	// At a 20 native valuation for 1e9 tokens the price is ~5e7 tokens per
	// native; 0.99 net input less the 1% LP fee and the tick-floor discount
	// lands just under that.
	lowBound, _ := new(big.Int).SetString("45000000000000000000000000", 10) // 4.5e25
	highBound, _ := new(big.Int).SetString("50000000000000000000000000", 10)
	require.True(t, out.Cmp(lowBound) > 0 && out.Cmp(highBound) < 0, "out = %s", out)

	bought := eventsOfType[TokenBought](p)
	require.Len(t, bought, 1)
	require.Zero(t, bought[0].Fee.Cmp(wantFee))
	require.Zero(t, bought[0].AmountIn.Cmp(buyIn))
	require.Zero(t, bought[0].AmountOut.Cmp(out))
}

func TestBuySlippageRevertUndoesFeeSkim(t *testing.T) {
	p := newTestProtocol(t)
	tokenAddr := launchDemoToken(t, p)
	tok, _ := p.Coordinator.Token(tokenAddr)
	key, _ := p.Coordinator.PoolKeyFor(tokenAddr)

	buyerBefore := p.State.GetBalance(buyerAddr).Clone()
	treasuryBefore := p.State.GetBalance(treasuryAddr).Clone()
	priceBefore, _, err := p.Pools.Slot0(key)
	require.NoError(t, err)

	impossible, _ := new(big.Int).SetString("1000000000000000000000000000000", 10)
	_, err = p.Router.BuyToken(buyerAddr, tokenAddr, wad(1), impossible)
	require.ErrorIs(t, err, ErrSlippageExceeded)

	// Everything rolled back, including the fee already forwarded.
	require.Zero(t, p.State.GetBalance(buyerAddr).Cmp(buyerBefore))
	require.Zero(t, p.State.GetBalance(treasuryAddr).Cmp(treasuryBefore))
	require.True(t, tok.BalanceOf(buyerAddr).IsZero())

	priceAfter, _, err := p.Pools.Slot0(key)
	require.NoError(t, err)
	require.Zero(t, priceAfter.Cmp(priceBefore))
	require.Empty(t, eventsOfType[TokenBought](p))
}

func TestSellSkimsFeeFromOutput(t *testing.T) {
	p := newTestProtocol(t)
	tokenAddr := launchDemoToken(t, p)
	tok, _ := p.Coordinator.Token(tokenAddr)

	_, err := p.Router.BuyToken(buyerAddr, tokenAddr, wad(2), nil)
	require.NoError(t, err)

	sellIn := new(big.Int).Div(tok.BalanceOf(buyerAddr).ToBig(), big.NewInt(2))
	sellerBefore := p.State.GetBalance(buyerAddr).ToBig()
	treasuryBefore := p.State.GetBalance(treasuryAddr).ToBig()
	tokensBefore := tok.BalanceOf(buyerAddr).ToBig()

	net, err := p.Router.SellToken(buyerAddr, tokenAddr, sellIn, nil)
	require.NoError(t, err)
	require.Positive(t, net.Sign())

	sellerGain := new(big.Int).Sub(p.State.GetBalance(buyerAddr).ToBig(), sellerBefore)
	treasuryGain := new(big.Int).Sub(p.State.GetBalance(treasuryAddr).ToBig(), treasuryBefore)
	require.Zero(t, sellerGain.Cmp(net))

	// fee = floor(gross * 100 / 10000), net = gross - fee.
	gross := new(big.Int).Add(net, treasuryGain)
	wantFee := new(big.Int).Div(new(big.Int).Mul(gross, big.NewInt(100)), big.NewInt(BpsDenominator))
	require.Zero(t, treasuryGain.Cmp(wantFee))

	// The sell consumed the full input.
	tokensSpent := new(big.Int).Sub(tokensBefore, tok.BalanceOf(buyerAddr).ToBig())
	require.Zero(t, tokensSpent.Cmp(sellIn))

	sold := eventsOfType[TokenSold](p)
	require.Len(t, sold, 1)
	require.Zero(t, sold[0].Fee.Cmp(wantFee))
	require.Zero(t, sold[0].AmountOut.Cmp(net))
}

func TestSellSlippageRevert(t *testing.T) {
	p := newTestProtocol(t)
	tokenAddr := launchDemoToken(t, p)
	tok, _ := p.Coordinator.Token(tokenAddr)

	_, err := p.Router.BuyToken(buyerAddr, tokenAddr, wad(1), nil)
	require.NoError(t, err)

	holdings := tok.BalanceOf(buyerAddr).ToBig()
	_, err = p.Router.SellToken(buyerAddr, tokenAddr, holdings, wad(1_000_000))
	require.ErrorIs(t, err, ErrSlippageExceeded)

	// The seller keeps the tokens.
	require.Zero(t, tok.BalanceOf(buyerAddr).ToBig().Cmp(holdings))
	require.Empty(t, eventsOfType[TokenSold](p))
}

func TestSwapValidation(t *testing.T) {
	p := newTestProtocol(t)
	tokenAddr := launchDemoToken(t, p)

	unknown := common.HexToAddress("0xbeef")
	_, err := p.Router.BuyToken(buyerAddr, unknown, wad(1), nil)
	require.ErrorIs(t, err, ErrUnknownToken)
	_, err = p.Router.SellToken(buyerAddr, unknown, wad(1), nil)
	require.ErrorIs(t, err, ErrUnknownToken)

	_, err = p.Router.BuyToken(buyerAddr, tokenAddr, big.NewInt(0), nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = p.Router.SellToken(buyerAddr, tokenAddr, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Selling more than the balance fails cleanly.
	_, err = p.Router.SellToken(buyerAddr, tokenAddr, wad(1), nil)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestSellEventCopiesAmounts(t *testing.T) {
	p := newTestProtocol(t)
	tokenAddr := launchDemoToken(t, p)
	tok, _ := p.Coordinator.Token(tokenAddr)

	_, err := p.Router.BuyToken(buyerAddr, tokenAddr, wad(1), nil)
	require.NoError(t, err)

	sellIn := tok.BalanceOf(buyerAddr).ToBig()
	net, err := p.Router.SellToken(buyerAddr, tokenAddr, sellIn, nil)
	require.NoError(t, err)
	require.Positive(t, net.Sign())

	// Mutating the returned amount must not reach the event log.
	want := new(big.Int).Set(net)
	net.SetInt64(-1)

	sold := eventsOfType[TokenSold](p)
	require.Len(t, sold, 1)
	require.Zero(t, sold[0].AmountOut.Cmp(want))
	require.Positive(t, sold[0].Fee.Sign())
}

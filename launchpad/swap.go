// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/huksdotfun/bsc-contracts/amm"
	"github.com/huksdotfun/bsc-contracts/state"
)

// SwapRouter is the buy/sell path for launched tokens. It skims the protocol
// fee before (buys) or after (sells) routing the swap through the pool, and
// settles everything inside a single pool lock. A failed swap, including a
// slippage failure, leaves no trace: the fee skim is rolled back with it.
type SwapRouter struct {
	st          *state.State
	pm          *amm.PoolManager
	coordinator *LaunchCoordinator
	cfg         *ProtocolConfig
	events      *EventLog
}

// NewSwapRouter creates a router over the coordinator's launched pools.
func NewSwapRouter(st *state.State, pm *amm.PoolManager, coordinator *LaunchCoordinator, cfg *ProtocolConfig, events *EventLog) *SwapRouter {
	return &SwapRouter{
		st:          st,
		pm:          pm,
		coordinator: coordinator,
		cfg:         cfg,
		events:      events,
	}
}

// protocolFee returns floor(amount * swapFeeBps / 10000).
func (sr *SwapRouter) protocolFee(amount *big.Int) *big.Int {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(sr.cfg.SwapFeeBps()))
	return fee.Div(fee, big.NewInt(BpsDenominator))
}

// BuyToken swaps native for a launched token. amountIn is the gross native
// input; the protocol fee is skimmed from it before the swap. The tokens are
// delivered directly to buyer. If minTokensOut is non-nil and the output
// falls short, the whole buy reverts. Returns the token amount delivered.
func (sr *SwapRouter) BuyToken(buyer, tokenAddr common.Address, amountIn, minTokensOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: buy amount must be positive", ErrInvalidArgument)
	}
	key, ok := sr.coordinator.PoolKeyFor(tokenAddr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, tokenAddr)
	}

	snap := sr.st.Snapshot()
	fail := func(err error) (*big.Int, error) {
		sr.st.RevertToSnapshot(snap)
		return nil, err
	}

	gross, overflow := uint256.FromBig(amountIn)
	if overflow {
		return nil, fmt.Errorf("%w: buy amount overflows", ErrInvalidArgument)
	}
	if err := sr.st.TransferNative(buyer, RouterAddress, gross); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInsufficientFunds, err))
	}

	// Fee off the top, forwarded immediately. A later revert takes it back.
	fee := sr.protocolFee(amountIn)
	if fee.Sign() > 0 {
		feeValue, _ := uint256.FromBig(fee)
		if err := sr.st.TransferNative(RouterAddress, sr.cfg.FeeRecipient(), feeValue); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrTransferFailed, err))
		}
	}
	net := new(big.Int).Sub(amountIn, fee)
	if net.Sign() <= 0 {
		return fail(fmt.Errorf("%w: input consumed entirely by fee", ErrInsufficientFunds))
	}

	out := big.NewInt(0)
	consumed := big.NewInt(0)
	err := sr.pm.Lock(sr.st, RouterAddress, func() error {
		delta, err := sr.pm.Swap(sr.st, key, amm.SwapParams{
			ZeroForOne:      true,
			AmountSpecified: net,
		})
		if err != nil {
			return err
		}
		consumed = delta.Amount0
		if consumed.Sign() > 0 {
			if err := sr.pm.Settle(sr.st, key.Currency0, consumed); err != nil {
				return err
			}
		}
		out = new(big.Int).Neg(delta.Amount1)
		if out.Sign() > 0 {
			if err := sr.pm.Take(sr.st, key.Currency1, buyer, out); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	// Unconsumed input (the range ran out of liquidity) goes back to buyer.
	if leftover := new(big.Int).Sub(net, consumed); leftover.Sign() > 0 {
		value, _ := uint256.FromBig(leftover)
		if err := sr.st.TransferNative(RouterAddress, buyer, value); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrTransferFailed, err))
		}
	}

	if minTokensOut != nil && out.Cmp(minTokensOut) < 0 {
		return fail(fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, out, minTokensOut))
	}

	sr.events.Emit(TokenBought{
		Buyer:     buyer,
		Token:     tokenAddr,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: new(big.Int).Set(out),
		Fee:       fee,
	})
	return out, nil
}

// SellToken swaps a launched token back to native. amountIn is the gross
// token input; the protocol fee is skimmed from the native output. The
// post-fee proceeds go to seller. If minNativeOut is non-nil and the net
// proceeds fall short, the whole sell reverts. Returns the native amount
// delivered after the fee.
func (sr *SwapRouter) SellToken(seller, tokenAddr common.Address, amountIn, minNativeOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: sell amount must be positive", ErrInvalidArgument)
	}
	key, ok := sr.coordinator.PoolKeyFor(tokenAddr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, tokenAddr)
	}
	tok, ok := sr.coordinator.Token(tokenAddr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, tokenAddr)
	}

	snap := sr.st.Snapshot()
	fail := func(err error) (*big.Int, error) {
		sr.st.RevertToSnapshot(snap)
		return nil, err
	}

	gross, overflow := uint256.FromBig(amountIn)
	if overflow {
		return nil, fmt.Errorf("%w: sell amount overflows", ErrInvalidArgument)
	}
	if err := tok.Transfer(seller, RouterAddress, gross); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInsufficientFunds, err))
	}

	grossOut := big.NewInt(0)
	consumed := big.NewInt(0)
	err := sr.pm.Lock(sr.st, RouterAddress, func() error {
		delta, err := sr.pm.Swap(sr.st, key, amm.SwapParams{
			ZeroForOne:      false,
			AmountSpecified: amountIn,
		})
		if err != nil {
			return err
		}
		consumed = delta.Amount1
		if consumed.Sign() > 0 {
			if err := sr.pm.Settle(sr.st, key.Currency1, consumed); err != nil {
				return err
			}
		}
		grossOut = new(big.Int).Neg(delta.Amount0)
		if grossOut.Sign() > 0 {
			if err := sr.pm.Take(sr.st, key.Currency0, RouterAddress, grossOut); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	// Unconsumed token input goes back to seller.
	if leftover := new(big.Int).Sub(amountIn, consumed); leftover.Sign() > 0 {
		value, _ := uint256.FromBig(leftover)
		if err := tok.Transfer(RouterAddress, seller, value); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrTransferFailed, err))
		}
	}

	// Fee off the output.
	fee := sr.protocolFee(grossOut)
	net := new(big.Int).Sub(grossOut, fee)
	if minNativeOut != nil && net.Cmp(minNativeOut) < 0 {
		return fail(fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, net, minNativeOut))
	}

	if fee.Sign() > 0 {
		feeValue, _ := uint256.FromBig(fee)
		if err := sr.st.TransferNative(RouterAddress, sr.cfg.FeeRecipient(), feeValue); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrTransferFailed, err))
		}
	}
	if net.Sign() > 0 {
		netValue, _ := uint256.FromBig(net)
		if err := sr.st.TransferNative(RouterAddress, seller, netValue); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrTransferFailed, err))
		}
	}

	sr.events.Emit(TokenSold{
		Seller:    seller,
		Token:     tokenAddr,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: new(big.Int).Set(net),
		Fee:       new(big.Int).Set(fee),
	})
	return net, nil
}

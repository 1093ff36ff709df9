// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/huksdotfun/bsc-contracts/amm"
)

// PendingFees is a read-only preview of the fees a locked position would pay
// out if claimed now, in both pool currencies, with the creator/operator
// split applied.
type PendingFees struct {
	Amount0         *big.Int
	Amount1         *big.Int
	CreatorAmount0  *big.Int
	CreatorAmount1  *big.Int
	OperatorAmount0 *big.Int
	OperatorAmount1 *big.Int
}

func zeroPendingFees() PendingFees {
	return PendingFees{
		Amount0:         big.NewInt(0),
		Amount1:         big.NewInt(0),
		CreatorAmount0:  big.NewInt(0),
		CreatorAmount1:  big.NewInt(0),
		OperatorAmount0: big.NewInt(0),
		OperatorAmount1: big.NewInt(0),
	}
}

// FeeLedger computes pending fee entitlements for managed positions from pool
// state without mutating anything.
type FeeLedger struct {
	pm        *amm.PoolManager
	positions *amm.PositionManager
}

// NewFeeLedger creates a fee ledger over a pool and position manager pair.
func NewFeeLedger(pm *amm.PoolManager, positions *amm.PositionManager) *FeeLedger {
	return &FeeLedger{pm: pm, positions: positions}
}

// SplitFee divides a fee amount between creator and operator. The creator
// receives floor(amount * CreatorShareBps / BpsDenominator); the operator
// receives the remainder, so the two shares always sum to the input.
func SplitFee(amount *big.Int) (creator, operator *big.Int) {
	creator = new(big.Int).Mul(amount, big.NewInt(CreatorShareBps))
	creator.Div(creator, big.NewInt(BpsDenominator))
	operator = new(big.Int).Sub(amount, creator)
	return creator, operator
}

// PendingFees previews the claimable fees for a managed position. Unknown
// positions and positions with zero liquidity report all zeros.
func (fl *FeeLedger) PendingFees(positionID uint64) (PendingFees, error) {
	pos, err := fl.positions.Get(positionID)
	if err != nil {
		return zeroPendingFees(), nil
	}
	liquidity, last0, last1, err := fl.positions.PoolPositionState(positionID)
	if err != nil || liquidity.Sign() == 0 {
		return zeroPendingFees(), nil
	}

	inside0, inside1, err := fl.feeGrowthInside(pos.Key, pos.TickLower, pos.TickUpper)
	if err != nil {
		return zeroPendingFees(), err
	}

	amount0 := owedFromGrowth(inside0, last0, liquidity)
	amount1 := owedFromGrowth(inside1, last1, liquidity)

	creator0, operator0 := SplitFee(amount0)
	creator1, operator1 := SplitFee(amount1)
	return PendingFees{
		Amount0:         amount0,
		Amount1:         amount1,
		CreatorAmount0:  creator0,
		CreatorAmount1:  creator1,
		OperatorAmount0: operator0,
		OperatorAmount1: operator1,
	}, nil
}

// feeGrowthInside reconstructs fee growth inside a range from the pool's
// public accessors. Growth accumulators are monotonic modulo 2^256, so all
// subtraction wraps; only differences are meaningful.
func (fl *FeeLedger) feeGrowthInside(key amm.PoolKey, tickLower, tickUpper int32) (*uint256.Int, *uint256.Int, error) {
	_, tick, err := fl.pm.Slot0(key)
	if err != nil {
		return nil, nil, err
	}
	global0, global1, err := fl.pm.FeeGrowthGlobal(key)
	if err != nil {
		return nil, nil, err
	}
	lowerOut0, lowerOut1, err := fl.pm.TickOutsideGrowth(key, tickLower)
	if err != nil {
		return nil, nil, err
	}
	upperOut0, upperOut1, err := fl.pm.TickOutsideGrowth(key, tickUpper)
	if err != nil {
		return nil, nil, err
	}

	var below0, below1 *uint256.Int
	if tick >= tickLower {
		below0, below1 = lowerOut0, lowerOut1
	} else {
		below0 = new(uint256.Int).Sub(global0, lowerOut0)
		below1 = new(uint256.Int).Sub(global1, lowerOut1)
	}

	var above0, above1 *uint256.Int
	if tick < tickUpper {
		above0, above1 = upperOut0, upperOut1
	} else {
		above0 = new(uint256.Int).Sub(global0, upperOut0)
		above1 = new(uint256.Int).Sub(global1, upperOut1)
	}

	inside0 := new(uint256.Int).Sub(global0, below0)
	inside0.Sub(inside0, above0)
	inside1 := new(uint256.Int).Sub(global1, below1)
	inside1.Sub(inside1, above1)
	return inside0, inside1, nil
}

// owedFromGrowth converts a fee-growth delta into a token amount.
func owedFromGrowth(inside, last *uint256.Int, liquidity *big.Int) *big.Int {
	delta := new(uint256.Int).Sub(inside, last)
	return amm.MulDiv(delta.ToBig(), liquidity, amm.Q128)
}

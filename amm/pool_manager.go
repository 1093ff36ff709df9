// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// StateDB is the host state the pool manager settles against.
type StateDB interface {
	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int)
	SubBalance(addr common.Address, amount *uint256.Int) error
	TransferNative(from, to common.Address, amount *uint256.Int) error
	Snapshot() int
	RevertToSnapshot(rev int)
	OnRevert(undo func())
}

// TokenLedger moves token balances on the pool manager's behalf.
type TokenLedger interface {
	BalanceOf(holder common.Address) *uint256.Int
	Transfer(from, to common.Address, amount *uint256.Int) error
}

// PoolManager is the singleton pool manager. All pools live in this single
// contract; token transfers during a locked callback are tracked as deltas
// and must net to zero before the lock returns.
type PoolManager struct {
	mu sync.Mutex

	// locked prevents re-entry into the lock scope.
	locked bool
	locker common.Address

	// currentDeltas tracks balance changes during callback execution.
	// Only valid within a Lock() callback, verified settled at the end.
	currentDeltas map[Currency]*big.Int

	pools     map[[32]byte]*Pool
	positions map[[32]byte]*PoolPosition

	// tokens resolves non-native currencies to their ledgers.
	tokens map[common.Address]TokenLedger
}

// NewPoolManager creates a new pool manager instance.
func NewPoolManager() *PoolManager {
	return &PoolManager{
		pools:     make(map[[32]byte]*Pool),
		positions: make(map[[32]byte]*PoolPosition),
		tokens:    make(map[common.Address]TokenLedger),
	}
}

// RegisterToken makes a token ledger known to the pool manager so its
// currency can be settled and taken.
func (pm *PoolManager) RegisterToken(addr common.Address, ledger TokenLedger) {
	pm.tokens[addr] = ledger
}

// UnregisterToken removes a token ledger binding. Used to unwind a failed
// launch.
func (pm *PoolManager) UnregisterToken(addr common.Address) {
	delete(pm.tokens, addr)
}

func (pm *PoolManager) ledgerFor(c Currency) (TokenLedger, error) {
	ledger, ok := pm.tokens[c.Address]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, c.Address.Hex())
	}
	return ledger, nil
}

// =========================================================================
// Pool Initialization
// =========================================================================

// Initialize creates and initializes a new pool at the given starting price.
// Returns the tick corresponding to that price.
func (pm *PoolManager) Initialize(st StateDB, key PoolKey, sqrtPriceX96 *big.Int) (int24, error) {
	if !areCurrenciesSorted(key.Currency0, key.Currency1) {
		return 0, ErrCurrencyNotSorted
	}
	if key.Fee > FeeMax {
		return 0, ErrInvalidFee
	}
	if key.TickSpacing <= 0 {
		return 0, ErrInvalidTickRange
	}
	if sqrtPriceX96 == nil || sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) > 0 {
		return 0, ErrInvalidSqrtPrice
	}
	for _, c := range []Currency{key.Currency0, key.Currency1} {
		if !c.IsNative() {
			if _, err := pm.ledgerFor(c); err != nil {
				return 0, err
			}
		}
	}

	poolId := key.ID()
	if pm.pools[poolId].IsInitialized() {
		return 0, ErrPoolAlreadyInitialized
	}

	tick, err := TickAtSqrtRatio(sqrtPriceX96)
	if err != nil {
		return 0, err
	}

	pool := &Pool{
		Key:                  key,
		SqrtPriceX96:         new(big.Int).Set(sqrtPriceX96),
		Tick:                 tick,
		Liquidity:            big.NewInt(0),
		FeeGrowthGlobal0X128: uint256.NewInt(0),
		FeeGrowthGlobal1X128: uint256.NewInt(0),
		ticks:                make(map[int24]*TickInfo),
	}
	pm.pools[poolId] = pool
	st.OnRevert(func() { delete(pm.pools, poolId) })

	return tick, nil
}

// =========================================================================
// Flash Accounting - Lock/Settle/Take
// =========================================================================

// Lock opens a callback-scoped settlement context for caller and invokes fn
// exactly once. Swaps and liquidity changes made inside fn accrue balance
// deltas; every delta must be brought to zero via Settle/Take before fn
// returns, otherwise the lock fails.
func (pm *PoolManager) Lock(st StateDB, caller common.Address, fn func() error) error {
	pm.mu.Lock()
	if pm.locked {
		pm.mu.Unlock()
		return ErrReentrant
	}
	pm.locked = true
	pm.mu.Unlock()

	pm.locker = caller
	pm.currentDeltas = make(map[Currency]*big.Int)

	defer func() {
		pm.mu.Lock()
		pm.locked = false
		pm.mu.Unlock()
		pm.locker = common.Address{}
		pm.currentDeltas = nil
	}()

	if err := fn(); err != nil {
		return err
	}
	return pm.verifySettlement()
}

// verifySettlement ensures every delta accrued under the lock is zero.
func (pm *PoolManager) verifySettlement() error {
	for currency, delta := range pm.currentDeltas {
		if delta.Sign() != 0 {
			return fmt.Errorf("%w: currency=%s delta=%s",
				ErrNonZeroDelta, currency.Address.Hex(), delta.String())
		}
	}
	return nil
}

func (pm *PoolManager) requireLocker() (common.Address, error) {
	if !pm.locked || pm.locker == (common.Address{}) {
		return common.Address{}, ErrUnauthorized
	}
	return pm.locker, nil
}

// updateDelta accrues a signed balance change for the current locker.
func (pm *PoolManager) updateDelta(currency Currency, delta *big.Int) {
	current, ok := pm.currentDeltas[currency]
	if !ok {
		current = big.NewInt(0)
	}
	pm.currentDeltas[currency] = new(big.Int).Add(current, delta)
}

// Settle pays `amount` of a currency from the locker to the pool, reducing
// what the locker owes.
func (pm *PoolManager) Settle(st StateDB, currency Currency, amount *big.Int) error {
	locker, err := pm.requireLocker()
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	pm.updateDelta(currency, new(big.Int).Neg(amount))

	amountU256, overflow := uint256.FromBig(amount)
	if overflow {
		return ErrInvalidAmount
	}
	if currency.IsNative() {
		return st.TransferNative(locker, PoolManagerAddress, amountU256)
	}
	ledger, err := pm.ledgerFor(currency)
	if err != nil {
		return err
	}
	return ledger.Transfer(locker, PoolManagerAddress, amountU256)
}

// Take withdraws `amount` of a currency the pool owes, sending it to `to`.
func (pm *PoolManager) Take(st StateDB, currency Currency, to common.Address, amount *big.Int) error {
	if _, err := pm.requireLocker(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	pm.updateDelta(currency, amount)

	amountU256, overflow := uint256.FromBig(amount)
	if overflow {
		return ErrInvalidAmount
	}
	if currency.IsNative() {
		return st.TransferNative(PoolManagerAddress, to, amountU256)
	}
	ledger, err := pm.ledgerFor(currency)
	if err != nil {
		return err
	}
	return ledger.Transfer(PoolManagerAddress, to, amountU256)
}

// Sync reconciles tracked reserves with the actual balance of a currency.
// Reserves are tracked exactly in this implementation, so there is nothing
// to reconcile; the primitive exists for interface parity with the chain
// deployment.
func (pm *PoolManager) Sync(st StateDB, currency Currency) error {
	if currency.IsNative() {
		return nil
	}
	_, err := pm.ledgerFor(currency)
	return err
}

// =========================================================================
// Swaps
// =========================================================================

// Swap executes an exact-input swap under the current lock and returns the
// signed deltas (positive = locker owes pool). The swap walks initialized
// ticks, accrues LP fees into the growth accumulators, and stops at the
// price limit or when the input is consumed.
func (pm *PoolManager) Swap(st StateDB, key PoolKey, params SwapParams) (BalanceDelta, error) {
	if _, err := pm.requireLocker(); err != nil {
		return ZeroBalanceDelta(), err
	}
	if params.AmountSpecified == nil || params.AmountSpecified.Sign() <= 0 {
		return ZeroBalanceDelta(), ErrInvalidAmount
	}

	pool := pm.pools[key.ID()]
	if !pool.IsInitialized() {
		return ZeroBalanceDelta(), ErrPoolNotInitialized
	}

	limit := params.SqrtPriceLimitX96
	if limit == nil {
		if params.ZeroForOne {
			limit = new(big.Int).Add(MinSqrtRatio, big.NewInt(1))
		} else {
			limit = new(big.Int).Sub(MaxSqrtRatio, big.NewInt(1))
		}
	}
	if params.ZeroForOne {
		if limit.Cmp(pool.SqrtPriceX96) >= 0 || limit.Cmp(MinSqrtRatio) <= 0 {
			return ZeroBalanceDelta(), ErrInvalidPriceLimit
		}
	} else {
		if limit.Cmp(pool.SqrtPriceX96) <= 0 || limit.Cmp(MaxSqrtRatio) >= 0 {
			return ZeroBalanceDelta(), ErrInvalidPriceLimit
		}
	}

	pm.journalPool(st, key.ID(), pool)

	feePips := new(big.Int).SetUint64(uint64(key.Fee))
	million := big.NewInt(1_000_000)
	millionLessFee := new(big.Int).Sub(million, feePips)

	remaining := new(big.Int).Set(params.AmountSpecified)
	grossIn := big.NewInt(0)
	totalOut := big.NewInt(0)
	sqrtP := new(big.Int).Set(pool.SqrtPriceX96)

	for remaining.Sign() > 0 && sqrtP.Cmp(limit) != 0 {
		// Find the next initialized tick in the swap direction; the step
		// target is its price, bounded by the caller's limit.
		target := new(big.Int).Set(limit)
		crossTick, haveCross := pm.nextInitializedTick(pool, pool.Tick, params.ZeroForOne)
		if haveCross {
			ts, err := SqrtRatioAtTick(crossTick)
			if err != nil {
				return ZeroBalanceDelta(), err
			}
			if params.ZeroForOne {
				if ts.Cmp(target) > 0 {
					target = ts
				} else {
					haveCross = false
				}
			} else {
				if ts.Cmp(target) < 0 {
					target = ts
				} else {
					haveCross = false
				}
			}
		}

		if pool.Liquidity.Sign() == 0 {
			// No active liquidity: price jumps to the target without
			// consuming input.
			sqrtP.Set(target)
		} else {
			var maxIn *big.Int
			if params.ZeroForOne {
				maxIn = Amount0Delta(target, sqrtP, pool.Liquidity, true)
			} else {
				maxIn = Amount1Delta(sqrtP, target, pool.Liquidity, true)
			}

			netAvailable := MulDiv(remaining, millionLessFee, million)

			var inUsed, feePaid *big.Int
			if netAvailable.Cmp(maxIn) >= 0 {
				// Step reaches the target price.
				inUsed = maxIn
				feePaid = MulDivRoundingUp(inUsed, feePips, millionLessFee)
				sqrtP.Set(target)
			} else {
				inUsed = netAvailable
				feePaid = new(big.Int).Sub(remaining, inUsed)
				if params.ZeroForOne {
					sqrtP = nextSqrtPriceFromAmount0(sqrtP, pool.Liquidity, inUsed)
					if sqrtP.Cmp(target) < 0 {
						sqrtP.Set(target)
					}
				} else {
					sqrtP = nextSqrtPriceFromAmount1(sqrtP, pool.Liquidity, inUsed)
					if sqrtP.Cmp(target) > 0 {
						sqrtP.Set(target)
					}
				}
			}

			var out *big.Int
			if params.ZeroForOne {
				out = Amount1Delta(sqrtP, pool.SqrtPriceX96, pool.Liquidity, false)
			} else {
				out = Amount0Delta(pool.SqrtPriceX96, sqrtP, pool.Liquidity, false)
			}
			totalOut.Add(totalOut, out)

			consumed := new(big.Int).Add(inUsed, feePaid)
			if consumed.Cmp(remaining) > 0 {
				consumed.Set(remaining)
			}
			grossIn.Add(grossIn, consumed)
			remaining.Sub(remaining, consumed)

			// LP fee accrues to the input-side growth accumulator.
			if feePaid.Sign() > 0 {
				growth := new(big.Int).Lsh(feePaid, 128)
				growth.Div(growth, pool.Liquidity)
				g, _ := uint256.FromBig(growth)
				if params.ZeroForOne {
					pool.FeeGrowthGlobal0X128 = new(uint256.Int).Add(pool.FeeGrowthGlobal0X128, g)
				} else {
					pool.FeeGrowthGlobal1X128 = new(uint256.Int).Add(pool.FeeGrowthGlobal1X128, g)
				}
			}
		}

		pool.SqrtPriceX96 = new(big.Int).Set(sqrtP)

		if haveCross && sqrtP.Cmp(target) == 0 {
			pm.crossTick(st, pool, crossTick, params.ZeroForOne)
			if params.ZeroForOne {
				pool.Tick = crossTick - 1
			} else {
				pool.Tick = crossTick
			}
			continue
		}

		tick, err := TickAtSqrtRatio(sqrtP)
		if err != nil {
			return ZeroBalanceDelta(), err
		}
		pool.Tick = tick

		if pool.Liquidity.Sign() == 0 && !haveCross {
			// Nothing left to trade against.
			break
		}
	}

	var delta BalanceDelta
	if params.ZeroForOne {
		delta = NewBalanceDelta(grossIn, new(big.Int).Neg(totalOut))
	} else {
		delta = NewBalanceDelta(new(big.Int).Neg(totalOut), grossIn)
	}
	pm.updateDelta(key.Currency0, delta.Amount0)
	pm.updateDelta(key.Currency1, delta.Amount1)

	return delta, nil
}

// crossTick flips a tick's outside fee growth and applies its net liquidity.
func (pm *PoolManager) crossTick(st StateDB, pool *Pool, tick int24, zeroForOne bool) {
	info, ok := pool.ticks[tick]
	if !ok {
		return
	}
	pm.journalTick(st, pool, tick)
	info = pool.ticks[tick]

	info.FeeGrowthOutside0X128 = new(uint256.Int).Sub(pool.FeeGrowthGlobal0X128, info.FeeGrowthOutside0X128)
	info.FeeGrowthOutside1X128 = new(uint256.Int).Sub(pool.FeeGrowthGlobal1X128, info.FeeGrowthOutside1X128)

	if zeroForOne {
		pool.Liquidity = new(big.Int).Sub(pool.Liquidity, info.LiquidityNet)
	} else {
		pool.Liquidity = new(big.Int).Add(pool.Liquidity, info.LiquidityNet)
	}
}

// nextInitializedTick returns the next initialized tick at or below `tick`
// when moving down (zeroForOne), or strictly above it when moving up.
func (pm *PoolManager) nextInitializedTick(pool *Pool, tick int24, zeroForOne bool) (int24, bool) {
	if zeroForOne {
		idx := sort.Search(len(pool.tickList), func(i int) bool { return pool.tickList[i] > tick })
		if idx == 0 {
			return 0, false
		}
		return pool.tickList[idx-1], true
	}
	idx := sort.Search(len(pool.tickList), func(i int) bool { return pool.tickList[i] > tick })
	if idx == len(pool.tickList) {
		return 0, false
	}
	return pool.tickList[idx], true
}

// =========================================================================
// Liquidity
// =========================================================================

// ModifyLiquidity adds or removes liquidity under the current lock. It
// returns the caller's principal delta and the fees realized for the
// position; both are credited against the locker's running deltas, so
// realized fees become takeable immediately.
func (pm *PoolManager) ModifyLiquidity(st StateDB, key PoolKey, params ModifyLiquidityParams) (BalanceDelta, BalanceDelta, error) {
	locker, err := pm.requireLocker()
	if err != nil {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), err
	}

	if params.TickLower >= params.TickUpper {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), ErrInvalidTickRange
	}
	if params.TickLower < MinTick || params.TickUpper > MaxTick {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), ErrTickOutOfRange
	}
	if params.TickLower%key.TickSpacing != 0 || params.TickUpper%key.TickSpacing != 0 {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), ErrInvalidTickRange
	}
	if params.LiquidityDelta == nil {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), ErrInvalidAmount
	}

	pool := pm.pools[key.ID()]
	if !pool.IsInitialized() {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), ErrPoolNotInitialized
	}

	pm.journalPool(st, key.ID(), pool)

	posKey := poolPositionKey(locker, params.TickLower, params.TickUpper, params.Salt)
	pos := pm.getPosition(st, posKey)

	deltaL := params.LiquidityDelta
	if deltaL.Sign() < 0 && pos.Liquidity.Cmp(new(big.Int).Neg(deltaL)) < 0 {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), ErrInsufficientLiquidity
	}

	if deltaL.Sign() != 0 {
		pm.updateTick(st, pool, params.TickLower, deltaL, false)
		pm.updateTick(st, pool, params.TickUpper, deltaL, true)
	}

	// Realize fees accrued since the position's last snapshot.
	inside0, inside1 := pm.feeGrowthInside(pool, params.TickLower, params.TickUpper)
	owed0 := owedFromGrowth(inside0, pos.FeeGrowthInside0LastX128, pos.Liquidity)
	owed1 := owedFromGrowth(inside1, pos.FeeGrowthInside1LastX128, pos.Liquidity)
	pos.FeeGrowthInside0LastX128 = inside0
	pos.FeeGrowthInside1LastX128 = inside1
	pos.Liquidity = new(big.Int).Add(pos.Liquidity, deltaL)

	sqrtLower, err := SqrtRatioAtTick(params.TickLower)
	if err != nil {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), err
	}
	sqrtUpper, err := SqrtRatioAtTick(params.TickUpper)
	if err != nil {
		return ZeroBalanceDelta(), ZeroBalanceDelta(), err
	}

	// Principal amounts spanned by the liquidity change. Deposits round up,
	// withdrawals round down, so the pool never pays out more than it holds.
	adding := deltaL.Sign() > 0
	absL := new(big.Int).Abs(deltaL)
	amount0 := big.NewInt(0)
	amount1 := big.NewInt(0)
	switch {
	case pool.SqrtPriceX96.Cmp(sqrtLower) <= 0:
		amount0 = Amount0Delta(sqrtLower, sqrtUpper, absL, adding)
	case pool.SqrtPriceX96.Cmp(sqrtUpper) < 0:
		amount0 = Amount0Delta(pool.SqrtPriceX96, sqrtUpper, absL, adding)
		amount1 = Amount1Delta(sqrtLower, pool.SqrtPriceX96, absL, adding)
		pool.Liquidity = new(big.Int).Add(pool.Liquidity, deltaL)
	default:
		amount1 = Amount1Delta(sqrtLower, sqrtUpper, absL, adding)
	}
	if !adding {
		amount0.Neg(amount0)
		amount1.Neg(amount1)
	}

	callerDelta := NewBalanceDelta(amount0, amount1)
	feesAccrued := NewBalanceDelta(new(big.Int).Neg(owed0), new(big.Int).Neg(owed1))

	pm.updateDelta(key.Currency0, new(big.Int).Add(callerDelta.Amount0, feesAccrued.Amount0))
	pm.updateDelta(key.Currency1, new(big.Int).Add(callerDelta.Amount1, feesAccrued.Amount1))

	return callerDelta, feesAccrued, nil
}

// owedFromGrowth converts a fee-growth-inside delta into a token amount.
// The subtraction wraps modulo 2^256, matching the accumulator arithmetic.
func owedFromGrowth(inside, last *uint256.Int, liquidity *big.Int) *big.Int {
	if liquidity == nil || liquidity.Sign() <= 0 {
		return big.NewInt(0)
	}
	delta := new(uint256.Int).Sub(inside, last)
	return MulDiv(delta.ToBig(), liquidity, Q128)
}

// updateTick applies a liquidity change to one boundary tick, initializing
// or clearing it as its gross liquidity crosses zero.
func (pm *PoolManager) updateTick(st StateDB, pool *Pool, tick int24, deltaL *big.Int, upper bool) {
	pm.journalTick(st, pool, tick)

	info, ok := pool.ticks[tick]
	if !ok {
		info = &TickInfo{
			LiquidityGross:        big.NewInt(0),
			LiquidityNet:          big.NewInt(0),
			FeeGrowthOutside0X128: uint256.NewInt(0),
			FeeGrowthOutside1X128: uint256.NewInt(0),
		}
		// Convention: ticks at or below the current price start with the
		// full global growth on their outside.
		if tick <= pool.Tick {
			info.FeeGrowthOutside0X128 = new(uint256.Int).Set(pool.FeeGrowthGlobal0X128)
			info.FeeGrowthOutside1X128 = new(uint256.Int).Set(pool.FeeGrowthGlobal1X128)
		}
		pool.ticks[tick] = info
		pm.insertTick(pool, tick)
	}

	info.LiquidityGross = new(big.Int).Add(info.LiquidityGross, deltaL)
	if upper {
		info.LiquidityNet = new(big.Int).Sub(info.LiquidityNet, deltaL)
	} else {
		info.LiquidityNet = new(big.Int).Add(info.LiquidityNet, deltaL)
	}

	if info.LiquidityGross.Sign() == 0 {
		delete(pool.ticks, tick)
		pm.removeTick(pool, tick)
	}
}

func (pm *PoolManager) insertTick(pool *Pool, tick int24) {
	idx := sort.Search(len(pool.tickList), func(i int) bool { return pool.tickList[i] >= tick })
	if idx < len(pool.tickList) && pool.tickList[idx] == tick {
		return
	}
	pool.tickList = append(pool.tickList, 0)
	copy(pool.tickList[idx+1:], pool.tickList[idx:])
	pool.tickList[idx] = tick
}

func (pm *PoolManager) removeTick(pool *Pool, tick int24) {
	idx := sort.Search(len(pool.tickList), func(i int) bool { return pool.tickList[i] >= tick })
	if idx < len(pool.tickList) && pool.tickList[idx] == tick {
		pool.tickList = append(pool.tickList[:idx], pool.tickList[idx+1:]...)
	}
}

// feeGrowthInside computes growth inside a tick range using the three-region
// decomposition. All arithmetic is modulo 2^256.
func (pm *PoolManager) feeGrowthInside(pool *Pool, tickLower, tickUpper int24) (*uint256.Int, *uint256.Int) {
	lower := pool.ticks[tickLower]
	upper := pool.ticks[tickUpper]

	zero := uint256.NewInt(0)
	lowerOut0, lowerOut1 := zero, zero
	if lower != nil {
		lowerOut0, lowerOut1 = lower.FeeGrowthOutside0X128, lower.FeeGrowthOutside1X128
	}
	upperOut0, upperOut1 := zero, zero
	if upper != nil {
		upperOut0, upperOut1 = upper.FeeGrowthOutside0X128, upper.FeeGrowthOutside1X128
	}

	var below0, below1 *uint256.Int
	if pool.Tick >= tickLower {
		below0, below1 = lowerOut0, lowerOut1
	} else {
		below0 = new(uint256.Int).Sub(pool.FeeGrowthGlobal0X128, lowerOut0)
		below1 = new(uint256.Int).Sub(pool.FeeGrowthGlobal1X128, lowerOut1)
	}

	var above0, above1 *uint256.Int
	if pool.Tick < tickUpper {
		above0, above1 = upperOut0, upperOut1
	} else {
		above0 = new(uint256.Int).Sub(pool.FeeGrowthGlobal0X128, upperOut0)
		above1 = new(uint256.Int).Sub(pool.FeeGrowthGlobal1X128, upperOut1)
	}

	inside0 := new(uint256.Int).Sub(pool.FeeGrowthGlobal0X128, below0)
	inside0.Sub(inside0, above0)
	inside1 := new(uint256.Int).Sub(pool.FeeGrowthGlobal1X128, below1)
	inside1.Sub(inside1, above1)
	return inside0, inside1
}

// =========================================================================
// Journaling
// =========================================================================

// journalPool records an undo entry restoring a pool's scalar state.
func (pm *PoolManager) journalPool(st StateDB, poolId [32]byte, pool *Pool) {
	prevSqrt := new(big.Int).Set(pool.SqrtPriceX96)
	prevTick := pool.Tick
	prevLiq := new(big.Int).Set(pool.Liquidity)
	prevG0 := new(uint256.Int).Set(pool.FeeGrowthGlobal0X128)
	prevG1 := new(uint256.Int).Set(pool.FeeGrowthGlobal1X128)
	st.OnRevert(func() {
		pool.SqrtPriceX96 = prevSqrt
		pool.Tick = prevTick
		pool.Liquidity = prevLiq
		pool.FeeGrowthGlobal0X128 = prevG0
		pool.FeeGrowthGlobal1X128 = prevG1
	})
}

// journalTick records an undo entry restoring one tick and the tick list.
func (pm *PoolManager) journalTick(st StateDB, pool *Pool, tick int24) {
	prevList := append([]int24(nil), pool.tickList...)
	info, existed := pool.ticks[tick]
	var prev *TickInfo
	if existed {
		prev = &TickInfo{
			LiquidityGross:        new(big.Int).Set(info.LiquidityGross),
			LiquidityNet:          new(big.Int).Set(info.LiquidityNet),
			FeeGrowthOutside0X128: new(uint256.Int).Set(info.FeeGrowthOutside0X128),
			FeeGrowthOutside1X128: new(uint256.Int).Set(info.FeeGrowthOutside1X128),
		}
	}
	st.OnRevert(func() {
		pool.tickList = prevList
		if existed {
			pool.ticks[tick] = prev
		} else {
			delete(pool.ticks, tick)
		}
	})
}

// getPosition loads a position, journaling its prior state.
func (pm *PoolManager) getPosition(st StateDB, posKey [32]byte) *PoolPosition {
	pos, existed := pm.positions[posKey]
	if !existed {
		pos = &PoolPosition{
			Liquidity:                big.NewInt(0),
			FeeGrowthInside0LastX128: uint256.NewInt(0),
			FeeGrowthInside1LastX128: uint256.NewInt(0),
		}
		pm.positions[posKey] = pos
		st.OnRevert(func() { delete(pm.positions, posKey) })
		return pos
	}
	prev := &PoolPosition{
		Liquidity:                new(big.Int).Set(pos.Liquidity),
		FeeGrowthInside0LastX128: new(uint256.Int).Set(pos.FeeGrowthInside0LastX128),
		FeeGrowthInside1LastX128: new(uint256.Int).Set(pos.FeeGrowthInside1LastX128),
	}
	st.OnRevert(func() { pm.positions[posKey] = prev })
	return pos
}

// =========================================================================
// View Functions
// =========================================================================

// Slot0 returns a pool's current sqrt price and tick.
func (pm *PoolManager) Slot0(key PoolKey) (*big.Int, int24, error) {
	pool := pm.pools[key.ID()]
	if !pool.IsInitialized() {
		return nil, 0, ErrPoolNotInitialized
	}
	return new(big.Int).Set(pool.SqrtPriceX96), pool.Tick, nil
}

// PoolLiquidity returns a pool's active in-range liquidity.
func (pm *PoolManager) PoolLiquidity(key PoolKey) (*big.Int, error) {
	pool := pm.pools[key.ID()]
	if !pool.IsInitialized() {
		return nil, ErrPoolNotInitialized
	}
	return new(big.Int).Set(pool.Liquidity), nil
}

// FeeGrowthGlobal returns a pool's cumulative fee growth accumulators.
func (pm *PoolManager) FeeGrowthGlobal(key PoolKey) (*uint256.Int, *uint256.Int, error) {
	pool := pm.pools[key.ID()]
	if !pool.IsInitialized() {
		return nil, nil, ErrPoolNotInitialized
	}
	return new(uint256.Int).Set(pool.FeeGrowthGlobal0X128), new(uint256.Int).Set(pool.FeeGrowthGlobal1X128), nil
}

// TickOutsideGrowth returns a tick's outside fee growth markers. Uninitialized
// ticks read as zero.
func (pm *PoolManager) TickOutsideGrowth(key PoolKey, tick int24) (*uint256.Int, *uint256.Int, error) {
	pool := pm.pools[key.ID()]
	if !pool.IsInitialized() {
		return nil, nil, ErrPoolNotInitialized
	}
	info, ok := pool.ticks[tick]
	if !ok {
		return uint256.NewInt(0), uint256.NewInt(0), nil
	}
	return new(uint256.Int).Set(info.FeeGrowthOutside0X128), new(uint256.Int).Set(info.FeeGrowthOutside1X128), nil
}

// PositionState returns a position's liquidity and fee-growth snapshot.
// Unknown positions read as empty.
func (pm *PoolManager) PositionState(key PoolKey, owner common.Address, tickLower, tickUpper int24, salt [32]byte) (*big.Int, *uint256.Int, *uint256.Int) {
	pos, ok := pm.positions[poolPositionKey(owner, tickLower, tickUpper, salt)]
	if !ok {
		return big.NewInt(0), uint256.NewInt(0), uint256.NewInt(0)
	}
	return new(big.Int).Set(pos.Liquidity),
		new(uint256.Int).Set(pos.FeeGrowthInside0LastX128),
		new(uint256.Int).Set(pos.FeeGrowthInside1LastX128)
}

// CurrentDelta returns the locker's running delta for a currency. Only
// meaningful inside a Lock callback.
func (pm *PoolManager) CurrentDelta(currency Currency) *big.Int {
	if pm.currentDeltas == nil {
		return big.NewInt(0)
	}
	delta, ok := pm.currentDeltas[currency]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(delta)
}

// areCurrenciesSorted returns true if currencies are properly ordered.
func areCurrenciesSorted(c0, c1 Currency) bool {
	return bytes.Compare(c0.Address.Bytes(), c1.Address.Bytes()) < 0
}

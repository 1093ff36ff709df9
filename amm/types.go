// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amm implements the singleton concentrated-liquidity pool manager the
// launchpad trades against: flash accounting with a lock/settle/take protocol,
// Q64.96 price math, and per-tick fee-growth accounting.
package amm

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/zeebo/blake3"
)

// Contract account addresses. The pool manager custodies all pool reserves;
// the position manager custodies minted positions.
var (
	PoolManagerAddress     = common.HexToAddress("0x0000000000000000000000000000000000009010")
	PositionManagerAddress = common.HexToAddress("0x0000000000000000000000000000000000009011")
)

// Fee tiers (per-million) and their tick spacings.
const (
	Fee001 uint24 = 100
	Fee005 uint24 = 500
	Fee030 uint24 = 3000
	Fee100 uint24 = 10000
	FeeMax uint24 = 100000
)

const (
	TickSpacing001 int24 = 1
	TickSpacing005 int24 = 10
	TickSpacing030 int24 = 60
	TickSpacing100 int24 = 200
)

// uint24 type alias for fees
type uint24 = uint32

// int24 type alias for ticks
type int24 = int32

// Currency represents a pool asset (native BNB or a BEP20 token).
// Address(0) represents native BNB.
type Currency struct {
	Address common.Address
}

// NativeCurrency represents native BNB (no wrapping needed).
var NativeCurrency = Currency{Address: common.Address{}}

// IsNative returns true if this currency is native BNB.
func (c Currency) IsNative() bool {
	return c.Address == common.Address{}
}

// ToBytes serializes the currency for hashing.
func (c Currency) ToBytes() []byte {
	return c.Address.Bytes()
}

// PoolKey uniquely identifies a pool.
// Sorted by currency address (currency0 < currency1); native BNB is
// address(0) and therefore always currency0.
type PoolKey struct {
	Currency0   Currency
	Currency1   Currency
	Fee         uint24 // LP fee, per-million
	TickSpacing int24
}

// ID computes the unique pool identifier.
func (pk PoolKey) ID() [32]byte {
	h := blake3.New()
	h.Write(pk.Currency0.ToBytes())
	h.Write(pk.Currency1.ToBytes())

	var feeBytes [4]byte
	binary.BigEndian.PutUint32(feeBytes[:], uint32(pk.Fee))
	h.Write(feeBytes[1:]) // uint24

	var tickBytes [4]byte
	binary.BigEndian.PutUint32(tickBytes[:], uint32(pk.TickSpacing))
	h.Write(tickBytes[1:]) // int24

	var id [32]byte
	h.Digest().Read(id[:])
	return id
}

// BalanceDelta represents the net asset changes during a locked settlement.
// Positive = owed to the pool, negative = owed to the locker.
type BalanceDelta struct {
	Amount0 *big.Int
	Amount1 *big.Int
}

// NewBalanceDelta creates a new balance delta.
func NewBalanceDelta(amount0, amount1 *big.Int) BalanceDelta {
	return BalanceDelta{
		Amount0: new(big.Int).Set(amount0),
		Amount1: new(big.Int).Set(amount1),
	}
}

// ZeroBalanceDelta returns a zero balance delta.
func ZeroBalanceDelta() BalanceDelta {
	return BalanceDelta{
		Amount0: big.NewInt(0),
		Amount1: big.NewInt(0),
	}
}

// IsZero returns true if both amounts are zero.
func (bd BalanceDelta) IsZero() bool {
	return bd.Amount0.Sign() == 0 && bd.Amount1.Sign() == 0
}

// Pool holds the full state of one pool.
type Pool struct {
	Key          PoolKey
	SqrtPriceX96 *big.Int // sqrt(price) * 2^96 (Q64.96)
	Tick         int24    // Current tick
	Liquidity    *big.Int // Active in-range liquidity

	// Fee growth per unit liquidity, Q128, monotonically increasing
	// modulo 2^256.
	FeeGrowthGlobal0X128 *uint256.Int
	FeeGrowthGlobal1X128 *uint256.Int

	ticks    map[int24]*TickInfo
	tickList []int24 // sorted initialized ticks
}

// IsInitialized returns true if the pool has been initialized.
func (p *Pool) IsInitialized() bool {
	return p != nil && p.SqrtPriceX96 != nil && p.SqrtPriceX96.Sign() > 0
}

// TickInfo holds per-tick liquidity bookkeeping.
type TickInfo struct {
	LiquidityGross *big.Int
	LiquidityNet   *big.Int // added when crossing left-to-right

	// Fee growth on the other side of this tick from the current price,
	// relative to the global accumulators (mod 2^256).
	FeeGrowthOutside0X128 *uint256.Int
	FeeGrowthOutside1X128 *uint256.Int
}

// PoolPosition is a liquidity position tracked inside the pool manager.
type PoolPosition struct {
	Liquidity                *big.Int
	FeeGrowthInside0LastX128 *uint256.Int
	FeeGrowthInside1LastX128 *uint256.Int
}

// poolPositionKey computes the unique position identifier within a pool.
func poolPositionKey(owner common.Address, tickLower, tickUpper int24, salt [32]byte) [32]byte {
	h := blake3.New()
	h.Write(owner.Bytes())

	var tickBytes [8]byte
	binary.BigEndian.PutUint32(tickBytes[:4], uint32(tickLower))
	binary.BigEndian.PutUint32(tickBytes[4:], uint32(tickUpper))
	h.Write(tickBytes[:])
	h.Write(salt[:])

	var key [32]byte
	h.Digest().Read(key[:])
	return key
}

// SwapParams contains parameters for a swap. Only exact-input swaps are
// supported: AmountSpecified is the gross input amount.
type SwapParams struct {
	ZeroForOne        bool
	AmountSpecified   *big.Int
	SqrtPriceLimitX96 *big.Int
}

// ModifyLiquidityParams contains parameters for adding/removing liquidity.
type ModifyLiquidityParams struct {
	TickLower      int24
	TickUpper      int24
	LiquidityDelta *big.Int // Positive = add, Negative = remove
	Salt           [32]byte
}

// Errors
var (
	ErrPoolNotInitialized     = errors.New("pool not initialized")
	ErrPoolAlreadyInitialized = errors.New("pool already initialized")
	ErrInvalidTickRange       = errors.New("invalid tick range")
	ErrInvalidFee             = errors.New("invalid fee")
	ErrCurrencyNotSorted      = errors.New("currencies not sorted")
	ErrInvalidSqrtPrice       = errors.New("invalid sqrt price")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidPriceLimit      = errors.New("invalid price limit")
	ErrTickOutOfRange         = errors.New("tick out of range")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrReentrant              = errors.New("reentrancy detected")
	ErrNonZeroDelta           = errors.New("non-zero balance delta after settlement")
	ErrUnknownCurrency        = errors.New("unknown currency")
	ErrInsufficientLiquidity  = errors.New("insufficient position liquidity")
	ErrPositionNotFound       = errors.New("position not found")
	ErrUnknownCommand         = errors.New("unknown batch command")
)

// Constants for math
var (
	Q96  = new(big.Int).Lsh(big.NewInt(1), 96)
	Q128 = new(big.Int).Lsh(big.NewInt(1), 128)

	MinSqrtRatio    = new(big.Int).SetUint64(4295128739)
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)
)

const (
	MinTick int24 = -887272
	MaxTick int24 = 887272
)

// MinUsableTick returns the lowest tick usable at the given tick spacing.
func MinUsableTick(tickSpacing int24) int24 {
	return (MinTick / tickSpacing) * tickSpacing
}

// MaxUsableTick returns the highest tick usable at the given tick spacing.
func MaxUsableTick(tickSpacing int24) int24 {
	return (MaxTick / tickSpacing) * tickSpacing
}

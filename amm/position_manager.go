// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ManagedPosition is a numbered liquidity position custodied by the position
// manager on behalf of its owner.
type ManagedPosition struct {
	ID        uint64
	Owner     common.Address
	Key       PoolKey
	TickLower int24
	TickUpper int24
}

// Batch commands executed by PositionManager.Execute inside one pool lock.
type (
	// MintPosition mints liquidity over a tick range and assigns the new
	// position to Recipient.
	MintPosition struct {
		Key       PoolKey
		TickLower int24
		TickUpper int24
		Liquidity *big.Int
		Recipient common.Address
	}

	// SettleCurrency pays the pool what is owed in one currency from the
	// position manager's own balance.
	SettleCurrency struct {
		Currency Currency
		Amount   *big.Int
	}

	// Sweep returns the position manager's remaining balance of a currency
	// to a recipient, typically deposit dust after a settle.
	Sweep struct {
		Currency Currency
		To       common.Address
	}

	// DecreaseLiquidity removes liquidity from a position. A zero decrease
	// still realizes accrued fees into the locker's deltas.
	DecreaseLiquidity struct {
		PositionID uint64
		Liquidity  *big.Int
	}

	// TakePair withdraws everything the pool currently owes in both of a
	// pool's currencies to a recipient.
	TakePair struct {
		Key PoolKey
		To  common.Address
	}
)

// PositionManager custodies numbered liquidity positions and executes batched
// pool instructions inside a single lock.
type PositionManager struct {
	pm        *PoolManager
	nextID    uint64
	positions map[uint64]*ManagedPosition
}

// NewPositionManager creates a position manager bound to a pool manager.
func NewPositionManager(pm *PoolManager) *PositionManager {
	return &PositionManager{
		pm:        pm,
		nextID:    1,
		positions: make(map[uint64]*ManagedPosition),
	}
}

// NextPositionID returns the id the next minted position will receive.
func (po *PositionManager) NextPositionID() uint64 {
	return po.nextID
}

// OwnerOf returns the owner of a position.
func (po *PositionManager) OwnerOf(id uint64) (common.Address, error) {
	pos, ok := po.positions[id]
	if !ok {
		return common.Address{}, ErrPositionNotFound
	}
	return pos.Owner, nil
}

// Get returns a managed position by id.
func (po *PositionManager) Get(id uint64) (*ManagedPosition, error) {
	pos, ok := po.positions[id]
	if !ok {
		return nil, ErrPositionNotFound
	}
	return pos, nil
}

// positionSalt derives the pool-level position salt from a managed id.
func positionSalt(id uint64) [32]byte {
	var salt [32]byte
	binary.BigEndian.PutUint64(salt[24:], id)
	return salt
}

// Execute runs a batch of commands inside one pool lock. All commands settle
// together: the lock fails unless every pool delta nets to zero by the end of
// the batch. Returns the ids of positions minted by the batch.
func (po *PositionManager) Execute(st StateDB, caller common.Address, commands []any) ([]uint64, error) {
	var minted []uint64

	err := po.pm.Lock(st, PositionManagerAddress, func() error {
		for _, raw := range commands {
			switch cmd := raw.(type) {
			case MintPosition:
				id, err := po.mint(st, cmd)
				if err != nil {
					return err
				}
				minted = append(minted, id)

			case SettleCurrency:
				if err := po.pm.Settle(st, cmd.Currency, cmd.Amount); err != nil {
					return err
				}

			case Sweep:
				if err := po.sweep(st, cmd); err != nil {
					return err
				}

			case DecreaseLiquidity:
				if err := po.decrease(st, caller, cmd); err != nil {
					return err
				}

			case TakePair:
				if err := po.takePair(st, cmd); err != nil {
					return err
				}

			default:
				return fmt.Errorf("%w: %T", ErrUnknownCommand, raw)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return minted, nil
}

func (po *PositionManager) mint(st StateDB, cmd MintPosition) (uint64, error) {
	if cmd.Liquidity == nil || cmd.Liquidity.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}

	id := po.nextID
	_, _, err := po.pm.ModifyLiquidity(st, cmd.Key, ModifyLiquidityParams{
		TickLower:      cmd.TickLower,
		TickUpper:      cmd.TickUpper,
		LiquidityDelta: cmd.Liquidity,
		Salt:           positionSalt(id),
	})
	if err != nil {
		return 0, err
	}

	pos := &ManagedPosition{
		ID:        id,
		Owner:     cmd.Recipient,
		Key:       cmd.Key,
		TickLower: cmd.TickLower,
		TickUpper: cmd.TickUpper,
	}
	po.positions[id] = pos
	po.nextID++
	st.OnRevert(func() {
		delete(po.positions, id)
		po.nextID = id
	})
	return id, nil
}

func (po *PositionManager) decrease(st StateDB, caller common.Address, cmd DecreaseLiquidity) error {
	pos, ok := po.positions[cmd.PositionID]
	if !ok {
		return ErrPositionNotFound
	}
	if pos.Owner != caller {
		return ErrUnauthorized
	}
	deltaL := big.NewInt(0)
	if cmd.Liquidity != nil {
		if cmd.Liquidity.Sign() < 0 {
			return ErrInvalidAmount
		}
		deltaL = new(big.Int).Neg(cmd.Liquidity)
	}
	_, _, err := po.pm.ModifyLiquidity(st, pos.Key, ModifyLiquidityParams{
		TickLower:      pos.TickLower,
		TickUpper:      pos.TickUpper,
		LiquidityDelta: deltaL,
		Salt:           positionSalt(pos.ID),
	})
	return err
}

func (po *PositionManager) takePair(st StateDB, cmd TakePair) error {
	for _, currency := range []Currency{cmd.Key.Currency0, cmd.Key.Currency1} {
		owed := po.pm.CurrentDelta(currency)
		if owed.Sign() < 0 {
			if err := po.pm.Take(st, currency, cmd.To, new(big.Int).Neg(owed)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (po *PositionManager) sweep(st StateDB, cmd Sweep) error {
	if cmd.Currency.IsNative() {
		balance := st.GetBalance(PositionManagerAddress)
		if balance.IsZero() {
			return nil
		}
		return st.TransferNative(PositionManagerAddress, cmd.To, balance)
	}
	ledger, err := po.pm.ledgerFor(cmd.Currency)
	if err != nil {
		return err
	}
	balance := ledger.BalanceOf(PositionManagerAddress)
	if balance.IsZero() {
		return nil
	}
	return ledger.Transfer(PositionManagerAddress, cmd.To, balance)
}

// PoolPositionState exposes the pool-level fee state backing a managed
// position: liquidity and the fee-growth-inside snapshot from its last
// realization.
func (po *PositionManager) PoolPositionState(id uint64) (*big.Int, *uint256.Int, *uint256.Int, error) {
	pos, ok := po.positions[id]
	if !ok {
		return nil, nil, nil, ErrPositionNotFound
	}
	liq, last0, last1 := po.pm.PositionState(pos.Key, PositionManagerAddress, pos.TickLower, pos.TickUpper, positionSalt(id))
	return liq, last0, last1, nil
}

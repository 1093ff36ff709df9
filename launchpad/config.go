// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/huksdotfun/bsc-contracts/amm"
)

// Fee arithmetic is in basis points.
const (
	BpsDenominator = 10000

	// CreatorShareBps is the creator's share of collected position fees;
	// the operator receives the remainder including any rounding loss.
	CreatorShareBps = 8000

	// MaxSwapFeeBps caps the protocol fee the router may skim per swap.
	MaxSwapFeeBps = 1000
)

// ProtocolConfig holds the mutable protocol parameters. All mutation goes
// through admin-gated setters; there is no ambient global state.
type ProtocolConfig struct {
	mu sync.RWMutex

	admin        common.Address
	operator     common.Address
	feeRecipient common.Address

	creationFee        *uint256.Int
	creationFeeEnabled bool

	swapFeeBps uint64

	poolFee         uint32
	tickSpacing     int32
	rangeMultiplier uint64
}

// NewProtocolConfig creates a config with the launchpad defaults: a 1% LP fee
// tier, a 100x price range, a 1% swap fee, and no creation fee.
func NewProtocolConfig(admin, operator, feeRecipient common.Address) *ProtocolConfig {
	return &ProtocolConfig{
		admin:           admin,
		operator:        operator,
		feeRecipient:    feeRecipient,
		creationFee:     uint256.NewInt(0),
		swapFeeBps:      100,
		poolFee:         amm.Fee100,
		tickSpacing:     amm.TickSpacing100,
		rangeMultiplier: 100,
	}
}

func (c *ProtocolConfig) requireAdmin(caller common.Address) error {
	if caller != c.admin {
		return fmt.Errorf("%w: caller is not admin", ErrUnauthorized)
	}
	return nil
}

// Admin returns the current admin.
func (c *ProtocolConfig) Admin() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.admin
}

// Operator returns the current protocol operator. Resolved at call time by
// fee distribution, never cached.
func (c *ProtocolConfig) Operator() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.operator
}

// FeeRecipient returns the current swap/creation fee recipient.
func (c *ProtocolConfig) FeeRecipient() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.feeRecipient
}

// CreationFee returns the launch fee and whether it is enabled.
func (c *ProtocolConfig) CreationFee() (*uint256.Int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return new(uint256.Int).Set(c.creationFee), c.creationFeeEnabled
}

// SwapFeeBps returns the protocol fee skimmed by the router.
func (c *ProtocolConfig) SwapFeeBps() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.swapFeeBps
}

// PoolFee returns the LP fee tier (per-million) used for launch pools.
func (c *ProtocolConfig) PoolFee() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.poolFee
}

// TickSpacing returns the tick spacing used for launch pools.
func (c *ProtocolConfig) TickSpacing() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickSpacing
}

// RangeMultiplier returns the price-range multiplier for launch positions.
func (c *ProtocolConfig) RangeMultiplier() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rangeMultiplier
}

// TransferAdmin hands the admin role to a new address.
func (c *ProtocolConfig) TransferAdmin(caller, newAdmin common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAdmin(caller); err != nil {
		return err
	}
	if newAdmin == (common.Address{}) {
		return fmt.Errorf("%w: zero admin", ErrInvalidArgument)
	}
	c.admin = newAdmin
	return nil
}

// SetOperator changes the protocol operator.
func (c *ProtocolConfig) SetOperator(caller, operator common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAdmin(caller); err != nil {
		return err
	}
	if operator == (common.Address{}) {
		return fmt.Errorf("%w: zero operator", ErrInvalidArgument)
	}
	c.operator = operator
	return nil
}

// SetFeeRecipient changes the swap/creation fee recipient.
func (c *ProtocolConfig) SetFeeRecipient(caller, recipient common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAdmin(caller); err != nil {
		return err
	}
	if recipient == (common.Address{}) {
		return fmt.Errorf("%w: zero fee recipient", ErrInvalidArgument)
	}
	c.feeRecipient = recipient
	return nil
}

// SetCreationFee sets the launch fee and toggles it.
func (c *ProtocolConfig) SetCreationFee(caller common.Address, fee *uint256.Int, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAdmin(caller); err != nil {
		return err
	}
	c.creationFee = new(uint256.Int).Set(fee)
	c.creationFeeEnabled = enabled
	return nil
}

// SetSwapFeeBps sets the router's protocol fee, capped at MaxSwapFeeBps.
func (c *ProtocolConfig) SetSwapFeeBps(caller common.Address, bps uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAdmin(caller); err != nil {
		return err
	}
	if bps > MaxSwapFeeBps {
		return fmt.Errorf("%w: swap fee %d exceeds cap %d", ErrInvalidArgument, bps, MaxSwapFeeBps)
	}
	c.swapFeeBps = bps
	return nil
}

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
	"github.com/huksdotfun/bsc-contracts/token"
)

// TokenResolver looks up launched token ledgers by address.
type TokenResolver interface {
	Token(addr common.Address) (*token.Token, bool)
}

// LockedPosition records a permanently locked launch position.
type LockedPosition struct {
	PositionID uint64
	Creator    common.Address
}

// PositionCustodian holds launch positions forever. Liquidity can never be
// withdrawn through it; the only operation it exposes on a locked position is
// collecting accrued trading fees and distributing them between the token's
// creator and the protocol operator.
type PositionCustodian struct {
	st        *state.State
	positions *amm.PositionManager
	ledger    *FeeLedger
	cfg       *ProtocolConfig
	resolver  TokenResolver
	events    *EventLog

	// issuer is the only address allowed to register new locks.
	issuer common.Address

	locks    map[common.Address]*LockedPosition
	claiming bool
}

// NewPositionCustodian creates a custodian. Only issuer may register locks.
func NewPositionCustodian(st *state.State, positions *amm.PositionManager, ledger *FeeLedger, cfg *ProtocolConfig, resolver TokenResolver, events *EventLog, issuer common.Address) *PositionCustodian {
	return &PositionCustodian{
		st:        st,
		positions: positions,
		ledger:    ledger,
		cfg:       cfg,
		resolver:  resolver,
		events:    events,
		issuer:    issuer,
		locks:     make(map[common.Address]*LockedPosition),
	}
}

// Lock registers a permanent lock of a position for a token. The position
// must already be owned by the custodian; locking is one-way and there is no
// unlock.
func (pc *PositionCustodian) Lock(caller, tokenAddr common.Address, positionID uint64, creator common.Address) error {
	if caller != pc.issuer {
		return fmt.Errorf("%w: only the launch issuer may lock", ErrUnauthorized)
	}
	if _, ok := pc.locks[tokenAddr]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyLocked, tokenAddr)
	}
	owner, err := pc.positions.OwnerOf(positionID)
	if err != nil {
		return fmt.Errorf("%w: position %d does not exist", ErrPositionNotOwned, positionID)
	}
	if owner != CustodianAddress {
		return fmt.Errorf("%w: position %d owned by %s", ErrPositionNotOwned, positionID, owner)
	}

	pc.locks[tokenAddr] = &LockedPosition{PositionID: positionID, Creator: creator}
	pc.st.OnRevert(func() { delete(pc.locks, tokenAddr) })
	return nil
}

// IsLocked reports whether a token has a locked position.
func (pc *PositionCustodian) IsLocked(tokenAddr common.Address) bool {
	_, ok := pc.locks[tokenAddr]
	return ok
}

// LockInfo returns the lock record for a token.
func (pc *PositionCustodian) LockInfo(tokenAddr common.Address) (*LockedPosition, bool) {
	lock, ok := pc.locks[tokenAddr]
	return lock, ok
}

// PendingFees previews claimable fees for a token's locked position. Tokens
// without a lock report all zeros.
func (pc *PositionCustodian) PendingFees(tokenAddr common.Address) (PendingFees, error) {
	lock, ok := pc.locks[tokenAddr]
	if !ok {
		return zeroPendingFees(), nil
	}
	return pc.ledger.PendingFees(lock.PositionID)
}

// ClaimFees collects the accrued trading fees of a token's locked position
// and pays them out: the creator's share to the recorded creator, the
// remainder to the operator resolved from config at call time. Anyone may
// trigger a claim. Returns the total collected amounts in native and token
// terms. Claims of zero are a no-op and emit nothing.
func (pc *PositionCustodian) ClaimFees(tokenAddr common.Address) (*big.Int, *big.Int, error) {
	if pc.claiming {
		return nil, nil, ErrReentrantCall
	}
	pc.claiming = true
	defer func() { pc.claiming = false }()

	lock, ok := pc.locks[tokenAddr]
	if !ok {
		return big.NewInt(0), big.NewInt(0), nil
	}
	pos, err := pc.positions.Get(lock.PositionID)
	if err != nil {
		return nil, nil, err
	}
	tok, ok := pc.resolver.Token(tokenAddr)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownToken, tokenAddr)
	}

	snap := pc.st.Snapshot()
	fail := func(err error) (*big.Int, *big.Int, error) {
		pc.st.RevertToSnapshot(snap)
		return nil, nil, err
	}

	// Balance snapshots isolate the claim from any unrelated credits the
	// custodian may hold.
	nativeBefore := pc.st.GetBalance(CustodianAddress)
	tokenBefore := tok.BalanceOf(CustodianAddress)

	// A zero-liquidity decrease realizes accrued fees into the lock's
	// deltas; the take pulls both currencies to the custodian.
	_, err = pc.positions.Execute(pc.st, CustodianAddress, []any{
		amm.DecreaseLiquidity{PositionID: lock.PositionID, Liquidity: big.NewInt(0)},
		amm.TakePair{Key: pos.Key, To: CustodianAddress},
	})
	if err != nil {
		return fail(err)
	}

	collected0 := balanceDiff(pc.st.GetBalance(CustodianAddress), nativeBefore)
	collected1 := balanceDiff(tok.BalanceOf(CustodianAddress), tokenBefore)
	if collected0.Sign() == 0 && collected1.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0), nil
	}

	creator0, operator0 := SplitFee(collected0)
	creator1, operator1 := SplitFee(collected1)
	operator := pc.cfg.Operator()

	if err := pc.payNative(lock.Creator, creator0); err != nil {
		return fail(err)
	}
	if err := pc.payNative(operator, operator0); err != nil {
		return fail(err)
	}
	if err := pc.payToken(tok, lock.Creator, creator1); err != nil {
		return fail(err)
	}
	if err := pc.payToken(tok, operator, operator1); err != nil {
		return fail(err)
	}

	pc.events.Emit(FeesClaimed{
		Token:          tokenAddr,
		Amount0:        collected0,
		Amount1:        collected1,
		CreatorAmount0: creator0,
		CreatorAmount1: creator1,
	})
	return collected0, collected1, nil
}

func (pc *PositionCustodian) payNative(to common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return fmt.Errorf("%w: fee amount overflows", ErrTransferFailed)
	}
	if err := pc.st.TransferNative(CustodianAddress, to, value); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return nil
}

func (pc *PositionCustodian) payToken(tok *token.Token, to common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return fmt.Errorf("%w: fee amount overflows", ErrTransferFailed)
	}
	if err := tok.Transfer(CustodianAddress, to, value); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return nil
}

// balanceDiff returns after-before as a big.Int, clamped at zero.
func balanceDiff(after, before *uint256.Int) *big.Int {
	if after.Cmp(before) <= 0 {
		return big.NewInt(0)
	}
	return new(uint256.Int).Sub(after, before).ToBig()
}

// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state models the host execution state the launchpad contracts run
// against: native BNB balances, per-contract key/value storage, and a journal
// that makes every top-level operation all-or-nothing.
package state

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var ErrInsufficientBalance = errors.New("insufficient native balance")

// State holds native balances and contract storage. Mutations are recorded in
// a journal so callers can snapshot and revert, mirroring how the chain
// reverts an entire call frame on failure.
type State struct {
	balances map[common.Address]*uint256.Int
	storage  map[common.Address]map[common.Hash]common.Hash

	// journal holds undo closures, applied in reverse on revert.
	journal []func()
}

// New creates an empty host state.
func New() *State {
	return &State{
		balances: make(map[common.Address]*uint256.Int),
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
	}
}

// Snapshot returns a revision id for the current journal position.
func (s *State) Snapshot() int {
	return len(s.journal)
}

// RevertToSnapshot undoes every mutation recorded after the given revision.
func (s *State) RevertToSnapshot(rev int) {
	if rev < 0 || rev > len(s.journal) {
		return
	}
	for i := len(s.journal) - 1; i >= rev; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:rev]
}

// OnRevert registers an undo closure with the journal. Components that keep
// in-memory indexes use this to participate in snapshot/revert alongside
// balance and storage changes.
func (s *State) OnRevert(undo func()) {
	s.journal = append(s.journal, undo)
}

// GetBalance returns the native balance of addr.
func (s *State) GetBalance(addr common.Address) *uint256.Int {
	if b, ok := s.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

// AddBalance credits amount to addr.
func (s *State) AddBalance(addr common.Address, amount *uint256.Int) {
	prev := s.GetBalance(addr)
	s.OnRevert(func() { s.balances[addr] = prev })
	s.balances[addr] = new(uint256.Int).Add(prev, amount)
}

// SubBalance debits amount from addr. Fails without mutating on underflow.
func (s *State) SubBalance(addr common.Address, amount *uint256.Int) error {
	prev := s.GetBalance(addr)
	if prev.Lt(amount) {
		return ErrInsufficientBalance
	}
	s.OnRevert(func() { s.balances[addr] = prev })
	s.balances[addr] = new(uint256.Int).Sub(prev, amount)
	return nil
}

// TransferNative moves native value between accounts atomically.
func (s *State) TransferNative(from, to common.Address, amount *uint256.Int) error {
	if err := s.SubBalance(from, amount); err != nil {
		return err
	}
	s.AddBalance(to, amount)
	return nil
}

// GetState reads a storage slot of a contract account.
func (s *State) GetState(addr common.Address, key common.Hash) common.Hash {
	if slots, ok := s.storage[addr]; ok {
		return slots[key]
	}
	return common.Hash{}
}

// SetState writes a storage slot of a contract account.
func (s *State) SetState(addr common.Address, key common.Hash, value common.Hash) {
	slots, ok := s.storage[addr]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		s.storage[addr] = slots
	}
	prev := slots[key]
	s.OnRevert(func() { slots[key] = prev })
	slots[key] = value
}

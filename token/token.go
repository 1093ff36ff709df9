// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements the BEP20-style ledger launched tokens use.
// Balances and allowances live in journaled host storage, so token transfers
// revert together with everything else in a failed call.
package token

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/zeebo/blake3"

	"github.com/huksdotfun/bsc-contracts/state"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
)

// Storage key prefixes within a token's account.
var (
	balancePrefix   = []byte("bal")
	allowancePrefix = []byte("alw")
)

// Token is a fixed-supply BEP20-style token. The full supply is minted to a
// single holder at construction and never changes afterwards.
type Token struct {
	addr        common.Address
	name        string
	symbol      string
	decimals    uint8
	totalSupply *uint256.Int

	st *state.State
}

// DeriveAddress derives a deterministic token address from the deployer and a
// deployment nonce.
func DeriveAddress(deployer common.Address, nonce uint64) common.Address {
	h := blake3.New()
	h.Write(deployer.Bytes())
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	h.Write(n[:])
	var digest [32]byte
	h.Digest().Read(digest[:])
	return common.BytesToAddress(digest[12:])
}

// New deploys a token, minting totalSupply to holder.
func New(st *state.State, addr common.Address, name, symbol string, totalSupply *uint256.Int, holder common.Address) *Token {
	t := &Token{
		addr:        addr,
		name:        name,
		symbol:      symbol,
		decimals:    18,
		totalSupply: new(uint256.Int).Set(totalSupply),
		st:          st,
	}
	t.setBalance(holder, totalSupply)
	return t
}

func (t *Token) Address() common.Address   { return t.addr }
func (t *Token) Name() string              { return t.name }
func (t *Token) Symbol() string            { return t.symbol }
func (t *Token) Decimals() uint8           { return t.decimals }
func (t *Token) TotalSupply() *uint256.Int { return new(uint256.Int).Set(t.totalSupply) }

// makeStorageKey hashes a prefixed identifier into a storage slot.
func makeStorageKey(prefix []byte, id []byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	h.Write(id)
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

func balanceKey(holder common.Address) common.Hash {
	return makeStorageKey(balancePrefix, holder.Bytes())
}

func allowanceKey(owner, spender common.Address) common.Hash {
	return makeStorageKey(allowancePrefix, append(owner.Bytes(), spender.Bytes()...))
}

// BalanceOf returns the balance of holder.
func (t *Token) BalanceOf(holder common.Address) *uint256.Int {
	raw := t.st.GetState(t.addr, balanceKey(holder))
	return new(uint256.Int).SetBytes(raw[:])
}

func (t *Token) setBalance(holder common.Address, amount *uint256.Int) {
	var value common.Hash
	amount.WriteToSlice(value[:])
	t.st.SetState(t.addr, balanceKey(holder), value)
}

// Allowance returns what spender may move on behalf of owner.
func (t *Token) Allowance(owner, spender common.Address) *uint256.Int {
	raw := t.st.GetState(t.addr, allowanceKey(owner, spender))
	return new(uint256.Int).SetBytes(raw[:])
}

// Approve sets spender's allowance over owner's balance.
func (t *Token) Approve(owner, spender common.Address, amount *uint256.Int) {
	var value common.Hash
	amount.WriteToSlice(value[:])
	t.st.SetState(t.addr, allowanceKey(owner, spender), value)
}

// Transfer moves amount from from to to.
func (t *Token) Transfer(from, to common.Address, amount *uint256.Int) error {
	fromBal := t.BalanceOf(from)
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	t.setBalance(from, new(uint256.Int).Sub(fromBal, amount))
	t.setBalance(to, new(uint256.Int).Add(t.BalanceOf(to), amount))
	return nil
}

// TransferFrom moves amount from owner to to, consuming spender's allowance.
func (t *Token) TransferFrom(spender, owner, to common.Address, amount *uint256.Int) error {
	allowed := t.Allowance(owner, spender)
	if allowed.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(owner, to, amount); err != nil {
		return err
	}
	t.Approve(owner, spender, new(uint256.Int).Sub(allowed, amount))
	return nil
}

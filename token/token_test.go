// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/huksdotfun/bsc-contracts/state"
)

var (
	deployer = common.HexToAddress("0x0000000000000000000000000000000000000010")
	alice    = common.HexToAddress("0x0000000000000000000000000000000000000011")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000012")
)

func newTestToken(t *testing.T) (*state.State, *Token) {
	t.Helper()
	st := state.New()
	addr := DeriveAddress(deployer, 0)
	tok := New(st, addr, "Test Token", "TST", uint256.NewInt(1_000_000), alice)
	return st, tok
}

func TestDeriveAddressDeterministic(t *testing.T) {
	require.Equal(t, DeriveAddress(deployer, 0), DeriveAddress(deployer, 0))
	require.NotEqual(t, DeriveAddress(deployer, 0), DeriveAddress(deployer, 1))
	require.NotEqual(t, DeriveAddress(deployer, 0), DeriveAddress(alice, 0))
}

func TestNewMintsFullSupplyToHolder(t *testing.T) {
	_, tok := newTestToken(t)
	require.Equal(t, uint64(1_000_000), tok.BalanceOf(alice).Uint64())
	require.True(t, tok.BalanceOf(bob).IsZero())
	require.Equal(t, uint64(1_000_000), tok.TotalSupply().Uint64())
	require.Equal(t, uint8(18), tok.Decimals())
}

func TestTransfer(t *testing.T) {
	_, tok := newTestToken(t)

	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(400)))
	require.Equal(t, uint64(999_600), tok.BalanceOf(alice).Uint64())
	require.Equal(t, uint64(400), tok.BalanceOf(bob).Uint64())

	err := tok.Transfer(bob, alice, uint256.NewInt(401))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Equal(t, uint64(400), tok.BalanceOf(bob).Uint64())
}

func TestTransferFrom(t *testing.T) {
	_, tok := newTestToken(t)

	require.ErrorIs(t, tok.TransferFrom(bob, alice, bob, uint256.NewInt(10)), ErrInsufficientAllowance)

	tok.Approve(alice, bob, uint256.NewInt(100))
	require.Equal(t, uint64(100), tok.Allowance(alice, bob).Uint64())

	require.NoError(t, tok.TransferFrom(bob, alice, bob, uint256.NewInt(60)))
	require.Equal(t, uint64(60), tok.BalanceOf(bob).Uint64())
	require.Equal(t, uint64(40), tok.Allowance(alice, bob).Uint64())

	require.ErrorIs(t, tok.TransferFrom(bob, alice, bob, uint256.NewInt(41)), ErrInsufficientAllowance)
}

func TestTransferRevertsWithSnapshot(t *testing.T) {
	st, tok := newTestToken(t)

	snap := st.Snapshot()
	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(500)))
	require.Equal(t, uint64(500), tok.BalanceOf(bob).Uint64())

	st.RevertToSnapshot(snap)
	require.True(t, tok.BalanceOf(bob).IsZero())
	require.Equal(t, uint64(1_000_000), tok.BalanceOf(alice).Uint64())
}

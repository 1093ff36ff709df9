// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	addrA = common.HexToAddress("0x0000000000000000000000000000000000000001")
	addrB = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func TestBalances(t *testing.T) {
	st := New()
	require.True(t, st.GetBalance(addrA).IsZero())

	st.AddBalance(addrA, uint256.NewInt(100))
	require.Equal(t, uint64(100), st.GetBalance(addrA).Uint64())

	require.NoError(t, st.SubBalance(addrA, uint256.NewInt(40)))
	require.Equal(t, uint64(60), st.GetBalance(addrA).Uint64())

	err := st.SubBalance(addrA, uint256.NewInt(61))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Equal(t, uint64(60), st.GetBalance(addrA).Uint64())
}

func TestTransferNative(t *testing.T) {
	st := New()
	st.AddBalance(addrA, uint256.NewInt(100))

	require.NoError(t, st.TransferNative(addrA, addrB, uint256.NewInt(30)))
	require.Equal(t, uint64(70), st.GetBalance(addrA).Uint64())
	require.Equal(t, uint64(30), st.GetBalance(addrB).Uint64())

	err := st.TransferNative(addrA, addrB, uint256.NewInt(1000))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Equal(t, uint64(30), st.GetBalance(addrB).Uint64())
}

func TestSnapshotRevert(t *testing.T) {
	st := New()
	st.AddBalance(addrA, uint256.NewInt(100))

	snap := st.Snapshot()
	st.AddBalance(addrA, uint256.NewInt(50))
	require.NoError(t, st.TransferNative(addrA, addrB, uint256.NewInt(20)))
	st.SetState(addrA, common.Hash{0x01}, common.Hash{0xaa})

	st.RevertToSnapshot(snap)
	require.Equal(t, uint64(100), st.GetBalance(addrA).Uint64())
	require.True(t, st.GetBalance(addrB).IsZero())
	require.Equal(t, common.Hash{}, st.GetState(addrA, common.Hash{0x01}))
}

func TestNestedSnapshots(t *testing.T) {
	st := New()
	st.AddBalance(addrA, uint256.NewInt(1))

	outer := st.Snapshot()
	st.AddBalance(addrA, uint256.NewInt(1))
	inner := st.Snapshot()
	st.AddBalance(addrA, uint256.NewInt(1))

	st.RevertToSnapshot(inner)
	require.Equal(t, uint64(2), st.GetBalance(addrA).Uint64())

	st.RevertToSnapshot(outer)
	require.Equal(t, uint64(1), st.GetBalance(addrA).Uint64())
}

func TestOnRevertOrdering(t *testing.T) {
	st := New()
	var order []int

	snap := st.Snapshot()
	st.OnRevert(func() { order = append(order, 1) })
	st.OnRevert(func() { order = append(order, 2) })
	st.RevertToSnapshot(snap)

	// Undo entries run newest-first.
	require.Equal(t, []int{2, 1}, order)
}

func TestStorage(t *testing.T) {
	st := New()
	key := common.Hash{0x10}

	require.Equal(t, common.Hash{}, st.GetState(addrA, key))
	st.SetState(addrA, key, common.Hash{0xbb})
	require.Equal(t, common.Hash{0xbb}, st.GetState(addrA, key))

	snap := st.Snapshot()
	st.SetState(addrA, key, common.Hash{0xcc})
	st.RevertToSnapshot(snap)
	require.Equal(t, common.Hash{0xbb}, st.GetState(addrA, key))
}

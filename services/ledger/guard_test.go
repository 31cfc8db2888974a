// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"testing"

	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/test"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// one written entry of key "k" and value "v": 1+1+40 bytes at price 10

func TestGuardedMethodRetainsGrowthCostAndRefundsTheRest(t *testing.T) {
	s := newStubContext()
	s.caller = "alice"
	s.deposit = 1000

	grow := guarded(func(ctx host.CallContext, args []byte) ([]byte, error) {
		return nil, ctx.WriteState(balancesPartition, []byte("k"), []byte("v"))
	})
	_, err := grow(s, nil)
	require.NoError(t, err)

	require.Len(t, s.payouts, 1)
	test.RequireCmpEqual(t, &types.Payout{To: "alice", Amount: types.U64(580), Reason: types.PayoutReasonDepositRefund}, s.payouts[0])
}

func TestGuardedMethodFailsWhenGrowthExceedsTheDeposit(t *testing.T) {
	s := newStubContext()
	s.deposit = 419

	grow := guarded(func(ctx host.CallContext, args []byte) ([]byte, error) {
		return nil, ctx.WriteState(balancesPartition, []byte("k"), []byte("v"))
	})
	_, err := grow(s, nil)
	require.Error(t, err)
	require.Equal(t, ErrInsufficientDeposit, errors.Cause(err))
	require.Empty(t, s.payouts)
}

func TestGuardedMethodReleasesShrunkBytesAndTheWholeDeposit(t *testing.T) {
	s := newStubContext()
	s.caller = "alice"
	s.deposit = 5
	require.NoError(t, s.WriteState(balancesPartition, []byte("k"), []byte("v")))

	shrink := guarded(func(ctx host.CallContext, args []byte) ([]byte, error) {
		return nil, ctx.ClearState(balancesPartition, []byte("k"))
	})
	_, err := shrink(s, nil)
	require.NoError(t, err)

	require.Len(t, s.payouts, 2)
	test.RequireCmpEqual(t, &types.Payout{To: "alice", Amount: types.U64(420), Reason: types.PayoutReasonStorageRelease}, s.payouts[0])
	test.RequireCmpEqual(t, &types.Payout{To: "alice", Amount: types.U64(5), Reason: types.PayoutReasonDepositRefund}, s.payouts[1])
}

func TestGuardedMethodRefundsTheDepositWhenNothingChanges(t *testing.T) {
	s := newStubContext()
	s.caller = "alice"
	s.deposit = 7

	noop := guarded(func(ctx host.CallContext, args []byte) ([]byte, error) {
		return nil, nil
	})
	_, err := noop(s, nil)
	require.NoError(t, err)

	require.Len(t, s.payouts, 1)
	test.RequireCmpEqual(t, &types.Payout{To: "alice", Amount: types.U64(7), Reason: types.PayoutReasonDepositRefund}, s.payouts[0])
}

func TestGuardedMethodIgnoresUnmeteredWrites(t *testing.T) {
	s := newStubContext()
	s.deposit = 0

	growUnmetered := guarded(func(ctx host.CallContext, args []byte) ([]byte, error) {
		return nil, ctx.WriteState(pendingPartition, []byte("k"), []byte("a very long pending record"))
	})
	_, err := growUnmetered(s, nil)
	require.NoError(t, err, "unmetered bytes cost nothing")
	require.Empty(t, s.payouts)
}

func TestGuardedMethodPropagatesHandlerFailuresUntouched(t *testing.T) {
	rejected := errors.New("handler rejected the call")
	s := newStubContext()
	s.deposit = 50

	failing := guarded(func(ctx host.CallContext, args []byte) ([]byte, error) {
		return nil, errors.Wrap(rejected, "some context")
	})
	_, err := failing(s, nil)
	require.Error(t, err)
	require.Equal(t, rejected, errors.Cause(err))
	require.Empty(t, s.payouts, "a failed handler settles nothing")
}

func TestExactDepositUnitConvention(t *testing.T) {
	s := newStubContext()

	for _, deposit := range []uint64{0, 2, 50} {
		s.deposit = deposit
		err := requireExactDepositUnit(s)
		require.Error(t, err, "deposit of %d should be rejected", deposit)
		require.Equal(t, ErrExactDepositRequired, errors.Cause(err))
	}

	s.deposit = 1
	require.NoError(t, requireExactDepositUnit(s))
}

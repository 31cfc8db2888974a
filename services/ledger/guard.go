// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/pkg/errors"
)

// guarded wraps an externally callable mutating method with storage
// settlement: metered growth must be covered by the attached deposit and the
// covering units are retained, everything else flows back to the caller as
// payout records. The storage_* methods are not wrapped, they settle their
// own economics.
func guarded(handler host.MethodHandler) host.MethodHandler {
	return func(ctx host.CallContext, args []byte) ([]byte, error) {
		bytesBefore, err := ctx.MeteredBytesUsed()
		if err != nil {
			return nil, err
		}

		result, err := handler(ctx, args)
		if err != nil {
			return nil, err
		}

		if err := settleStorageDelta(ctx, bytesBefore); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func settleStorageDelta(ctx host.CallContext, bytesBefore uint64) error {
	bytesAfter, err := ctx.MeteredBytesUsed()
	if err != nil {
		return err
	}
	deposit := types.U64(ctx.AttachedDeposit())

	if bytesAfter > bytesBefore {
		grownBytes := bytesAfter - bytesBefore
		cost := types.MulU64(grownBytes, ctx.StorageByteCost())
		if deposit.Cmp(cost) < 0 {
			return errors.Wrapf(ErrInsufficientDeposit, "%d new bytes cost %s, attached %s", grownBytes, cost.String(), deposit.String())
		}
		remainder, _ := deposit.Sub(cost)
		refundToCaller(ctx, remainder, types.PayoutReasonDepositRefund)
		return nil
	}

	if bytesAfter < bytesBefore {
		released := types.MulU64(bytesBefore-bytesAfter, ctx.StorageByteCost())
		refundToCaller(ctx, released, types.PayoutReasonStorageRelease)
	}
	refundToCaller(ctx, deposit, types.PayoutReasonDepositRefund)
	return nil
}

func refundToCaller(ctx host.CallContext, amount types.U128, reason string) {
	if amount.IsZero() {
		return
	}
	ctx.AddPayout(&types.Payout{To: ctx.Caller(), Amount: amount, Reason: reason})
}

// requireExactDepositUnit is the authorization convention for methods that
// move funds or drop registrations: attaching precisely one unit proves the
// caller signed this specific call. The unit itself is refunded on success.
func requireExactDepositUnit(ctx host.CallContext) error {
	if ctx.AttachedDeposit() != 1 {
		return errors.Wrapf(ErrExactDepositRequired, "attached %d", ctx.AttachedDeposit())
	}
	return nil
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"encoding/json"

	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////

var METHOD_FT_TRANSFER_CALL = &host.MethodInfo{
	Name:     "ft_transfer_call",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_WRITE,
	Handler:  guarded(theContract.ftTransferCall),
}

type transferCallArgs struct {
	ReceiverID types.AccountID `json:"receiver_id"`
	Amount     types.U128      `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
	Msg        string          `json:"msg"`
}

type onTransferArgs struct {
	SenderID types.AccountID `json:"sender_id"`
	Amount   types.U128      `json:"amount"`
	Msg      string          `json:"msg"`
}

type resolveTransferArgs struct {
	PendingID uint64 `json:"pending_id"`
}

// ftTransferCall moves the tokens like ft_transfer and then notifies the
// receiver contract with ft_on_transfer. The receiver reports back how much of
// the transfer it used; the private settlement callback refunds the rest. The
// moved amount is recorded as a pending transfer until that callback runs, and
// the caller's result resolves to the settled used amount.
func (c *contract) ftTransferCall(ctx host.CallContext, args []byte) ([]byte, error) {
	if err := c.requireInitialized(ctx); err != nil {
		return nil, err
	}
	if err := requireExactDepositUnit(ctx); err != nil {
		return nil, err
	}
	parsed := &transferCallArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}

	sender := ctx.Caller()
	if err := c.executeTransfer(ctx, sender, parsed.ReceiverID, parsed.Amount, parsed.Memo); err != nil {
		return nil, err
	}

	notification, err := json.Marshal(&onTransferArgs{SenderID: sender, Amount: parsed.Amount, Msg: parsed.Msg})
	if err != nil {
		return nil, errors.Wrap(err, "failed encoding receiver notification")
	}
	receiverLeg, err := ctx.PromiseCreate(string(parsed.ReceiverID), "ft_on_transfer", notification)
	if err != nil {
		return nil, err
	}

	if err := c.writePendingTransfer(ctx, receiverLeg, &types.PendingTransfer{
		Sender:   sender,
		Receiver: parsed.ReceiverID,
		Amount:   parsed.Amount,
		Memo:     parsed.Memo,
	}); err != nil {
		return nil, err
	}

	settlement, err := json.Marshal(&resolveTransferArgs{PendingID: receiverLeg})
	if err != nil {
		return nil, errors.Wrap(err, "failed encoding settlement arguments")
	}
	settleLeg, err := ctx.PromiseThen(receiverLeg, ctx.Self(), "ft_resolve_transfer", settlement)
	if err != nil {
		return nil, err
	}
	ctx.ReturnPromise(settleLeg)

	ctx.Log("transfer and call awaiting receiver",
		logfields.Account("sender", sender),
		logfields.Account("receiver", parsed.ReceiverID),
		logfields.Amount("amount", parsed.Amount),
		logfields.PromiseID(receiverLeg))
	return nil, nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_FT_RESOLVE_TRANSFER = &host.MethodInfo{
	Name:     "ft_resolve_transfer",
	External: false,
	Access:   host.ACCESS_SCOPE_READ_WRITE,
	Handler:  theContract.ftResolveTransfer,
}

// ftResolveTransfer settles one pending transfer. The refund starts as the
// unused part of the amount and shrinks to whatever the receiver still holds;
// what cannot be refunded stays counted as used. A refund towards a sender
// that dropped its registration meanwhile is burned.
func (c *contract) ftResolveTransfer(ctx host.CallContext, args []byte) ([]byte, error) {
	parsed := &resolveTransferArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}

	results := ctx.PromiseResults()
	if len(results) != 1 {
		return nil, errors.Errorf("settlement expects one dependency result, got %d", len(results))
	}

	pending, found, err := c.readPendingTransfer(ctx, parsed.PendingID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Errorf("pending transfer %d not found", parsed.PendingID)
	}
	if err := c.clearPendingTransfer(ctx, parsed.PendingID); err != nil {
		return nil, err
	}

	used := settledUsedAmount(results[0], pending.Amount)
	refund, _ := pending.Amount.Sub(used)

	if !refund.IsZero() {
		refund, err = c.refundPendingTransfer(ctx, pending, refund)
		if err != nil {
			return nil, err
		}
	}

	used, _ = pending.Amount.Sub(refund)
	ctx.Log("transfer and call settled",
		logfields.Account("sender", pending.Sender),
		logfields.Account("receiver", pending.Receiver),
		logfields.Amount("used", used),
		logfields.Amount("refunded", refund))
	return json.Marshal(used)
}

// settledUsedAmount reads the receiver's report and clamps it to the amount.
// A failed or unreadable receiver used nothing and everything is refunded.
func settledUsedAmount(result *host.PromiseResult, amount types.U128) types.U128 {
	if !result.Successful {
		return types.U128{}
	}
	used := types.U128{}
	if err := json.Unmarshal(result.Value, &used); err != nil {
		return types.U128{}
	}
	if used.Cmp(amount) > 0 {
		return amount
	}
	return used
}

// refundPendingTransfer moves at most refund back from the receiver to the
// sender and returns how much actually moved. The receiver may have spent the
// tokens already, so the refund is capped by its current balance.
func (c *contract) refundPendingTransfer(ctx host.CallContext, pending *types.PendingTransfer, refund types.U128) (types.U128, error) {
	receiverRecord, found, err := c.readAccount(ctx, pending.Receiver)
	if err != nil {
		return types.U128{}, err
	}
	receiverBalance := types.U128{}
	if found {
		receiverBalance = receiverRecord.balance
	}
	if refund.Cmp(receiverBalance) > 0 {
		refund = receiverBalance
	}
	if refund.IsZero() {
		return refund, nil
	}

	receiverRecord.balance, _ = receiverRecord.balance.Sub(refund)
	if err := c.writeAccount(ctx, pending.Receiver, receiverRecord); err != nil {
		return types.U128{}, err
	}

	senderRecord, found, err := c.readAccount(ctx, pending.Sender)
	if err != nil {
		return types.U128{}, err
	}
	if !found {
		// nobody to refund, the tokens leave circulation
		supply, err := c.readSupply(ctx)
		if err != nil {
			return types.U128{}, err
		}
		newSupply, ok := supply.Sub(refund)
		if !ok {
			return types.U128{}, errors.Errorf("refund of %s exceeds the total supply", refund.String())
		}
		if err := c.writeSupply(ctx, newSupply); err != nil {
			return types.U128{}, err
		}
		ctx.EmitEvent(types.FtBurnEvent(pending.Receiver, refund, "refund to unregistered sender"))
		return refund, nil
	}

	newSenderBalance, ok := senderRecord.balance.Add(refund)
	if !ok {
		return types.U128{}, errors.Wrapf(ErrOverflow, "refunding %s", pending.Sender)
	}
	senderRecord.balance = newSenderBalance
	if err := c.writeAccount(ctx, pending.Sender, senderRecord); err != nil {
		return types.U128{}, err
	}
	ctx.EmitEvent(types.FtTransferEvent(pending.Receiver, pending.Sender, refund, "refund"))
	return refund, nil
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"encoding/json"

	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////

var METHOD_FT_TRANSFER = &host.MethodInfo{
	Name:     "ft_transfer",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_WRITE,
	Handler:  guarded(theContract.ftTransfer),
}

type transferArgs struct {
	ReceiverID types.AccountID `json:"receiver_id"`
	Amount     types.U128      `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
}

func (c *contract) ftTransfer(ctx host.CallContext, args []byte) ([]byte, error) {
	if err := c.requireInitialized(ctx); err != nil {
		return nil, err
	}
	if err := requireExactDepositUnit(ctx); err != nil {
		return nil, err
	}
	parsed := &transferArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}
	return nil, c.executeTransfer(ctx, ctx.Caller(), parsed.ReceiverID, parsed.Amount, parsed.Memo)
}

// executeTransfer moves amount from sender to receiver with every transfer
// check applied. An unregistered sender simply holds nothing, so it fails the
// balance check rather than a registration check.
func (c *contract) executeTransfer(ctx host.CallContext, sender types.AccountID, receiver types.AccountID, amount types.U128, memo string) error {
	if amount.IsZero() {
		return errors.Wrap(ErrZeroAmount, "transfer amount")
	}
	if sender == receiver {
		return errors.Wrapf(ErrAccountNotRegistered, "account %s cannot transfer to itself", sender)
	}

	receiverRecord, found, err := c.readAccount(ctx, receiver)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ErrAccountNotRegistered, "receiver %s", receiver)
	}

	senderRecord, found, err := c.readAccount(ctx, sender)
	if err != nil {
		return err
	}
	senderBalance := types.U128{}
	if found {
		senderBalance = senderRecord.balance
	}
	newSenderBalance, ok := senderBalance.Sub(amount)
	if !ok {
		return errors.Wrapf(ErrInsufficientBalance, "account %s holds %s of the %s needed", sender, senderBalance.String(), amount.String())
	}

	newReceiverBalance, ok := receiverRecord.balance.Add(amount)
	if !ok {
		return errors.Wrapf(ErrOverflow, "crediting %s", receiver)
	}

	senderRecord.balance = newSenderBalance
	receiverRecord.balance = newReceiverBalance
	if err := c.writeAccount(ctx, sender, senderRecord); err != nil {
		return err
	}
	if err := c.writeAccount(ctx, receiver, receiverRecord); err != nil {
		return err
	}

	ctx.EmitEvent(types.FtTransferEvent(sender, receiver, amount, memo))
	return nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_FT_TOTAL_SUPPLY = &host.MethodInfo{
	Name:     "ft_total_supply",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_ONLY,
	Handler:  theContract.ftTotalSupply,
}

func (c *contract) ftTotalSupply(ctx host.CallContext, args []byte) ([]byte, error) {
	supply, err := c.readSupply(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(supply)
}

///////////////////////////////////////////////////////////////////////////

var METHOD_FT_BALANCE_OF = &host.MethodInfo{
	Name:     "ft_balance_of",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_ONLY,
	Handler:  theContract.ftBalanceOf,
}

type accountArgs struct {
	AccountID types.AccountID `json:"account_id"`
}

// ftBalanceOf reports 0 for anything that is not a registered account, there
// is no distinction between unregistered and empty.
func (c *contract) ftBalanceOf(ctx host.CallContext, args []byte) ([]byte, error) {
	if err := c.requireInitialized(ctx); err != nil {
		return nil, err
	}
	parsed := &accountArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}
	record, found, err := c.readAccount(ctx, parsed.AccountID)
	if err != nil {
		return nil, err
	}
	balance := types.U128{}
	if found {
		balance = record.balance
	}
	return json.Marshal(balance)
}

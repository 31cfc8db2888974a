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

var METHOD_STORAGE_DEPOSIT = &host.MethodInfo{
	Name:     "storage_deposit",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_WRITE,
	Handler:  theContract.storageDeposit,
}

type storageDepositArgs struct {
	AccountID        types.AccountID `json:"account_id,omitempty"`
	RegistrationOnly bool            `json:"registration_only,omitempty"`
}

// storageDeposit registers an account, the target's entry bytes paid for by
// the attached deposit. Without registration_only the whole attached amount is
// retained as withdrawable storage credit. Depositing for an account that is
// already registered changes nothing and refunds everything, so the method is
// safe to retry.
func (c *contract) storageDeposit(ctx host.CallContext, args []byte) ([]byte, error) {
	if err := c.requireInitialized(ctx); err != nil {
		return nil, err
	}
	parsed := &storageDepositArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}
	target := parsed.AccountID
	if target == "" {
		target = ctx.Caller()
	}
	if err := types.ValidateAccountID(target); err != nil {
		return nil, errors.Wrap(err, "cannot register")
	}

	attached := types.U64(ctx.AttachedDeposit())
	record, found, err := c.readAccount(ctx, target)
	if err != nil {
		return nil, err
	}
	if found {
		refundToCaller(ctx, attached, types.PayoutReasonDepositRefund)
		return c.storageBalanceResult(ctx, record)
	}

	minimum, err := c.minimumStorageBalance(ctx)
	if err != nil {
		return nil, err
	}
	if attached.Cmp(minimum) < 0 {
		return nil, errors.Wrapf(ErrInsufficientDeposit, "registration requires %s, attached %s", minimum.String(), attached.String())
	}

	retained := attached
	if parsed.RegistrationOnly {
		retained = minimum
	}
	remainder, _ := attached.Sub(retained)

	record = &accountRecord{storageDeposit: retained}
	if err := c.writeAccount(ctx, target, record); err != nil {
		return nil, err
	}
	refundToCaller(ctx, remainder, types.PayoutReasonDepositRefund)
	ctx.EmitEvent(types.StorageDepositEvent(target, retained))
	return c.storageBalanceResult(ctx, record)
}

///////////////////////////////////////////////////////////////////////////

var METHOD_STORAGE_WITHDRAW = &host.MethodInfo{
	Name:     "storage_withdraw",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_WRITE,
	Handler:  theContract.storageWithdraw,
}

type storageWithdrawArgs struct {
	Amount *types.U128 `json:"amount,omitempty"`
}

// storageWithdraw pays out storage credit above the registration minimum.
// Omitting the amount withdraws everything available.
func (c *contract) storageWithdraw(ctx host.CallContext, args []byte) ([]byte, error) {
	if err := c.requireInitialized(ctx); err != nil {
		return nil, err
	}
	if err := requireExactDepositUnit(ctx); err != nil {
		return nil, err
	}
	parsed := &storageWithdrawArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}

	caller := ctx.Caller()
	record, found, err := c.readAccount(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrAccountNotRegistered, "account %s", caller)
	}

	minimum, err := c.minimumStorageBalance(ctx)
	if err != nil {
		return nil, err
	}
	available, ok := record.storageDeposit.Sub(minimum)
	if !ok {
		available = types.U128{}
	}

	amount := available
	if parsed.Amount != nil {
		amount = *parsed.Amount
	}
	if amount.Cmp(available) > 0 {
		return nil, errors.Wrapf(ErrBelowMinimumStorageBalance, "available %s, requested %s", available.String(), amount.String())
	}

	if !amount.IsZero() {
		record.storageDeposit, _ = record.storageDeposit.Sub(amount)
		if err := c.writeAccount(ctx, caller, record); err != nil {
			return nil, err
		}
		refundToCaller(ctx, amount, types.PayoutReasonStorageWithdraw)
		ctx.EmitEvent(types.StorageWithdrawEvent(caller, amount))
	}
	refundToCaller(ctx, types.U64(1), types.PayoutReasonDepositRefund)
	return c.storageBalanceResult(ctx, record)
}

///////////////////////////////////////////////////////////////////////////

var METHOD_STORAGE_UNREGISTER = &host.MethodInfo{
	Name:     "storage_unregister",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_WRITE,
	Handler:  theContract.storageUnregister,
}

type storageUnregisterArgs struct {
	Force bool `json:"force,omitempty"`
}

// storageUnregister deletes the caller's account entry and pays the whole
// storage deposit back. A remaining token balance blocks the call unless force
// is set, in which case the balance is burned out of the total supply.
func (c *contract) storageUnregister(ctx host.CallContext, args []byte) ([]byte, error) {
	if err := c.requireInitialized(ctx); err != nil {
		return nil, err
	}
	if err := requireExactDepositUnit(ctx); err != nil {
		return nil, err
	}
	parsed := &storageUnregisterArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}

	caller := ctx.Caller()
	record, found, err := c.readAccount(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrAccountNotRegistered, "account %s", caller)
	}

	if !record.balance.IsZero() {
		if !parsed.Force {
			return nil, errors.Wrapf(ErrUnauthorizedUnregister, "account %s still holds %s", caller, record.balance.String())
		}
		supply, err := c.readSupply(ctx)
		if err != nil {
			return nil, err
		}
		newSupply, ok := supply.Sub(record.balance)
		if !ok {
			return nil, errors.Errorf("account balance %s exceeds the total supply", record.balance.String())
		}
		if err := c.writeSupply(ctx, newSupply); err != nil {
			return nil, err
		}
		ctx.EmitEvent(types.FtBurnEvent(caller, record.balance, "forced unregister"))
	}

	if err := c.clearAccount(ctx, caller); err != nil {
		return nil, err
	}
	refundToCaller(ctx, record.storageDeposit, types.PayoutReasonStorageUnregister)
	refundToCaller(ctx, types.U64(1), types.PayoutReasonDepositRefund)
	ctx.EmitEvent(types.StorageUnregisterEvent(caller, record.storageDeposit))
	return []byte("true"), nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_STORAGE_BALANCE_OF = &host.MethodInfo{
	Name:     "storage_balance_of",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_ONLY,
	Handler:  theContract.storageBalanceOf,
}

func (c *contract) storageBalanceOf(ctx host.CallContext, args []byte) ([]byte, error) {
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
	if !found {
		return []byte("null"), nil
	}
	return c.storageBalanceResult(ctx, record)
}

///////////////////////////////////////////////////////////////////////////

var METHOD_STORAGE_BALANCE_BOUNDS = &host.MethodInfo{
	Name:     "storage_balance_bounds",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_ONLY,
	Handler:  theContract.storageBalanceBounds,
}

// storageBalanceBounds advertises the registration minimum. There is no upper
// bound, accounts may park any amount of storage credit.
func (c *contract) storageBalanceBounds(ctx host.CallContext, args []byte) ([]byte, error) {
	minimum, err := c.minimumStorageBalance(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&types.StorageBalanceBounds{Min: minimum, Max: nil})
}

func (c *contract) storageBalanceResult(ctx host.CallContext, record *accountRecord) ([]byte, error) {
	minimum, err := c.minimumStorageBalance(ctx)
	if err != nil {
		return nil, err
	}
	available, ok := record.storageDeposit.Sub(minimum)
	if !ok {
		available = types.U128{}
	}
	return json.Marshal(&types.StorageBalance{Total: record.storageDeposit, Available: available})
}

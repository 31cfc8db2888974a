// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"encoding/json"
)

const (
	EventStandard        = "ftl"
	EventStandardVersion = "1.0.0"

	EventFtMint            = "ft_mint"
	EventFtTransfer        = "ft_transfer"
	EventFtBurn            = "ft_burn"
	EventStorageDeposit    = "storage_deposit"
	EventStorageWithdraw   = "storage_withdraw"
	EventStorageUnregister = "storage_unregister"
)

// Event is a structured record of a committed ledger operation, collected into
// the call output and logged by the host. Events from a failed call are
// discarded together with its writes.
type Event struct {
	Standard string      `json:"standard"`
	Version  string      `json:"version"`
	Event    string      `json:"event"`
	Data     interface{} `json:"data"`
}

func (e *Event) String() string {
	raw, err := json.Marshal(e)
	if err != nil {
		return "event: " + e.Event
	}
	return string(raw)
}

type MintEventData struct {
	Owner  AccountID `json:"owner_id"`
	Amount U128      `json:"amount"`
	Memo   string    `json:"memo,omitempty"`
}

type TransferEventData struct {
	Sender   AccountID `json:"sender_id"`
	Receiver AccountID `json:"receiver_id"`
	Amount   U128      `json:"amount"`
	Memo     string    `json:"memo,omitempty"`
}

type BurnEventData struct {
	Owner  AccountID `json:"owner_id"`
	Amount U128      `json:"amount"`
	Memo   string    `json:"memo,omitempty"`
}

type StorageEventData struct {
	Account AccountID `json:"account_id"`
	Amount  U128      `json:"amount"`
}

func FtMintEvent(owner AccountID, amount U128, memo string) *Event {
	return newEvent(EventFtMint, &MintEventData{Owner: owner, Amount: amount, Memo: memo})
}

func FtTransferEvent(sender AccountID, receiver AccountID, amount U128, memo string) *Event {
	return newEvent(EventFtTransfer, &TransferEventData{Sender: sender, Receiver: receiver, Amount: amount, Memo: memo})
}

func FtBurnEvent(owner AccountID, amount U128, memo string) *Event {
	return newEvent(EventFtBurn, &BurnEventData{Owner: owner, Amount: amount, Memo: memo})
}

func StorageDepositEvent(account AccountID, retained U128) *Event {
	return newEvent(EventStorageDeposit, &StorageEventData{Account: account, Amount: retained})
}

func StorageWithdrawEvent(account AccountID, amount U128) *Event {
	return newEvent(EventStorageWithdraw, &StorageEventData{Account: account, Amount: amount})
}

func StorageUnregisterEvent(account AccountID, released U128) *Event {
	return newEvent(EventStorageUnregister, &StorageEventData{Account: account, Amount: released})
}

func newEvent(kind string, data interface{}) *Event {
	return &Event{
		Standard: EventStandard,
		Version:  EventStandardVersion,
		Event:    kind,
		Data:     data,
	}
}

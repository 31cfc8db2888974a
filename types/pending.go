// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

// PendingTransfer is the persisted continuation record of an in-flight
// transfer-and-call. It is written when the receiver leg is spawned, keyed by
// the promise id of that leg, and deleted when the settlement callback runs.
// While the record exists the transferred amount is owned by the call
// sequence: already debited from the sender, credited to the receiver, and
// subject to refund at settlement.
type PendingTransfer struct {
	Sender   AccountID `json:"sender_id"`
	Receiver AccountID `json:"receiver_id"`
	Amount   U128      `json:"amount"`
	Memo     string    `json:"memo,omitempty"`
}

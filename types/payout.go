// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"fmt"
)

// Payout is an obligation of the host treasury towards an account: a deposit
// refund, a storage release or a withdrawal. Payouts are explicit records in
// the call output rather than hidden side effects, so every movement of
// native funds is observable and testable.
type Payout struct {
	To     AccountID `json:"to"`
	Amount U128      `json:"amount"`
	Reason string    `json:"reason"`
}

const (
	PayoutReasonDepositRefund     = "deposit-refund"
	PayoutReasonStorageRelease    = "storage-release"
	PayoutReasonStorageWithdraw   = "storage-withdraw"
	PayoutReasonStorageUnregister = "storage-unregister"
	PayoutReasonCallFailed        = "call-failed"
)

func (p *Payout) String() string {
	return fmt.Sprintf("%s->%s(%s)", p.Reason, p.To, p.Amount.String())
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package host

import (
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
)

type MethodAccess uint16

const (
	ACCESS_SCOPE_READ_ONLY MethodAccess = iota
	ACCESS_SCOPE_READ_WRITE
)

// MethodHandler is the explicit dispatch target for one contract method.
// Arguments and results cross the boundary as JSON, amounts inside them as
// base-10 decimal strings.
type MethodHandler func(ctx CallContext, args []byte) ([]byte, error)

type MethodInfo struct {
	Name     string
	External bool
	Access   MethodAccess
	Handler  MethodHandler
}

// PartitionSpec names one key/value namespace of a contract. Only metered
// partitions count toward the byte usage a caller pays storage rent for.
type PartitionSpec struct {
	Name    string
	Metered bool
}

type ContractInfo struct {
	Name       string
	Partitions []*PartitionSpec
	Methods    map[string]*MethodInfo
}

// CallContext is the surface a contract method sees during one receipt. All
// state access goes through it so the host can buffer writes until the
// receipt commits.
type CallContext interface {
	CallID() uint64
	Self() string
	Caller() types.AccountID
	AttachedDeposit() uint64
	StorageByteCost() uint64

	ReadState(partition string, key []byte) ([]byte, bool, error)
	WriteState(partition string, key []byte, value []byte) error
	ClearState(partition string, key []byte) error
	MeteredBytesUsed() (uint64, error)

	EmitEvent(event *types.Event)
	AddPayout(payout *types.Payout)
	Log(message string, fields ...*log.Field)

	PromiseCreate(contract string, method string, args []byte) (uint64, error)
	PromiseThen(dependsOn uint64, contract string, method string, args []byte) (uint64, error)
	ReturnPromise(promiseID uint64)
	PromiseResults() []*PromiseResult
}

// PromiseResult is the settled outcome of a dependency receipt, delivered to
// the callback that declared the dependency with PromiseThen.
type PromiseResult struct {
	Successful bool
	Value      []byte
}

type CallInput struct {
	Contract string
	Method   string
	Args     []byte
	Caller   types.AccountID
	Deposit  uint64
}

// CallOutput reports the settled transaction: the resolved result of the root
// receipt's promise chain plus everything every committed receipt produced.
// Refunds of attached deposits appear as explicit Payout records.
type CallOutput struct {
	CallID       uint64
	Success      bool
	Result       []byte
	ErrorMessage string
	Events       []*types.Event
	Payouts      []*types.Payout
	Receipts     []*ReceiptOutcome
}

// ReceiptOutcome is the per-receipt view of a call: one entry per executed
// receipt, in execution order. Value and ErrorMessage reflect that receipt
// alone, before promise forwarding.
type ReceiptOutcome struct {
	PromiseID    uint64
	Contract     string
	Method       string
	Success      bool
	Value        []byte
	ErrorMessage string
}

type QueryInput struct {
	Contract string
	Method   string
	Args     []byte
}

type QueryOutput struct {
	Success      bool
	Result       []byte
	ErrorMessage string
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package host

import (
	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/fungible-ledger-go/services/host/adapter"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// callFrame is shared by every receipt of one call. Promise ids double as
// receipt ids, so the frame's allocator also enforces the receipt budget.
type callFrame struct {
	callID        uint64
	lastPromiseID uint64
	maxPromises   uint64
}

func (f *callFrame) issuePromiseID() (uint64, error) {
	if f.lastPromiseID >= f.maxPromises {
		return 0, errors.Errorf("receipt budget of %d exhausted", f.maxPromises)
	}
	f.lastPromiseID++
	return f.lastPromiseID, nil
}

// executionContext carries the state of one receipt while its method runs. It
// is the CallContext handed to the contract; everything it accumulates is
// discarded if the receipt fails.
type executionContext struct {
	host      *service
	logger    log.Logger
	frame     *callFrame
	contract  *registeredContract
	promiseID uint64
	caller    types.AccountID
	deposit   uint64
	args      []byte
	readOnly  bool

	transient *transientState
	events    []*types.Event
	payouts   []*types.Payout
	spawned   []*receipt
	returned  *uint64
	results   []*PromiseResult
}

// receipt is a scheduled method invocation, either the root call or one
// spawned during execution. Only the root receipt carries a deposit.
type receipt struct {
	promiseID uint64
	contract  string
	method    string
	args      []byte
	caller    types.AccountID
	deposit   uint64
	dependsOn []uint64
}

func (s *service) newExecutionContext(frame *callFrame, contract *registeredContract, r *receipt, results []*PromiseResult, readOnly bool) *executionContext {
	return &executionContext{
		host:      s,
		logger:    s.logger.WithTags(logTagsForReceipt(frame, r)...),
		frame:     frame,
		contract:  contract,
		promiseID: r.promiseID,
		caller:    r.caller,
		deposit:   r.deposit,
		args:      r.args,
		readOnly:  readOnly,
		transient: newTransientState(),
		results:   results,
	}
}

func (c *executionContext) CallID() uint64 {
	return c.frame.callID
}

func (c *executionContext) Self() string {
	return c.contract.info.Name
}

func (c *executionContext) Caller() types.AccountID {
	return c.caller
}

func (c *executionContext) AttachedDeposit() uint64 {
	return c.deposit
}

func (c *executionContext) StorageByteCost() uint64 {
	return c.host.config.StoragePricePerByte()
}

func (c *executionContext) ReadState(partition string, key []byte) ([]byte, bool, error) {
	if _, err := c.partitionSpec(partition); err != nil {
		return nil, false, err
	}

	if value, found := c.transient.getValue(partition, key); found {
		return value, value != nil, nil
	}

	value, found, err := c.host.persistence.Read(c.Self(), partition, key)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed reading %s key from persistence", partition)
	}

	c.recordOriginal(partition, key, value, found)
	c.transient.setValue(partition, key, value, false)
	return value, found, nil
}

func (c *executionContext) WriteState(partition string, key []byte, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	return c.mutateState(partition, key, value)
}

func (c *executionContext) ClearState(partition string, key []byte) error {
	return c.mutateState(partition, key, nil)
}

func (c *executionContext) mutateState(partition string, key []byte, value []byte) error {
	if c.readOnly {
		return errors.Errorf("method with read only scope may not write state")
	}
	if _, err := c.partitionSpec(partition); err != nil {
		return err
	}

	if err := c.ensureOriginal(partition, key); err != nil {
		return err
	}
	c.transient.setValue(partition, key, value, true)
	return nil
}

// MeteredBytesUsed reports the bytes the contract occupies in its metered
// partitions as of this moment in the receipt, committed state plus the
// receipt's own uncommitted writes.
func (c *executionContext) MeteredBytesUsed() (uint64, error) {
	total := int64(0)
	for _, spec := range c.contract.info.Partitions {
		if !spec.Metered {
			continue
		}
		committed, err := c.host.persistence.BytesUsed(c.Self(), spec.Name)
		if err != nil {
			return 0, errors.Wrapf(err, "failed reading byte usage of %s", spec.Name)
		}
		total += int64(committed) + c.transient.byteDelta(spec.Name)
	}
	if total < 0 {
		return 0, errors.Errorf("metered byte usage went negative")
	}
	return uint64(total), nil
}

func (c *executionContext) EmitEvent(event *types.Event) {
	c.events = append(c.events, event)
}

func (c *executionContext) AddPayout(payout *types.Payout) {
	c.payouts = append(c.payouts, payout)
}

func (c *executionContext) Log(message string, fields ...*log.Field) {
	c.logger.Info(message, fields...)
}

func (c *executionContext) PromiseCreate(contract string, method string, args []byte) (uint64, error) {
	return c.spawn(contract, method, args, nil)
}

func (c *executionContext) PromiseThen(dependsOn uint64, contract string, method string, args []byte) (uint64, error) {
	if dependsOn == 0 || dependsOn > c.frame.lastPromiseID || dependsOn == c.promiseID {
		return 0, errors.Errorf("promise %d is not available to depend on", dependsOn)
	}
	return c.spawn(contract, method, args, []uint64{dependsOn})
}

func (c *executionContext) spawn(contract string, method string, args []byte, dependsOn []uint64) (uint64, error) {
	if c.readOnly {
		return 0, errors.Errorf("method with read only scope may not spawn receipts")
	}
	promiseID, err := c.frame.issuePromiseID()
	if err != nil {
		return 0, err
	}
	c.spawned = append(c.spawned, &receipt{
		promiseID: promiseID,
		contract:  contract,
		method:    method,
		args:      args,
		caller:    types.AccountID(c.Self()),
		dependsOn: dependsOn,
	})
	return promiseID, nil
}

// ReturnPromise makes the result of this receipt resolve to the result of a
// promise it spawned. The id must come from PromiseCreate or PromiseThen in
// this same receipt; anything else is a contract bug.
func (c *executionContext) ReturnPromise(promiseID uint64) {
	for _, r := range c.spawned {
		if r.promiseID == promiseID {
			c.returned = &promiseID
			return
		}
	}
	panic(errors.Errorf("promise %d was not spawned by this receipt", promiseID))
}

func (c *executionContext) PromiseResults() []*PromiseResult {
	return c.results
}

func (c *executionContext) partitionSpec(partition string) (*PartitionSpec, error) {
	if spec, ok := c.contract.partitions[partition]; ok {
		return spec, nil
	}
	return nil, errors.Errorf("contract %s has no partition %s", c.Self(), partition)
}

// ensureOriginal pins the committed size of an entry before a blind write so
// the metering delta has a baseline even when the contract never read the key.
func (c *executionContext) ensureOriginal(partition string, key []byte) error {
	if c.transient.hasOriginal(partition, key) {
		return nil
	}
	value, found, err := c.host.persistence.Read(c.Self(), partition, key)
	if err != nil {
		return errors.Wrapf(err, "failed reading %s key from persistence", partition)
	}
	c.recordOriginal(partition, key, value, found)
	return nil
}

func (c *executionContext) recordOriginal(partition string, key []byte, value []byte, found bool) {
	if found {
		c.transient.recordOriginal(partition, key, adapter.StateEntrySize(key, value), true)
	} else {
		c.transient.recordOriginal(partition, key, 0, false)
	}
}

func logTagsForReceipt(frame *callFrame, r *receipt) []*log.Field {
	return []*log.Field{
		logfields.CallID(frame.callID),
		logfields.PromiseID(r.promiseID),
		logfields.Contract(r.contract),
		logfields.Method(r.method),
	}
}

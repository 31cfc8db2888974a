// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package host

import (
	"bytes"
	"context"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/fungible-ledger-go/services/host/adapter"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// receiptState is the settled view of one executed receipt, kept so later
// receipts and the final resolution can follow returned promises.
type receiptState struct {
	outcome  *ReceiptOutcome
	returned *uint64
}

// SendCall runs one transaction to completion: the root receipt plus every
// receipt it transitively spawns, in scheduling order. Each receipt commits or
// rolls back on its own; the returned error is the root receipt's failure, if
// any, with its cause preserved for callers that classify errors.
func (s *service) SendCall(goCtx context.Context, input *CallInput) (*CallOutput, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	start := time.Now()
	defer s.metrics.callTime.RecordSince(start)
	s.metrics.callsPerSecond.Measure(1)

	callID := atomic.AddUint64(&s.lastCallId, 1)
	output := &CallOutput{CallID: callID}

	if err := s.validateCallInput(input); err != nil {
		output.ErrorMessage = err.Error()
		return output, err
	}

	frame := &callFrame{callID: callID, maxPromises: uint64(s.config.MaxReceiptsPerCall())}
	rootID, err := frame.issuePromiseID()
	if err != nil {
		output.ErrorMessage = err.Error()
		return output, err
	}

	root := &receipt{
		promiseID: rootID,
		contract:  input.Contract,
		method:    input.Method,
		args:      input.Args,
		caller:    input.Caller,
		deposit:   input.Deposit,
	}

	states := map[uint64]*receiptState{}
	pending := map[uint64]bool{rootID: true}
	queue := []*receipt{root}
	var rootErr error

	requeued := 0
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]

		// a callback runs only after its dependency chain has settled
		if !dependenciesSettled(states, pending, r.dependsOn) {
			requeued++
			if requeued > len(queue)+1 {
				delete(pending, r.promiseID)
				states[r.promiseID] = cancelledReceiptState(r, "receipt dependencies can never settle")
				output.Receipts = append(output.Receipts, states[r.promiseID].outcome)
				continue
			}
			queue = append(queue, r)
			continue
		}
		requeued = 0

		delete(pending, r.promiseID)
		state, spawned, execErr := s.processReceipt(frame, r, states, output)
		states[r.promiseID] = state
		output.Receipts = append(output.Receipts, state.outcome)
		s.metrics.receiptsPerSecond.Measure(1)

		for _, spawn := range spawned {
			pending[spawn.promiseID] = true
		}
		queue = append(queue, spawned...)

		if r.promiseID == rootID && execErr != nil {
			rootErr = execErr
		}
	}

	output.Result, output.Success, output.ErrorMessage = resolvePromise(states, rootID)

	s.updateStateBytesMetric()
	return output, rootErr
}

// RunQuery dispatches a read only method against committed state. Queries
// carry no caller identity, attach no deposit and may not write or spawn.
func (s *service) RunQuery(goCtx context.Context, input *QueryInput) (*QueryOutput, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	s.metrics.queriesPerSecond.Measure(1)
	callID := atomic.AddUint64(&s.lastCallId, 1)

	if input == nil || input.Contract == "" || input.Method == "" {
		err := errors.Errorf("query must name a contract and a method")
		return &QueryOutput{ErrorMessage: err.Error()}, err
	}

	contract := s.loadContract(input.Contract)
	if contract == nil {
		err := errors.Errorf("contract %s is not deployed", input.Contract)
		return &QueryOutput{ErrorMessage: err.Error()}, err
	}
	mi, ok := contract.info.Methods[input.Method]
	if !ok {
		err := errors.Errorf("method %s not found on contract %s", input.Method, input.Contract)
		return &QueryOutput{ErrorMessage: err.Error()}, err
	}
	if !mi.External {
		err := errors.Errorf("method %s of contract %s may only be called by the contract itself", input.Method, input.Contract)
		return &QueryOutput{ErrorMessage: err.Error()}, err
	}
	if mi.Access != ACCESS_SCOPE_READ_ONLY {
		err := errors.Errorf("method %s of contract %s requires read-write scope, send a call instead", input.Method, input.Contract)
		return &QueryOutput{ErrorMessage: err.Error()}, err
	}

	frame := &callFrame{callID: callID}
	r := &receipt{contract: input.Contract, method: input.Method, args: input.Args}
	ectx := s.newExecutionContext(frame, contract, r, nil, true)

	value, err := s.processMethodCall(ectx, mi)
	if err != nil {
		ectx.logger.Info("query failed", log.Error(err))
		return &QueryOutput{ErrorMessage: err.Error()}, err
	}
	return &QueryOutput{Success: true, Result: value}, nil
}

func (s *service) validateCallInput(input *CallInput) error {
	if input == nil || input.Contract == "" || input.Method == "" {
		return errors.Errorf("call must name a contract and a method")
	}
	if err := types.ValidateAccountID(input.Caller); err != nil {
		return errors.Wrap(err, "invalid caller")
	}
	// deployed contract names are reserved identities
	if s.loadContract(string(input.Caller)) != nil && string(input.Caller) != input.Contract {
		return errors.Errorf("caller %s is a deployed contract and cannot be impersonated", input.Caller)
	}
	return nil
}

// processReceipt executes one receipt and settles it: on success the buffered
// writes commit as one batch and the spawned receipts are released; on failure
// nothing is written and the attached deposit comes back as a payout record.
func (s *service) processReceipt(frame *callFrame, r *receipt, states map[uint64]*receiptState, output *CallOutput) (*receiptState, []*receipt, error) {
	state := &receiptState{outcome: &ReceiptOutcome{
		PromiseID: r.promiseID,
		Contract:  r.contract,
		Method:    r.method,
	}}

	if r.deposit > 0 {
		s.metrics.treasuryUnits.Add(int64(r.deposit))
	}

	fail := func(err error) (*receiptState, []*receipt, error) {
		state.outcome.ErrorMessage = err.Error()
		if r.deposit > 0 {
			refund := &types.Payout{To: r.caller, Amount: types.U64(r.deposit), Reason: types.PayoutReasonCallFailed}
			output.Payouts = append(output.Payouts, refund)
			s.metrics.treasuryUnits.Add(-saturatingInt64(refund.Amount))
		}
		return state, nil, err
	}

	contract := s.loadContract(r.contract)
	if contract == nil {
		return fail(errors.Errorf("contract %s is not deployed", r.contract))
	}
	mi, ok := contract.info.Methods[r.method]
	if !ok {
		return fail(errors.Errorf("method %s not found on contract %s", r.method, r.contract))
	}
	if !mi.External && r.caller != types.AccountID(r.contract) {
		return fail(errors.Errorf("method %s of contract %s may only be called by the contract itself", r.method, r.contract))
	}

	ectx := s.newExecutionContext(frame, contract, r, dependencyResults(states, r.dependsOn), mi.Access == ACCESS_SCOPE_READ_ONLY)
	ectx.logger.Info("executing receipt", logfields.Account("caller", r.caller))

	value, err := s.processMethodCall(ectx, mi)
	if err != nil {
		ectx.logger.Info("receipt execution failed", log.Error(err))
		return fail(err)
	}

	if err := s.commitReceipt(ectx); err != nil {
		ectx.logger.Error("failed to commit receipt state", log.Error(err))
		return fail(errors.Wrap(err, "failed to commit receipt state"))
	}

	state.outcome.Success = true
	state.outcome.Value = value
	state.returned = ectx.returned

	output.Events = append(output.Events, ectx.events...)
	output.Payouts = append(output.Payouts, ectx.payouts...)
	for _, payout := range ectx.payouts {
		s.metrics.treasuryUnits.Add(-saturatingInt64(payout.Amount))
	}
	return state, ectx.spawned, nil
}

// processMethodCall runs the handler with panic recovery, so a contract bug
// aborts its receipt instead of the host.
func (s *service) processMethodCall(ectx *executionContext, methodInstance *MethodInfo) (result []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%s", r)
		}
	}()

	return methodInstance.Handler(ectx, ectx.args)
}

// commitReceipt turns the receipt's dirty entries into one deterministic write
// batch, partitions and keys in sorted order.
func (s *service) commitReceipt(ectx *executionContext) error {
	partitions := ectx.transient.dirtyPartitions()
	if len(partitions) == 0 {
		return nil
	}
	sort.Strings(partitions)

	var diffs []*adapter.StateRecord
	for _, partition := range partitions {
		var records []*adapter.StateRecord
		ectx.transient.forDirty(partition, func(key []byte, value []byte) {
			records = append(records, &adapter.StateRecord{Partition: partition, Key: key, Value: value})
		})
		sort.Slice(records, func(i, j int) bool { return bytes.Compare(records[i].Key, records[j].Key) < 0 })
		diffs = append(diffs, records...)
	}

	return s.persistence.Write(ectx.Self(), diffs)
}

// dependenciesSettled walks each dependency's promise chain. A chain is
// unsettled while any receipt on it still waits in the queue; a link that was
// never scheduled belongs to a failed spawner and counts as settled failure.
func dependenciesSettled(states map[uint64]*receiptState, pending map[uint64]bool, deps []uint64) bool {
	for _, d := range deps {
		id := d
		for {
			if pending[id] {
				return false
			}
			state, ok := states[id]
			if !ok || !state.outcome.Success || state.returned == nil {
				break
			}
			id = *state.returned
		}
	}
	return true
}

func dependencyResults(states map[uint64]*receiptState, deps []uint64) []*PromiseResult {
	if len(deps) == 0 {
		return nil
	}
	results := make([]*PromiseResult, 0, len(deps))
	for _, d := range deps {
		value, success, _ := resolvePromise(states, d)
		results = append(results, &PromiseResult{Successful: success, Value: value})
	}
	return results
}

// resolvePromise follows returned promises to the settled end of the chain.
// Chains always terminate: a receipt may only return a promise it spawned, so
// ids strictly increase along the walk.
func resolvePromise(states map[uint64]*receiptState, id uint64) (value []byte, success bool, errorMessage string) {
	for {
		state, ok := states[id]
		if !ok {
			return nil, false, "receipt was cancelled"
		}
		if !state.outcome.Success {
			return nil, false, state.outcome.ErrorMessage
		}
		if state.returned == nil {
			return state.outcome.Value, true, ""
		}
		id = *state.returned
	}
}

func cancelledReceiptState(r *receipt, message string) *receiptState {
	return &receiptState{outcome: &ReceiptOutcome{
		PromiseID:    r.promiseID,
		Contract:     r.contract,
		Method:       r.method,
		ErrorMessage: message,
	}}
}

func (s *service) updateStateBytesMetric() {
	total := int64(0)
	for name, contract := range s.contracts {
		for _, spec := range contract.info.Partitions {
			if !spec.Metered {
				continue
			}
			used, err := s.persistence.BytesUsed(name, spec.Name)
			if err != nil {
				s.logger.Error("failed reading committed byte usage", log.Error(err), logfields.Contract(name))
				return
			}
			total += int64(used)
		}
	}
	s.metrics.committedStateBytes.Update(total)
}

func saturatingInt64(v types.U128) int64 {
	if u, ok := v.Uint64(); ok && u <= math.MaxInt64 {
		return int64(u)
	}
	return math.MaxInt64
}

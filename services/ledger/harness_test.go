// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/orbs-network/fungible-ledger-go/config"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/metric"
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/services/host/adapter"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	ownerAccount    = "token-owner"
	initialSupply   = "1000000000000000"
	initialDeposit  = uint64(1000000)
	receiverAppName = "receiver-app"
)

type harness struct {
	tb          testing.TB
	host        host.Host
	persistence *adapter.InMemoryStatePersistence
	price       uint64
}

// newHarness boots a host with the ledger and a scriptable receiver contract
// deployed, and the ledger already initialized with the §8 supply.
func newHarness(tb testing.TB) *harness {
	h := newUninitializedHarness(tb)
	h.initialize(ownerAccount, initialSupply, nil)
	return h
}

func newUninitializedHarness(tb testing.TB) *harness {
	cfg := config.ForTests()
	h := &harness{
		tb:          tb,
		persistence: adapter.NewInMemoryStatePersistence(),
		price:       cfg.StoragePricePerByte(),
	}
	h.host = host.NewHost(h.persistence, cfg, log.DefaultTestingLogger(tb), metric.NewRegistry())
	require.NoError(tb, h.host.RegisterContract(CONTRACT))
	require.NoError(tb, h.host.RegisterContract(aReceiverAppContract()))
	return h
}

func (h *harness) initialize(owner types.AccountID, supply string, metadata *types.Metadata) {
	output, err := h.sendCall("initialize", &initializeArgs{
		OwnerID:     owner,
		TotalSupply: types.MustParseU128(supply),
		Metadata:    metadata,
	}, "deployer", initialDeposit)
	require.NoError(h.tb, err)
	require.True(h.tb, output.Success, "initialization should succeed")
}

func (h *harness) sendCall(method string, args interface{}, caller types.AccountID, deposit uint64) (*host.CallOutput, error) {
	return h.sendRawCall(method, encodeArgs(h.tb, args), caller, deposit)
}

func (h *harness) sendRawCall(method string, args []byte, caller types.AccountID, deposit uint64) (*host.CallOutput, error) {
	return h.host.SendCall(context.Background(), &host.CallInput{
		Contract: ContractName,
		Method:   method,
		Args:     args,
		Caller:   caller,
		Deposit:  deposit,
	})
}

func (h *harness) runQuery(method string, args interface{}) (*host.QueryOutput, error) {
	return h.host.RunQuery(context.Background(), &host.QueryInput{
		Contract: ContractName,
		Method:   method,
		Args:     encodeArgs(h.tb, args),
	})
}

func encodeArgs(tb testing.TB, args interface{}) []byte {
	if args == nil {
		return nil
	}
	raw, err := json.Marshal(args)
	require.NoError(tb, err)
	return raw
}

// register funds a fresh registration for the account at exactly the minimum.
// A third party pays so the helper also works for deployed contracts, whose
// identity cannot be used as a root caller.
func (h *harness) register(account types.AccountID) {
	output, err := h.sendCall("storage_deposit", &storageDepositArgs{AccountID: account}, "registrar", h.minimumDeposit())
	require.NoError(h.tb, err, "failed registering %s", account)
	require.True(h.tb, output.Success)
}

func (h *harness) minimumDeposit() uint64 {
	bounds := h.storageBalanceBounds()
	minimum, ok := bounds.Min.Uint64()
	require.True(h.tb, ok)
	return minimum
}

func (h *harness) storageBalanceBounds() *types.StorageBalanceBounds {
	output, err := h.runQuery("storage_balance_bounds", nil)
	require.NoError(h.tb, err)
	bounds := &types.StorageBalanceBounds{}
	require.NoError(h.tb, json.Unmarshal(output.Result, bounds))
	return bounds
}

func (h *harness) balanceOf(account types.AccountID) types.U128 {
	output, err := h.runQuery("ft_balance_of", &accountArgs{AccountID: account})
	require.NoError(h.tb, err)
	balance := types.U128{}
	require.NoError(h.tb, json.Unmarshal(output.Result, &balance))
	return balance
}

func (h *harness) totalSupply() types.U128 {
	output, err := h.runQuery("ft_total_supply", nil)
	require.NoError(h.tb, err)
	supply := types.U128{}
	require.NoError(h.tb, json.Unmarshal(output.Result, &supply))
	return supply
}

func (h *harness) storageBalanceOf(account types.AccountID) *types.StorageBalance {
	output, err := h.runQuery("storage_balance_of", &accountArgs{AccountID: account})
	require.NoError(h.tb, err)
	if string(output.Result) == "null" {
		return nil
	}
	balance := &types.StorageBalance{}
	require.NoError(h.tb, json.Unmarshal(output.Result, balance))
	return balance
}

// requireConservation walks the committed balances partition and checks that
// the account balances add up to the recorded total supply.
func (h *harness) requireConservation(t *testing.T) {
	sum := types.U128{}
	supply := types.U128{}
	err := h.persistence.ReadPartition(ContractName, balancesPartition, func(key []byte, value []byte) bool {
		switch len(key) {
		case 1:
			parsed, err := types.U128FromBytes16(value)
			require.NoError(t, err)
			supply = parsed
		default:
			record, err := decodeAccountRecord(value)
			require.NoError(t, err)
			next, ok := sum.Add(record.balance)
			require.True(t, ok, "balances overflowed while summing")
			sum = next
		}
		return true
	})
	require.NoError(t, err)
	require.Equal(t, supply, sum, "sum of balances should equal the total supply")
}

func (h *harness) requirePendingEmpty(t *testing.T) {
	count := 0
	err := h.persistence.ReadPartition(ContractName, pendingPartition, func(key []byte, value []byte) bool {
		count++
		return true
	})
	require.NoError(t, err)
	require.Zero(t, count, "no pending transfer should survive settlement")
}

func (h *harness) dumpState() string {
	return h.persistence.Dump(ContractName)
}

///////////////////////////////////////////////////////////////////////////

// the receiver app scripts its ft_on_transfer behavior from the msg payload:
// "use:N" reports N used, "fail" aborts, "garbage" reports nonsense and
// anything else reports zero

func aReceiverAppContract() *host.ContractInfo {
	onTransfer := &host.MethodInfo{
		Name:     "ft_on_transfer",
		External: true,
		Access:   host.ACCESS_SCOPE_READ_WRITE,
		Handler:  receiverAppOnTransfer,
	}
	return &host.ContractInfo{
		Name:       receiverAppName,
		Partitions: []*host.PartitionSpec{{Name: "state", Metered: false}},
		Methods:    map[string]*host.MethodInfo{onTransfer.Name: onTransfer},
	}
}

func receiverAppOnTransfer(ctx host.CallContext, args []byte) ([]byte, error) {
	parsed := &onTransferArgs{}
	if err := json.Unmarshal(args, parsed); err != nil {
		return nil, err
	}
	switch {
	case parsed.Msg == "fail":
		return nil, errors.Errorf("receiver app rejects the transfer")
	case parsed.Msg == "garbage":
		return []byte("certainly not a decimal string"), nil
	case strings.HasPrefix(parsed.Msg, "use:"):
		return json.Marshal(types.MustParseU128(strings.TrimPrefix(parsed.Msg, "use:")))
	}
	return json.Marshal(types.U128{})
}

///////////////////////////////////////////////////////////////////////////

// stubContext runs a single handler against plain maps, for unit tests of the
// settlement and guard arithmetic that drive state the live host cannot reach.
type stubContext struct {
	caller  types.AccountID
	deposit uint64
	price   uint64
	state   map[string]map[string][]byte
	events  []*types.Event
	payouts []*types.Payout
	results []*host.PromiseResult
}

func newStubContext() *stubContext {
	return &stubContext{
		caller: ContractName,
		price:  10,
		state:  map[string]map[string][]byte{},
	}
}

func (s *stubContext) CallID() uint64 { return 1 }

func (s *stubContext) Self() string { return ContractName }

func (s *stubContext) Caller() types.AccountID { return s.caller }

func (s *stubContext) AttachedDeposit() uint64 { return s.deposit }

func (s *stubContext) StorageByteCost() uint64 { return s.price }

func (s *stubContext) ReadState(partition string, key []byte) ([]byte, bool, error) {
	value, ok := s.state[partition][string(key)]
	return value, ok, nil
}

func (s *stubContext) WriteState(partition string, key []byte, value []byte) error {
	if s.state[partition] == nil {
		s.state[partition] = map[string][]byte{}
	}
	s.state[partition][string(key)] = value
	return nil
}

func (s *stubContext) ClearState(partition string, key []byte) error {
	delete(s.state[partition], string(key))
	return nil
}

func (s *stubContext) MeteredBytesUsed() (uint64, error) {
	total := uint64(0)
	for _, partition := range []string{balancesPartition, metadataPartition} {
		for key, value := range s.state[partition] {
			total += adapter.StateEntrySize([]byte(key), value)
		}
	}
	return total, nil
}

func (s *stubContext) EmitEvent(event *types.Event) { s.events = append(s.events, event) }

func (s *stubContext) AddPayout(payout *types.Payout) { s.payouts = append(s.payouts, payout) }

func (s *stubContext) Log(message string, fields ...*log.Field) {}

func (s *stubContext) PromiseCreate(contract string, method string, args []byte) (uint64, error) {
	return 0, errors.Errorf("this test context does not schedule receipts")
}

func (s *stubContext) PromiseThen(dependsOn uint64, contract string, method string, args []byte) (uint64, error) {
	return 0, errors.Errorf("this test context does not schedule receipts")
}

func (s *stubContext) ReturnPromise(promiseID uint64) {}

func (s *stubContext) PromiseResults() []*host.PromiseResult { return s.results }

func (s *stubContext) seedAccount(t *testing.T, id types.AccountID, balance string, storageDeposit uint64) {
	record := &accountRecord{
		balance:        types.MustParseU128(balance),
		storageDeposit: types.U64(storageDeposit),
	}
	require.NoError(t, theContract.writeAccount(s, id, record))
}

func (s *stubContext) seedSupply(t *testing.T, supply string) {
	require.NoError(t, theContract.writeSupply(s, types.MustParseU128(supply)))
}

func (s *stubContext) seedPendingTransfer(t *testing.T, promiseID uint64, pending *types.PendingTransfer) {
	require.NoError(t, theContract.writePendingTransfer(s, promiseID, pending))
}

func (s *stubContext) accountBalance(t *testing.T, id types.AccountID) types.U128 {
	record, found, err := theContract.readAccount(s, id)
	require.NoError(t, err)
	require.True(t, found, "account %s should exist", id)
	return record.balance
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"encoding/binary"
	"encoding/json"

	"github.com/orbs-network/fungible-ledger-go/crypto/hash"
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/pkg/errors"
)

// State layout. Account entries are hashed to a fixed 20 byte key and hold a
// fixed 32 byte record, so every registered account occupies exactly the same
// number of metered bytes and the registration minimum is one number.
//
//   balances (metered):  ripemd160(sha256(account)) -> balance | storageDeposit
//                        't'                        -> total supply
//   metadata (metered):  'm'                        -> token metadata JSON
//                        'u'                        -> measured account entry bytes
//   pending (unmetered): promise id, big endian     -> PendingTransfer JSON
const (
	balancesPartition = "balances"
	metadataPartition = "metadata"
	pendingPartition  = "pending"
)

var (
	supplyKey     = []byte("t")
	metadataKey   = []byte("m")
	entryBytesKey = []byte("u")
)

const accountRecordSize = 32

// accountRecord is the registered state of one account. balance is the token
// holding, storageDeposit the native units retained to pay for the entry's bytes.
type accountRecord struct {
	balance        types.U128
	storageDeposit types.U128
}

func accountStateKey(id types.AccountID) []byte {
	return hash.CalcRipemd160Sha256([]byte(id))
}

func encodeAccountRecord(record *accountRecord) []byte {
	return append(record.balance.Bytes16(), record.storageDeposit.Bytes16()...)
}

func decodeAccountRecord(raw []byte) (*accountRecord, error) {
	if len(raw) != accountRecordSize {
		return nil, errors.Errorf("account record must be %d bytes, got %d", accountRecordSize, len(raw))
	}
	balance, err := types.U128FromBytes16(raw[0:16])
	if err != nil {
		return nil, err
	}
	storageDeposit, err := types.U128FromBytes16(raw[16:32])
	if err != nil {
		return nil, err
	}
	return &accountRecord{balance: balance, storageDeposit: storageDeposit}, nil
}

func (c *contract) readAccount(ctx host.CallContext, id types.AccountID) (*accountRecord, bool, error) {
	raw, found, err := ctx.ReadState(balancesPartition, accountStateKey(id))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	record, err := decodeAccountRecord(raw)
	if err != nil {
		return nil, false, errors.Wrapf(err, "account %s state is corrupt", id)
	}
	return record, true, nil
}

func (c *contract) writeAccount(ctx host.CallContext, id types.AccountID, record *accountRecord) error {
	return ctx.WriteState(balancesPartition, accountStateKey(id), encodeAccountRecord(record))
}

func (c *contract) clearAccount(ctx host.CallContext, id types.AccountID) error {
	return ctx.ClearState(balancesPartition, accountStateKey(id))
}

func (c *contract) readSupply(ctx host.CallContext) (types.U128, error) {
	raw, found, err := ctx.ReadState(balancesPartition, supplyKey)
	if err != nil {
		return types.U128{}, err
	}
	if !found {
		return types.U128{}, errors.Wrap(ErrNotInitialized, "total supply is not set")
	}
	return types.U128FromBytes16(raw)
}

func (c *contract) writeSupply(ctx host.CallContext, supply types.U128) error {
	return ctx.WriteState(balancesPartition, supplyKey, supply.Bytes16())
}

func (c *contract) readMetadata(ctx host.CallContext) (*types.Metadata, error) {
	raw, found, err := ctx.ReadState(metadataPartition, metadataKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInitialized
	}
	metadata := &types.Metadata{}
	if err := json.Unmarshal(raw, metadata); err != nil {
		return nil, errors.Wrap(err, "stored token metadata is corrupt")
	}
	return metadata, nil
}

// requireInitialized gates every method except initialize. The metadata record
// is written last during initialization, so its presence marks a complete ledger.
func (c *contract) requireInitialized(ctx host.CallContext) error {
	_, found, err := ctx.ReadState(metadataPartition, metadataKey)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotInitialized
	}
	return nil
}

func (c *contract) readAccountEntryBytes(ctx host.CallContext) (uint64, error) {
	raw, found, err := ctx.ReadState(metadataPartition, entryBytesKey)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.Wrap(ErrNotInitialized, "account entry size is not measured")
	}
	if len(raw) != 8 {
		return 0, errors.Errorf("account entry size record must be 8 bytes, got %d", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (c *contract) writeAccountEntryBytes(ctx host.CallContext, entryBytes uint64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, entryBytes)
	return ctx.WriteState(metadataPartition, entryBytesKey, raw)
}

// minimumStorageBalance is the deposit that covers exactly one account entry
// at the host's storage price.
func (c *contract) minimumStorageBalance(ctx host.CallContext) (types.U128, error) {
	entryBytes, err := c.readAccountEntryBytes(ctx)
	if err != nil {
		return types.U128{}, err
	}
	return types.MulU64(entryBytes, ctx.StorageByteCost()), nil
}

func pendingTransferKey(promiseID uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, promiseID)
	return key
}

func (c *contract) readPendingTransfer(ctx host.CallContext, promiseID uint64) (*types.PendingTransfer, bool, error) {
	raw, found, err := ctx.ReadState(pendingPartition, pendingTransferKey(promiseID))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	pending := &types.PendingTransfer{}
	if err := json.Unmarshal(raw, pending); err != nil {
		return nil, false, errors.Wrapf(err, "pending transfer %d is corrupt", promiseID)
	}
	return pending, true, nil
}

func (c *contract) writePendingTransfer(ctx host.CallContext, promiseID uint64, pending *types.PendingTransfer) error {
	raw, err := json.Marshal(pending)
	if err != nil {
		return errors.Wrap(err, "failed encoding pending transfer")
	}
	return ctx.WriteState(pendingPartition, pendingTransferKey(promiseID), raw)
}

func (c *contract) clearPendingTransfer(ctx host.CallContext, promiseID uint64) error {
	return ctx.ClearState(pendingPartition, pendingTransferKey(promiseID))
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

// StateEntryOverheadBytes is the fixed per-entry cost added to every stored
// cell on top of its key and value lengths. Deterministic byte accounting is
// part of the execution semantics, so the constant is owned by the adapter
// rather than by any particular backend.
const StateEntryOverheadBytes = 40

func StateEntrySize(key []byte, value []byte) uint64 {
	return uint64(len(key)) + uint64(len(value)) + StateEntryOverheadBytes
}

// StateRecord is a single cell of a contract partition. A nil Value marks a
// deletion when the record appears in a write batch.
type StateRecord struct {
	Partition string
	Key       []byte
	Value     []byte
}

// StatePersistence stores committed contract state as named partitions of
// key/value cells and keeps a byte-usage counter per partition. A Write batch
// is applied atomically: either every record lands or none do.
type StatePersistence interface {
	Write(contract string, diffs []*StateRecord) error
	Read(contract string, partition string, key []byte) ([]byte, bool, error)
	ReadPartition(contract string, partition string, f func(key []byte, value []byte) bool) error
	BytesUsed(contract string, partition string) (uint64, error)
	Dump(contract string) string
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// bytesUsedBucket holds one 8-byte counter per partition inside each contract
// bucket. Partition names starting with "__" are reserved for it.
const bytesUsedBucket = "__bytes_used"

// BoltStatePersistence keeps committed contract state in a single bolt file.
// Each contract is a top level bucket with one nested bucket per partition,
// so a Write batch maps onto one bolt update transaction and inherits its
// atomicity.
type BoltStatePersistence struct {
	db     *bolt.DB
	logger log.Logger
}

func NewBoltStatePersistence(path string, parent log.Logger) (*BoltStatePersistence, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open state file %s", path)
	}
	logger := parent.WithTags(log.String("adapter", "bolt"))
	logger.Info("opened state file", log.String("path", path))
	return &BoltStatePersistence{db: db, logger: logger}, nil
}

func (sp *BoltStatePersistence) Close() error {
	return sp.db.Close()
}

func (sp *BoltStatePersistence) Write(contract string, diffs []*StateRecord) error {
	return sp.db.Update(func(tx *bolt.Tx) error {
		cb, err := tx.CreateBucketIfNotExists([]byte(contract))
		if err != nil {
			return errors.Wrapf(err, "failed to create bucket for contract %s", contract)
		}
		sizes, err := cb.CreateBucketIfNotExists([]byte(bytesUsedBucket))
		if err != nil {
			return errors.Wrap(err, "failed to create size bucket")
		}

		deltas := map[string]int64{}
		for _, diff := range diffs {
			if strings.HasPrefix(diff.Partition, "__") {
				return errors.Errorf("partition name %s is reserved", diff.Partition)
			}
			pb, err := cb.CreateBucketIfNotExists([]byte(diff.Partition))
			if err != nil {
				return errors.Wrapf(err, "failed to create bucket for partition %s", diff.Partition)
			}

			if old := pb.Get(diff.Key); old != nil {
				deltas[diff.Partition] -= int64(StateEntrySize(diff.Key, old))
			}

			if isZeroValue(diff.Value) {
				if err := pb.Delete(diff.Key); err != nil {
					return err
				}
				continue
			}

			if err := pb.Put(diff.Key, diff.Value); err != nil {
				return err
			}
			deltas[diff.Partition] += int64(StateEntrySize(diff.Key, diff.Value))
		}

		for partition, delta := range deltas {
			used := int64(readCounter(sizes, partition)) + delta
			if used < 0 {
				return errors.Errorf("byte counter for partition %s went negative", partition)
			}
			counter := make([]byte, 8)
			binary.BigEndian.PutUint64(counter, uint64(used))
			if err := sizes.Put([]byte(partition), counter); err != nil {
				return err
			}
		}

		return nil
	})
}

func (sp *BoltStatePersistence) Read(contract string, partition string, key []byte) ([]byte, bool, error) {
	var value []byte
	var found bool
	err := sp.db.View(func(tx *bolt.Tx) error {
		pb := partitionBucket(tx, contract, partition)
		if pb == nil {
			return nil
		}
		if v := pb.Get(key); v != nil {
			value = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	return value, found, err
}

func (sp *BoltStatePersistence) ReadPartition(contract string, partition string, f func(key []byte, value []byte) bool) error {
	return sp.db.View(func(tx *bolt.Tx) error {
		pb := partitionBucket(tx, contract, partition)
		if pb == nil {
			return nil
		}
		c := pb.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if !f(append([]byte(nil), k...), append([]byte(nil), v...)) {
				break
			}
		}
		return nil
	})
}

func (sp *BoltStatePersistence) BytesUsed(contract string, partition string) (uint64, error) {
	var used uint64
	err := sp.db.View(func(tx *bolt.Tx) error {
		cb := tx.Bucket([]byte(contract))
		if cb == nil {
			return nil
		}
		if sizes := cb.Bucket([]byte(bytesUsedBucket)); sizes != nil {
			used = readCounter(sizes, partition)
		}
		return nil
	})
	return used, err
}

func (sp *BoltStatePersistence) Dump(contract string) string {
	output := strings.Builder{}
	output.WriteString("{")

	err := sp.db.View(func(tx *bolt.Tx) error {
		cb := tx.Bucket([]byte(contract))
		if cb == nil {
			return nil
		}
		sizes := cb.Bucket([]byte(bytesUsedBucket))

		return cb.ForEach(func(name []byte, v []byte) error {
			if v != nil || string(name) == bytesUsedBucket {
				return nil
			}
			pb := cb.Bucket(name)
			output.WriteString(fmt.Sprintf("%s[%d]:{", name, readCounter(sizes, string(name))))
			err := pb.ForEach(func(k []byte, v []byte) error {
				output.WriteString(hex.EncodeToString(k))
				output.WriteString(":")
				output.WriteString(hex.EncodeToString(v))
				output.WriteString(",")
				return nil
			})
			output.WriteString("},")
			return err
		})
	})
	if err != nil {
		sp.logger.Error("failed to dump contract state", log.Error(err), logfields.Contract(contract))
	}

	output.WriteString("}")
	return output.String()
}

func partitionBucket(tx *bolt.Tx, contract string, partition string) *bolt.Bucket {
	cb := tx.Bucket([]byte(contract))
	if cb == nil {
		return nil
	}
	return cb.Bucket([]byte(partition))
}

func readCounter(sizes *bolt.Bucket, partition string) uint64 {
	if sizes == nil {
		return 0
	}
	v := sizes.Get([]byte(partition))
	if len(v) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

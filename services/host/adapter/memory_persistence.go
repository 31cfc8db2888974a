// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type partitionState struct {
	records   map[string][]byte
	bytesUsed uint64
}

type contractState map[string]*partitionState

type InMemoryStatePersistence struct {
	mutex     sync.RWMutex
	contracts map[string]contractState
}

func NewInMemoryStatePersistence() *InMemoryStatePersistence {
	return &InMemoryStatePersistence{
		contracts: map[string]contractState{},
	}
}

func (sp *InMemoryStatePersistence) Write(contract string, diffs []*StateRecord) error {
	sp.mutex.Lock()
	defer sp.mutex.Unlock()

	state, ok := sp.contracts[contract]
	if !ok {
		state = contractState{}
		sp.contracts[contract] = state
	}

	for _, diff := range diffs {
		sp.writeOneRecord(state, diff)
	}

	return nil
}

func (sp *InMemoryStatePersistence) writeOneRecord(state contractState, diff *StateRecord) {
	partition, ok := state[diff.Partition]
	if !ok {
		partition = &partitionState{records: map[string][]byte{}}
		state[diff.Partition] = partition
	}

	key := string(diff.Key)
	if old, exists := partition.records[key]; exists {
		partition.bytesUsed -= StateEntrySize(diff.Key, old)
	}

	if isZeroValue(diff.Value) {
		delete(partition.records, key)
		return
	}

	partition.records[key] = append([]byte(nil), diff.Value...)
	partition.bytesUsed += StateEntrySize(diff.Key, diff.Value)
}

func (sp *InMemoryStatePersistence) Read(contract string, partition string, key []byte) ([]byte, bool, error) {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	if state, ok := sp.contracts[contract]; ok {
		if p, ok := state[partition]; ok {
			if value, exists := p.records[string(key)]; exists {
				return append([]byte(nil), value...), true, nil
			}
		}
	}
	return nil, false, nil
}

func (sp *InMemoryStatePersistence) ReadPartition(contract string, partition string, f func(key []byte, value []byte) bool) error {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	state, ok := sp.contracts[contract]
	if !ok {
		return nil
	}
	p, ok := state[partition]
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(p.records))
	for k := range p.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !f([]byte(k), append([]byte(nil), p.records[k]...)) {
			break
		}
	}
	return nil
}

func (sp *InMemoryStatePersistence) BytesUsed(contract string, partition string) (uint64, error) {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	if state, ok := sp.contracts[contract]; ok {
		if p, ok := state[partition]; ok {
			return p.bytesUsed, nil
		}
	}
	return 0, nil
}

func (sp *InMemoryStatePersistence) Dump(contract string) string {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	output := strings.Builder{}
	output.WriteString("{")

	if state, ok := sp.contracts[contract]; ok {
		partitions := make([]string, 0, len(state))
		for name := range state {
			partitions = append(partitions, name)
		}
		sort.Strings(partitions)

		for _, name := range partitions {
			p := state[name]
			keys := make([]string, 0, len(p.records))
			for k := range p.records {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			output.WriteString(fmt.Sprintf("%s[%d]:{", name, p.bytesUsed))
			for _, k := range keys {
				output.WriteString(hex.EncodeToString([]byte(k)))
				output.WriteString(":")
				output.WriteString(hex.EncodeToString(p.records[k]))
				output.WriteString(",")
			}
			output.WriteString("},")
		}
	}

	output.WriteString("}")
	return output.String()
}

func isZeroValue(value []byte) bool {
	return len(value) == 0
}

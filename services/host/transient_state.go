// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package host

import (
	"github.com/orbs-network/fungible-ledger-go/services/host/adapter"
)

// transientState buffers the writes of one receipt on top of committed state.
// A dirty entry with a nil value is a pending deletion. Alongside the buffered
// values it remembers the committed size of every touched entry, so the
// metered byte delta of the receipt can be computed before commit.
type transientState struct {
	partitions map[string]*transientPartition
}

type transientPartition struct {
	entries   map[string]*transientEntry
	originals map[string]originalEntry
}

type transientEntry struct {
	value []byte
	dirty bool
}

type originalEntry struct {
	size   uint64
	exists bool
}

type keyValuePair struct {
	key   []byte
	value []byte
	dirty bool
}

func newTransientState() *transientState {
	return &transientState{
		partitions: map[string]*transientPartition{},
	}
}

func (t *transientState) partition(name string) *transientPartition {
	p, ok := t.partitions[name]
	if !ok {
		p = &transientPartition{
			entries:   map[string]*transientEntry{},
			originals: map[string]originalEntry{},
		}
		t.partitions[name] = p
	}
	return p
}

// getValue returns the buffered value for a key. found reports whether the
// transient layer knows this key at all; a found nil value means the key is
// pending deletion.
func (t *transientState) getValue(partition string, key []byte) ([]byte, bool) {
	if p, ok := t.partitions[partition]; ok {
		if entry, ok := p.entries[string(key)]; ok {
			return entry.value, true
		}
	}
	return nil, false
}

func (t *transientState) setValue(partition string, key []byte, value []byte, dirty bool) {
	t.partition(partition).entries[string(key)] = &transientEntry{
		value: value,
		dirty: dirty,
	}
}

// recordOriginal pins the committed size of an entry the first time the
// receipt touches it. Later calls for the same key are ignored so the delta
// always measures against the state as of the start of the receipt.
func (t *transientState) recordOriginal(partition string, key []byte, size uint64, exists bool) {
	p := t.partition(partition)
	if _, ok := p.originals[string(key)]; !ok {
		p.originals[string(key)] = originalEntry{size: size, exists: exists}
	}
}

func (t *transientState) hasOriginal(partition string, key []byte) bool {
	if p, ok := t.partitions[partition]; ok {
		_, ok := p.originals[string(key)]
		return ok
	}
	return false
}

func (t *transientState) forDirty(partition string, f func(key []byte, value []byte)) {
	if p, ok := t.partitions[partition]; ok {
		for key, entry := range p.entries {
			if entry.dirty {
				f([]byte(key), entry.value)
			}
		}
	}
}

func (t *transientState) dirtyPartitions() []string {
	var names []string
	for name, p := range t.partitions {
		for _, entry := range p.entries {
			if entry.dirty {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// byteDelta is the signed change in stored bytes this receipt would commit to
// one partition: the size of every dirty entry minus the committed size it
// replaces. Dirty entries always have a recorded original.
func (t *transientState) byteDelta(partition string) int64 {
	p, ok := t.partitions[partition]
	if !ok {
		return 0
	}
	delta := int64(0)
	for key, entry := range p.entries {
		if !entry.dirty {
			continue
		}
		if entry.value != nil {
			delta += int64(adapter.StateEntrySize([]byte(key), entry.value))
		}
		if original := p.originals[key]; original.exists {
			delta -= int64(original.size)
		}
	}
	return delta
}

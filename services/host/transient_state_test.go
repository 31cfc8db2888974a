// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package host

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func requireDirtyPairs(t *testing.T, s *transientState, partition string, expected []keyValuePair) {
	d := []keyValuePair{}
	s.forDirty(partition, func(key []byte, value []byte) {
		d = append(d, keyValuePair{key, value, true})
	})
	require.ElementsMatch(t, expected, d, "dirty keys should be equal")
}

func TestTransientStateReadMissingPartition(t *testing.T) {
	s := newTransientState()

	_, found := s.getValue("balances", []byte{0x01})
	require.False(t, found, "key should not be found")

	requireDirtyPairs(t, s, "balances", []keyValuePair{})
}

func TestTransientStateReadMissingKey(t *testing.T) {
	s := newTransientState()
	s.setValue("balances", []byte{0x02}, []byte{0x77, 0x88}, false)

	_, found := s.getValue("balances", []byte{0x01})
	require.False(t, found, "key should not be found")

	requireDirtyPairs(t, s, "balances", []keyValuePair{})
}

func TestTransientStateWriteReadKey(t *testing.T) {
	s := newTransientState()
	s.setValue("balances", []byte{0x01}, []byte{0x77, 0x88}, false)

	v, found := s.getValue("balances", []byte{0x01})
	require.True(t, found, "key should be found")
	require.Equal(t, []byte{0x77, 0x88}, v, "value should be equal")

	requireDirtyPairs(t, s, "balances", []keyValuePair{})
}

func TestTransientStateReplaceKey(t *testing.T) {
	s := newTransientState()
	s.setValue("balances", []byte{0x01}, []byte{0x77, 0x88}, false)
	s.setValue("balances", []byte{0x01}, []byte{0x99, 0xaa, 0xbb}, false)

	v, found := s.getValue("balances", []byte{0x01})
	require.True(t, found, "key should be found")
	require.Equal(t, []byte{0x99, 0xaa, 0xbb}, v, "value should be equal")

	requireDirtyPairs(t, s, "balances", []keyValuePair{})
}

func TestTransientStateWriteDirtyReadKeys(t *testing.T) {
	s := newTransientState()
	s.setValue("balances", []byte{0x01}, []byte{0x22, 0x33}, true)
	s.setValue("balances", []byte{0x02}, []byte{0x33, 0x44}, false)
	s.setValue("balances", []byte{0x03}, []byte{0x44, 0x55}, false)
	s.setValue("balances", []byte{0x03}, []byte{0x55, 0x66}, true)
	s.setValue("balances", []byte{0x04}, []byte{0x66, 0x77}, true)
	s.setValue("balances", []byte{0x04}, []byte{0x77, 0x88}, false)
	s.setValue("balances", []byte{0x05}, []byte{0x88, 0x99}, true)
	s.setValue("balances", []byte{0x05}, []byte{0x99, 0xaa}, true)

	v, found := s.getValue("balances", []byte{0x01})
	require.True(t, found, "key should be found")
	require.Equal(t, []byte{0x22, 0x33}, v, "value should be equal")

	requireDirtyPairs(t, s, "balances", []keyValuePair{
		{[]byte{0x01}, []byte{0x22, 0x33}, true},
		{[]byte{0x03}, []byte{0x55, 0x66}, true},
		{[]byte{0x05}, []byte{0x99, 0xaa}, true},
	})
}

func TestTransientStateDirtyPartitions(t *testing.T) {
	s := newTransientState()
	s.setValue("balances", []byte{0x01}, []byte{0x22}, true)
	s.setValue("metadata", []byte{0x01}, []byte{0x33}, false)
	s.setValue("pending", []byte{0x01}, []byte{0x44}, true)

	require.ElementsMatch(t, []string{"balances", "pending"}, s.dirtyPartitions(), "only partitions with dirty entries should be listed")
}

func TestTransientStateRecordOriginalPinsFirstSize(t *testing.T) {
	s := newTransientState()

	require.False(t, s.hasOriginal("balances", []byte{0x01}), "untouched key should have no original")

	s.recordOriginal("balances", []byte{0x01}, 50, true)
	s.recordOriginal("balances", []byte{0x01}, 999, true) // ignored, first recording sticks
	require.True(t, s.hasOriginal("balances", []byte{0x01}), "touched key should have an original")

	s.setValue("balances", []byte{0x01}, make([]byte, 19), true) // entry size 1+19+40 = 60
	require.EqualValues(t, 60-50, s.byteDelta("balances"), "delta should measure against the first recorded size")
}

func TestTransientStateByteDelta(t *testing.T) {
	s := newTransientState()
	require.EqualValues(t, 0, s.byteDelta("balances"), "empty partition should have zero delta")

	// new entry over a missing original: full entry size counts
	s.recordOriginal("balances", []byte{0x01}, 0, false)
	s.setValue("balances", []byte{0x01}, make([]byte, 9), true) // 1+9+40 = 50
	require.EqualValues(t, 50, s.byteDelta("balances"), "creating an entry should add its full size")

	// overwrite of an existing entry: only the size difference counts
	s.recordOriginal("balances", []byte{0x02}, 45, true)
	s.setValue("balances", []byte{0x02}, make([]byte, 14), true) // 1+14+40 = 55
	require.EqualValues(t, 50+10, s.byteDelta("balances"), "overwriting should add the size difference")

	// deletion of an existing entry: its committed size is released
	s.recordOriginal("balances", []byte{0x03}, 70, true)
	s.setValue("balances", []byte{0x03}, nil, true)
	require.EqualValues(t, 50+10-70, s.byteDelta("balances"), "deleting should subtract the committed size")

	// clean reads never move the delta
	s.recordOriginal("balances", []byte{0x04}, 100, true)
	s.setValue("balances", []byte{0x04}, make([]byte, 59), false)
	require.EqualValues(t, 50+10-70, s.byteDelta("balances"), "clean entries should not count")

	require.EqualValues(t, 0, s.byteDelta("metadata"), "deltas should be tracked per partition")
}

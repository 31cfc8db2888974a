// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterContract_RejectsBrokenDeclarations(t *testing.T) {
	tests := []struct {
		name          string
		info          *ContractInfo
		expectedError string
	}{
		{"nil info", nil, "contract info is nil"},
		{"invalid name", contractNamed("UPPERCASE"), "valid account id"},
		{"no partitions", &ContractInfo{Name: "empty.contract", Methods: someMethods()}, "no state partitions"},
		{"reserved partition", contractWithPartitions("reserved.contract", "__counters"), "is reserved"},
		{"duplicate partition", contractWithPartitions("twice.contract", "main", "main"), "declares partition main twice"},
		{"no methods", &ContractInfo{Name: "mute.contract", Partitions: []*PartitionSpec{{Name: "main"}}}, "no methods"},
		{"nil handler", contractWithMethod("lazy.contract", "broken", &MethodInfo{Name: "broken"}), "has no handler"},
		{"wrong method key", contractWithMethod("sloppy.contract", "alias", &MethodInfo{Name: "real", Handler: vaultHidden}), "registered under the wrong name"},
	}

	h := newHarness(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.host.RegisterContract(tt.info)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestRegisterContract_RejectsDoubleDeployment(t *testing.T) {
	h := newHarness(t)

	err := h.host.RegisterContract(aVaultContract())
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
}

func contractNamed(name string) *ContractInfo {
	return &ContractInfo{
		Name:       name,
		Partitions: []*PartitionSpec{{Name: "main", Metered: true}},
		Methods:    someMethods(),
	}
}

func contractWithPartitions(name string, partitions ...string) *ContractInfo {
	info := contractNamed(name)
	info.Partitions = nil
	for _, p := range partitions {
		info.Partitions = append(info.Partitions, &PartitionSpec{Name: p})
	}
	return info
}

func contractWithMethod(name string, key string, mi *MethodInfo) *ContractInfo {
	info := contractNamed(name)
	info.Methods = map[string]*MethodInfo{key: mi}
	return info
}

func someMethods() map[string]*MethodInfo {
	return map[string]*MethodInfo{
		"peek": {Name: "peek", External: true, Access: ACCESS_SCOPE_READ_ONLY, Handler: vaultHidden},
	}
}

func TestRunQuery_ReadsCommittedState(t *testing.T) {
	h := newHarness(t)

	_, err := h.sendCall("vault", "store", (&vaultArgs{Key: "color", Value: "teal"}).raw(), "alice.near", 0)
	require.NoError(t, err)

	output, err := h.runQuery("vault", "get", (&vaultArgs{Key: "color"}).raw())
	require.NoError(t, err)
	require.True(t, output.Success)
	require.EqualValues(t, []byte("teal"), output.Result)

	output, err = h.runQuery("vault", "get", (&vaultArgs{Key: "shape"}).raw())
	require.Error(t, err)
	require.Contains(t, output.ErrorMessage, "key shape not found")
}

func TestRunQuery_AcceptsOnlyExternalReadOnlyMethods(t *testing.T) {
	h := newHarness(t)

	_, err := h.runQuery("vault", "store", (&vaultArgs{Key: "k", Value: "v"}).raw())
	require.Error(t, err)
	require.Contains(t, err.Error(), "requires read-write scope")

	_, err = h.runQuery("vault", "hidden", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "may only be called by the contract itself")

	_, err = h.runQuery("ghost", "get", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not deployed")

	_, err = h.runQuery("vault", "ghost", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found on contract")
}

func TestRunQuery_DeniesWritesAndSpawns(t *testing.T) {
	h := newHarness(t)

	_, err := h.runQuery("vault", "sneakyWrite", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "may not write state")

	_, err = h.runQuery("vault", "sneakySpawn", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "may not spawn receipts")
}

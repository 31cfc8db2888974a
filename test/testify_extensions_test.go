// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestAssertCmpEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected interface{}
		actual   interface{}
		equal    bool
	}{
		{
			"int: same",
			12, 12,
			true,
		},
		{
			"int: different",
			12, 13,
			false,
		},
		{
			"slice: same content",
			[]byte{1, 2, 3}, []byte{1, 2, 3},
			true,
		},
		{
			"amount: equal values compare through their Equal method",
			types.U64(333), types.U64(333),
			true,
		},
		{
			"amount: different values",
			types.U64(333), types.U64(334),
			false,
		},
		{
			"struct: nested difference",
			struct{ Accounts []string }{Accounts: []string{"alice"}},
			struct{ Accounts []string }{Accounts: []string{"bob"}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scratch := new(testing.T) // failures land here, not on the running test
			require.Equal(t, tt.equal, AssertCmpEqual(scratch, tt.expected, tt.actual))
			require.Equal(t, !tt.equal, scratch.Failed())
		})
	}
}

func TestRequireCmpEqualPassesThroughOnEqualValues(t *testing.T) {
	RequireCmpEqual(t, []string{"a", "b"}, []string{"a", "b"})
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAccountIDAcceptsWellFormedNames(t *testing.T) {
	for _, id := range []AccountID{
		"ok",
		"alice",
		"alice.near",
		"sub.alice.near",
		"ok_money-maker.one",
		"1234567890",
		AccountID(strings.Repeat("a", AccountIDMaxLength)),
	} {
		require.NoError(t, ValidateAccountID(id), "expected %s to be valid", id)
	}
}

func TestValidateAccountIDRejectsMalformedNames(t *testing.T) {
	for _, id := range []AccountID{
		"",
		"a",
		AccountID(strings.Repeat("a", AccountIDMaxLength+1)),
		"Alice",
		"alice near",
		"alice@near",
		".alice",
		"alice.",
		"ali..ce",
		"ali.-ce",
		"-alice",
		"alice_",
	} {
		require.Error(t, ValidateAccountID(id), "expected %s to be rejected", id)
	}
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU128ParseAndFormat(t *testing.T) {
	for _, s := range []string{
		"0",
		"1",
		"18446744073709551615",                    // max u64
		"18446744073709551616",                    // max u64 + 1, first value needing the high word
		"1000000000000000",                        // typical total supply
		"340282366920938463463374607431768211455", // max u128
	} {
		v, err := ParseU128(s)
		require.NoError(t, err, "failed to parse %s", s)
		require.Equal(t, s, v.String())
	}
}

func TestU128ParseRejectsMalformedInput(t *testing.T) {
	for _, s := range []string{
		"",
		"-1",
		"+1",
		" 1",
		"1_000",
		"0x10",
		"12a",
		"340282366920938463463374607431768211456", // max u128 + 1
		"9999999999999999999999999999999999999999",
	} {
		_, err := ParseU128(s)
		require.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestU128CheckedArithmetic(t *testing.T) {
	one := U64(1)

	sum, ok := MaxU128().Sub(one)
	require.True(t, ok)
	sum, ok = sum.Add(one)
	require.True(t, ok)
	require.Equal(t, MaxU128(), sum)

	_, ok = MaxU128().Add(one)
	require.False(t, ok, "addition above the 128-bit ceiling must report overflow")

	_, ok = U64(0).Sub(one)
	require.False(t, ok, "subtraction below zero must report underflow")

	diff, ok := U64(5).Sub(U64(5))
	require.True(t, ok)
	require.True(t, diff.IsZero())
}

func TestU128CarryAcrossWords(t *testing.T) {
	maxU64 := U64(^uint64(0))
	sum, ok := maxU64.AddU64(1)
	require.True(t, ok)
	require.Equal(t, "18446744073709551616", sum.String())

	back, ok := sum.Sub(U64(1))
	require.True(t, ok)
	require.Equal(t, maxU64, back)
}

func TestU128MulU64(t *testing.T) {
	require.Equal(t, U64(92*77), MulU64(92, 77))
	require.Equal(t, "340282366920938463426481119284349108225", MulU64(^uint64(0), ^uint64(0)).String())
}

func TestU128Cmp(t *testing.T) {
	small := U64(7)
	large := MustParseU128("18446744073709551616")
	require.Equal(t, -1, small.Cmp(large))
	require.Equal(t, 1, large.Cmp(small))
	require.Equal(t, 0, large.Cmp(large))
}

func TestU128JsonIsDecimalString(t *testing.T) {
	v := MustParseU128("340282366920938463463374607431768211455")
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `"340282366920938463463374607431768211455"`, string(raw))

	var parsed U128
	require.NoError(t, json.Unmarshal(raw, &parsed))
	require.Equal(t, v, parsed)
}

func TestU128JsonRejectsBareNumbers(t *testing.T) {
	var v U128
	require.Error(t, json.Unmarshal([]byte(`1000`), &v), "amounts must be quoted decimal strings")
	require.Error(t, json.Unmarshal([]byte(`"10.5"`), &v))
}

func TestU128FixedWidthEncoding(t *testing.T) {
	v := MustParseU128("36893488147419103232") // 2^65
	b := v.Bytes16()
	require.Len(t, b, 16)

	decoded, err := U128FromBytes16(b)
	require.NoError(t, err)
	require.Equal(t, v, decoded)

	_, err = U128FromBytes16(b[1:])
	require.Error(t, err)
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"math/bits"

	"github.com/pkg/errors"
)

// U128 is an exact unsigned 128-bit integer. Token amounts and deposits are
// always carried as U128 values internally and as base-10 decimal strings on
// the JSON boundary, so no precision is lost at any scale. The zero value is 0.
type U128 struct {
	hi, lo uint64
}

const u128MaxDecimalDigits = 39

func U64(v uint64) U128 {
	return U128{lo: v}
}

func MaxU128() U128 {
	return U128{hi: ^uint64(0), lo: ^uint64(0)}
}

// ParseU128 parses a base-10 decimal string. Only plain digit runs are
// accepted: no sign, no spaces, no separators.
func ParseU128(s string) (U128, error) {
	if len(s) == 0 {
		return U128{}, errors.New("empty string is not a valid u128")
	}
	if len(s) > u128MaxDecimalDigits {
		return U128{}, errors.Errorf("value %s overflows u128", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return U128{}, errors.Errorf("value %s is not a valid base-10 u128", s)
		}
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return U128{}, errors.Errorf("value %s is not a valid base-10 u128", s)
	}
	if b.BitLen() > 128 {
		return U128{}, errors.Errorf("value %s overflows u128", s)
	}
	return U128{hi: new(big.Int).Rsh(b, 64).Uint64(), lo: b.Uint64()}, nil
}

func MustParseU128(s string) U128 {
	v, err := ParseU128(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MulU64 returns a*b as a U128. A 64x64 bit product never overflows 128 bits.
func MulU64(a uint64, b uint64) U128 {
	hi, lo := bits.Mul64(a, b)
	return U128{hi: hi, lo: lo}
}

func (v U128) IsZero() bool {
	return v.hi == 0 && v.lo == 0
}

// Uint64 returns the value as a uint64 and reports whether it fits.
func (v U128) Uint64() (uint64, bool) {
	return v.lo, v.hi == 0
}

// Equal satisfies the go-cmp convention so values embedding a U128 diff cleanly.
func (v U128) Equal(o U128) bool {
	return v == o
}

func (v U128) Cmp(o U128) int {
	switch {
	case v.hi > o.hi || v.hi == o.hi && v.lo > o.lo:
		return 1
	case v.hi == o.hi && v.lo == o.lo:
		return 0
	default:
		return -1
	}
}

// Add returns v+o and reports whether the sum fits in 128 bits.
func (v U128) Add(o U128) (U128, bool) {
	lo, carry := bits.Add64(v.lo, o.lo, 0)
	hi, carry := bits.Add64(v.hi, o.hi, carry)
	return U128{hi: hi, lo: lo}, carry == 0
}

func (v U128) AddU64(o uint64) (U128, bool) {
	return v.Add(U64(o))
}

// Sub returns v-o and reports whether the difference is non-negative.
func (v U128) Sub(o U128) (U128, bool) {
	lo, borrow := bits.Sub64(v.lo, o.lo, 0)
	hi, borrow := bits.Sub64(v.hi, o.hi, borrow)
	return U128{hi: hi, lo: lo}, borrow == 0
}

func (v U128) String() string {
	if v.hi == 0 {
		return new(big.Int).SetUint64(v.lo).String()
	}
	b := new(big.Int).SetUint64(v.hi)
	b.Lsh(b, 64)
	b.Or(b, new(big.Int).SetUint64(v.lo))
	return b.String()
}

// Bytes16 is the fixed-width big-endian state encoding. Fixed width keeps
// every ledger entry the same size, which keeps storage metering deterministic.
func (v U128) Bytes16() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], v.hi)
	binary.BigEndian.PutUint64(b[8:16], v.lo)
	return b
}

func U128FromBytes16(b []byte) (U128, error) {
	if len(b) != 16 {
		return U128{}, errors.Errorf("u128 encoding must be 16 bytes, got %d", len(b))
	}
	return U128{hi: binary.BigEndian.Uint64(b[0:8]), lo: binary.BigEndian.Uint64(b[8:16])}, nil
}

func (v U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *U128) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "u128 amounts are encoded as decimal strings")
	}
	parsed, err := ParseU128(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

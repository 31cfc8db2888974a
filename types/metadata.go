// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"github.com/pkg/errors"
)

// MetadataSpec is the only metadata format version this ledger accepts.
const MetadataSpec = "ft-1.0.0"

const referenceHashLength = 32

// Metadata is the immutable token descriptor written once at initialization.
// ReferenceHash travels as base64 on the JSON boundary and, when present,
// must be the 32-byte digest of the document behind Reference.
type Metadata struct {
	Spec          string `json:"spec"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Icon          string `json:"icon,omitempty"`
	Reference     string `json:"reference,omitempty"`
	ReferenceHash []byte `json:"reference_hash,omitempty"`
	Decimals      uint32 `json:"decimals"`
}

func DefaultMetadata() *Metadata {
	return &Metadata{
		Spec:     MetadataSpec,
		Name:     "Fungible Ledger Token",
		Symbol:   "FLT",
		Decimals: 18,
	}
}

func (m *Metadata) Validate() error {
	if m.Spec != MetadataSpec {
		return errors.Errorf("metadata spec must be %s, got %s", MetadataSpec, m.Spec)
	}
	if len(m.Name) == 0 {
		return errors.New("metadata name must not be empty")
	}
	if len(m.Symbol) == 0 {
		return errors.New("metadata symbol must not be empty")
	}
	if m.Decimals == 0 {
		return errors.New("metadata decimals must be set")
	}
	if len(m.ReferenceHash) > 0 {
		if len(m.Reference) == 0 {
			return errors.New("metadata reference hash requires a reference")
		}
		if len(m.ReferenceHash) != referenceHashLength {
			return errors.Errorf("metadata reference hash must be %d bytes, got %d", referenceHashLength, len(m.ReferenceHash))
		}
	}
	return nil
}

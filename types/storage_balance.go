// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

// StorageBalance reports an account's storage deposit. Available is the part
// of Total not currently covering the account's persisted bytes, so it is the
// most the account can withdraw without dropping below the registration minimum.
type StorageBalance struct {
	Total     U128 `json:"total"`
	Available U128 `json:"available"`
}

// StorageBalanceBounds advertises the deposit needed to register. Max is
// always null: accounts may keep an arbitrarily large deposit parked with the
// ledger and withdraw the unused part later.
type StorageBalanceBounds struct {
	Min U128  `json:"min"`
	Max *U128 `json:"max"`
}

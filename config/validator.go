// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
)

type validator struct {
	logger log.Logger
}

func NewValidator(logger log.Logger) *validator {
	return &validator{logger: logger}
}

// Validate panics on a configuration no node can run with. Deterministic
// economics require a nonzero price, and a zero receipt budget would reject
// every call at the door.
func (v *validator) Validate(cfg SandboxConfig) {
	v.require(cfg.StoragePricePerByte() > 0, "storage price per byte must be positive")
	v.require(cfg.MaxReceiptsPerCall() > 0, "max receipts per call must be positive")
	v.require(cfg.HttpRequestsPerSecond() > 0, "http requests per second must be positive")
	v.require(cfg.HttpRequestsBurst() > 0, "http requests burst must be positive")

	if owner := cfg.GenesisOwner(); owner != "" {
		if err := types.ValidateAccountID(types.AccountID(owner)); err != nil {
			v.logger.Error("genesis owner is not a valid account id", log.Error(err))
			panic("genesis owner is not a valid account id")
		}
		if _, err := types.ParseU128(cfg.GenesisTotalSupply()); err != nil {
			v.logger.Error("genesis total supply is not a valid amount", log.Error(err))
			panic("genesis total supply is not a valid amount")
		}
	}
}

func (v *validator) require(ok bool, msg string) {
	if !ok {
		v.logger.Error(msg)
		panic(msg)
	}
}

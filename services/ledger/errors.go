// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"github.com/pkg/errors"
)

// Sentinel failures of the ledger methods. Callers classify with errors.Cause,
// so methods wrap these with context instead of returning new error values.
var (
	ErrAlreadyInitialized = errors.New("ledger is already initialized")
	ErrNotInitialized     = errors.New("ledger is not initialized")

	ErrInvalidMetadata     = errors.New("token metadata is invalid")
	ErrZeroAmount          = errors.New("amount must be positive")
	ErrOverflow            = errors.New("amount overflows the supply ceiling")
	ErrInsufficientBalance = errors.New("account balance is insufficient")

	ErrAccountNotRegistered = errors.New("account is not registered")
	ErrInsufficientDeposit  = errors.New("attached deposit does not cover the required storage")
	ErrExactDepositRequired = errors.New("method requires exactly one attached deposit unit")

	ErrUnauthorizedUnregister     = errors.New("unregistering an account with a balance requires force")
	ErrBelowMinimumStorageBalance = errors.New("withdrawal exceeds the available storage balance")
)

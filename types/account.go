// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"github.com/pkg/errors"
)

// AccountID is a human-readable account name. It is the only caller identity
// the ledger knows about; key management and signatures live outside this library.
type AccountID string

const (
	AccountIDMinLength = 2
	AccountIDMaxLength = 64
)

func (id AccountID) String() string {
	return string(id)
}

// ValidateAccountID enforces the account naming rules: 2 to 64 characters,
// lowercase alphanumeric atoms joined by single '.', '-' or '_' separators.
// A separator may not start or end the name and may not follow another separator.
func ValidateAccountID(id AccountID) error {
	if len(id) < AccountIDMinLength || len(id) > AccountIDMaxLength {
		return errors.Errorf("account id must be %d to %d characters, got %d", AccountIDMinLength, AccountIDMaxLength, len(id))
	}
	lastWasSeparator := true // a separator may not be first
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			lastWasSeparator = false
		case c == '.' || c == '-' || c == '_':
			if lastWasSeparator {
				return errors.Errorf("account id %s has a misplaced separator at position %d", id, i)
			}
			lastWasSeparator = true
		default:
			return errors.Errorf("account id %s contains an invalid character at position %d", id, i)
		}
	}
	if lastWasSeparator {
		return errors.Errorf("account id %s may not end with a separator", id)
	}
	return nil
}

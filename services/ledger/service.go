// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"encoding/json"

	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/pkg/errors"
)

// ContractName is the account the ledger occupies on the host. Receipts the
// ledger spawns carry it as their caller identity, which is what lets the
// private settlement callback trust its caller.
const ContractName = "token"

var CONTRACT = &host.ContractInfo{
	Name: ContractName,
	Partitions: []*host.PartitionSpec{
		{Name: balancesPartition, Metered: true},
		{Name: metadataPartition, Metered: true},
		{Name: pendingPartition, Metered: false},
	},
	Methods: map[string]*host.MethodInfo{
		METHOD_INITIALIZE.Name:             METHOD_INITIALIZE,
		METHOD_FT_TRANSFER.Name:            METHOD_FT_TRANSFER,
		METHOD_FT_TRANSFER_CALL.Name:       METHOD_FT_TRANSFER_CALL,
		METHOD_FT_RESOLVE_TRANSFER.Name:    METHOD_FT_RESOLVE_TRANSFER,
		METHOD_FT_TOTAL_SUPPLY.Name:        METHOD_FT_TOTAL_SUPPLY,
		METHOD_FT_BALANCE_OF.Name:          METHOD_FT_BALANCE_OF,
		METHOD_FT_METADATA.Name:            METHOD_FT_METADATA,
		METHOD_STORAGE_DEPOSIT.Name:        METHOD_STORAGE_DEPOSIT,
		METHOD_STORAGE_WITHDRAW.Name:       METHOD_STORAGE_WITHDRAW,
		METHOD_STORAGE_UNREGISTER.Name:     METHOD_STORAGE_UNREGISTER,
		METHOD_STORAGE_BALANCE_OF.Name:     METHOD_STORAGE_BALANCE_OF,
		METHOD_STORAGE_BALANCE_BOUNDS.Name: METHOD_STORAGE_BALANCE_BOUNDS,
	},
}

type contract struct{}

var theContract = &contract{}

func decodeArgs(args []byte, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return errors.Wrap(err, "malformed call arguments")
	}
	return nil
}

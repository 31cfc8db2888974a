// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"encoding/json"
	"strings"

	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////

var METHOD_INITIALIZE = &host.MethodInfo{
	Name:     "initialize",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_WRITE,
	Handler:  guarded(theContract.initialize),
}

type initializeArgs struct {
	OwnerID     types.AccountID `json:"owner_id"`
	TotalSupply types.U128      `json:"total_supply"`
	Metadata    *types.Metadata `json:"metadata,omitempty"`
}

// initialize mints the entire supply to the owner and freezes the token
// metadata. It runs exactly once; the metadata record doubles as the
// initialization marker and is written together with everything else, so a
// failed initialization leaves a pristine ledger.
func (c *contract) initialize(ctx host.CallContext, args []byte) ([]byte, error) {
	_, initialized, err := ctx.ReadState(metadataPartition, metadataKey)
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, errors.Wrap(ErrAlreadyInitialized, "refusing to initialize twice")
	}

	parsed := &initializeArgs{}
	if err := decodeArgs(args, parsed); err != nil {
		return nil, err
	}
	if err := types.ValidateAccountID(parsed.OwnerID); err != nil {
		return nil, errors.Wrap(err, "owner id")
	}
	metadata := parsed.Metadata
	if metadata == nil {
		metadata = types.DefaultMetadata()
	}
	if err := metadata.Validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidMetadata, "%s", err)
	}

	entryBytes, err := c.measureAccountEntryBytes(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.writeAccountEntryBytes(ctx, entryBytes); err != nil {
		return nil, err
	}

	// the owner's registration bytes are part of this call's metered growth,
	// so the deployer's retained deposit is exactly what backs this record
	owner := &accountRecord{
		balance:        parsed.TotalSupply,
		storageDeposit: types.MulU64(entryBytes, ctx.StorageByteCost()),
	}
	if err := c.writeAccount(ctx, parsed.OwnerID, owner); err != nil {
		return nil, err
	}
	if err := c.writeSupply(ctx, parsed.TotalSupply); err != nil {
		return nil, err
	}

	rawMetadata, err := json.Marshal(metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed encoding token metadata")
	}
	if err := ctx.WriteState(metadataPartition, metadataKey, rawMetadata); err != nil {
		return nil, err
	}

	ctx.EmitEvent(types.FtMintEvent(parsed.OwnerID, parsed.TotalSupply, "initial supply"))
	ctx.Log("ledger initialized",
		logfields.Account("owner", parsed.OwnerID),
		logfields.Amount("supply", parsed.TotalSupply),
		log.String("symbol", metadata.Symbol))
	return nil, nil
}

// measureAccountEntryBytes writes a probe entry shaped exactly like a real
// account entry, reads the metered growth and removes the probe again. The
// probe never survives the call, it only prices registrations.
func (c *contract) measureAccountEntryBytes(ctx host.CallContext) (uint64, error) {
	bytesBefore, err := ctx.MeteredBytesUsed()
	if err != nil {
		return 0, err
	}

	probeID := types.AccountID(strings.Repeat("z", types.AccountIDMaxLength))
	if err := c.writeAccount(ctx, probeID, &accountRecord{}); err != nil {
		return 0, err
	}
	bytesAfter, err := ctx.MeteredBytesUsed()
	if err != nil {
		return 0, err
	}
	if err := c.clearAccount(ctx, probeID); err != nil {
		return 0, err
	}

	if bytesAfter <= bytesBefore {
		return 0, errors.Errorf("probe account entry did not grow metered state")
	}
	return bytesAfter - bytesBefore, nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_FT_METADATA = &host.MethodInfo{
	Name:     "ft_metadata",
	External: true,
	Access:   host.ACCESS_SCOPE_READ_ONLY,
	Handler:  theContract.ftMetadata,
}

func (c *contract) ftMetadata(ctx host.CallContext, args []byte) ([]byte, error) {
	raw, found, err := ctx.ReadState(metadataPartition, metadataKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInitialized
	}
	return raw, nil
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/orbs-network/fungible-ledger-go/bootstrap/httpserver"
	"github.com/orbs-network/fungible-ledger-go/config"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/metric"
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/services/host/adapter"
	"github.com/orbs-network/fungible-ledger-go/services/ledger"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// the root caller of the genesis call, distinct from any deployed contract
const genesisCaller = "genesis"

// headroom over the few hundred bytes genesis actually commits; the
// storage guard refunds whatever stays unused
const genesisDepositBytes = 4096

// Sandbox is a single process node: the execution host with the ledger
// contract deployed, persisted state, metrics and an http api.
type Sandbox struct {
	SandboxProcess
	Host     host.Host
	Registry metric.Registry
}

func NewSandbox(cfg config.SandboxConfig, logger log.Logger) *Sandbox {
	ctx, cancel := context.WithCancel(context.Background())

	config.NewValidator(logger).Validate(cfg)

	registry := metric.NewRegistry()
	metric.RegisterConfigIndicators(registry, cfg)

	persistence, closer := newStatePersistence(cfg, logger)

	hostService := host.NewHost(persistence, cfg, logger, registry)
	if err := hostService.RegisterContract(ledger.CONTRACT); err != nil {
		panic(fmt.Sprintf("failed to deploy the ledger contract: %s", err.Error()))
	}

	ensureGenesis(ctx, logger, hostService, cfg)

	httpServer := httpserver.NewHttpServer(cfg, logger, hostService, registry)

	registry.PeriodicallyRotate(ctx, logger)
	metric.NewRuntimeReporter(ctx, registry, logger)
	metric.NewSystemReporter(ctx, registry, logger)

	s := &Sandbox{
		SandboxProcess: NewSandboxProcess(logger, cancel, httpServer),
		Host:           hostService,
		Registry:       registry,
	}
	s.StateCloser = closer

	logger.Info("sandbox node started", log.String("http-address", cfg.HttpAddress()))
	return s
}

func newStatePersistence(cfg config.SandboxConfig, logger log.Logger) (adapter.StatePersistence, io.Closer) {
	if path := cfg.StateStoragePath(); path != "" {
		persistence, err := adapter.NewBoltStatePersistence(path, logger)
		if err != nil {
			panic(fmt.Sprintf("failed to open state storage at %s: %s", path, err.Error()))
		}
		return persistence, persistence
	}
	return adapter.NewInMemoryStatePersistence(), nil
}

// ensureGenesis initializes the ledger on the first boot. A restarted node
// finds the supply already set and leaves its state untouched; without a
// configured genesis owner the ledger waits for initialization over the api.
func ensureGenesis(ctx context.Context, logger log.Logger, hostService host.Host, cfg config.SandboxConfig) {
	if cfg.GenesisOwner() == "" {
		logger.Info("no genesis owner configured, ledger awaits manual initialization")
		return
	}

	_, err := hostService.RunQuery(ctx, &host.QueryInput{Contract: ledger.ContractName, Method: "ft_total_supply"})
	if err == nil {
		logger.Info("ledger already initialized, skipping genesis")
		return
	}
	if errors.Cause(err) != ledger.ErrNotInitialized {
		panic(fmt.Sprintf("cannot determine ledger initialization state: %s", err.Error()))
	}

	args, err := json.Marshal(struct {
		OwnerID     string          `json:"owner_id"`
		TotalSupply string          `json:"total_supply"`
		Metadata    *types.Metadata `json:"metadata"`
	}{
		OwnerID:     cfg.GenesisOwner(),
		TotalSupply: cfg.GenesisTotalSupply(),
		Metadata: &types.Metadata{
			Spec:     types.MetadataSpec,
			Name:     cfg.TokenName(),
			Symbol:   cfg.TokenSymbol(),
			Decimals: cfg.TokenDecimals(),
		},
	})
	if err != nil {
		panic(err)
	}

	output, err := hostService.SendCall(ctx, &host.CallInput{
		Contract: ledger.ContractName,
		Method:   "initialize",
		Args:     args,
		Caller:   genesisCaller,
		Deposit:  genesisDepositBytes * cfg.StoragePricePerByte(),
	})
	if err != nil {
		panic(fmt.Sprintf("genesis initialization failed: %s", err.Error()))
	}

	logger.Info("ledger initialized at genesis",
		log.String("owner", cfg.GenesisOwner()),
		log.String("total-supply", cfg.GenesisTotalSupply()),
		log.Uint64("call-id", output.CallID))
}

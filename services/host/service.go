// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package host

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/orbs-network/fungible-ledger-go/config"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/metric"
	"github.com/orbs-network/fungible-ledger-go/services/host/adapter"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

var LogTag = log.Service("execution-host")

// Host executes contract calls one at a time: every receipt either commits all
// of its writes or none of them, storage bytes are metered per partition, and
// cross contract promises run as separate receipts of the same call.
type Host interface {
	RegisterContract(info *ContractInfo) error
	SendCall(ctx context.Context, input *CallInput) (*CallOutput, error)
	RunQuery(ctx context.Context, input *QueryInput) (*QueryOutput, error)
}

type service struct {
	logger      log.Logger
	config      config.HostConfig
	persistence adapter.StatePersistence
	metrics     *metrics

	mutex      sync.RWMutex
	contracts  map[string]*registeredContract
	lastCallId uint64
}

type registeredContract struct {
	info       *ContractInfo
	partitions map[string]*PartitionSpec
}

type metrics struct {
	callTime            *metric.Histogram
	callsPerSecond      *metric.Rate
	queriesPerSecond    *metric.Rate
	receiptsPerSecond   *metric.Rate
	committedStateBytes *metric.Gauge
	treasuryUnits       *metric.Gauge
}

func getMetrics(m metric.Factory) *metrics {
	return &metrics{
		callTime:            m.NewLatency("Host.CallTime.Millis", 10*time.Second),
		callsPerSecond:      m.NewRate("Host.Calls.PerSecond"),
		queriesPerSecond:    m.NewRate("Host.Queries.PerSecond"),
		receiptsPerSecond:   m.NewRate("Host.Receipts.PerSecond"),
		committedStateBytes: m.NewGauge("Host.State.CommittedBytes.Count"),
		treasuryUnits:       m.NewGauge("Host.Treasury.Units.Count"),
	}
}

func NewHost(persistence adapter.StatePersistence, cfg config.HostConfig, parentLogger log.Logger, metricFactory metric.Factory) Host {
	return &service{
		logger:      parentLogger.WithTags(LogTag),
		config:      cfg,
		persistence: persistence,
		metrics:     getMetrics(metricFactory),
		contracts:   map[string]*registeredContract{},
	}
}

// RegisterContract deploys a contract. The contract name doubles as the
// caller identity of receipts it spawns, so it must be a valid account id.
func (s *service) RegisterContract(info *ContractInfo) error {
	if info == nil {
		return errors.Errorf("contract info is nil")
	}
	if err := types.ValidateAccountID(types.AccountID(info.Name)); err != nil {
		return errors.Wrap(err, "contract name must be a valid account id")
	}
	if len(info.Partitions) == 0 {
		return errors.Errorf("contract %s declares no state partitions", info.Name)
	}
	if len(info.Methods) == 0 {
		return errors.Errorf("contract %s declares no methods", info.Name)
	}

	partitions := map[string]*PartitionSpec{}
	for _, spec := range info.Partitions {
		if strings.HasPrefix(spec.Name, "__") {
			return errors.Errorf("partition name %s is reserved", spec.Name)
		}
		if _, ok := partitions[spec.Name]; ok {
			return errors.Errorf("contract %s declares partition %s twice", info.Name, spec.Name)
		}
		partitions[spec.Name] = spec
	}

	for name, mi := range info.Methods {
		if mi == nil || mi.Handler == nil {
			return errors.Errorf("method %s of contract %s has no handler", name, info.Name)
		}
		if name != mi.Name {
			return errors.Errorf("method %s of contract %s is registered under the wrong name", mi.Name, info.Name)
		}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.contracts[info.Name]; ok {
		return errors.Errorf("contract %s is already registered", info.Name)
	}
	s.contracts[info.Name] = &registeredContract{info: info, partitions: partitions}

	s.logger.Info("registered contract", logfields.Contract(info.Name), log.Int("methods", len(info.Methods)))
	return nil
}

func (s *service) loadContract(name string) *registeredContract {
	return s.contracts[name]
}

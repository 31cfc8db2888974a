// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/orbs-network/fungible-ledger-go/config"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/metric"
	"github.com/orbs-network/scribe/log"
)

type StatusResponse struct {
	Uptime int64

	Host struct {
		CommittedStateBytes int64
		TreasuryUnits       int64
	}

	Runtime struct {
		HeapAllocBytes int64
		NumGoroutine   int64
	}

	Version config.Version
}

func (s *server) getStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	metrics := s.metricRegistry

	response := StatusResponse{
		Uptime:  int64(time.Since(s.startTime).Seconds()),
		Version: config.GetVersion(),
	}
	response.Host.CommittedStateBytes = metricGetGaugeValue(s.logger, metrics, "Host.State.CommittedBytes.Count")
	response.Host.TreasuryUnits = metricGetGaugeValue(s.logger, metrics, "Host.Treasury.Units.Count")
	response.Runtime.HeapAllocBytes = metricGetGaugeValue(s.logger, metrics, "Runtime.HeapAlloc.Bytes")
	response.Runtime.NumGoroutine = metricGetGaugeValue(s.logger, metrics, "Runtime.NumGoroutine.Number")

	data, _ := json.MarshalIndent(response, "", "  ")

	_, err := w.Write(data)
	if err != nil {
		s.logger.Info("error writing status response", log.Error(err))
	}
}

func metricGetGaugeValue(logger log.Logger, metrics metric.Registry, name string) (value int64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("could not retrieve metric", log.String("metric", name))
		}
	}()

	rows := metrics.ExportAll()[name].LogRow()
	value = rows[len(rows)-1].Int
	return value
}

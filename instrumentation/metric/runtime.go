// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"runtime"
	"time"

	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/fungible-ledger-go/synchronization"
)

const runtimeReportInterval = 5 * time.Second

type runtimeMetrics struct {
	heapAlloc       *Gauge
	heapSys         *Gauge
	gcCpuPercentage *Gauge
	goroutines      *Gauge
}

type runtimeReporter struct {
	metrics runtimeMetrics
}

func NewRuntimeReporter(ctx context.Context, metricFactory Factory, logger logfields.Errorer) *synchronization.PeriodicalTrigger {
	r := &runtimeReporter{
		metrics: runtimeMetrics{
			heapAlloc:       metricFactory.NewGauge("Runtime.HeapAlloc.Bytes"),
			heapSys:         metricFactory.NewGauge("Runtime.HeapSys.Bytes"),
			gcCpuPercentage: metricFactory.NewGauge("Runtime.GCCPUPercentage.Number"),
			goroutines:      metricFactory.NewGauge("Runtime.NumGoroutine.Number"),
		},
	}

	// report once up front so a freshly booted node's status page is not blank
	r.reportRuntimeMetrics()

	return synchronization.NewPeriodicalTrigger(ctx, "runtime metric reporter", runtimeReportInterval, logger, func() {
		r.reportRuntimeMetrics()
	}, nil)
}

func (r *runtimeReporter) reportRuntimeMetrics() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.metrics.heapSys.Update(int64(mem.HeapSys))
	r.metrics.heapAlloc.Update(int64(mem.HeapAlloc))
	r.metrics.gcCpuPercentage.Update(int64(mem.GCCPUFraction * 100))
	r.metrics.goroutines.Update(int64(runtime.NumGoroutine()))
}

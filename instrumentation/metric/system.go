// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/c9s/goprocinfo/linux"
	"github.com/orbs-network/fungible-ledger-go/synchronization"
	"github.com/orbs-network/scribe/log"
)

const systemReportInterval = 3 * time.Second

// statm counts pages, the kernel reports 4096 byte pages on everything we run on
const pageSizeBytes = 4096

type systemReporter struct {
	rssBytes   *Gauge
	cpuPercent *Gauge

	lastProcessTicks int64
	lastMachineTicks int64
}

// NewSystemReporter periodically samples the process footprint from procfs.
// On hosts without /proc the trigger stays alive and reports nothing.
func NewSystemReporter(ctx context.Context, metricFactory Factory, logger log.Logger) *synchronization.PeriodicalTrigger {
	r := &systemReporter{
		rssBytes:   metricFactory.NewGauge("OS.Process.Memory.Bytes"),
		cpuPercent: metricFactory.NewGauge("OS.Process.CPU.PerCent"),
	}

	// the boot time report also primes the cpu baseline for the first tick
	r.report(logger)

	return synchronization.NewPeriodicalTrigger(ctx, "system metric reporter", systemReportInterval, logger, func() {
		r.report(logger)
	}, nil)
}

func (r *systemReporter) report(logger log.Logger) {
	if _, err := os.Stat("/proc"); os.IsNotExist(err) {
		return
	}

	if rss, err := residentSetBytes(); err != nil {
		logger.Error("failed to read process memory from procfs", log.Error(err))
	} else {
		r.rssBytes.Update(rss)
	}

	if err := r.reportCPU(); err != nil {
		logger.Error("failed to read cpu time from procfs", log.Error(err))
	}
}

func residentSetBytes() (int64, error) {
	statm, err := linux.ReadProcessStatm(fmt.Sprintf("/proc/%d/statm", os.Getpid()))
	if err != nil {
		return 0, err
	}
	return int64(statm.Resident) * pageSizeBytes, nil
}

// reportCPU compares this sample's counters with the previous sample's. procfs
// reports totals since boot, so a single sample carries no rate and the first
// report only primes the baseline.
func (r *systemReporter) reportCPU() error {
	process, err := linux.ReadProcess(uint64(os.Getpid()), "/proc")
	if err != nil {
		return err
	}
	machine, err := linux.ReadStat("/proc/stat")
	if err != nil {
		return err
	}

	all := machine.CPUStatAll
	machineTicks := int64(all.User + all.Nice + all.System + all.Idle)
	processTicks := int64(process.Stat.Utime) + int64(process.Stat.Stime) + process.Stat.Cutime + process.Stat.Cstime

	if r.lastMachineTicks > 0 && machineTicks > r.lastMachineTicks {
		percent := float64(processTicks-r.lastProcessTicks) / float64(machineTicks-r.lastMachineTicks) * 100
		r.cpuPercent.Update(int64(percent))
	}
	r.lastProcessTicks = processTicks
	r.lastMachineTicks = machineTicks
	return nil
}

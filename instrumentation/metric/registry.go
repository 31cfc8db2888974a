// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orbs-network/fungible-ledger-go/synchronization"
	"github.com/orbs-network/scribe/log"
)

const rotationInterval = 30 * time.Second

type Factory interface {
	NewLatency(name string, maxDuration time.Duration) *Histogram
	NewGauge(name string) *Gauge
	NewRate(name string) *Rate
	NewText(name string, value string) *Text
}

type Registry interface {
	Factory
	String() string
	ExportAll() map[string]exportedMetric
	ExportPrometheus() string
	PeriodicallyRotate(ctx context.Context, logger log.Logger) *synchronization.PeriodicalTrigger
}

type exportedMetric interface {
	LogRow() []*log.Field
}

type rotatable interface {
	Rotate()
}

type metric interface {
	fmt.Stringer
	Name() string
	Export() exportedMetric
	exportPrometheus() string
}

type namedMetric struct {
	name string
}

func (m *namedMetric) Name() string {
	return m.name
}

func (m *namedMetric) prometheusName() string {
	return strings.ToLower(strings.Replace(m.name, ".", "_", -1))
}

func NewRegistry() Registry {
	return &inMemoryRegistry{}
}

type inMemoryRegistry struct {
	mu struct {
		sync.Mutex
		metrics []metric
	}
}

func (r *inMemoryRegistry) register(m metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mu.metrics = append(r.mu.metrics, m)
}

func (r *inMemoryRegistry) NewRate(name string) *Rate {
	m := newRate(name)
	r.register(m)
	return m
}

func (r *inMemoryRegistry) NewGauge(name string) *Gauge {
	g := &Gauge{namedMetric: namedMetric{name: name}}
	r.register(g)
	return g
}

func (r *inMemoryRegistry) NewLatency(name string, maxDuration time.Duration) *Histogram {
	h := newHistogram(name, int64(maxDuration/time.Millisecond))
	r.register(h)
	return h
}

func (r *inMemoryRegistry) NewText(name string, value string) *Text {
	t := newText(name, value)
	r.register(t)
	return t
}

func (r *inMemoryRegistry) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s string
	for _, m := range r.mu.metrics {
		s += m.String()
	}

	return s
}

func (r *inMemoryRegistry) ExportAll() map[string]exportedMetric {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make(map[string]exportedMetric)
	for _, m := range r.mu.metrics {
		all[m.Name()] = m.Export()
	}

	return all
}

func (r *inMemoryRegistry) ExportPrometheus() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []string
	for _, m := range r.mu.metrics {
		if row := m.exportPrometheus(); len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return strings.Join(rows, "")
}

func (r *inMemoryRegistry) report(logger log.Logger) {
	for _, value := range r.ExportAll() {
		if logRow := value.LogRow(); logRow != nil {
			logger.Metric(logRow...)
		}
	}
}

func (r *inMemoryRegistry) rotate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mu.metrics {
		if rm, ok := m.(rotatable); ok {
			rm.Rotate()
		}
	}
}

// PeriodicallyRotate logs a snapshot of every metric and then rotates the
// windowed ones, so exported values always describe the recent past.
func (r *inMemoryRegistry) PeriodicallyRotate(ctx context.Context, logger log.Logger) *synchronization.PeriodicalTrigger {
	return synchronization.NewPeriodicalTrigger(ctx, "metric registry rotation", rotationInterval, logger, func() {
		r.report(logger)
		r.rotate()
	}, func() {
		r.report(logger)
	})
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/orbs-network/scribe/log"
)

// Gauge is an instantaneous int64 reading, safe for concurrent use.
type Gauge struct {
	namedMetric
	value int64
}

type gaugeExport struct {
	Name  string
	Value int64
}

func (g *Gauge) Update(value int64) {
	atomic.StoreInt64(&g.value, value)
}

func (g *Gauge) Add(delta int64) {
	atomic.AddInt64(&g.value, delta)
}

func (g *Gauge) Inc() {
	g.Add(1)
}

func (g *Gauge) Value() int64 {
	return atomic.LoadInt64(&g.value)
}

func (g *Gauge) String() string {
	return fmt.Sprintf("metric %s: %d\n", g.name, g.Value())
}

func (g *Gauge) Export() exportedMetric {
	return gaugeExport{g.name, g.Value()}
}

func (g *Gauge) exportPrometheus() string {
	name := g.prometheusName()
	return prometheusTypeRow(name, "gauge") + name + " " + strconv.FormatInt(g.Value(), 10) + "\n"
}

func (g gaugeExport) LogRow() []*log.Field {
	return []*log.Field{
		log.String("metric", g.Name),
		log.String("metric-type", "gauge"),
		log.Int64("gauge", g.Value),
	}
}

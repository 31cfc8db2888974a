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
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/orbs-network/scribe/log"
)

const histogramWindowSize = 5

type Histogram struct {
	namedMetric
	histo         *hdrhistogram.WindowedHistogram
	overflowCount int64
}

type histogramExport struct {
	Name    string
	Min     int64
	P50     int64
	P95     int64
	P99     int64
	Max     int64
	Avg     float64
	Samples int64
}

func newHistogram(name string, max int64) *Histogram {
	return &Histogram{
		namedMetric: namedMetric{name: name},
		histo:       hdrhistogram.NewWindowed(histogramWindowSize, 1, max, 3),
	}
}

// RecordSince stores elapsed milliseconds, matching the .Millis metric names.
func (h *Histogram) RecordSince(t time.Time) {
	h.Record(int64(time.Since(t) / time.Millisecond))
}

func (h *Histogram) Record(measurement int64) {
	if err := h.histo.Current.RecordValue(measurement); err != nil {
		atomic.AddInt64(&h.overflowCount, 1)
	}
}

func (h *Histogram) Rotate() {
	h.histo.Rotate()
}

func (h *Histogram) String() string {
	histo := h.histo.Merge()

	var errorRate float64
	if total := histo.TotalCount(); total > 0 {
		errorRate = float64(atomic.LoadInt64(&h.overflowCount)) / float64(total)
	}

	return fmt.Sprintf(
		"metric %s: [min=%d, p50=%d, p95=%d, p99=%d, max=%d, avg=%f, samples=%d, error rate=%f]\n",
		h.name,
		histo.Min(),
		histo.ValueAtQuantile(50),
		histo.ValueAtQuantile(95),
		histo.ValueAtQuantile(99),
		histo.Max(),
		histo.Mean(),
		histo.TotalCount(),
		errorRate)
}

func (h *Histogram) Export() exportedMetric {
	histo := h.histo.Merge()

	return histogramExport{
		h.name,
		histo.Min(),
		histo.ValueAtQuantile(50),
		histo.ValueAtQuantile(95),
		histo.ValueAtQuantile(99),
		histo.Max(),
		histo.Mean(),
		histo.TotalCount(),
	}
}

func (h *Histogram) exportPrometheus() string {
	histo := h.histo.Merge()
	if histo.TotalCount() == 0 {
		return ""
	}

	name := h.prometheusName()
	rows := prometheusTypeRow(name, "summary")
	for _, q := range []float64{50, 95, 99} {
		rows += fmt.Sprintf("%s{quantile=\"%.2f\"} %d\n", name, q/100, histo.ValueAtQuantile(q))
	}
	rows += name + "_count " + strconv.FormatInt(histo.TotalCount(), 10) + "\n"
	return rows
}

func (h histogramExport) LogRow() []*log.Field {
	if h.Samples == 0 {
		return nil
	}

	return []*log.Field{
		log.String("metric", h.Name),
		log.String("metric-type", "histogram"),
		log.Int64("min", h.Min),
		log.Int64("p50", h.P50),
		log.Int64("p95", h.P95),
		log.Int64("p99", h.P99),
		log.Int64("max", h.Max),
		log.Float64("avg", h.Avg),
		log.Int64("samples", h.Samples),
	}
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
	"sync/atomic"

	"github.com/orbs-network/scribe/log"
)

// Text carries a free-form string reading, used for version and address
// indicators that never change after boot.
type Text struct {
	namedMetric
	value atomic.Value
}

type textExport struct {
	Name  string
	Value string
}

func newText(name string, value string) *Text {
	t := &Text{namedMetric: namedMetric{name: name}}
	t.value.Store(value)
	return t
}

func (t *Text) Update(value string) {
	t.value.Store(value)
}

func (t *Text) Value() string {
	return t.value.Load().(string)
}

func (t *Text) String() string {
	return fmt.Sprintf("metric %s: %s\n", t.name, t.Value())
}

func (t *Text) Export() exportedMetric {
	return textExport{t.name, t.Value()}
}

// texts are not exported to prometheus
func (t *Text) exportPrometheus() string {
	return ""
}

func (t textExport) LogRow() []*log.Field {
	return []*log.Field{
		log.String("metric", t.Name),
		log.String("metric-type", "text"),
		log.String("text", t.Value),
	}
}

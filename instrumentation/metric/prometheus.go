// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
)

// Format reference: https://prometheus.io/docs/instrumenting/exposition_formats/
func prometheusTypeRow(name string, metricType string) string {
	return fmt.Sprintf("# TYPE %s %s\n", name, metricType)
}

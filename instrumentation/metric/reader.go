// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

type exportedMap map[string]interface{}

// NewReader fetches a /metrics endpoint and exposes the exported values by
// name, for tests that assert on a running node's metrics.
func NewReader(endpoint string) (exportedMap, error) {
	res, err := http.Get(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read metrics from endpoint %s", endpoint)
	}
	defer res.Body.Close()

	readBytes, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	m := make(exportedMap)
	if err := json.Unmarshal(readBytes, &m); err != nil {
		return nil, err
	}

	return m, nil
}

func (mr exportedMap) Get(name string) (interface{}, bool) {
	if value, exists := mr[name]; exists {
		return value, true
	}
	return nil, false
}

func (mr exportedMap) GetGaugeValue(name string) (int64, bool) {
	value, found := mr.Get(name)
	if !found {
		return 0, false
	}
	row, ok := value.(map[string]interface{})
	if !ok {
		return 0, false
	}
	if v, ok := row["Value"].(float64); ok {
		return int64(v), true
	}
	return 0, false
}

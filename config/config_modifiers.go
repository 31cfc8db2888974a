// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

func modifyFromJson(cfg mutableSandboxConfig, source string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(source), &data); err != nil {
		return err
	}

	return populateConfig(cfg, data)
}

func convertKeyName(key string) string {
	return strings.ToUpper(strings.Replace(key, "-", "_", -1))
}

func populateConfig(cfg mutableSandboxConfig, data map[string]interface{}) error {
	for key, value := range data {
		switch v := value.(type) {
		case bool:
			cfg.SetBool(convertKeyName(key), v)
		case float64:
			if v < 0 {
				return errors.Errorf("config key %s may not be negative", key)
			}
			cfg.SetUint64(convertKeyName(key), uint64(v))
		case string:
			if duration, decodeError := time.ParseDuration(v); decodeError != nil {
				cfg.SetString(convertKeyName(key), v)
			} else {
				cfg.SetDuration(convertKeyName(key), duration)
			}
		default:
			return errors.Errorf("config key %s has an unsupported value type", key)
		}
	}

	return nil
}

// For main reading several files into one config

type FilesPaths []string

func (i *FilesPaths) String() string {
	return strings.Join(*i, ",")
}

func (i *FilesPaths) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func GetSandboxConfigFromFiles(configFiles FilesPaths, httpAddress string, stateStoragePath string) (SandboxConfig, error) {
	cfg := ForProduction()

	for _, configFile := range configFiles {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, errors.Errorf("could not open config file: %s", err)
		}

		contents, err := ioutil.ReadFile(configFile)
		if err != nil {
			return nil, err
		}

		if err := modifyFromJson(cfg, string(contents)); err != nil {
			return nil, err
		}
	}

	if httpAddress != "" {
		cfg.SetString(HTTP_ADDRESS, httpAddress)
	}
	if stateStoragePath != "" {
		cfg.SetString(STATE_STORAGE_PATH, stateStoragePath)
	}

	return cfg, nil
}

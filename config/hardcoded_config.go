// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

type config struct {
	kv map[string]NodeConfigValue
}

func emptyConfig() mutableSandboxConfig {
	return &config{
		kv: make(map[string]NodeConfigValue),
	}
}

func (c *config) Set(key string, value NodeConfigValue) mutableSandboxConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetUint32(key string, value uint32) mutableSandboxConfig {
	c.kv[key] = NodeConfigValue{Uint64Value: uint64(value)}
	return c
}

func (c *config) SetUint64(key string, value uint64) mutableSandboxConfig {
	c.kv[key] = NodeConfigValue{Uint64Value: value}
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableSandboxConfig {
	c.kv[key] = NodeConfigValue{DurationValue: value}
	return c
}

func (c *config) SetString(key string, value string) mutableSandboxConfig {
	c.kv[key] = NodeConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableSandboxConfig {
	c.kv[key] = NodeConfigValue{BoolValue: value}
	return c
}

func (c *config) Modify(newValues ...NodeConfigKeyValue) {
	for _, kv := range newValues {
		c.kv[kv.Key] = kv.Value
	}
}

func (c *config) uint32Value(key string) uint32 {
	return uint32(c.kv[key].Uint64Value)
}

func (c *config) uint64Value(key string) uint64 {
	return c.kv[key].Uint64Value
}

func (c *config) stringValue(key string) string {
	return c.kv[key].StringValue
}

func (c *config) boolValue(key string) bool {
	return c.kv[key].BoolValue
}

func (c *config) StoragePricePerByte() uint64 {
	return c.uint64Value(STORAGE_PRICE_PER_BYTE)
}

func (c *config) MaxReceiptsPerCall() uint32 {
	return c.uint32Value(MAX_RECEIPTS_PER_CALL)
}

func (c *config) HttpAddress() string {
	return c.stringValue(HTTP_ADDRESS)
}

func (c *config) HttpRequestsPerSecond() uint32 {
	return c.uint32Value(HTTP_REQUESTS_PER_SECOND)
}

func (c *config) HttpRequestsBurst() uint32 {
	return c.uint32Value(HTTP_REQUESTS_BURST)
}

func (c *config) Profiling() bool {
	return c.boolValue(PROFILING)
}

func (c *config) StateStoragePath() string {
	return c.stringValue(STATE_STORAGE_PATH)
}

func (c *config) GenesisOwner() string {
	return c.stringValue(GENESIS_OWNER)
}

func (c *config) GenesisTotalSupply() string {
	return c.stringValue(GENESIS_TOTAL_SUPPLY)
}

func (c *config) TokenName() string {
	return c.stringValue(TOKEN_NAME)
}

func (c *config) TokenSymbol() string {
	return c.stringValue(TOKEN_SYMBOL)
}

func (c *config) TokenDecimals() uint32 {
	return c.uint32Value(TOKEN_DECIMALS)
}

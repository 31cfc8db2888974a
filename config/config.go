// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

const (
	STORAGE_PRICE_PER_BYTE = "STORAGE_PRICE_PER_BYTE"
	MAX_RECEIPTS_PER_CALL  = "MAX_RECEIPTS_PER_CALL"

	HTTP_ADDRESS             = "HTTP_ADDRESS"
	HTTP_REQUESTS_PER_SECOND = "HTTP_REQUESTS_PER_SECOND"
	HTTP_REQUESTS_BURST      = "HTTP_REQUESTS_BURST"
	PROFILING                = "PROFILING"

	STATE_STORAGE_PATH = "STATE_STORAGE_PATH"

	GENESIS_OWNER        = "GENESIS_OWNER"
	GENESIS_TOTAL_SUPPLY = "GENESIS_TOTAL_SUPPLY"
	TOKEN_NAME           = "TOKEN_NAME"
	TOKEN_SYMBOL         = "TOKEN_SYMBOL"
	TOKEN_DECIMALS       = "TOKEN_DECIMALS"
)

type NodeConfigValue struct {
	Uint64Value   uint64
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
}

type NodeConfigKeyValue struct {
	Key   string
	Value NodeConfigValue
}

// HostConfig is the execution host's view of the configuration.
type HostConfig interface {
	StoragePricePerByte() uint64
	MaxReceiptsPerCall() uint32
}

// HttpServerConfig is the sandbox HTTP server's view of the configuration.
type HttpServerConfig interface {
	HttpAddress() string
	HttpRequestsPerSecond() uint32
	HttpRequestsBurst() uint32
	Profiling() bool
}

// GenesisConfig describes the token the sandbox initializes on first boot.
type GenesisConfig interface {
	GenesisOwner() string
	GenesisTotalSupply() string
	TokenName() string
	TokenSymbol() string
	TokenDecimals() uint32
}

type SandboxConfig interface {
	HostConfig
	HttpServerConfig
	GenesisConfig
	StateStoragePath() string
}

type mutableSandboxConfig interface {
	SandboxConfig
	Set(key string, value NodeConfigValue) mutableSandboxConfig
	SetUint32(key string, value uint32) mutableSandboxConfig
	SetUint64(key string, value uint64) mutableSandboxConfig
	SetDuration(key string, value time.Duration) mutableSandboxConfig
	SetString(key string, value string) mutableSandboxConfig
	SetBool(key string, value bool) mutableSandboxConfig
	Modify(newValues ...NodeConfigKeyValue)
}

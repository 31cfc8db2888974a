// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

// all other configs are variations from the production one
func defaultProductionConfig() mutableSandboxConfig {
	cfg := emptyConfig()

	cfg.SetUint64(STORAGE_PRICE_PER_BYTE, 100)

	// bounds runaway promise chains, not a gas substitute
	cfg.SetUint32(MAX_RECEIPTS_PER_CALL, 64)

	cfg.SetString(HTTP_ADDRESS, ":8080")
	cfg.SetUint32(HTTP_REQUESTS_PER_SECOND, 1000)
	cfg.SetUint32(HTTP_REQUESTS_BURST, 2000)
	cfg.SetBool(PROFILING, false)

	// empty path keeps state in memory
	cfg.SetString(STATE_STORAGE_PATH, "")

	cfg.SetString(GENESIS_OWNER, "sandbox-owner")
	cfg.SetString(GENESIS_TOTAL_SUPPLY, "1000000000000000")
	cfg.SetString(TOKEN_NAME, "Fungible Ledger Token")
	cfg.SetString(TOKEN_SYMBOL, "FLT")
	cfg.SetUint32(TOKEN_DECIMALS, 18)

	return cfg
}

func ForProduction() mutableSandboxConfig {
	return defaultProductionConfig()
}

// config for a local sandbox node (same economics, local listen address)
func ForSandbox(httpAddress string) mutableSandboxConfig {
	cfg := defaultProductionConfig()

	if httpAddress != "" {
		cfg.SetString(HTTP_ADDRESS, httpAddress)
	}
	return cfg
}

// config for tests (small numbers so expected values are easy to compute by hand)
func ForTests() mutableSandboxConfig {
	cfg := defaultProductionConfig()

	cfg.SetUint64(STORAGE_PRICE_PER_BYTE, 10)
	cfg.SetUint32(MAX_RECEIPTS_PER_CALL, 16)
	cfg.SetString(HTTP_ADDRESS, "127.0.0.1:0")

	return cfg
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/orbs-network/fungible-ledger-go/config"
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/services/ledger"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// the sandbox keeps background reporters running until shutdown, so these
// tests use a logger with no outputs instead of the testing logger
func silentLogger() log.Logger {
	return log.GetLogger().WithOutput()
}

func queryString(t *testing.T, s *Sandbox, method string, args string) string {
	var rawArgs []byte
	if args != "" {
		rawArgs = []byte(args)
	}
	output, err := s.Host.RunQuery(context.Background(), &host.QueryInput{
		Contract: ledger.ContractName,
		Method:   method,
		Args:     rawArgs,
	})
	require.NoError(t, err, "query %s should succeed", method)
	return string(output.Result)
}

func TestSandboxBootRunsGenesis(t *testing.T) {
	s := NewSandbox(config.ForTests(), silentLogger())
	defer s.GracefulShutdown(time.Second)

	require.Equal(t, `"1000000000000000"`, queryString(t, s, "ft_total_supply", ""),
		"genesis should mint the configured supply")
	require.Equal(t, `"1000000000000000"`, queryString(t, s, "ft_balance_of", `{"account_id":"sandbox-owner"}`),
		"genesis should credit the configured owner")
}

func TestSandboxRestartKeepsPersistedState(t *testing.T) {
	dir, err := ioutil.TempDir("", "sandbox-state")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cfg := config.ForTests()
	cfg.SetString(config.STATE_STORAGE_PATH, filepath.Join(dir, "state.bolt"))

	first := NewSandbox(cfg, silentLogger())
	registration, err := first.Host.SendCall(context.Background(), &host.CallInput{
		Contract: ledger.ContractName,
		Method:   "storage_deposit",
		Args:     []byte(`{"account_id":"returning-user"}`),
		Caller:   "returning-user",
		Deposit:  1000,
	})
	require.NoError(t, err)
	require.True(t, registration.Success, "registration should succeed: %s", registration.ErrorMessage)

	transfer, err := first.Host.SendCall(context.Background(), &host.CallInput{
		Contract: ledger.ContractName,
		Method:   "ft_transfer",
		Args:     []byte(`{"receiver_id":"returning-user","amount":"1000"}`),
		Caller:   "sandbox-owner",
		Deposit:  1,
	})
	require.NoError(t, err)
	require.True(t, transfer.Success, "transfer should succeed: %s", transfer.ErrorMessage)
	first.GracefulShutdown(time.Second)

	second := NewSandbox(cfg, silentLogger())
	defer second.GracefulShutdown(time.Second)

	require.Equal(t, `"1000"`, queryString(t, second, "ft_balance_of", `{"account_id":"returning-user"}`),
		"a restarted node should see the persisted balance")
	require.Equal(t, `"1000000000000000"`, queryString(t, second, "ft_total_supply", ""),
		"a restarted node should not mint again")
}

func TestSandboxWithoutGenesisOwnerAwaitsManualInitialization(t *testing.T) {
	cfg := config.ForTests()
	cfg.SetString(config.GENESIS_OWNER, "")

	s := NewSandbox(cfg, silentLogger())
	defer s.GracefulShutdown(time.Second)

	_, err := s.Host.RunQuery(context.Background(), &host.QueryInput{
		Contract: ledger.ContractName,
		Method:   "ft_total_supply",
	})
	require.Equal(t, ledger.ErrNotInitialized, errors.Cause(err), "the ledger should stay uninitialized")

	output, err := s.Host.SendCall(context.Background(), &host.CallInput{
		Contract: ledger.ContractName,
		Method:   "initialize",
		Args:     []byte(`{"owner_id":"manual-owner","total_supply":"42"}`),
		Caller:   "operator",
		Deposit:  100000,
	})
	require.NoError(t, err)
	require.True(t, output.Success, "manual initialization should succeed: %s", output.ErrorMessage)
	require.Equal(t, `"42"`, queryString(t, s, "ft_total_supply", ""))
}

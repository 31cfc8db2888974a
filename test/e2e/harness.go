// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/orbs-network/fungible-ledger-go/bootstrap"
	"github.com/orbs-network/fungible-ledger-go/bootstrap/httpserver"
	"github.com/orbs-network/fungible-ledger-go/config"
	"github.com/orbs-network/fungible-ledger-go/services/ledger"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
)

// harness drives a node over its public HTTP API, the way an external client
// would. By default every test boots its own in-process node on an ephemeral
// port; set API_ENDPOINT to point the suite at an already running one instead.
type harness struct {
	apiBaseUrl string
	client     *http.Client
	node       *bootstrap.Sandbox
}

func newHarness() *harness {
	h := &harness{client: &http.Client{Timeout: 10 * time.Second}}

	if endpoint := os.Getenv("API_ENDPOINT"); endpoint != "" {
		h.apiBaseUrl = strings.TrimRight(endpoint, "/")
		return h
	}

	logger := log.GetLogger().
		WithTags(log.String("_test", "e2e")).
		WithOutput(log.NewFormattingOutput(os.Stdout, log.NewHumanReadableFormatter()))

	h.node = bootstrap.NewSandbox(config.ForTests(), logger)
	h.apiBaseUrl = fmt.Sprintf("http://127.0.0.1:%d", h.node.HttpServer.Port())
	return h
}

func (h *harness) shutdown() {
	if h.node != nil {
		h.node.GracefulShutdown(1 * time.Second)
	}
}

func (h *harness) absoluteUrl(path string) string {
	return h.apiBaseUrl + path
}

func (h *harness) httpPost(t testing.TB, path string, request interface{}) (int, []byte) {
	body, err := json.Marshal(request)
	require.NoError(t, err, "should encode the request body")

	res, err := h.client.Post(h.absoluteUrl(path), "application/json", bytes.NewReader(body))
	require.NoError(t, err, "POST %s should reach the node", path)
	defer res.Body.Close()

	read, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err, "should read the response body")
	return res.StatusCode, read
}

func (h *harness) httpGet(t testing.TB, path string) (int, []byte) {
	res, err := h.client.Get(h.absoluteUrl(path))
	require.NoError(t, err, "GET %s should reach the node", path)
	defer res.Body.Close()

	read, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err, "should read the response body")
	return res.StatusCode, read
}

// sendCall posts a transaction and decodes the response without judging it,
// so tests can assert rejections as well as successes.
func (h *harness) sendCall(t testing.TB, caller string, deposit uint64, method string, args interface{}) (int, *httpserver.CallResponse) {
	request := &httpserver.CallRequest{
		Contract: ledger.ContractName,
		Method:   method,
		Caller:   caller,
		Deposit:  deposit,
	}
	if args != nil {
		encoded, err := json.Marshal(args)
		require.NoError(t, err, "should encode the call arguments")
		request.Args = encoded
	}

	code, body := h.httpPost(t, "/api/v1/send-call", request)
	response := &httpserver.CallResponse{}
	require.NoError(t, json.Unmarshal(body, response), "send-call response should be json: %s", string(body))
	return code, response
}

func (h *harness) sendCallSuccessfully(t testing.TB, caller string, deposit uint64, method string, args interface{}) *httpserver.CallResponse {
	code, response := h.sendCall(t, caller, deposit, method, args)
	require.Equal(t, http.StatusOK, code, "%s should execute, got %s", method, response.ErrorMessage)
	require.True(t, response.Success, "%s should succeed, got %s", method, response.ErrorMessage)
	return response
}

func (h *harness) runQuery(t testing.TB, method string, args interface{}) (int, *httpserver.QueryResponse) {
	request := &httpserver.QueryRequest{
		Contract: ledger.ContractName,
		Method:   method,
	}
	if args != nil {
		encoded, err := json.Marshal(args)
		require.NoError(t, err, "should encode the query arguments")
		request.Args = encoded
	}

	code, body := h.httpPost(t, "/api/v1/run-query", request)
	response := &httpserver.QueryResponse{}
	require.NoError(t, json.Unmarshal(body, response), "run-query response should be json: %s", string(body))
	return code, response
}

func (h *harness) runQuerySuccessfully(t testing.TB, method string, args interface{}) json.RawMessage {
	code, response := h.runQuery(t, method, args)
	require.Equal(t, http.StatusOK, code, "%s should answer, got %s", method, response.ErrorMessage)
	require.True(t, response.Success, "%s should succeed, got %s", method, response.ErrorMessage)
	return response.Result
}

// balanceOf returns the decimal string a balance query resolves to.
func (h *harness) balanceOf(t testing.TB, account string) string {
	result := h.runQuerySuccessfully(t, "ft_balance_of", map[string]string{"account_id": account})
	return unquote(t, result)
}

func (h *harness) totalSupply(t testing.TB) string {
	return unquote(t, h.runQuerySuccessfully(t, "ft_total_supply", nil))
}

// registrationMinimum asks the contract what a fresh registration costs.
func (h *harness) registrationMinimum(t testing.TB) uint64 {
	result := h.runQuerySuccessfully(t, "storage_balance_bounds", nil)
	bounds := struct {
		Min string `json:"min"`
	}{}
	require.NoError(t, json.Unmarshal(result, &bounds), "bounds should decode: %s", string(result))

	var minimum uint64
	_, err := fmt.Sscanf(bounds.Min, "%d", &minimum)
	require.NoError(t, err, "registration minimum should be a decimal number, got %s", bounds.Min)
	return minimum
}

func (h *harness) registerAccount(t testing.TB, account string) {
	h.sendCallSuccessfully(t, account, h.registrationMinimum(t), "storage_deposit", nil)
}

func unquote(t testing.TB, raw json.RawMessage) string {
	value := ""
	require.NoError(t, json.Unmarshal(raw, &value), "result should be a json string: %s", string(raw))
	return value
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// CallRequest is the wire form of one state changing call. Args are handed to
// the contract method verbatim, amounts inside them as base-10 decimal
// strings, and Deposit is the amount of native units attached to the call.
type CallRequest struct {
	Contract string          `json:"contract"`
	Method   string          `json:"method"`
	Args     json.RawMessage `json:"args,omitempty"`
	Caller   string          `json:"caller"`
	Deposit  uint64          `json:"deposit"`
}

type QueryRequest struct {
	Contract string          `json:"contract"`
	Method   string          `json:"method"`
	Args     json.RawMessage `json:"args,omitempty"`
}

// CallResponse reports the settled call: the resolved result of the root
// receipt's promise chain plus everything the committed receipts produced.
type CallResponse struct {
	CallID       uint64             `json:"call_id"`
	Success      bool               `json:"success"`
	Result       json.RawMessage    `json:"result,omitempty"`
	ErrorMessage string             `json:"error,omitempty"`
	Events       []*types.Event     `json:"events,omitempty"`
	Payouts      []*types.Payout    `json:"payouts,omitempty"`
	Receipts     []*ReceiptResponse `json:"receipts,omitempty"`
}

type ReceiptResponse struct {
	PromiseID    uint64          `json:"promise_id"`
	Contract     string          `json:"contract"`
	Method       string          `json:"method"`
	Success      bool            `json:"success"`
	Value        json.RawMessage `json:"value,omitempty"`
	ErrorMessage string          `json:"error,omitempty"`
}

type QueryResponse struct {
	Success      bool            `json:"success"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage string          `json:"error,omitempty"`
}

func (s *server) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, err := w.Write([]byte("User-agent: *\nDisallow: /\n"))
	if err != nil {
		s.logger.Info("error writing robots.txt response", log.Error(err))
	}
}

func (s *server) dumpMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	bytes, _ := json.Marshal(s.metricRegistry.ExportAll())
	_, err := w.Write(bytes)
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func (s *server) dumpMetricsAsPrometheus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, err := w.Write([]byte(s.metricRegistry.ExportPrometheus()))
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func (s *server) sendCallHandler(w http.ResponseWriter, r *http.Request) {
	bytes, e := readInput(r)
	if e != nil {
		s.writeErrorResponseAndLog(w, e)
		return
	}

	var request CallRequest
	if err := json.Unmarshal(bytes, &request); err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusBadRequest, log.Error(err), "http request body is not a valid call request"})
		return
	}

	s.logger.Info("http server received send-call", log.String("contract", request.Contract), log.String("method", request.Method))
	output, err := s.host.SendCall(r.Context(), &host.CallInput{
		Contract: request.Contract,
		Method:   request.Method,
		Args:     request.Args,
		Caller:   types.AccountID(request.Caller),
		Deposit:  request.Deposit,
	})
	if output == nil {
		if err == nil {
			err = errors.Errorf("call produced no output")
		}
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusInternalServerError, log.Error(err), err.Error()})
		return
	}

	// a call without receipts was rejected at the door and nothing executed,
	// while an executed call is a completed request even when it failed
	code := http.StatusOK
	if !output.Success && len(output.Receipts) == 0 {
		code = http.StatusBadRequest
	}
	s.writeJsonResponse(w, code, callResponseFrom(output))
}

func (s *server) runQueryHandler(w http.ResponseWriter, r *http.Request) {
	bytes, e := readInput(r)
	if e != nil {
		s.writeErrorResponseAndLog(w, e)
		return
	}

	var request QueryRequest
	if err := json.Unmarshal(bytes, &request); err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusBadRequest, log.Error(err), "http request body is not a valid query request"})
		return
	}

	s.logger.Info("http server received run-query", log.String("contract", request.Contract), log.String("method", request.Method))
	output, err := s.host.RunQuery(r.Context(), &host.QueryInput{
		Contract: request.Contract,
		Method:   request.Method,
		Args:     request.Args,
	})
	if output == nil {
		if err == nil {
			err = errors.Errorf("query produced no output")
		}
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusInternalServerError, log.Error(err), err.Error()})
		return
	}

	code := http.StatusOK
	if !output.Success {
		code = http.StatusBadRequest
	}
	s.writeJsonResponse(w, code, &QueryResponse{
		Success:      output.Success,
		Result:       rawJsonOrQuoted(output.Result),
		ErrorMessage: output.ErrorMessage,
	})
}

func (s *server) writeJsonResponse(w http.ResponseWriter, code int, body interface{}) {
	bytes, err := json.Marshal(body)
	if err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusInternalServerError, log.Error(err), "error marshaling response"})
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(bytes); err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func callResponseFrom(output *host.CallOutput) *CallResponse {
	response := &CallResponse{
		CallID:       output.CallID,
		Success:      output.Success,
		Result:       rawJsonOrQuoted(output.Result),
		ErrorMessage: output.ErrorMessage,
		Events:       output.Events,
		Payouts:      output.Payouts,
	}
	for _, receipt := range output.Receipts {
		response.Receipts = append(response.Receipts, &ReceiptResponse{
			PromiseID:    receipt.PromiseID,
			Contract:     receipt.Contract,
			Method:       receipt.Method,
			Success:      receipt.Success,
			Value:        rawJsonOrQuoted(receipt.Value),
			ErrorMessage: receipt.ErrorMessage,
		})
	}
	return response
}

// contract methods return JSON by convention, but the response must stay
// valid JSON even for a contract that returns raw bytes
func rawJsonOrQuoted(value []byte) json.RawMessage {
	if len(value) == 0 {
		return nil
	}
	if json.Valid(value) {
		return json.RawMessage(value)
	}
	quoted, _ := json.Marshal(string(value))
	return json.RawMessage(quoted)
}

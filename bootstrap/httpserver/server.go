// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"context"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/orbs-network/fungible-ledger-go/config"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/metric"
	"github.com/orbs-network/fungible-ledger-go/services/host"
	"github.com/orbs-network/scribe/log"
	"golang.org/x/time/rate"
)

var LogTag = log.String("adapter", "http-server")

type httpErr struct {
	code     int
	logField *log.Field
	message  string
}

type HttpServer interface {
	GracefulShutdown(timeout time.Duration)
	Port() int
}

type server struct {
	httpServer     *http.Server
	logger         log.Logger
	host           host.Host
	metricRegistry metric.Registry
	config         config.HttpServerConfig
	limiter        *rate.Limiter
	startTime      time.Time

	port int
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	err = tc.SetKeepAlive(true)
	if err != nil {
		return nil, err
	}
	err = tc.SetKeepAlivePeriod(35 * time.Second)
	if err != nil {
		return nil, err
	}
	return tc, nil
}

func NewHttpServer(cfg config.HttpServerConfig, logger log.Logger, hostService host.Host, metricRegistry metric.Registry) HttpServer {
	server := &server{
		logger:         logger.WithTags(LogTag),
		host:           hostService,
		metricRegistry: metricRegistry,
		config:         cfg,
		limiter:        rate.NewLimiter(rate.Limit(cfg.HttpRequestsPerSecond()), int(cfg.HttpRequestsBurst())),
		startTime:      time.Now(),
	}

	if listener, err := server.listen(server.config.HttpAddress()); err != nil {
		panic(fmt.Sprintf("failed to start http server: %s", err.Error()))
	} else {
		server.port = listener.Addr().(*net.TCPAddr).Port
		server.httpServer = &http.Server{
			Handler: server.createRouter(),
		}

		// We prefer not to use `HttpServer.ListenAndServe` because we want to block until the socket is listening or exit immediately
		go server.httpServer.Serve(tcpKeepAliveListener{listener.(*net.TCPListener)})
	}

	logger.Info("started http server", log.String("address", server.config.HttpAddress()))

	return server
}

func (s *server) Port() int {
	return s.port
}

func (s *server) listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

func (s *server) GracefulShutdown(timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to stop http server gracefully", log.Error(err))
	}
}

func (s *server) createRouter() http.Handler {
	router := http.NewServeMux()
	router.Handle("/api/v1/send-call", http.HandlerFunc(wrapHandlerWithCORS(s.withRateLimit(s.sendCallHandler))))
	router.Handle("/api/v1/run-query", http.HandlerFunc(wrapHandlerWithCORS(s.withRateLimit(s.runQueryHandler))))
	router.Handle("/metrics", http.HandlerFunc(wrapHandlerWithCORS(s.dumpMetrics)))
	router.Handle("/metrics.prometheus", http.HandlerFunc(wrapHandlerWithCORS(s.dumpMetricsAsPrometheus)))
	router.Handle("/status", http.HandlerFunc(wrapHandlerWithCORS(s.getStatus)))
	router.Handle("/robots.txt", http.HandlerFunc(s.robots))

	if s.config.Profiling() {
		registerPprof(router)
	}

	return router
}

// one token bucket for both API endpoints, so a query flood also backs off calls
func (s *server) withRateLimit(f func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeErrorResponseAndLog(w, &httpErr{http.StatusTooManyRequests, nil, "request rate limit exceeded"})
			return
		}
		f(w, r)
	}
}

func readInput(r *http.Request) ([]byte, *httpErr) {
	if r.Body == nil {
		return nil, &httpErr{http.StatusBadRequest, nil, "http request body is empty"}
	}

	bytes, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, &httpErr{http.StatusBadRequest, log.Error(err), "http request body is empty"}
	}
	return bytes, nil
}

func (s *server) writeErrorResponseAndLog(w http.ResponseWriter, m *httpErr) {
	if m.logField == nil {
		s.logger.Info(m.message)
	} else {
		s.logger.Info(m.message, m.logField)
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(m.code)
	_, err := w.Write([]byte(m.message))
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func registerPprof(router *http.ServeMux) {
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

// Allows handler to be called via XHR requests from any host
func wrapHandlerWithCORS(f func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
		} else {
			f(w, r)
		}
	}
}

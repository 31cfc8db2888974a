// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/orbs-network/fungible-ledger-go/bootstrap/httpserver"
	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
)

type SandboxProcess struct {
	CancelFunc   context.CancelFunc
	Logger       log.Logger
	HttpServer   httpserver.HttpServer
	StateCloser  io.Closer
	shutdownCond *sync.Cond
}

func NewSandboxProcess(logger log.Logger, cancelFunc context.CancelFunc, httpServer httpserver.HttpServer) SandboxProcess {
	return SandboxProcess{
		shutdownCond: sync.NewCond(&sync.Mutex{}),
		Logger:       logger,
		CancelFunc:   cancelFunc,
		HttpServer:   httpServer,
	}
}

func (n *SandboxProcess) GracefulShutdown(timeout time.Duration) {
	n.CancelFunc()
	n.HttpServer.GracefulShutdown(timeout)
	if n.StateCloser != nil {
		if err := n.StateCloser.Close(); err != nil {
			n.Logger.Error("failed to close state storage", log.Error(err))
		}
	}
	n.shutdownCond.Broadcast()
}

func (n *SandboxProcess) WaitUntilShutdown() {
	// if waiting for shutdown, listen for sigint and sigterm
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	govnr.Once(logfields.GovnrErrorer(n.Logger), func() {
		<-signalChan
		n.Logger.Info("terminating node gracefully due to os signal received")
		n.GracefulShutdown(0)
	})

	n.shutdownCond.L.Lock()
	n.shutdownCond.Wait()
	n.shutdownCond.L.Unlock()
}

// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization

import (
	"context"
	"time"

	"github.com/orbs-network/fungible-ledger-go/instrumentation/logfields"
	"github.com/orbs-network/govnr"
)

// PeriodicalTrigger invokes a handler on a fixed interval until its context
// ends or Stop is called. The optional onStop hook runs on the loop goroutine
// after the final tick, so by the time Stop returns the teardown is complete.
type PeriodicalTrigger struct {
	govnr.TreeSupervisor
	cancel context.CancelFunc
	closed govnr.ContextEndedChan
}

func NewPeriodicalTrigger(ctx context.Context, name string, interval time.Duration, logger logfields.Errorer, trigger func(), onStop func()) *PeriodicalTrigger {
	loopCtx, cancel := context.WithCancel(ctx)
	t := &PeriodicalTrigger{cancel: cancel}

	// the ticker is created inside the loop body so that a panicking handler
	// gets a fresh ticker when govnr restarts the loop
	handle := govnr.Forever(loopCtx, name, logfields.GovnrErrorer(logger), func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				trigger()
			case <-loopCtx.Done():
				if onStop != nil {
					onStop()
				}
				return
			}
		}
	})

	t.closed = handle.Done()
	t.Supervise(handle)
	return t
}

// Stop returns only after the loop has exited; no tick fires afterwards.
func (t *PeriodicalTrigger) Stop() {
	t.cancel()
	<-t.closed
}

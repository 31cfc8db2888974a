// Copyright 2019 the fungible-ledger-go authors
// This file is part of the fungible-ledger-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package logfields

import (
	"github.com/orbs-network/fungible-ledger-go/types"
	"github.com/orbs-network/scribe/log"
)

func Contract(name string) *log.Field {
	return log.String("contract", name)
}

func Method(name string) *log.Field {
	return log.String("method", name)
}

func Account(key string, id types.AccountID) *log.Field {
	return log.String(key, id.String())
}

func Amount(key string, value types.U128) *log.Field {
	return log.Stringable(key, value)
}

func CallID(value uint64) *log.Field {
	return log.Uint64("call-id", value)
}

func PromiseID(value uint64) *log.Field {
	return log.Uint64("promise-id", value)
}

func Event(event *types.Event) *log.Field {
	return log.Stringable("event", event)
}

func Payout(payout *types.Payout) *log.Field {
	return log.Stringable("payout", payout)
}

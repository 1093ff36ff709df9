// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenLaunched is emitted once per successful launch.
type TokenLaunched struct {
	Token            common.Address
	Creator          common.Address
	Name             string
	Symbol           string
	PositionID       uint64
	TotalSupply      *big.Int
	InitialValuation *big.Int
	TickLower        int32
	TickUpper        int32
}

// FeesClaimed is emitted when a fee claim pays out a non-zero amount.
type FeesClaimed struct {
	Token          common.Address
	Amount0        *big.Int
	Amount1        *big.Int
	CreatorAmount0 *big.Int
	CreatorAmount1 *big.Int
}

// TokenBought is emitted on a successful buy.
type TokenBought struct {
	Buyer     common.Address
	Token     common.Address
	AmountIn  *big.Int // gross native input
	AmountOut *big.Int // tokens delivered
	Fee       *big.Int // protocol fee skimmed from the input
}

// TokenSold is emitted on a successful sell.
type TokenSold struct {
	Seller    common.Address
	Token     common.Address
	AmountIn  *big.Int // gross token input
	AmountOut *big.Int // native delivered after the fee
	Fee       *big.Int // protocol fee skimmed from the output
}

// EventLog collects emitted events in order. Events are appended only after
// an operation has fully succeeded, so the log never records reverted calls.
type EventLog struct {
	entries []any
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Emit appends an event.
func (l *EventLog) Emit(event any) {
	l.entries = append(l.entries, event)
}

// Entries returns all recorded events in emission order.
func (l *EventLog) Entries() []any {
	return append([]any(nil), l.entries...)
}

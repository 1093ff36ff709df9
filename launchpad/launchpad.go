// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package launchpad implements a single-transaction token launchpad over a
// concentrated-liquidity pool manager. A launch mints a fixed-supply token,
// deposits 100% of it single-sided into a price range anchored at a target
// initial valuation, and permanently locks the resulting position. Trading
// fees accrued by the locked position are split between the token's creator
// and the protocol operator; a router provides the buy/sell path with a
// protocol fee skim.
package launchpad

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/huksdotfun/bsc-contracts/amm"
	"github.com/huksdotfun/bsc-contracts/state"
)

// Protocol bundles a fully wired launchpad deployment over one state
// instance.
type Protocol struct {
	State       *state.State
	Pools       *amm.PoolManager
	Positions   *amm.PositionManager
	Fees        *FeeLedger
	Custodian   *PositionCustodian
	Coordinator *LaunchCoordinator
	Router      *SwapRouter
	Config      *ProtocolConfig
	Events      *EventLog
}

// NewProtocol wires up a launchpad deployment with default config.
func NewProtocol(admin, operator, feeRecipient common.Address) *Protocol {
	st := state.New()
	pm := amm.NewPoolManager()
	positions := amm.NewPositionManager(pm)
	fees := NewFeeLedger(pm, positions)
	cfg := NewProtocolConfig(admin, operator, feeRecipient)
	events := NewEventLog()

	coordinator := NewLaunchCoordinator(st, pm, positions, nil, cfg, events)
	custodian := NewPositionCustodian(st, positions, fees, cfg, coordinator, events, LaunchpadAddress)
	coordinator.custodian = custodian
	router := NewSwapRouter(st, pm, coordinator, cfg, events)

	return &Protocol{
		State:       st,
		Pools:       pm,
		Positions:   positions,
		Fees:        fees,
		Custodian:   custodian,
		Coordinator: coordinator,
		Router:      router,
		Config:      cfg,
		Events:      events,
	}
}

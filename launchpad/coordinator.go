// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/huksdotfun/bsc-contracts/amm"
	"github.com/huksdotfun/bsc-contracts/state"
	"github.com/huksdotfun/bsc-contracts/token"
)

// Well-known protocol addresses.
var (
	LaunchpadAddress = common.HexToAddress("0x0000000000000000000000000000000000009020")
	CustodianAddress = common.HexToAddress("0x0000000000000000000000000000000000009021")
	RouterAddress    = common.HexToAddress("0x0000000000000000000000000000000000009022")
)

// TokenParams names a token to launch.
type TokenParams struct {
	Name   string
	Symbol string
}

// LaunchRecord is the registry entry for a launched token.
type LaunchRecord struct {
	TokenAddress     common.Address
	Creator          common.Address
	Name             string
	Symbol           string
	PositionID       uint64
	TotalSupply      *big.Int
	InitialValuation *big.Int
	TickLower        int32
	TickUpper        int32
	CreatedAt        time.Time
}

// LaunchCoordinator runs the launch flow end to end: token creation, price
// range derivation, pool initialization, the single-sided deposit, and the
// permanent lock. A launch either completes fully or leaves no trace.
type LaunchCoordinator struct {
	st        *state.State
	pm        *amm.PoolManager
	positions *amm.PositionManager
	custodian *PositionCustodian
	cfg       *ProtocolConfig
	events    *EventLog

	launches  map[common.Address]*LaunchRecord
	byCreator map[common.Address][]common.Address
	poolKeys  map[common.Address]amm.PoolKey
	tokens    map[common.Address]*token.Token

	nonce     uint64
	launching bool
}

// NewLaunchCoordinator creates a coordinator. The custodian must have been
// constructed with LaunchpadAddress as its issuer.
func NewLaunchCoordinator(st *state.State, pm *amm.PoolManager, positions *amm.PositionManager, custodian *PositionCustodian, cfg *ProtocolConfig, events *EventLog) *LaunchCoordinator {
	return &LaunchCoordinator{
		st:        st,
		pm:        pm,
		positions: positions,
		custodian: custodian,
		cfg:       cfg,
		events:    events,
		launches:  make(map[common.Address]*LaunchRecord),
		byCreator: make(map[common.Address][]common.Address),
		poolKeys:  make(map[common.Address]amm.PoolKey),
		tokens:    make(map[common.Address]*token.Token),
	}
}

// Token implements TokenResolver.
func (lc *LaunchCoordinator) Token(addr common.Address) (*token.Token, bool) {
	tok, ok := lc.tokens[addr]
	return tok, ok
}

// Launch mints a new token with the given supply, deposits all of it
// single-sided into a fresh pool priced at initialValuation, and permanently
// locks the position for creator. feePaid is the native value sent with the
// call; any excess over the creation fee is refunded to caller. Returns the
// token address and locked position id.
func (lc *LaunchCoordinator) Launch(caller common.Address, params TokenParams, totalSupply, initialValuation *big.Int, creator common.Address, feePaid *uint256.Int) (common.Address, uint64, error) {
	if lc.launching {
		return common.Address{}, 0, ErrReentrantCall
	}
	lc.launching = true
	defer func() { lc.launching = false }()

	if totalSupply == nil || totalSupply.Sign() <= 0 {
		return common.Address{}, 0, fmt.Errorf("%w: total supply must be positive", ErrInvalidArgument)
	}
	if initialValuation == nil || initialValuation.Sign() <= 0 {
		return common.Address{}, 0, fmt.Errorf("%w: initial valuation must be positive", ErrInvalidArgument)
	}
	if creator == (common.Address{}) {
		return common.Address{}, 0, fmt.Errorf("%w: zero creator", ErrInvalidArgument)
	}
	if params.Name == "" || params.Symbol == "" {
		return common.Address{}, 0, fmt.Errorf("%w: token name and symbol required", ErrInvalidArgument)
	}
	supply, overflow := uint256.FromBig(totalSupply)
	if overflow {
		return common.Address{}, 0, fmt.Errorf("%w: total supply overflows", ErrInvalidArgument)
	}
	if feePaid == nil {
		feePaid = uint256.NewInt(0)
	}

	snap := lc.st.Snapshot()
	fail := func(err error) (common.Address, uint64, error) {
		lc.st.RevertToSnapshot(snap)
		return common.Address{}, 0, err
	}

	if err := lc.collectCreationFee(caller, feePaid); err != nil {
		return fail(err)
	}

	// Token creation: full supply minted to the coordinator.
	tokenAddr := token.DeriveAddress(LaunchpadAddress, lc.nonce)
	launchNonce := lc.nonce
	lc.nonce++
	lc.st.OnRevert(func() { lc.nonce = launchNonce })

	tok := token.New(lc.st, tokenAddr, params.Name, params.Symbol, supply, LaunchpadAddress)
	lc.tokens[tokenAddr] = tok
	lc.pm.RegisterToken(tokenAddr, tok)
	lc.st.OnRevert(func() {
		delete(lc.tokens, tokenAddr)
		lc.pm.UnregisterToken(tokenAddr)
	})

	// Price range and pool.
	tickSpacing := lc.cfg.TickSpacing()
	pr, err := DerivePriceRange(totalSupply, initialValuation, tickSpacing, lc.cfg.RangeMultiplier())
	if err != nil {
		return fail(err)
	}
	key := amm.PoolKey{
		Currency0:   amm.NativeCurrency,
		Currency1:   amm.Currency{Address: tokenAddr},
		Fee:         lc.cfg.PoolFee(),
		TickSpacing: tickSpacing,
	}
	if _, err := lc.pm.Initialize(lc.st, key, pr.StartSqrtPriceX96); err != nil {
		return fail(err)
	}

	// Single-sided deposit: size liquidity so the full supply fits as
	// token-only at the upper bound, settle exactly what the mint needs,
	// and sweep rounding dust back to the caller.
	sqrtLower, err := amm.SqrtRatioAtTick(pr.TickLower)
	if err != nil {
		return fail(err)
	}
	sqrtUpper, err := amm.SqrtRatioAtTick(pr.TickUpper)
	if err != nil {
		return fail(err)
	}
	liquidity := amm.LiquidityForAmount1(sqrtLower, sqrtUpper, totalSupply)
	if liquidity.Sign() <= 0 {
		return fail(fmt.Errorf("%w: supply too small for derived range", ErrInvalidArgument))
	}
	required := amm.Amount1Delta(sqrtLower, sqrtUpper, liquidity, true)

	if err := tok.Transfer(LaunchpadAddress, amm.PositionManagerAddress, supply); err != nil {
		return fail(err)
	}
	minted, err := lc.positions.Execute(lc.st, LaunchpadAddress, []any{
		amm.MintPosition{
			Key:       key,
			TickLower: pr.TickLower,
			TickUpper: pr.TickUpper,
			Liquidity: liquidity,
			Recipient: CustodianAddress,
		},
		amm.SettleCurrency{Currency: key.Currency1, Amount: required},
		amm.Sweep{Currency: key.Currency1, To: caller},
	})
	if err != nil {
		return fail(err)
	}
	positionID := minted[0]

	if err := lc.custodian.Lock(LaunchpadAddress, tokenAddr, positionID, creator); err != nil {
		return fail(err)
	}

	record := &LaunchRecord{
		TokenAddress:     tokenAddr,
		Creator:          creator,
		Name:             params.Name,
		Symbol:           params.Symbol,
		PositionID:       positionID,
		TotalSupply:      new(big.Int).Set(totalSupply),
		InitialValuation: new(big.Int).Set(initialValuation),
		TickLower:        pr.TickLower,
		TickUpper:        pr.TickUpper,
		CreatedAt:        time.Now(),
	}
	lc.launches[tokenAddr] = record
	lc.byCreator[creator] = append(lc.byCreator[creator], tokenAddr)
	lc.poolKeys[tokenAddr] = key
	lc.st.OnRevert(func() {
		delete(lc.launches, tokenAddr)
		delete(lc.poolKeys, tokenAddr)
		list := lc.byCreator[creator]
		lc.byCreator[creator] = list[:len(list)-1]
	})

	lc.events.Emit(TokenLaunched{
		Token:            tokenAddr,
		Creator:          creator,
		Name:             params.Name,
		Symbol:           params.Symbol,
		PositionID:       positionID,
		TotalSupply:      new(big.Int).Set(totalSupply),
		InitialValuation: new(big.Int).Set(initialValuation),
		TickLower:        pr.TickLower,
		TickUpper:        pr.TickUpper,
	})
	return tokenAddr, positionID, nil
}

// collectCreationFee takes the configured creation fee from the value sent
// with the call, refunds any excess, and forwards the fee to the recipient.
func (lc *LaunchCoordinator) collectCreationFee(caller common.Address, feePaid *uint256.Int) error {
	required, enabled := lc.cfg.CreationFee()
	if !enabled || required.IsZero() {
		return nil
	}
	if feePaid.Cmp(required) < 0 {
		return fmt.Errorf("%w: creation fee %s required, got %s", ErrInsufficientFunds, required, feePaid)
	}
	if err := lc.st.TransferNative(caller, LaunchpadAddress, feePaid); err != nil {
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}
	if excess := new(uint256.Int).Sub(feePaid, required); !excess.IsZero() {
		if err := lc.st.TransferNative(LaunchpadAddress, caller, excess); err != nil {
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}
	if err := lc.st.TransferNative(LaunchpadAddress, lc.cfg.FeeRecipient(), required); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return nil
}

// Launch registry queries.

// LaunchInfo returns the registry entry for a token.
func (lc *LaunchCoordinator) LaunchInfo(tokenAddr common.Address) (*LaunchRecord, bool) {
	record, ok := lc.launches[tokenAddr]
	return record, ok
}

// PoolKeyFor returns the pool key backing a launched token.
func (lc *LaunchCoordinator) PoolKeyFor(tokenAddr common.Address) (amm.PoolKey, bool) {
	key, ok := lc.poolKeys[tokenAddr]
	return key, ok
}

// LaunchesByCreator returns the token addresses launched for a creator, in
// launch order.
func (lc *LaunchCoordinator) LaunchesByCreator(creator common.Address) []common.Address {
	return append([]common.Address(nil), lc.byCreator[creator]...)
}

// LaunchCount returns the number of completed launches.
func (lc *LaunchCoordinator) LaunchCount() int {
	return len(lc.launches)
}

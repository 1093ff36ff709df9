// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huksdotfun/bsc-contracts/launchpad"
)

func main() {
	root := &cobra.Command{
		Use:          "launchsim",
		Short:        "Token launchpad scenario runner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Launch a token, trade it, and claim fees",
		RunE:  runScenario,
	}

	runCmd.Flags().String("name", "Demo Token", "token name")
	runCmd.Flags().String("symbol", "DEMO", "token symbol")
	runCmd.Flags().String("supply", "1000000000e18", "total supply in wei")
	runCmd.Flags().String("valuation", "20e18", "initial valuation in native wei")
	runCmd.Flags().Int("buys", 3, "number of buys to simulate")
	runCmd.Flags().String("buy-amount", "1e18", "native amount per buy in wei")
	runCmd.Flags().Uint64("sell-bps", 5000, "share of holdings to sell back, in bps")
	runCmd.Flags().Uint64("swap-fee-bps", 100, "protocol swap fee in bps")
	runCmd.Flags().String("creation-fee", "0", "launch creation fee in native wei, 0 disables")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	adminAddr    = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	operatorAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	treasuryAddr = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	creatorAddr  = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	traderAddr   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
)

func runScenario(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	supply, err := parseAmount(cfg.Supply)
	if err != nil {
		return err
	}
	valuation, err := parseAmount(cfg.Valuation)
	if err != nil {
		return err
	}
	buyAmount, err := parseAmount(cfg.BuyAmount)
	if err != nil {
		return err
	}
	creationFee, err := parseAmount(cfg.CreationFee)
	if err != nil {
		return err
	}
	if cfg.SellBps > launchpad.BpsDenominator {
		return fmt.Errorf("sell-bps must be at most %d", launchpad.BpsDenominator)
	}

	p := launchpad.NewProtocol(adminAddr, operatorAddr, treasuryAddr)

	// Fund the participants generously.
	grant := uint256.MustFromDecimal("1000000000000000000000000")
	p.State.AddBalance(creatorAddr, grant)
	p.State.AddBalance(traderAddr, grant)

	if err := p.Config.SetSwapFeeBps(adminAddr, cfg.SwapFeeBps); err != nil {
		return err
	}
	feePaid := uint256.NewInt(0)
	if creationFee.Sign() > 0 {
		fee, overflow := uint256.FromBig(creationFee)
		if overflow {
			return fmt.Errorf("creation fee overflows")
		}
		if err := p.Config.SetCreationFee(adminAddr, fee, true); err != nil {
			return err
		}
		feePaid = fee
	}

	tokenAddr, positionID, err := p.Coordinator.Launch(creatorAddr, launchpad.TokenParams{
		Name:   cfg.Name,
		Symbol: cfg.Symbol,
	}, supply, valuation, creatorAddr, feePaid)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}

	record, _ := p.Coordinator.LaunchInfo(tokenAddr)
	logger.Info("token launched",
		zap.Stringer("token", tokenAddr),
		zap.Uint64("position_id", positionID),
		zap.String("supply", supply.String()),
		zap.String("valuation", valuation.String()),
		zap.Int32("tick_lower", record.TickLower),
		zap.Int32("tick_upper", record.TickUpper),
	)

	for i := 0; i < cfg.Buys; i++ {
		out, err := p.Router.BuyToken(traderAddr, tokenAddr, buyAmount, nil)
		if err != nil {
			return fmt.Errorf("buy %d: %w", i+1, err)
		}
		logger.Info("bought",
			zap.Int("n", i+1),
			zap.String("native_in", buyAmount.String()),
			zap.String("tokens_out", out.String()),
		)
	}

	tok, _ := p.Coordinator.Token(tokenAddr)
	holdings := tok.BalanceOf(traderAddr).ToBig()
	sellAmount := new(big.Int).Mul(holdings, new(big.Int).SetUint64(cfg.SellBps))
	sellAmount.Div(sellAmount, big.NewInt(launchpad.BpsDenominator))
	if sellAmount.Sign() > 0 {
		out, err := p.Router.SellToken(traderAddr, tokenAddr, sellAmount, nil)
		if err != nil {
			return fmt.Errorf("sell: %w", err)
		}
		logger.Info("sold",
			zap.String("tokens_in", sellAmount.String()),
			zap.String("native_out", out.String()),
		)
	}

	pending, err := p.Custodian.PendingFees(tokenAddr)
	if err != nil {
		return err
	}
	logger.Info("pending fees",
		zap.String("native", pending.Amount0.String()),
		zap.String("token", pending.Amount1.String()),
	)

	claimed0, claimed1, err := p.Custodian.ClaimFees(tokenAddr)
	if err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	logger.Info("fees claimed",
		zap.String("native", claimed0.String()),
		zap.String("token", claimed1.String()),
		zap.String("creator_native", p.State.GetBalance(creatorAddr).String()),
		zap.String("operator_native", p.State.GetBalance(operatorAddr).String()),
	)

	logger.Info("scenario done",
		zap.Int("events", len(p.Events.Entries())),
		zap.String("treasury_native", p.State.GetBalance(treasuryAddr).String()),
	)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

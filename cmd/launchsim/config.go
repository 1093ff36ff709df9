// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds scenario parameters loaded from flags, env, or config file.
type Config struct {
	Name        string
	Symbol      string
	Supply      string
	Valuation   string
	Buys        int
	BuyAmount   string
	SellBps     uint64
	SwapFeeBps  uint64
	CreationFee string
	LogLevel    string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LAUNCHSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("name", "Demo Token")
	v.SetDefault("symbol", "DEMO")
	v.SetDefault("supply", "1000000000e18")
	v.SetDefault("valuation", "20e18")
	v.SetDefault("buys", 3)
	v.SetDefault("buy-amount", "1e18")
	v.SetDefault("sell-bps", uint64(5000))
	v.SetDefault("swap-fee-bps", uint64(100))
	v.SetDefault("creation-fee", "0")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("launchsim")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return Config{
		Name:        v.GetString("name"),
		Symbol:      v.GetString("symbol"),
		Supply:      v.GetString("supply"),
		Valuation:   v.GetString("valuation"),
		Buys:        v.GetInt("buys"),
		BuyAmount:   v.GetString("buy-amount"),
		SellBps:     v.GetUint64("sell-bps"),
		SwapFeeBps:  v.GetUint64("swap-fee-bps"),
		CreationFee: v.GetString("creation-fee"),
		LogLevel:    v.GetString("log-level"),
	}, nil
}

// parseAmount parses a decimal amount with an optional e-notation exponent,
// e.g. "1000000000e18" or "25000000000000000000".
func parseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	mantissa := s
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		parsed, ok := new(big.Int).SetString(s[i+1:], 10)
		if !ok || !parsed.IsInt64() || parsed.Sign() < 0 {
			return nil, fmt.Errorf("invalid exponent in amount %q", s)
		}
		exp = int(parsed.Int64())
	}
	value, ok := new(big.Int).SetString(mantissa, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if exp > 0 {
		value.Mul(value, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	}
	return value, nil
}

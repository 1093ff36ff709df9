// Copyright (C) 2026, Huks Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package launchpad

import "errors"

// Errors
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAlreadyLocked     = errors.New("position already locked for token")
	ErrPositionNotOwned  = errors.New("position not owned by custodian")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSlippageExceeded  = errors.New("output below minimum")
	ErrTransferFailed    = errors.New("transfer failed")
	ErrReentrantCall     = errors.New("reentrant call")
	ErrUnknownToken      = errors.New("unknown token")
)

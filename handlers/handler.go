// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package handlers

import (
	"context"
	"fmt"

	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
)

// FailurePolicy decides what a failing Execute call does to the enclosing operation
type FailurePolicy uint8

const (
	// Strict handlers move value. A failed execution aborts the operation and
	// leaves the nonce unconsumed so it can be retried.
	Strict FailurePolicy = iota
	// BestEffort handlers forward arbitrary calls. A failed execution is
	// recorded and the nonce is still consumed.
	BestEffort
)

func (p FailurePolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case BestEffort:
		return "best-effort"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// Handler performs the asset or state effect of deposits and executions for
// the resources mapped to it. State passed to a handler is private to it and
// rolled back together with the operation that invoked it.
type Handler interface {
	Deposit(ctx context.Context, state store.KeyValueReaderWriter, resourceID types.ResourceID, depositor common.Address, data []byte) ([]byte, error)
	Execute(ctx context.Context, state store.KeyValueReaderWriter, resourceID types.ResourceID, data []byte) ([]byte, error)
	Withdraw(ctx context.Context, state store.KeyValueReaderWriter, data []byte) error
	FailurePolicy() FailurePolicy
}

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

type Outcome uint8

const (
	Success Outcome = iota
	// SoftFailure is a tolerated best-effort failure
	SoftFailure
	// HardFailure aborts the enclosing operation
	HardFailure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SoftFailure:
		return "soft-failure"
	case HardFailure:
		return "hard-failure"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// Result is the classified outcome of a handler execution
type Result struct {
	Outcome  Outcome
	Response []byte
	Err      error
}

// HandlerError carries the failure of a handler call
type HandlerError struct {
	Handler common.Address
	Policy  FailurePolicy
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s handler %s failed: %s", e.Policy, e.Handler.Hex(), e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// InvokeExecute calls the handler's Execute and classifies a failure by the
// handler's policy. Panics are treated as failures.
func InvokeExecute(
	ctx context.Context,
	address common.Address,
	h Handler,
	state store.KeyValueReaderWriter,
	resourceID types.ResourceID,
	data []byte,
) (res Result) {
	policy := h.FailurePolicy()
	defer func() {
		if r := recover(); r != nil {
			res = failure(address, policy, fmt.Errorf("panic occurred while executing: %v", r))
		}
	}()

	response, err := h.Execute(ctx, state, resourceID, data)
	if err != nil {
		return failure(address, policy, err)
	}
	return Result{
		Outcome:  Success,
		Response: response,
	}
}

// InvokeDeposit calls the handler's Deposit. Deposit failures always abort
// regardless of policy.
func InvokeDeposit(
	ctx context.Context,
	address common.Address,
	h Handler,
	state store.KeyValueReaderWriter,
	resourceID types.ResourceID,
	depositor common.Address,
	data []byte,
) (response []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{Handler: address, Policy: h.FailurePolicy(), Err: fmt.Errorf("panic occurred while depositing: %v", r)}
		}
	}()

	response, err = h.Deposit(ctx, state, resourceID, depositor, data)
	if err != nil {
		return nil, &HandlerError{Handler: address, Policy: h.FailurePolicy(), Err: err}
	}
	return response, nil
}

func failure(address common.Address, policy FailurePolicy, err error) Result {
	outcome := HardFailure
	if policy == BestEffort {
		outcome = SoftFailure
	}
	return Result{
		Outcome: outcome,
		Err:     &HandlerError{Handler: address, Policy: policy, Err: err},
	}
}

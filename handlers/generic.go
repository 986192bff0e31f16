// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

var (
	CALL_COUNT_KEY = "calls:%s"

	ErrNoCallTarget = errors.New("no call target registered for resource ID")
)

// CallTarget receives the metadata of executed generic transfers
type CallTarget interface {
	Call(ctx context.Context, resourceID types.ResourceID, metadata []byte) ([]byte, error)
}

type CallTargetFunc func(ctx context.Context, resourceID types.ResourceID, metadata []byte) ([]byte, error)

func (f CallTargetFunc) Call(ctx context.Context, resourceID types.ResourceID, metadata []byte) ([]byte, error) {
	return f(ctx, resourceID, metadata)
}

// GenericHandler forwards metadata of generic transfers to call targets
type GenericHandler struct {
	targets map[types.ResourceID]CallTarget
}

func NewGenericHandler() *GenericHandler {
	return &GenericHandler{
		targets: make(map[types.ResourceID]CallTarget),
	}
}

// RegisterCallTarget associates a call target with a resource ID
func (h *GenericHandler) RegisterCallTarget(resourceID types.ResourceID, target CallTarget) {
	log.Debug().Msgf("Registered call target for resource %s", resourceID)
	h.targets[resourceID] = target
}

func (h *GenericHandler) FailurePolicy() FailurePolicy {
	return BestEffort
}

func (h *GenericHandler) Deposit(ctx context.Context, state store.KeyValueReaderWriter, resourceID types.ResourceID, depositor common.Address, data []byte) ([]byte, error) {
	_, err := ParseGenericData(data)
	return nil, err
}

func (h *GenericHandler) Execute(ctx context.Context, state store.KeyValueReaderWriter, resourceID types.ResourceID, data []byte) ([]byte, error) {
	metadata, err := ParseGenericData(data)
	if err != nil {
		return nil, err
	}

	target, ok := h.targets[resourceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCallTarget, resourceID)
	}
	response, err := target.Call(ctx, resourceID, metadata)
	if err != nil {
		return nil, err
	}

	key := []byte(fmt.Sprintf(CALL_COUNT_KEY, resourceID.Hex()))
	count, err := store.GetUint64(state, key)
	if err != nil {
		return nil, err
	}
	return response, store.SetUint64(state, key, count+1)
}

func (h *GenericHandler) Withdraw(ctx context.Context, state store.KeyValueReaderWriter, data []byte) error {
	return errors.New("generic handler holds no withdrawable assets")
}

// CallCount returns the number of successful calls made for the resource
func CallCount(state store.KeyValueReader, resourceID types.ResourceID) (uint64, error) {
	return store.GetUint64(state, []byte(fmt.Sprintf(CALL_COUNT_KEY, resourceID.Hex())))
}

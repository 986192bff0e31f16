// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package registry

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

var (
	RESOURCE_KEY = "resource:%s"

	ErrResourceNotFound = errors.New("no handler registered for resource ID")
	ErrHandlerNotFound  = errors.New("no corresponding handler for this address exists")
)

// Handlers are the handler implementations installed in this process keyed by
// handler address
type Handlers map[common.Address]handlers.Handler

// Registry maps resource IDs to handler addresses. The mapping is persisted,
// the handler implementations behind addresses are installed at startup.
type Registry struct {
	handlers Handlers
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(Handlers),
	}
}

// RegisterHandler installs a handler implementation under an address
func (r *Registry) RegisterHandler(address common.Address, handler handlers.Handler) {
	log.Debug().Msgf("Registered handler for address %s", address)
	r.handlers[address] = handler
}

// Handler returns the implementation installed under the address
func (r *Registry) Handler(address common.Address) (handlers.Handler, error) {
	h, ok := r.handlers[address]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, address)
	}
	return h, nil
}

// SetResource maps a resource ID to a handler address, overwriting any
// previous mapping
func (r *Registry) SetResource(db store.KeyValueWriter, resourceID types.ResourceID, handlerAddress common.Address) error {
	if _, ok := r.handlers[handlerAddress]; !ok {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, handlerAddress)
	}
	return db.SetByKey(resourceKey(resourceID), handlerAddress.Bytes())
}

// ResourceHandler returns the handler address a resource ID is mapped to
func (r *Registry) ResourceHandler(db store.KeyValueReader, resourceID types.ResourceID) (common.Address, error) {
	v, err := db.GetByKey(resourceKey(resourceID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return common.Address{}, fmt.Errorf("%w: %s", ErrResourceNotFound, resourceID)
		}
		return common.Address{}, err
	}
	return common.BytesToAddress(v), nil
}

// Resolve returns the handler address and implementation for a resource ID
func (r *Registry) Resolve(db store.KeyValueReader, resourceID types.ResourceID) (common.Address, handlers.Handler, error) {
	address, err := r.ResourceHandler(db, resourceID)
	if err != nil {
		return common.Address{}, nil, err
	}

	h, err := r.Handler(address)
	if err != nil {
		return common.Address{}, nil, err
	}
	return address, h, nil
}

func resourceKey(resourceID types.ResourceID) []byte {
	return []byte(fmt.Sprintf(RESOURCE_KEY, resourceID.Hex()))
}

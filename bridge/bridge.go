// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/fee"
	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/nonce"
	"github.com/ChainSafe/sygma-bridge/registry"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	HANDLER_STATE_PREFIX = "handler:%s:"
	FEE_STATE_PREFIX     = "fee:"
)

type Database interface {
	store.KeyValueReaderWriter
	store.BatchWriter
	store.Iterator
}

type BlockFetcher interface {
	LatestBlock() uint64
}

type Option func(*Bridge)

// WithAuthority enables finalization of proposals by authority signature
func WithAuthority(verifier *authority.Verifier) Option {
	return func(b *Bridge) {
		b.verifier = verifier
	}
}

func WithFeeHandler(feeHandler fee.FeeHandler) Option {
	return func(b *Bridge) {
		b.feeHandler = feeHandler
	}
}

func WithAdmin(admin common.Address) Option {
	return func(b *Bridge) {
		b.admin = admin
	}
}

func WithTrustedForwarder(forwarder common.Address) Option {
	return func(b *Bridge) {
		b.trustedForwarders[forwarder] = true
	}
}

// WithAutoExecute controls whether a proposal reaching quorum is executed by
// the vote that passed it
func WithAutoExecute(autoExecute bool) Option {
	return func(b *Bridge) {
		b.autoExecute = autoExecute
	}
}

// Bridge is the proposal consensus and execution engine of a single domain.
// Every state mutating operation runs serialized inside its own transaction
// and either commits entirely or leaves state untouched. Events are published
// after commit, listeners must not call back into the Bridge.
type Bridge struct {
	mu sync.Mutex

	domainID          uint8
	address           common.Address
	db                Database
	registry          *registry.Registry
	relayers          *RelayerSet
	blocks            BlockFetcher
	bus               *events.Bus
	verifier          *authority.Verifier
	feeHandler        fee.FeeHandler
	admin             common.Address
	trustedForwarders map[common.Address]bool
	autoExecute       bool

	log zerolog.Logger
}

func NewBridge(
	domainID uint8,
	address common.Address,
	db Database,
	registry *registry.Registry,
	relayers *RelayerSet,
	blocks BlockFetcher,
	bus *events.Bus,
	opts ...Option,
) *Bridge {
	b := &Bridge{
		domainID:          domainID,
		address:           address,
		db:                db,
		registry:          registry,
		relayers:          relayers,
		blocks:            blocks,
		bus:               bus,
		feeHandler:        &fee.NoFee{},
		trustedForwarders: make(map[common.Address]bool),
		autoExecute:       true,
		log:               log.With().Uint8("domainID", domainID).Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) DomainID() uint8 {
	return b.domainID
}

func (b *Bridge) Address() common.Address {
	return b.address
}

func (b *Bridge) Relayers() *RelayerSet {
	return b.relayers
}

// SetResource maps a resource ID to an installed handler. Stored deposits and
// proposals are not affected by remapping.
func (b *Bridge) SetResource(ctx context.Context, resourceID types.ResourceID, handlerAddress common.Address) error {
	return b.transact(func(op *operation) error {
		return b.registry.SetResource(op.tx, resourceID, handlerAddress)
	})
}

// ResourceHandler returns the handler address mapped to the resource ID
func (b *Bridge) ResourceHandler(resourceID types.ResourceID) (common.Address, error) {
	address, err := b.registry.ResourceHandler(b.db, resourceID)
	if err != nil {
		return common.Address{}, unknownResource(err)
	}
	return address, nil
}

func (b *Bridge) Proposal(originDomainID uint8, depositNonce uint64, dataHash common.Hash) (*types.Proposal, error) {
	return store.NewPropStore(b.db).Proposal(originDomainID, depositNonce, dataHash)
}

func (b *Bridge) DepositRecord(destinationDomainID uint8, depositNonce uint64) (*types.DepositRecord, error) {
	return store.NewDepositStore(b.db).Deposit(destinationDomainID, depositNonce)
}

func (b *Bridge) IsExecuted(originDomainID uint8, depositNonce uint64) (bool, error) {
	return nonce.NewLedger(b.db).IsExecuted(originDomainID, depositNonce)
}

// DepositCount returns the last nonce issued for the destination domain
func (b *Bridge) DepositCount(destinationDomainID uint8) (uint64, error) {
	return nonce.NewLedger(b.db).DepositCount(destinationDomainID)
}

// HandlerState returns a read view of the committed state of a handler
func (b *Bridge) HandlerState(handlerAddress common.Address) store.KeyValueReader {
	return handlerState(b.db, handlerAddress)
}

// FeeState returns a read view of the committed state of the fee handler
func (b *Bridge) FeeState() store.KeyValueReader {
	return store.NewPrefixed(b.db, FEE_STATE_PREFIX)
}

// Withdraw calls the handler's admin recovery path
func (b *Bridge) Withdraw(ctx context.Context, caller common.Address, handlerAddress common.Address, data []byte) error {
	if caller != b.admin {
		return ErrNotAdmin
	}

	return b.transact(func(op *operation) error {
		h, err := b.registry.Handler(handlerAddress)
		if err != nil {
			return err
		}
		return h.Withdraw(ctx, handlerState(op.tx, handlerAddress), data)
	})
}

func (b *Bridge) isRelayerOrAdmin(caller common.Address) bool {
	return b.relayers.IsRelayer(caller) || (caller == b.admin && caller != common.Address{})
}

// operation is the unit of atomicity. Writes go through tx and events are
// buffered until the outermost operation commits.
type operation struct {
	tx     *store.Tx
	height uint64
	events []events.Event
	// keep commits the writes of a failed operation
	keep bool
}

func (op *operation) emit(e events.Event) {
	op.events = append(op.events, e)
}

// child opens a nested operation that can be discarded without affecting op
func (op *operation) child() *operation {
	return &operation{
		tx:     store.NewTx(op.tx),
		height: op.height,
	}
}

// merge commits a child operation into its parent
func (op *operation) merge(child *operation) error {
	if err := child.tx.Commit(); err != nil {
		return err
	}
	op.events = append(op.events, child.events...)
	return nil
}

func (b *Bridge) transact(fn func(op *operation) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	op := &operation{
		tx:     store.NewTx(b.db),
		height: b.blocks.LatestBlock(),
	}
	err := fn(op)
	if err != nil && !op.keep {
		op.tx.Discard()
		return err
	}

	if commitErr := op.tx.Commit(); commitErr != nil {
		return fmt.Errorf("unable to commit state: %w", commitErr)
	}
	if err != nil {
		return err
	}

	b.bus.Publish(op.events)
	return nil
}

func handlerState(db store.KeyValueReaderWriter, handlerAddress common.Address) *store.Prefixed {
	return store.NewPrefixed(db, fmt.Sprintf(HANDLER_STATE_PREFIX, handlerAddress.Hex()))
}

func (b *Bridge) resolve(db store.KeyValueReader, resourceID types.ResourceID) (common.Address, handlers.Handler, error) {
	address, h, err := b.registry.Resolve(db, resourceID)
	if err != nil {
		return common.Address{}, nil, unknownResource(err)
	}
	return address, h, nil
}

func unknownResource(err error) error {
	if errors.Is(err, registry.ErrResourceNotFound) || errors.Is(err, registry.ErrHandlerNotFound) {
		return fmt.Errorf("%w: %w", ErrUnknownResource, err)
	}
	return err
}

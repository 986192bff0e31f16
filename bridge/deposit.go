// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/nonce"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
)

// Deposit accepts an outbound transfer to the destination domain and returns
// the issued deposit nonce with the handler response.
//
// The fee is collected before a nonce is issued. When the handler rejects the
// deposit, handler and fee state roll back but the issued nonce stays spent.
func (b *Bridge) Deposit(
	ctx context.Context,
	depositor common.Address,
	destinationDomainID uint8,
	resourceID types.ResourceID,
	depositData []byte,
	feeData []byte,
	value *big.Int,
) (uint64, []byte, error) {
	var depositNonce uint64
	var handlerResponse []byte
	err := b.transact(func(op *operation) error {
		var err error
		depositNonce, handlerResponse, err = b.deposit(ctx, op, depositor, destinationDomainID, resourceID, depositData, feeData, value)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return depositNonce, handlerResponse, nil
}

func (b *Bridge) deposit(
	ctx context.Context,
	op *operation,
	depositor common.Address,
	destinationDomainID uint8,
	resourceID types.ResourceID,
	depositData []byte,
	feeData []byte,
	value *big.Int,
) (uint64, []byte, error) {
	handlerAddress, h, err := b.resolve(op.tx, resourceID)
	if err != nil {
		return 0, nil, err
	}

	effects := op.child()
	err = b.feeHandler.CollectFee(
		ctx,
		store.NewPrefixed(effects.tx, FEE_STATE_PREFIX),
		depositor,
		b.domainID,
		destinationDomainID,
		resourceID,
		depositData,
		feeData,
		value)
	if err != nil {
		return 0, nil, fmt.Errorf("unable to collect fee: %w", err)
	}

	depositNonce, err := nonce.NewLedger(op.tx).NextNonce(destinationDomainID)
	if err != nil {
		return 0, nil, err
	}

	handlerResponse, err := handlers.InvokeDeposit(ctx, handlerAddress, h, handlerState(effects.tx, handlerAddress), resourceID, depositor, depositData)
	if err != nil {
		effects.tx.Discard()
		op.keep = true
		b.log.Warn().Err(err).Uint64("depositNonce", depositNonce).Uint8("destinationDomainID", destinationDomainID).Msg("Deposit rejected by handler")
		return 0, nil, fmt.Errorf("%w: %w", ErrHandlerAborted, err)
	}

	record := &types.DepositRecord{
		DestinationDomainID: destinationDomainID,
		DepositNonce:        depositNonce,
		ResourceID:          resourceID,
		Depositor:           depositor,
		Data:                common.CopyBytes(depositData),
		HandlerResponse:     handlerResponse,
	}
	if err := store.NewDepositStore(effects.tx).StoreDeposit(record); err != nil {
		return 0, nil, err
	}
	effects.emit(events.Deposit{
		DestinationDomainID: destinationDomainID,
		ResourceID:          resourceID,
		DepositNonce:        depositNonce,
		SenderAddress:       depositor,
		Data:                record.Data,
		HandlerResponse:     handlerResponse,
	})

	if err := op.merge(effects); err != nil {
		return 0, nil, err
	}
	return depositNonce, handlerResponse, nil
}

// Retry asks relayers to process a stored deposit again
func (b *Bridge) Retry(ctx context.Context, caller common.Address, destinationDomainID uint8, depositNonce uint64) error {
	if !b.isRelayerOrAdmin(caller) {
		return ErrNotRelayer
	}

	return b.transact(func(op *operation) error {
		if _, err := store.NewDepositStore(op.tx).Deposit(destinationDomainID, depositNonce); err != nil {
			return err
		}
		op.emit(events.Retry{
			DestinationDomainID: destinationDomainID,
			DepositNonce:        depositNonce,
		})
		return nil
	})
}

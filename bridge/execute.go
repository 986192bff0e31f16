// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"context"
	"fmt"

	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/nonce"
	"github.com/ChainSafe/sygma-bridge/types"
)

// execute dispatches a finalized message to the handler of its resource.
//
// Handler writes land in a nested operation. On success they are merged and
// the nonce is marked executed. A best-effort failure drops the handler
// writes but still consumes the nonce. A strict failure returns
// ErrHandlerAborted and leaves the nonce open.
func (b *Bridge) execute(
	ctx context.Context,
	op *operation,
	originDomainID uint8,
	depositNonce uint64,
	resourceID types.ResourceID,
	data []byte,
) (handlers.Result, error) {
	ledger := nonce.NewLedger(op.tx)
	executed, err := ledger.IsExecuted(originDomainID, depositNonce)
	if err != nil {
		return handlers.Result{}, err
	}
	if executed {
		return handlers.Result{}, ErrAlreadyExecuted
	}

	handlerAddress, h, err := b.resolve(op.tx, resourceID)
	if err != nil {
		return handlers.Result{}, err
	}
	dataHash := types.DataHash(handlerAddress, data)

	child := op.child()
	res := handlers.InvokeExecute(ctx, handlerAddress, h, handlerState(child.tx, handlerAddress), resourceID, data)
	switch res.Outcome {
	case handlers.Success:
		if err := op.merge(child); err != nil {
			return res, err
		}
		op.emit(events.ProposalExecution{
			OriginDomainID:  originDomainID,
			DepositNonce:    depositNonce,
			DataHash:        dataHash,
			HandlerResponse: res.Response,
		})
	case handlers.SoftFailure:
		child.tx.Discard()
		b.log.Warn().Err(res.Err).Uint8("originDomainID", originDomainID).Uint64("depositNonce", depositNonce).Msg("Handler execution failed, consuming nonce")
		op.emit(events.FailedHandlerExecution{
			LowLevelData:   []byte(res.Err.Error()),
			OriginDomainID: originDomainID,
			DepositNonce:   depositNonce,
			DataHash:       dataHash,
			NonceConsumed:  true,
		})
	default:
		child.tx.Discard()
		return res, fmt.Errorf("%w: %w", ErrHandlerAborted, res.Err)
	}

	if err := ledger.MarkExecuted(originDomainID, depositNonce); err != nil {
		return res, err
	}
	return res, nil
}

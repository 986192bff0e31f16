// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/nonce"
	"github.com/ChainSafe/sygma-bridge/types"
)

type ExecutionStatus uint8

const (
	StatusExecuted ExecutionStatus = iota
	// StatusFailed means the handler failed. Whether the nonce was consumed
	// depends on the handler's failure policy.
	StatusFailed
	// StatusSkipped means the nonce was already executed
	StatusSkipped
)

func (s ExecutionStatus) String() string {
	switch s {
	case StatusExecuted:
		return "executed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// ExecutionResult is the outcome of a single proposal of a signed batch
type ExecutionResult struct {
	Proposal      *authority.Proposal
	Status        ExecutionStatus
	NonceConsumed bool
	Response      []byte
	Err           error
}

// ExecuteWithAuthority executes a single proposal signed by the authority.
// Any handler failure of a strict handler rolls the whole call back.
func (b *Bridge) ExecuteWithAuthority(ctx context.Context, proposal *authority.Proposal, signature []byte) ([]byte, error) {
	if b.verifier == nil {
		return nil, ErrAuthorityNotSet
	}
	if proposal.DestinationDomainID != b.domainID {
		return nil, fmt.Errorf("%w: %d", ErrDomainMismatch, proposal.DestinationDomainID)
	}
	if err := b.verifier.VerifyProposal(proposal, signature); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	var response []byte
	err := b.transact(func(op *operation) error {
		res, err := b.execute(ctx, op, proposal.OriginDomainID, proposal.DepositNonce, proposal.ResourceID, proposal.Data)
		if err != nil {
			return err
		}
		response = res.Response
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ExecuteManyWithAuthority executes a batch of proposals signed together by
// the authority. Proposals are executed in order and in isolation: a strict
// handler failure only reverts its own proposal, which stays executable. An
// invalid signature, a foreign destination or an unknown resource reject the
// whole batch.
func (b *Bridge) ExecuteManyWithAuthority(ctx context.Context, proposals []*authority.Proposal, signature []byte) ([]ExecutionResult, error) {
	if b.verifier == nil {
		return nil, ErrAuthorityNotSet
	}
	if len(proposals) == 0 {
		return nil, ErrEmptyProposalsBatch
	}
	for _, p := range proposals {
		if p.DestinationDomainID != b.domainID {
			return nil, fmt.Errorf("%w: %d", ErrDomainMismatch, p.DestinationDomainID)
		}
	}
	if err := b.verifier.VerifyProposals(proposals, signature); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	var results []ExecutionResult
	err := b.transact(func(op *operation) error {
		results = make([]ExecutionResult, 0, len(proposals))
		for _, p := range proposals {
			res, err := b.executeBatched(ctx, op, p)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Bridge) executeBatched(ctx context.Context, op *operation, p *authority.Proposal) (ExecutionResult, error) {
	result := ExecutionResult{Proposal: p}

	executed, err := nonce.NewLedger(op.tx).IsExecuted(p.OriginDomainID, p.DepositNonce)
	if err != nil {
		return result, err
	}
	if executed {
		result.Status = StatusSkipped
		return result, nil
	}

	entry := op.child()
	res, err := b.execute(ctx, entry, p.OriginDomainID, p.DepositNonce, p.ResourceID, p.Data)
	switch {
	case err == nil:
		if err := op.merge(entry); err != nil {
			return result, err
		}
		result.Response = res.Response
		result.NonceConsumed = true
		if res.Outcome == handlers.SoftFailure {
			result.Status = StatusFailed
			result.Err = res.Err
		}
		return result, nil
	case errors.Is(err, ErrHandlerAborted):
		entry.tx.Discard()
		b.log.Warn().Err(err).Uint8("originDomainID", p.OriginDomainID).Uint64("depositNonce", p.DepositNonce).Msg("Batched proposal reverted")

		handlerAddress, _ := b.registry.ResourceHandler(op.tx, p.ResourceID)
		op.emit(events.FailedHandlerExecution{
			LowLevelData:   []byte(res.Err.Error()),
			OriginDomainID: p.OriginDomainID,
			DepositNonce:   p.DepositNonce,
			DataHash:       types.DataHash(handlerAddress, p.Data),
			NonceConsumed:  false,
		})
		result.Status = StatusFailed
		result.Err = err
		return result, nil
	default:
		return result, err
	}
}

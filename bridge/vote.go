// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"context"
	"errors"

	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/nonce"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
)

// VoteProposal records the relayer's yes vote for executing data under the
// origin domain and deposit nonce. The vote that reaches the threshold passes
// the proposal and, with auto execution enabled, executes it. If execution
// is aborted by a strict handler the vote is not recorded.
//
// A vote on an active proposal whose expiry has elapsed cancels the proposal
// instead of being counted.
func (b *Bridge) VoteProposal(
	ctx context.Context,
	relayer common.Address,
	originDomainID uint8,
	depositNonce uint64,
	resourceID types.ResourceID,
	data []byte,
) (types.ProposalStatus, error) {
	var status types.ProposalStatus
	err := b.transact(func(op *operation) error {
		var err error
		status, err = b.voteProposal(ctx, op, relayer, originDomainID, depositNonce, resourceID, data)
		return err
	})
	if err != nil {
		return types.Inactive, err
	}
	return status, nil
}

func (b *Bridge) voteProposal(
	ctx context.Context,
	op *operation,
	relayer common.Address,
	originDomainID uint8,
	depositNonce uint64,
	resourceID types.ResourceID,
	data []byte,
) (types.ProposalStatus, error) {
	relayerIndex, ok := b.relayers.Index(relayer)
	if !ok {
		return types.Inactive, ErrNotRelayer
	}

	handlerAddress, err := b.registry.ResourceHandler(op.tx, resourceID)
	if err != nil {
		return types.Inactive, unknownResource(err)
	}
	dataHash := types.DataHash(handlerAddress, data)

	propStore := store.NewPropStore(op.tx)
	p, err := propStore.Proposal(originDomainID, depositNonce, dataHash)
	if err != nil {
		return types.Inactive, err
	}
	if types.IsBitSet(&p.YesVotes, relayerIndex) {
		return p.Status, ErrAlreadyVoted
	}
	if p.Status != types.Inactive && p.Status != types.Active {
		return p.Status, ErrNotActive
	}

	executed, err := nonce.NewLedger(op.tx).IsExecuted(originDomainID, depositNonce)
	if err != nil {
		return p.Status, err
	}
	if executed {
		return p.Status, ErrAlreadyExecuted
	}

	if p.Status == types.Inactive {
		p.Status = types.Active
		p.ProposedBlock = op.height
		op.emit(proposalEvent(p))
	} else if b.expired(p, op.height) {
		p.Status = types.Cancelled
		op.emit(proposalEvent(p))
		op.emit(events.ProposalCancelled{
			OriginDomainID: p.OriginDomainID,
			DepositNonce:   p.DepositNonce,
			DataHash:       p.DataHash,
		})
		b.log.Info().Uint8("originDomainID", originDomainID).Uint64("depositNonce", depositNonce).Msg("Proposal expired before reaching threshold")
		return p.Status, propStore.StoreProposal(p)
	}

	types.SetBit(&p.YesVotes, relayerIndex)
	p.YesVotesTotal++
	op.emit(events.ProposalVote{
		OriginDomainID: p.OriginDomainID,
		DepositNonce:   p.DepositNonce,
		Status:         p.Status,
		DataHash:       p.DataHash,
		Relayer:        relayer,
		YesVotesTotal:  p.YesVotesTotal,
	})

	if p.YesVotesTotal >= b.relayers.Threshold() {
		p.Status = types.Passed
		op.emit(proposalEvent(p))

		if b.autoExecute {
			if err := b.executeProposal(ctx, op, p, resourceID, data); err != nil {
				return types.Passed, err
			}
		}
	}

	return p.Status, propStore.StoreProposal(p)
}

// ExecuteProposal executes a passed proposal. It is only needed when auto
// execution is disabled.
func (b *Bridge) ExecuteProposal(
	ctx context.Context,
	relayer common.Address,
	originDomainID uint8,
	depositNonce uint64,
	resourceID types.ResourceID,
	data []byte,
) error {
	if !b.relayers.IsRelayer(relayer) {
		return ErrNotRelayer
	}

	return b.transact(func(op *operation) error {
		handlerAddress, err := b.registry.ResourceHandler(op.tx, resourceID)
		if err != nil {
			return unknownResource(err)
		}

		propStore := store.NewPropStore(op.tx)
		p, err := propStore.Proposal(originDomainID, depositNonce, types.DataHash(handlerAddress, data))
		if err != nil {
			return err
		}
		if p.Status != types.Passed {
			return ErrNotPassed
		}

		if err := b.executeProposal(ctx, op, p, resourceID, data); err != nil {
			return err
		}
		return propStore.StoreProposal(p)
	})
}

// executeProposal dispatches a passed proposal and moves it to Executed. A
// nonce already consumed through another path is treated as done.
func (b *Bridge) executeProposal(ctx context.Context, op *operation, p *types.Proposal, resourceID types.ResourceID, data []byte) error {
	_, err := b.execute(ctx, op, p.OriginDomainID, p.DepositNonce, resourceID, data)
	if errors.Is(err, ErrAlreadyExecuted) {
		b.log.Warn().Uint8("originDomainID", p.OriginDomainID).Uint64("depositNonce", p.DepositNonce).Msg("Nonce already executed, marking proposal as executed")
	} else if err != nil {
		return err
	}

	p.Status = types.Executed
	op.emit(proposalEvent(p))
	return nil
}

// CancelProposal cancels an active proposal once its expiry has elapsed. The
// nonce stays available for a differently hashed proposal.
func (b *Bridge) CancelProposal(ctx context.Context, caller common.Address, originDomainID uint8, depositNonce uint64, dataHash common.Hash) error {
	if !b.isRelayerOrAdmin(caller) {
		return ErrNotRelayer
	}

	return b.transact(func(op *operation) error {
		return b.cancelProposal(op, originDomainID, depositNonce, dataHash)
	})
}

func (b *Bridge) cancelProposal(op *operation, originDomainID uint8, depositNonce uint64, dataHash common.Hash) error {
	propStore := store.NewPropStore(op.tx)
	p, err := propStore.Proposal(originDomainID, depositNonce, dataHash)
	if err != nil {
		return err
	}
	if p.Status != types.Active {
		return ErrNotActive
	}
	if !b.expired(p, op.height) {
		return ErrExpiryNotReached
	}

	p.Status = types.Cancelled
	op.emit(proposalEvent(p))
	op.emit(events.ProposalCancelled{
		OriginDomainID: p.OriginDomainID,
		DepositNonce:   p.DepositNonce,
		DataHash:       p.DataHash,
	})
	return propStore.StoreProposal(p)
}

// CancelExpiredProposals cancels every active proposal whose expiry has
// elapsed and returns how many were cancelled
func (b *Bridge) CancelExpiredProposals(ctx context.Context) (int, error) {
	active, err := store.ProposalsWithStatus(b.db, types.Active)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, p := range active {
		err := b.transact(func(op *operation) error {
			return b.cancelProposal(op, p.OriginDomainID, p.DepositNonce, p.DataHash)
		})
		switch {
		case err == nil:
			cancelled++
		case errors.Is(err, ErrExpiryNotReached), errors.Is(err, ErrNotActive):
			continue
		default:
			return cancelled, err
		}
	}
	return cancelled, nil
}

func (b *Bridge) expired(p *types.Proposal, height uint64) bool {
	return height >= p.ProposedBlock && height-p.ProposedBlock >= b.relayers.Expiry()
}

func proposalEvent(p *types.Proposal) events.ProposalEvent {
	return events.ProposalEvent{
		OriginDomainID: p.OriginDomainID,
		DepositNonce:   p.DepositNonce,
		Status:         p.Status,
		DataHash:       p.DataHash,
	}
}

// Copyright 2021 ChainSafe Systems
// SPDX-License-Identifier: LGPL-3.0-only

package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

var (
	PROPOSAL_PREFIX = "proposal:"
	PROPOSAL_KEY    = "proposal:%d:%d:%s"
)

type storedProposal struct {
	YesVotes      []byte
	YesVotesTotal uint64
	Status        uint8
	ProposedBlock uint64
}

type PropStore struct {
	db KeyValueReaderWriter
}

func NewPropStore(db KeyValueReaderWriter) *PropStore {
	return &PropStore{
		db: db,
	}
}

// StoreProposal stores the tally of a proposal under its identifying triple
func (ps *PropStore) StoreProposal(p *types.Proposal) error {
	v, err := rlp.EncodeToBytes(&storedProposal{
		YesVotes:      types.WordBytes(&p.YesVotes),
		YesVotesTotal: p.YesVotesTotal,
		Status:        uint8(p.Status),
		ProposedBlock: p.ProposedBlock,
	})
	if err != nil {
		return err
	}

	return ps.db.SetByKey(proposalKey(p.OriginDomainID, p.DepositNonce, p.DataHash), v)
}

// Proposal fetches a proposal. Unseen triples are returned as Inactive
// proposals with an empty tally.
func (ps *PropStore) Proposal(originDomainID uint8, depositNonce uint64, dataHash common.Hash) (*types.Proposal, error) {
	p := &types.Proposal{
		OriginDomainID: originDomainID,
		DepositNonce:   depositNonce,
		DataHash:       dataHash,
		Status:         types.Inactive,
	}

	v, err := ps.db.GetByKey(proposalKey(originDomainID, depositNonce, dataHash))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return p, nil
		}
		return nil, err
	}

	if err := decodeProposal(v, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProposalsWithStatus lists all stored proposals in the given status
func ProposalsWithStatus(it Iterator, status types.ProposalStatus) ([]*types.Proposal, error) {
	proposals := make([]*types.Proposal, 0)
	var decodeErr error
	err := it.Iterate([]byte(PROPOSAL_PREFIX), func(key, value []byte) bool {
		p := &types.Proposal{}
		var hash string
		_, err := fmt.Sscanf(strings.ReplaceAll(string(key), ":", " "), "proposal %d %d %s", &p.OriginDomainID, &p.DepositNonce, &hash)
		if err != nil {
			decodeErr = fmt.Errorf("malformed proposal key %s: %w", key, err)
			return false
		}
		p.DataHash = common.HexToHash(hash)

		if err := decodeProposal(value, p); err != nil {
			decodeErr = err
			return false
		}
		if p.Status == status {
			proposals = append(proposals, p)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return proposals, decodeErr
}

func decodeProposal(v []byte, p *types.Proposal) error {
	stored := &storedProposal{}
	if err := rlp.DecodeBytes(v, stored); err != nil {
		return fmt.Errorf("unable to decode proposal %d-%d: %w", p.OriginDomainID, p.DepositNonce, err)
	}
	p.YesVotes = *types.WordFromBytes(stored.YesVotes)
	p.YesVotesTotal = stored.YesVotesTotal
	p.Status = types.ProposalStatus(stored.Status)
	p.ProposedBlock = stored.ProposedBlock
	return nil
}

func proposalKey(originDomainID uint8, depositNonce uint64, dataHash common.Hash) []byte {
	key := bytes.Buffer{}
	key.WriteString(fmt.Sprintf(PROPOSAL_KEY, originDomainID, depositNonce, dataHash.Hex()))
	return key.Bytes()
}

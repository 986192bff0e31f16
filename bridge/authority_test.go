// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/bridge"
	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
)

type AuthorityTestSuite struct {
	BridgeTestSuite
}

func TestRunAuthorityTestSuite(t *testing.T) {
	suite.Run(t, new(AuthorityTestSuite))
}

func fungibleProposal(depositNonce uint64, amount int64) *authority.Proposal {
	return &authority.Proposal{
		OriginDomainID:      1,
		DestinationDomainID: domainID,
		DepositNonce:        depositNonce,
		ResourceID:          fungibleResourceID,
		Data:                fungibleData(amount),
	}
}

func (s *AuthorityTestSuite) Test_ExecuteWithAuthority() {
	s.addLiquidity(100)
	p := fungibleProposal(1, 60)

	_, err := s.bridge.ExecuteWithAuthority(context.Background(), p, s.sign(p))

	s.Nil(err)
	s.True(s.executed(1, 1))
	s.Equal(big.NewInt(60), s.balance())
	s.Equal([]events.Event{
		events.ProposalExecution{OriginDomainID: 1, DepositNonce: 1, DataHash: types.DataHash(fungibleAddress, p.Data)},
	}, s.recorder.Events())

	_, err = s.bridge.ExecuteWithAuthority(context.Background(), p, s.sign(p))
	s.ErrorIs(err, bridge.ErrAlreadyExecuted)
	s.Equal(big.NewInt(60), s.balance())
}

func (s *AuthorityTestSuite) Test_ExecuteWithAuthority_NotConfigured() {
	s.bridge = s.newBridge(2, bridge.WithAuthority(nil))
	p := fungibleProposal(1, 60)

	_, err := s.bridge.ExecuteWithAuthority(context.Background(), p, s.sign(p))

	s.ErrorIs(err, bridge.ErrAuthorityNotSet)
}

func (s *AuthorityTestSuite) Test_ExecuteWithAuthority_DomainMismatch() {
	p := fungibleProposal(1, 60)
	p.DestinationDomainID = 3

	_, err := s.bridge.ExecuteWithAuthority(context.Background(), p, s.sign(p))

	s.ErrorIs(err, bridge.ErrDomainMismatch)
}

func (s *AuthorityTestSuite) Test_ExecuteWithAuthority_InvalidSignature() {
	s.addLiquidity(100)
	key, err := crypto.GenerateKey()
	s.Nil(err)
	p := fungibleProposal(1, 60)
	hash, err := authority.ProposalHash(p, s.domain)
	s.Nil(err)
	sig, err := authority.Sign(hash, key)
	s.Nil(err)

	_, err = s.bridge.ExecuteWithAuthority(context.Background(), p, sig)

	s.ErrorIs(err, bridge.ErrInvalidSignature)
	s.False(s.executed(1, 1))
}

func (s *AuthorityTestSuite) Test_ExecuteWithAuthority_StrictFailureCanBeRetried() {
	p := fungibleProposal(1, 60)

	_, err := s.bridge.ExecuteWithAuthority(context.Background(), p, s.sign(p))

	s.ErrorIs(err, bridge.ErrHandlerAborted)
	s.False(s.executed(1, 1))
	s.Len(s.recorder.Events(), 0)

	s.addLiquidity(100)
	_, err = s.bridge.ExecuteWithAuthority(context.Background(), p, s.sign(p))
	s.Nil(err)
	s.True(s.executed(1, 1))
}

func (s *AuthorityTestSuite) Test_ExecuteWithAuthority_BestEffortFailureConsumesNonce() {
	s.genericErr = errors.New("target failed")
	p := &authority.Proposal{
		OriginDomainID:      1,
		DestinationDomainID: domainID,
		DepositNonce:        1,
		ResourceID:          genericResourceID,
		Data:                genericData("call"),
	}

	_, err := s.bridge.ExecuteWithAuthority(context.Background(), p, s.sign(p))

	s.Nil(err)
	s.True(s.executed(1, 1))
	s.Len(s.recorder.Events(), 1)
	s.IsType(events.FailedHandlerExecution{}, s.recorder.Events()[0])
}

func (s *AuthorityTestSuite) Test_ExecuteManyWithAuthority_StrictFailureIsIsolated() {
	s.addLiquidity(100)
	proposals := []*authority.Proposal{
		fungibleProposal(1, 10),
		fungibleProposal(2, 1000),
		fungibleProposal(3, 10),
	}

	results, err := s.bridge.ExecuteManyWithAuthority(context.Background(), proposals, s.signBatch(proposals))

	s.Nil(err)
	s.Len(results, 3)
	s.Equal(bridge.StatusExecuted, results[0].Status)
	s.True(results[0].NonceConsumed)
	s.Equal(bridge.StatusFailed, results[1].Status)
	s.False(results[1].NonceConsumed)
	s.ErrorIs(results[1].Err, bridge.ErrHandlerAborted)
	s.Equal(bridge.StatusExecuted, results[2].Status)
	s.True(s.executed(1, 1))
	s.False(s.executed(1, 2))
	s.True(s.executed(1, 3))
	s.Equal(big.NewInt(80), s.liquidity())
	s.Equal(big.NewInt(20), s.balance())

	evts := s.recorder.Events()
	s.Len(evts, 3)
	s.IsType(events.ProposalExecution{}, evts[0])
	s.Equal(events.FailedHandlerExecution{
		LowLevelData:   evts[1].(events.FailedHandlerExecution).LowLevelData,
		OriginDomainID: 1,
		DepositNonce:   2,
		DataHash:       types.DataHash(fungibleAddress, proposals[1].Data),
		NonceConsumed:  false,
	}, evts[1])
	s.IsType(events.ProposalExecution{}, evts[2])

	s.addLiquidity(1000)
	results, err = s.bridge.ExecuteManyWithAuthority(context.Background(), proposals, s.signBatch(proposals))
	s.Nil(err)
	s.Equal(bridge.StatusSkipped, results[0].Status)
	s.Equal(bridge.StatusExecuted, results[1].Status)
	s.Equal(bridge.StatusSkipped, results[2].Status)
	s.True(s.executed(1, 2))
	s.Len(s.recorder.Events(), 1)
}

func (s *AuthorityTestSuite) Test_ExecuteManyWithAuthority_BestEffortFailureIsIsolated() {
	s.addLiquidity(100)
	s.genericErr = errors.New("target failed")
	proposals := []*authority.Proposal{
		fungibleProposal(1, 10),
		{
			OriginDomainID:      1,
			DestinationDomainID: domainID,
			DepositNonce:        2,
			ResourceID:          genericResourceID,
			Data:                genericData("call"),
		},
		fungibleProposal(3, 10),
	}

	results, err := s.bridge.ExecuteManyWithAuthority(context.Background(), proposals, s.signBatch(proposals))

	s.Nil(err)
	s.Len(results, 3)
	s.Equal(bridge.StatusExecuted, results[0].Status)
	s.Equal(bridge.StatusFailed, results[1].Status)
	s.True(results[1].NonceConsumed)
	s.Equal(bridge.StatusExecuted, results[2].Status)
	s.True(s.executed(1, 1))
	s.True(s.executed(1, 2))
	s.True(s.executed(1, 3))
	s.Equal(big.NewInt(20), s.balance())

	evts := s.recorder.Events()
	s.Len(evts, 3)
	s.Equal(uint64(1), evts[0].(events.ProposalExecution).DepositNonce)
	s.Equal(events.FailedHandlerExecution{
		LowLevelData:   evts[1].(events.FailedHandlerExecution).LowLevelData,
		OriginDomainID: 1,
		DepositNonce:   2,
		DataHash:       types.DataHash(genericAddress, proposals[1].Data),
		NonceConsumed:  true,
	}, evts[1])
	s.Equal(uint64(3), evts[2].(events.ProposalExecution).DepositNonce)
}

func (s *AuthorityTestSuite) Test_ExecuteManyWithAuthority_BestEffortFailure() {
	s.genericErr = errors.New("target failed")
	proposals := []*authority.Proposal{{
		OriginDomainID:      1,
		DestinationDomainID: domainID,
		DepositNonce:        1,
		ResourceID:          genericResourceID,
		Data:                genericData("call"),
	}}

	results, err := s.bridge.ExecuteManyWithAuthority(context.Background(), proposals, s.signBatch(proposals))

	s.Nil(err)
	s.Equal(bridge.StatusFailed, results[0].Status)
	s.True(results[0].NonceConsumed)
	s.True(s.executed(1, 1))
}

func (s *AuthorityTestSuite) Test_ExecuteManyWithAuthority_UnknownResourceAbortsBatch() {
	s.addLiquidity(100)
	unknown := fungibleProposal(2, 10)
	unknown.ResourceID = types.ResourceID{9}
	proposals := []*authority.Proposal{fungibleProposal(1, 10), unknown}

	_, err := s.bridge.ExecuteManyWithAuthority(context.Background(), proposals, s.signBatch(proposals))

	s.ErrorIs(err, bridge.ErrUnknownResource)
	s.False(s.executed(1, 1))
	s.Equal(big.NewInt(100), s.liquidity())
	s.Len(s.recorder.Events(), 0)
}

func (s *AuthorityTestSuite) Test_ExecuteManyWithAuthority_EmptyBatch() {
	_, err := s.bridge.ExecuteManyWithAuthority(context.Background(), []*authority.Proposal{}, []byte{})

	s.ErrorIs(err, bridge.ErrEmptyProposalsBatch)
}

func (s *AuthorityTestSuite) Test_ExecuteManyWithAuthority_DomainMismatch() {
	foreign := fungibleProposal(2, 10)
	foreign.DestinationDomainID = 5
	proposals := []*authority.Proposal{fungibleProposal(1, 10), foreign}

	_, err := s.bridge.ExecuteManyWithAuthority(context.Background(), proposals, s.signBatch(proposals))

	s.ErrorIs(err, bridge.ErrDomainMismatch)
}

func (s *AuthorityTestSuite) Test_ExecuteManyWithAuthority_InvalidSignature() {
	proposals := []*authority.Proposal{fungibleProposal(1, 10)}

	_, err := s.bridge.ExecuteManyWithAuthority(context.Background(), proposals, s.sign(proposals[0]))

	s.ErrorIs(err, bridge.ErrInvalidSignature)
}

func (s *AuthorityTestSuite) Test_ExecutionStatus_String() {
	s.Equal("executed", bridge.StatusExecuted.String())
	s.Equal("failed", bridge.StatusFailed.String())
	s.Equal("skipped", bridge.StatusSkipped.String())
}

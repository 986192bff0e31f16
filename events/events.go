// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package events

import (
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type EventSig string

func (es EventSig) GetTopic() common.Hash {
	return crypto.Keccak256Hash([]byte(es))
}

const (
	DepositSig                EventSig = "Deposit(uint8,bytes32,uint64,address,bytes,bytes)"
	ProposalVoteSig           EventSig = "ProposalVote(uint8,uint64,uint8,bytes32)"
	ProposalEventSig          EventSig = "ProposalEvent(uint8,uint64,uint8,bytes32)"
	ProposalExecutionSig      EventSig = "ProposalExecution(uint8,uint64,bytes32,bytes)"
	FailedHandlerExecutionSig EventSig = "FailedHandlerExecution(bytes,uint8,uint64)"
	ProposalCancelledSig      EventSig = "ProposalCancelled(uint8,uint64,bytes32)"
	RetrySig                  EventSig = "Retry(uint8,uint64)"
)

// Event is a notification emitted by the engine once the operation producing
// it is committed
type Event interface {
	Sig() EventSig
}

type Deposit struct {
	// ID of domain deposit will be bridged to
	DestinationDomainID uint8
	// ResourceID used to find address of handler to be used for deposit
	ResourceID types.ResourceID
	// Nonce of deposit
	DepositNonce uint64
	// Address of sender
	SenderAddress common.Address
	// Additional data to be passed to specified handler
	Data []byte
	// FungibleHandler: responds with empty data
	// GenericHandler: responds with empty data
	HandlerResponse []byte
}

func (Deposit) Sig() EventSig { return DepositSig }

// ProposalVote is emitted for every vote counted towards a proposal
type ProposalVote struct {
	OriginDomainID uint8
	DepositNonce   uint64
	Status         types.ProposalStatus
	DataHash       common.Hash
	Relayer        common.Address
	YesVotesTotal  uint64
}

func (ProposalVote) Sig() EventSig { return ProposalVoteSig }

// ProposalEvent is emitted on every proposal status transition
type ProposalEvent struct {
	OriginDomainID uint8
	DepositNonce   uint64
	Status         types.ProposalStatus
	DataHash       common.Hash
}

func (ProposalEvent) Sig() EventSig { return ProposalEventSig }

type ProposalExecution struct {
	OriginDomainID  uint8
	DepositNonce    uint64
	DataHash        common.Hash
	HandlerResponse []byte
}

func (ProposalExecution) Sig() EventSig { return ProposalExecutionSig }

// FailedHandlerExecution records a failed handler call that did not abort the
// enclosing operation. NonceConsumed tells whether the nonce was still marked
// executed (best-effort handlers) or left open for a retry (strict handlers
// inside a batch).
type FailedHandlerExecution struct {
	LowLevelData   []byte
	OriginDomainID uint8
	DepositNonce   uint64
	DataHash       common.Hash
	NonceConsumed  bool
}

func (FailedHandlerExecution) Sig() EventSig { return FailedHandlerExecutionSig }

type ProposalCancelled struct {
	OriginDomainID uint8
	DepositNonce   uint64
	DataHash       common.Hash
}

func (ProposalCancelled) Sig() EventSig { return ProposalCancelledSig }

// Retry asks relayers to process a stored deposit again
type Retry struct {
	DestinationDomainID uint8
	DepositNonce        uint64
}

func (Retry) Sig() EventSig { return RetrySig }

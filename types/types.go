// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ResourceID identifies a transferable asset or action type. It conventionally
// encodes the asset address together with its origin domain.
type ResourceID [32]byte

func (r ResourceID) Hex() string {
	return hexutil.Encode(r[:])
}

func (r ResourceID) String() string {
	return r.Hex()
}

// ResourceIDFromHex parses 0x prefixed hex into a resource ID. Shorter input
// is left padded.
func ResourceIDFromHex(s string) (ResourceID, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return ResourceID{}, fmt.Errorf("invalid resource ID %s: %w", s, err)
	}
	if len(b) > 32 {
		return ResourceID{}, fmt.Errorf("invalid resource ID %s: longer than 32 bytes", s)
	}
	return SliceTo32Bytes(common.LeftPadBytes(b, 32)), nil
}

func SliceTo32Bytes(in []byte) [32]byte {
	var res [32]byte
	copy(res[:], in)
	return res
}

type ProposalStatus uint8

const (
	Inactive ProposalStatus = iota
	Active
	Passed
	Executed
	Cancelled
)

func (s ProposalStatus) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Passed:
		return "passed"
	case Executed:
		return "executed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Terminal reports whether no further votes are accepted for a proposal in this status
func (s ProposalStatus) Terminal() bool {
	return s == Executed || s == Cancelled
}

// Proposal is the vote tally for one (origin domain, deposit nonce, data hash) triple
type Proposal struct {
	OriginDomainID uint8
	DepositNonce   uint64
	DataHash       common.Hash
	YesVotes       Bitmap
	YesVotesTotal  uint64
	Status         ProposalStatus
	ProposedBlock  uint64
}

// DepositRecord is the audit record of an accepted deposit, immutable once stored
type DepositRecord struct {
	DestinationDomainID uint8
	DepositNonce        uint64
	ResourceID          ResourceID
	Depositor           common.Address
	Data                []byte
	HandlerResponse     []byte
}

// DataHash binds a payload to the handler that will execute it
func DataHash(handler common.Address, data []byte) common.Hash {
	return crypto.Keccak256Hash(handler.Bytes(), data)
}

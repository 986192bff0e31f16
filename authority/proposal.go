// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package authority

import (
	"fmt"
	"math/big"

	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Proposal is the tuple an authority signs over to finalize an inbound message
type Proposal struct {
	OriginDomainID      uint8
	DestinationDomainID uint8
	DepositNonce        uint64
	ResourceID          types.ResourceID
	Data                []byte
}

// Domain separates signatures between bridge deployments
type Domain struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract string
}

var proposalType = []apitypes.Type{
	{Name: "originDomainID", Type: "uint8"},
	{Name: "destinationDomainID", Type: "uint8"},
	{Name: "depositNonce", Type: "uint64"},
	{Name: "resourceID", Type: "bytes32"},
	{Name: "data", Type: "bytes"},
}

// ProposalHash returns the EIP712 hash of a single proposal
func ProposalHash(p *Proposal, domain Domain) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": DomainType,
			"Proposal":     proposalType,
		},
		PrimaryType: "Proposal",
		Domain:      domain.TypedDataDomain(),
		Message:     formatProposal(p),
	}
	return HashTypedData(typedData)
}

// ProposalsHash returns the EIP712 hash of a batch of proposals
func ProposalsHash(proposals []*Proposal, domain Domain) ([]byte, error) {
	formattedProps := make([]interface{}, len(proposals))
	for i, prop := range proposals {
		formattedProps[i] = map[string]interface{}(formatProposal(prop))
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": DomainType,
			"Proposal":     proposalType,
			"Proposals": []apitypes.Type{
				{Name: "proposals", Type: "Proposal[]"},
			},
		},
		PrimaryType: "Proposals",
		Domain:      domain.TypedDataDomain(),
		Message: apitypes.TypedDataMessage{
			"proposals": formattedProps,
		},
	}
	return HashTypedData(typedData)
}

// DomainType is the EIP712Domain struct shared by every typed message
var DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

func (d Domain) TypedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		ChainId:           math.NewHexOrDecimal256(d.ChainID),
		Version:           d.Version,
		VerifyingContract: d.VerifyingContract,
	}
}

func formatProposal(p *Proposal) apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"originDomainID":      math.NewHexOrDecimal256(int64(p.OriginDomainID)),
		"destinationDomainID": math.NewHexOrDecimal256(int64(p.DestinationDomainID)),
		"depositNonce":        (*math.HexOrDecimal256)(new(big.Int).SetUint64(p.DepositNonce)),
		"resourceID":          hexutil.Encode(p.ResourceID[:]),
		"data":                hexutil.Encode(p.Data),
	}
}

// HashTypedData returns keccak256("\x19\x01" ++ domainSeparator ++ hashStruct(message))
func HashTypedData(typedData apitypes.TypedData) ([]byte, error) {
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return []byte{}, err
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return []byte{}, err
	}

	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	return crypto.Keccak256(rawData), nil
}

// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package handlers

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// ConstructFungibleDepositData packs amount (uint256), recipient length (uint256) and recipient
func ConstructFungibleDepositData(recipient []byte, amount *big.Int) []byte {
	var data []byte
	data = append(data, math.PaddedBigBytes(amount, 32)...)
	data = append(data, math.PaddedBigBytes(big.NewInt(int64(len(recipient))), 32)...)
	data = append(data, recipient...)
	return data
}

// ConstructGenericDepositData packs metadata length (uint256) and metadata
func ConstructGenericDepositData(metadata []byte) []byte {
	var data []byte
	data = append(data, math.PaddedBigBytes(big.NewInt(int64(len(metadata))), 32)...)
	data = append(data, metadata...)
	return data
}

// ParseFungibleData unpacks data built with ConstructFungibleDepositData
func ParseFungibleData(calldata []byte) (*big.Int, []byte, error) {
	if len(calldata) < 64 {
		return nil, nil, errors.New("invalid calldata length: less than 64 bytes")
	}

	amount := new(big.Int).SetBytes(calldata[:32])
	recipientLen := new(big.Int).SetBytes(calldata[32:64])
	if !recipientLen.IsInt64() || recipientLen.Int64() > int64(len(calldata)-64) {
		return nil, nil, errors.New("invalid calldata length: recipient exceeds calldata")
	}
	recipient := calldata[64 : 64+recipientLen.Int64()]
	return amount, common.CopyBytes(recipient), nil
}

// ParseGenericData unpacks data built with ConstructGenericDepositData
func ParseGenericData(calldata []byte) ([]byte, error) {
	if len(calldata) < 32 {
		return nil, errors.New("invalid calldata length: less than 32 bytes")
	}

	metadataLen := new(big.Int).SetBytes(calldata[:32])
	if !metadataLen.IsInt64() || metadataLen.Int64() > int64(len(calldata)-32) {
		return nil, errors.New("invalid calldata length: metadata exceeds calldata")
	}
	return common.CopyBytes(calldata[32 : 32+metadataLen.Int64()]), nil
}

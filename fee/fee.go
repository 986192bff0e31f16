// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package fee

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
)

var (
	COLLECTED_KEY = "collected:%s"

	ErrIncorrectFee = errors.New("incorrect fee supplied")
)

// FeeHandler quotes and collects the fee of a deposit. Collection runs before
// a nonce is issued and a collection error aborts the deposit.
type FeeHandler interface {
	CalculateFee(sender common.Address, fromDomainID, destinationDomainID uint8, resourceID types.ResourceID, depositData, feeData []byte) (*big.Int, common.Address, error)
	CollectFee(ctx context.Context, state store.KeyValueReaderWriter, sender common.Address, fromDomainID, destinationDomainID uint8, resourceID types.ResourceID, depositData, feeData []byte, value *big.Int) error
}

// NoFee accepts deposits that carry no value
type NoFee struct{}

func (f *NoFee) CalculateFee(sender common.Address, fromDomainID, destinationDomainID uint8, resourceID types.ResourceID, depositData, feeData []byte) (*big.Int, common.Address, error) {
	return big.NewInt(0), common.Address{}, nil
}

func (f *NoFee) CollectFee(ctx context.Context, state store.KeyValueReaderWriter, sender common.Address, fromDomainID, destinationDomainID uint8, resourceID types.ResourceID, depositData, feeData []byte, value *big.Int) error {
	if value != nil && value.Sign() != 0 {
		return fmt.Errorf("%w: no fee handler set, expected 0 got %s", ErrIncorrectFee, value)
	}
	return nil
}

type route struct {
	destinationDomainID uint8
	resourceID          types.ResourceID
}

// BasicFeeHandler charges a flat fee in the native asset, configurable per
// destination domain and resource
type BasicFeeHandler struct {
	defaultFee *big.Int
	fees       map[route]*big.Int
}

func NewBasicFeeHandler(defaultFee *big.Int) *BasicFeeHandler {
	return &BasicFeeHandler{
		defaultFee: defaultFee,
		fees:       make(map[route]*big.Int),
	}
}

// ChangeFee sets the fee for deposits of the resource to the destination domain
func (f *BasicFeeHandler) ChangeFee(destinationDomainID uint8, resourceID types.ResourceID, fee *big.Int) {
	f.fees[route{destinationDomainID, resourceID}] = fee
}

func (f *BasicFeeHandler) CalculateFee(sender common.Address, fromDomainID, destinationDomainID uint8, resourceID types.ResourceID, depositData, feeData []byte) (*big.Int, common.Address, error) {
	return new(big.Int).Set(f.fee(destinationDomainID, resourceID)), common.Address{}, nil
}

func (f *BasicFeeHandler) CollectFee(ctx context.Context, state store.KeyValueReaderWriter, sender common.Address, fromDomainID, destinationDomainID uint8, resourceID types.ResourceID, depositData, feeData []byte, value *big.Int) error {
	fee := f.fee(destinationDomainID, resourceID)
	if value == nil {
		value = big.NewInt(0)
	}
	if value.Cmp(fee) != 0 {
		return fmt.Errorf("%w: expected %s got %s", ErrIncorrectFee, fee, value)
	}

	collected, err := Collected(state, resourceID)
	if err != nil {
		return err
	}
	return state.SetByKey(collectedKey(resourceID), collected.Add(collected, value).Bytes())
}

func (f *BasicFeeHandler) fee(destinationDomainID uint8, resourceID types.ResourceID) *big.Int {
	if fee, ok := f.fees[route{destinationDomainID, resourceID}]; ok {
		return fee
	}
	return f.defaultFee
}

// Collected returns the total fee collected for the resource
func Collected(state store.KeyValueReader, resourceID types.ResourceID) (*big.Int, error) {
	v, err := state.GetByKey(collectedKey(resourceID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	return new(big.Int).SetBytes(v), nil
}

func collectedKey(resourceID types.ResourceID) []byte {
	return []byte(fmt.Sprintf(COLLECTED_KEY, resourceID.Hex()))
}

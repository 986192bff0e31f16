// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package handlers

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
	LIQUIDITY_KEY = "liquidity:%s"
	BALANCE_KEY   = "balance:%s:%s"

	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrInvalidRecipient      = errors.New("invalid recipient")
)

// FungibleHandler locks deposited amounts into a per resource liquidity pool
// and releases them to recipients on execution. The depositor's funds live on
// the ledger in front of the engine, so a deposit credits the pool without
// debiting any balance kept here, the way a lock on the source chain mints
// liquidity on this side.
type FungibleHandler struct{}

func NewFungibleHandler() *FungibleHandler {
	return &FungibleHandler{}
}

func (h *FungibleHandler) FailurePolicy() FailurePolicy {
	return Strict
}

func (h *FungibleHandler) Deposit(ctx context.Context, state store.KeyValueReaderWriter, resourceID types.ResourceID, depositor common.Address, data []byte) ([]byte, error) {
	amount, _, err := ParseFungibleData(data)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, ErrZeroAmount
	}

	liquidity, err := Liquidity(state, resourceID)
	if err != nil {
		return nil, err
	}
	return nil, setAmount(state, liquidityKey(resourceID), liquidity.Add(liquidity, amount))
}

func (h *FungibleHandler) Execute(ctx context.Context, state store.KeyValueReaderWriter, resourceID types.ResourceID, data []byte) ([]byte, error) {
	amount, recipient, err := ParseFungibleData(data)
	if err != nil {
		return nil, err
	}
	address, err := recipientAddress(recipient)
	if err != nil {
		return nil, err
	}
	return nil, h.release(state, resourceID, address, amount)
}

// Withdraw releases liquidity outside of a bridged transfer. Data has the
// same layout as deposit data.
func (h *FungibleHandler) Withdraw(ctx context.Context, state store.KeyValueReaderWriter, data []byte) error {
	if len(data) < 32 {
		return errors.New("invalid withdraw data length: less than 32 bytes")
	}
	resourceID := types.SliceTo32Bytes(data[:32])
	amount, recipient, err := ParseFungibleData(data[32:])
	if err != nil {
		return err
	}
	address, err := recipientAddress(recipient)
	if err != nil {
		return err
	}
	return h.release(state, resourceID, address, amount)
}

func recipientAddress(recipient []byte) (common.Address, error) {
	if len(recipient) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: length %d", ErrInvalidRecipient, len(recipient))
	}
	return common.BytesToAddress(recipient), nil
}

func (h *FungibleHandler) release(state store.KeyValueReaderWriter, resourceID types.ResourceID, recipient common.Address, amount *big.Int) error {
	liquidity, err := Liquidity(state, resourceID)
	if err != nil {
		return err
	}
	if liquidity.Cmp(amount) < 0 {
		return fmt.Errorf("%w: have %s, want %s", ErrInsufficientLiquidity, liquidity, amount)
	}

	balance, err := Balance(state, resourceID, recipient)
	if err != nil {
		return err
	}
	if err := setAmount(state, liquidityKey(resourceID), liquidity.Sub(liquidity, amount)); err != nil {
		return err
	}
	return setAmount(state, balanceKey(resourceID, recipient), balance.Add(balance, amount))
}

// Liquidity returns the amount locked for the resource
func Liquidity(state store.KeyValueReader, resourceID types.ResourceID) (*big.Int, error) {
	return amount(state, liquidityKey(resourceID))
}

// Balance returns the amount released to the account
func Balance(state store.KeyValueReader, resourceID types.ResourceID, account common.Address) (*big.Int, error) {
	return amount(state, balanceKey(resourceID, account))
}

func amount(state store.KeyValueReader, key []byte) (*big.Int, error) {
	v, err := state.GetByKey(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	return new(big.Int).SetBytes(v), nil
}

func setAmount(state store.KeyValueWriter, key []byte, value *big.Int) error {
	return state.SetByKey(key, value.Bytes())
}

func liquidityKey(resourceID types.ResourceID) []byte {
	return []byte(fmt.Sprintf(LIQUIDITY_KEY, resourceID.Hex()))
}

func balanceKey(resourceID types.ResourceID, account common.Address) []byte {
	return []byte(fmt.Sprintf(BALANCE_KEY, resourceID.Hex(), account.Hex()))
}

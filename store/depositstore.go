// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package store

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/rlp"
)

var (
	DEPOSIT_KEY = "deposit:destination:%d:depositNonce:%d"

	ErrDepositNotFound = errors.New("deposit record not found")
	ErrDepositExists   = errors.New("deposit record already stored")
)

type DepositStore struct {
	db KeyValueReaderWriter
}

func NewDepositStore(db KeyValueReaderWriter) *DepositStore {
	return &DepositStore{
		db: db,
	}
}

// StoreDeposit stores a deposit record. Records are immutable so storing a
// second record under the same destination and nonce fails.
func (ds *DepositStore) StoreDeposit(d *types.DepositRecord) error {
	key := []byte(fmt.Sprintf(DEPOSIT_KEY, d.DestinationDomainID, d.DepositNonce))
	_, err := ds.db.GetByKey(key)
	if err == nil {
		return ErrDepositExists
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	v, err := rlp.EncodeToBytes(d)
	if err != nil {
		return err
	}
	return ds.db.SetByKey(key, v)
}

func (ds *DepositStore) Deposit(destinationDomainID uint8, depositNonce uint64) (*types.DepositRecord, error) {
	v, err := ds.db.GetByKey([]byte(fmt.Sprintf(DEPOSIT_KEY, destinationDomainID, depositNonce)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}

	d := &types.DepositRecord{}
	if err := rlp.DecodeBytes(v, d); err != nil {
		return nil, fmt.Errorf("unable to decode deposit %d-%d: %w", destinationDomainID, depositNonce, err)
	}
	return d, nil
}

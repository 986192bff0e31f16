// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package nonce

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
)

var (
	DEPOSIT_COUNT_KEY = "depositCount:%d"
	USED_NONCES_KEY   = "usedNonces:%d:%d"

	ErrNonceUsed = errors.New("nonce already marked as executed")
)

// Ledger issues outbound deposit nonces per destination domain and records
// which inbound nonces were executed per origin domain
type Ledger struct {
	db store.KeyValueReaderWriter
}

func NewLedger(db store.KeyValueReaderWriter) *Ledger {
	return &Ledger{
		db: db,
	}
}

// NextNonce increments the deposit counter of the destination domain and
// returns the new value. The first issued nonce is 1.
func (l *Ledger) NextNonce(destinationDomainID uint8) (uint64, error) {
	key := []byte(fmt.Sprintf(DEPOSIT_COUNT_KEY, destinationDomainID))
	count, err := store.GetUint64(l.db, key)
	if err != nil {
		return 0, err
	}

	count++
	if err := store.SetUint64(l.db, key, count); err != nil {
		return 0, err
	}
	return count, nil
}

// DepositCount returns the last issued nonce for the destination domain
func (l *Ledger) DepositCount(destinationDomainID uint8) (uint64, error) {
	return store.GetUint64(l.db, []byte(fmt.Sprintf(DEPOSIT_COUNT_KEY, destinationDomainID)))
}

func (l *Ledger) IsExecuted(originDomainID uint8, depositNonce uint64) (bool, error) {
	word, err := l.word(originDomainID, depositNonce)
	if err != nil {
		return false, err
	}
	return types.IsBitSet(word, types.BitIndex(depositNonce)), nil
}

// MarkExecuted sets the executed bit of the nonce. Bits are never cleared.
func (l *Ledger) MarkExecuted(originDomainID uint8, depositNonce uint64) error {
	word, err := l.word(originDomainID, depositNonce)
	if err != nil {
		return err
	}

	bit := types.BitIndex(depositNonce)
	if types.IsBitSet(word, bit) {
		return ErrNonceUsed
	}
	types.SetBit(word, bit)

	return l.db.SetByKey(wordKey(originDomainID, depositNonce), types.WordBytes(word))
}

func (l *Ledger) word(originDomainID uint8, depositNonce uint64) (*types.Bitmap, error) {
	v, err := l.db.GetByKey(wordKey(originDomainID, depositNonce))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return new(types.Bitmap), nil
		}
		return nil, err
	}
	return types.WordFromBytes(v), nil
}

func wordKey(originDomainID uint8, depositNonce uint64) []byte {
	return []byte(fmt.Sprintf(USED_NONCES_KEY, originDomainID, types.WordIndex(depositNonce)))
}

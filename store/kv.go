// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

var ErrNotFound = leveldb.ErrNotFound

type KeyValueReader interface {
	GetByKey(key []byte) ([]byte, error)
}

type KeyValueWriter interface {
	SetByKey(key []byte, value []byte) error
}

type KeyValueReaderWriter interface {
	KeyValueReader
	KeyValueWriter
}

// BatchWriter applies a set of writes atomically
type BatchWriter interface {
	WriteBatch(keys [][]byte, values [][]byte) error
}

// Iterator walks all keys sharing a prefix. Key and value passed to fn are
// only valid until fn returns.
type Iterator interface {
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
}

// GetUint64 reads a big endian counter, missing keys read as zero
func GetUint64(db KeyValueReader, key []byte) (uint64, error) {
	v, err := db.GetByKey(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("invalid counter value length %d for key %s", len(v), key)
	}
	return binary.BigEndian.Uint64(v), nil
}

func SetUint64(db KeyValueWriter, key []byte, value uint64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, value)
	return db.SetByKey(key, v)
}

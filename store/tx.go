// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package store

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
)

var ErrTxClosed = errors.New("transaction already committed or discarded")

// Tx buffers writes in a leveldb memdb on top of a parent store. Nothing
// reaches the parent until Commit, so discarding a Tx rolls back every write
// made through it. A Tx can itself be the parent of another Tx, which makes
// nested Txs savepoints of the outer one.
type Tx struct {
	parent KeyValueReaderWriter
	writes *memdb.DB
	closed bool
}

func NewTx(parent KeyValueReaderWriter) *Tx {
	return &Tx{
		parent: parent,
		writes: memdb.New(comparer.DefaultComparer, 0),
	}
}

func (tx *Tx) GetByKey(key []byte) ([]byte, error) {
	if tx.closed {
		return tx.parent.GetByKey(key)
	}

	v, err := tx.writes.Get(key)
	if err == nil {
		return append([]byte{}, v...), nil
	}
	if !errors.Is(err, memdb.ErrNotFound) {
		return nil, err
	}
	return tx.parent.GetByKey(key)
}

func (tx *Tx) SetByKey(key []byte, value []byte) error {
	if tx.closed {
		return ErrTxClosed
	}
	return tx.writes.Put(key, value)
}

// Commit flushes buffered writes to the parent in key order, in a single
// batch when the parent supports it
func (tx *Tx) Commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.closed = true
	defer tx.writes.Reset()
	if tx.writes.Len() == 0 {
		return nil
	}

	keys := make([][]byte, 0, tx.writes.Len())
	values := make([][]byte, 0, tx.writes.Len())
	it := tx.writes.NewIterator(nil)
	for it.Next() {
		keys = append(keys, append([]byte{}, it.Key()...))
		values = append(values, append([]byte{}, it.Value()...))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return err
	}

	if bw, ok := tx.parent.(BatchWriter); ok {
		return bw.WriteBatch(keys, values)
	}
	for i := range keys {
		if err := tx.parent.SetByKey(keys[i], values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops all buffered writes
func (tx *Tx) Discard() {
	tx.closed = true
	tx.writes.Reset()
}

// Prefixed namespaces every key of the underlying store
type Prefixed struct {
	db     KeyValueReaderWriter
	prefix []byte
}

func NewPrefixed(db KeyValueReaderWriter, prefix string) *Prefixed {
	return &Prefixed{
		db:     db,
		prefix: []byte(prefix),
	}
}

func (p *Prefixed) GetByKey(key []byte) ([]byte, error) {
	return p.db.GetByKey(p.key(key))
}

func (p *Prefixed) SetByKey(key []byte, value []byte) error {
	return p.db.SetByKey(p.key(key), value)
}

func (p *Prefixed) key(key []byte) []byte {
	k := make([]byte, 0, len(p.prefix)+len(key))
	k = append(k, p.prefix...)
	return append(k, key...)
}

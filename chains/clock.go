// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chains

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var BLOCK_KEY = "chain:%d:block"

// BlockClock is the local block height of the domain. The height advances by
// one every block interval and survives restarts through the store.
type BlockClock struct {
	height        atomic.Uint64
	blockInterval time.Duration
	db            store.KeyValueReaderWriter
	domainID      uint8

	log zerolog.Logger
}

func NewBlockClock(db store.KeyValueReaderWriter, domainID uint8, blockInterval time.Duration) (*BlockClock, error) {
	height, err := store.GetUint64(db, blockKey(domainID))
	if err != nil {
		return nil, err
	}

	c := &BlockClock{
		blockInterval: blockInterval,
		db:            db,
		domainID:      domainID,
		log:           log.With().Uint8("domainID", domainID).Logger(),
	}
	c.height.Store(height)
	return c, nil
}

func (c *BlockClock) LatestBlock() uint64 {
	return c.height.Load()
}

// Advance moves the height forward by n blocks and returns the new height
func (c *BlockClock) Advance(n uint64) (uint64, error) {
	height := c.height.Add(n)
	if err := store.SetUint64(c.db, blockKey(c.domainID), height); err != nil {
		return height, fmt.Errorf("unable to store block %d: %w", height, err)
	}
	return height, nil
}

// Start ticks the clock until the context is cancelled
func (c *BlockClock) Start(ctx context.Context) {
	ticker := time.NewTicker(c.blockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			height, err := c.Advance(1)
			if err != nil {
				// Not a critical operation, the height is restored from the last stored block
				c.log.Error().Err(err).Msg("Failed to write latest block to store")
				continue
			}
			c.log.Trace().Uint64("block", height).Msg("New block")
		}
	}
}

func blockKey(domainID uint8) []byte {
	return []byte(fmt.Sprintf(BLOCK_KEY, domainID))
}

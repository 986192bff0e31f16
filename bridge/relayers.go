// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"fmt"

	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slices"
)

// RelayerSet is the ordered list of relayers allowed to vote. A relayer's
// position is its bit in proposal vote bitmaps, so the set can not be larger
// than a bitmap word.
type RelayerSet struct {
	relayers  []common.Address
	index     map[common.Address]uint
	threshold uint64
	expiry    uint64
}

func NewRelayerSet(relayers []common.Address, threshold uint64, expiry uint64) (*RelayerSet, error) {
	if len(relayers) > types.WordBits {
		return nil, fmt.Errorf("relayer set of %d exceeds maximum of %d", len(relayers), types.WordBits)
	}
	if threshold == 0 {
		return nil, fmt.Errorf("threshold has to be >= 1")
	}
	if threshold > uint64(len(relayers)) {
		return nil, fmt.Errorf("threshold %d larger than relayer set of %d", threshold, len(relayers))
	}

	index := make(map[common.Address]uint, len(relayers))
	for i, r := range relayers {
		if _, ok := index[r]; ok {
			return nil, fmt.Errorf("duplicate relayer %s", r.Hex())
		}
		index[r] = uint(i)
	}

	return &RelayerSet{
		relayers:  slices.Clone(relayers),
		index:     index,
		threshold: threshold,
		expiry:    expiry,
	}, nil
}

// Index returns the bitmap position of the relayer
func (rs *RelayerSet) Index(relayer common.Address) (uint, bool) {
	i, ok := rs.index[relayer]
	return i, ok
}

func (rs *RelayerSet) IsRelayer(relayer common.Address) bool {
	return slices.Contains(rs.relayers, relayer)
}

func (rs *RelayerSet) Relayers() []common.Address {
	return slices.Clone(rs.relayers)
}

func (rs *RelayerSet) Threshold() uint64 {
	return rs.threshold
}

// Expiry is the number of blocks after which an active proposal can be cancelled
func (rs *RelayerSet) Expiry() uint64 {
	return rs.expiry
}

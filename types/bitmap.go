// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// WordBits is the width of a single bitmap word
const WordBits = 256

// Bitmap is a single fixed-width word of flags
type Bitmap = uint256.Int

// WordIndex returns the index of the word holding bit n
func WordIndex(n uint64) uint64 {
	return n / WordBits
}

// BitIndex returns the position of bit n inside its word
func BitIndex(n uint64) uint {
	return uint(n % WordBits)
}

func IsBitSet(w *Bitmap, bit uint) bool {
	return (w[bit/64]>>(bit%64))&1 == 1
}

func SetBit(w *Bitmap, bit uint) {
	w[bit/64] |= 1 << (bit % 64)
}

// PopCount returns the number of set bits in the word
func PopCount(w *Bitmap) int {
	n := 0
	for _, limb := range w {
		n += bits.OnesCount64(limb)
	}
	return n
}

// WordBytes returns the big endian 32 byte encoding of the word
func WordBytes(w *Bitmap) []byte {
	b := w.Bytes32()
	return b[:]
}

// WordFromBytes decodes a big endian word, empty input yields the zero word
func WordFromBytes(b []byte) *Bitmap {
	return new(uint256.Int).SetBytes(b)
}

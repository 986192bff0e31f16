// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package keygen

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	generateKeyCMD = &cobra.Command{
		Use:   "gen-key",
		Short: "Generate a secp256k1 key for the signing authority",
		Long:  "Generate a secp256k1 key for the signing authority",
		RunE:  generateKey,
	}
)

func generateKey(cmd *cobra.Command, args []string) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	privHex := hex.EncodeToString(crypto.FromECDSA(key))

	fmt.Printf("Private key: %s\n", privHex)
	fmt.Printf("Address: %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	return nil
}

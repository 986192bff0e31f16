// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package sign

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	signProposalsCMD = &cobra.Command{
		Use:   "proposals",
		Short: "Sign a single proposal or a batch of proposals",
		Long:  "Sign a single proposal or a batch of proposals read from a JSON file",
		RunE:  signProposals,
	}
)

var (
	privateKey        string
	proposalsPath     string
	name              string
	version           string
	chainID           int64
	verifyingContract string
	single            bool
)

func init() {
	signProposalsCMD.Flags().StringVar(&privateKey, "private-key", "", "Hex encoded secp256k1 authority key")
	signProposalsCMD.Flags().StringVar(&proposalsPath, "proposals", "", "Path to JSON file with proposals")
	signProposalsCMD.Flags().StringVar(&name, "name", "Bridge", "EIP712 domain name")
	signProposalsCMD.Flags().StringVar(&version, "version", "3.1.0", "EIP712 domain version")
	signProposalsCMD.Flags().Int64Var(&chainID, "chain-id", 1, "EIP712 domain chain ID")
	signProposalsCMD.Flags().StringVar(&verifyingContract, "bridge", "", "Bridge address")
	signProposalsCMD.Flags().BoolVar(&single, "single", false, "Sign the first proposal on its own instead of the batch")
	_ = signProposalsCMD.MarkFlagRequired("private-key")
	_ = signProposalsCMD.MarkFlagRequired("proposals")
	_ = signProposalsCMD.MarkFlagRequired("bridge")
}

type rawProposal struct {
	OriginDomainID      uint8         `json:"originDomainID"`
	DestinationDomainID uint8         `json:"destinationDomainID"`
	DepositNonce        uint64        `json:"depositNonce"`
	ResourceID          common.Hash   `json:"resourceID"`
	Data                hexutil.Bytes `json:"data"`
}

func signProposals(cmd *cobra.Command, args []string) error {
	key, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}
	if !common.IsHexAddress(verifyingContract) {
		return fmt.Errorf("invalid bridge address %s", verifyingContract)
	}

	content, err := os.ReadFile(proposalsPath)
	if err != nil {
		return err
	}
	var rawProposals []rawProposal
	if err := json.Unmarshal(content, &rawProposals); err != nil {
		return err
	}
	if len(rawProposals) == 0 {
		return fmt.Errorf("no proposals in %s", proposalsPath)
	}

	proposals := make([]*authority.Proposal, len(rawProposals))
	for i, p := range rawProposals {
		proposals[i] = &authority.Proposal{
			OriginDomainID:      p.OriginDomainID,
			DestinationDomainID: p.DestinationDomainID,
			DepositNonce:        p.DepositNonce,
			ResourceID:          types.ResourceID(p.ResourceID),
			Data:                p.Data,
		}
	}

	domain := authority.Domain{
		Name:              name,
		Version:           version,
		ChainID:           chainID,
		VerifyingContract: common.HexToAddress(verifyingContract).Hex(),
	}
	var hash []byte
	if single {
		hash, err = authority.ProposalHash(proposals[0], domain)
	} else {
		hash, err = authority.ProposalsHash(proposals, domain)
	}
	if err != nil {
		return err
	}

	sig, err := authority.Sign(hash, key)
	if err != nil {
		return err
	}

	fmt.Printf("Signer: %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Printf("Signature: %s\n", hexutil.Encode(sig))
	return nil
}

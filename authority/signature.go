// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package authority

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Sign signs the hash and returns the signature in [R || S || V] format with V
// in the 27/28 range
func Sign(hash []byte, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, err
	}
	sig[len(sig)-1] += 27 // Transform V from 0/1 to 27/28
	return sig, nil
}

// RecoverSigner returns the address that produced the signature over hash
func RecoverSigner(hash []byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(signature))
	}

	sig := common.CopyBytes(signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verifier checks proposals were signed by the configured authority
type Verifier struct {
	authority common.Address
	domain    Domain
}

func NewVerifier(authority common.Address, domain Domain) *Verifier {
	return &Verifier{
		authority: authority,
		domain:    domain,
	}
}

func (v *Verifier) Authority() common.Address {
	return v.authority
}

func (v *Verifier) VerifyProposal(p *Proposal, signature []byte) error {
	hash, err := ProposalHash(p, v.domain)
	if err != nil {
		return err
	}
	return v.verify(hash, signature)
}

func (v *Verifier) VerifyProposals(proposals []*Proposal, signature []byte) error {
	hash, err := ProposalsHash(proposals, v.domain)
	if err != nil {
		return err
	}
	return v.verify(hash, signature)
}

func (v *Verifier) verify(hash []byte, signature []byte) error {
	signer, err := RecoverSigner(hash, signature)
	if err != nil {
		return err
	}
	if signer != v.authority {
		return fmt.Errorf("%w: signed by %s", ErrInvalidSignature, signer.Hex())
	}
	return nil
}

// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package forwarder

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/rs/zerolog/log"
)

var (
	NONCE_KEY = "forwarder:nonce:%s"

	ErrNonceMismatch     = errors.New("forward request nonce mismatch")
	ErrSignatureMismatch = errors.New("signature does not match request")
	ErrUnknownTarget     = errors.New("unknown forward request target")
)

// ForwardRequest is a call signed by From and submitted by a third party
type ForwardRequest struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	// Gas is signed over but not metered
	Gas   uint64
	Nonce uint64
	Data  []byte
}

// Target receives calls relayed by the forwarder
type Target interface {
	ForwardedCall(ctx context.Context, forwarder common.Address, from common.Address, value *big.Int, data []byte) ([]byte, error)
}

var forwardRequestType = []apitypes.Type{
	{Name: "from", Type: "address"},
	{Name: "to", Type: "address"},
	{Name: "value", Type: "uint256"},
	{Name: "gas", Type: "uint256"},
	{Name: "nonce", Type: "uint256"},
	{Name: "data", Type: "bytes"},
}

// Forwarder verifies signed forward requests and relays them to registered
// targets. Each sender has a sequential nonce.
type Forwarder struct {
	mu sync.Mutex

	address common.Address
	domain  authority.Domain
	db      store.KeyValueReaderWriter
	targets map[common.Address]Target
}

func NewForwarder(address common.Address, domain authority.Domain, db store.KeyValueReaderWriter) *Forwarder {
	return &Forwarder{
		address: address,
		domain:  domain,
		db:      db,
		targets: make(map[common.Address]Target),
	}
}

func (f *Forwarder) Address() common.Address {
	return f.address
}

func (f *Forwarder) RegisterTarget(address common.Address, target Target) {
	f.targets[address] = target
}

// Hash returns the EIP712 hash of the request
func (f *Forwarder) Hash(req *ForwardRequest) ([]byte, error) {
	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain":   authority.DomainType,
			"ForwardRequest": forwardRequestType,
		},
		PrimaryType: "ForwardRequest",
		Domain:      f.domain.TypedDataDomain(),
		Message: apitypes.TypedDataMessage{
			"from":  req.From.Hex(),
			"to":    req.To.Hex(),
			"value": (*math.HexOrDecimal256)(new(big.Int).Set(value)),
			"gas":   (*math.HexOrDecimal256)(new(big.Int).SetUint64(req.Gas)),
			"nonce": (*math.HexOrDecimal256)(new(big.Int).SetUint64(req.Nonce)),
			"data":  hexutil.Encode(req.Data),
		},
	}
	return authority.HashTypedData(typedData)
}

// Nonce returns the nonce the next request of the sender has to carry
func (f *Forwarder) Nonce(from common.Address) (uint64, error) {
	return store.GetUint64(f.db, nonceKey(from))
}

// Verify checks the request carries the sender's current nonce and was
// signed by the sender
func (f *Forwarder) Verify(req *ForwardRequest, signature []byte) error {
	nonce, err := f.Nonce(req.From)
	if err != nil {
		return err
	}
	if req.Nonce != nonce {
		return fmt.Errorf("%w: expected %d, got %d", ErrNonceMismatch, nonce, req.Nonce)
	}

	hash, err := f.Hash(req)
	if err != nil {
		return err
	}
	signer, err := authority.RecoverSigner(hash, signature)
	if err != nil {
		return err
	}
	if signer != req.From {
		return fmt.Errorf("%w: signed by %s", ErrSignatureMismatch, signer.Hex())
	}
	return nil
}

// Execute verifies the request, consumes the sender's nonce and relays the
// call. The nonce stays consumed when the target rejects the call.
func (f *Forwarder) Execute(ctx context.Context, req *ForwardRequest, signature []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Verify(req, signature); err != nil {
		return nil, err
	}
	target, ok := f.targets[req.To]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, req.To.Hex())
	}

	if err := store.SetUint64(f.db, nonceKey(req.From), req.Nonce+1); err != nil {
		return nil, err
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}
	response, err := target.ForwardedCall(ctx, f.address, req.From, value, req.Data)
	if err != nil {
		log.Warn().Err(err).Str("from", req.From.Hex()).Uint64("nonce", req.Nonce).Msg("Forwarded call failed")
		return nil, err
	}
	return response, nil
}

func nonceKey(from common.Address) []byte {
	return []byte(fmt.Sprintf(NONCE_KEY, from.Hex()))
}

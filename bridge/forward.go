// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	MethodDeposit uint8 = iota + 1
	MethodVote
	MethodCancel
	MethodRetry
	MethodExecuteProposal
	MethodWithdraw
)

// Call is the RLP envelope of a call relayed by a trusted forwarder
type Call struct {
	Method uint8
	Args   []byte
}

type DepositArgs struct {
	DestinationDomainID uint8
	ResourceID          types.ResourceID
	DepositData         []byte
	FeeData             []byte
}

type DepositResult struct {
	DepositNonce    uint64
	HandlerResponse []byte
}

type VoteArgs struct {
	OriginDomainID uint8
	DepositNonce   uint64
	ResourceID     types.ResourceID
	Data           []byte
}

type CancelArgs struct {
	OriginDomainID uint8
	DepositNonce   uint64
	DataHash       common.Hash
}

type RetryArgs struct {
	DestinationDomainID uint8
	DepositNonce        uint64
}

type WithdrawArgs struct {
	Handler common.Address
	Data    []byte
}

// EncodeCall packs method arguments into forwarded call data
func EncodeCall(method uint8, args interface{}) ([]byte, error) {
	encodedArgs, err := rlp.EncodeToBytes(args)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(&Call{Method: method, Args: encodedArgs})
}

func (b *Bridge) IsTrustedForwarder(forwarder common.Address) bool {
	return b.trustedForwarders[forwarder]
}

// ForwardedCall executes call data relayed by a trusted forwarder with from
// as the caller. Forwarded calls are handled exactly like direct ones.
func (b *Bridge) ForwardedCall(ctx context.Context, forwarder common.Address, from common.Address, value *big.Int, data []byte) ([]byte, error) {
	if !b.IsTrustedForwarder(forwarder) {
		return nil, fmt.Errorf("%w: %s", ErrUntrustedForwarder, forwarder.Hex())
	}

	call := &Call{}
	if err := rlp.DecodeBytes(data, call); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownCall, err)
	}

	switch call.Method {
	case MethodDeposit:
		args := &DepositArgs{}
		if err := rlp.DecodeBytes(call.Args, args); err != nil {
			return nil, err
		}
		depositNonce, handlerResponse, err := b.Deposit(ctx, from, args.DestinationDomainID, args.ResourceID, args.DepositData, args.FeeData, value)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(&DepositResult{DepositNonce: depositNonce, HandlerResponse: handlerResponse})
	case MethodVote:
		args := &VoteArgs{}
		if err := rlp.DecodeBytes(call.Args, args); err != nil {
			return nil, err
		}
		status, err := b.VoteProposal(ctx, from, args.OriginDomainID, args.DepositNonce, args.ResourceID, args.Data)
		if err != nil {
			return nil, err
		}
		return []byte{uint8(status)}, nil
	case MethodCancel:
		args := &CancelArgs{}
		if err := rlp.DecodeBytes(call.Args, args); err != nil {
			return nil, err
		}
		return nil, b.CancelProposal(ctx, from, args.OriginDomainID, args.DepositNonce, args.DataHash)
	case MethodRetry:
		args := &RetryArgs{}
		if err := rlp.DecodeBytes(call.Args, args); err != nil {
			return nil, err
		}
		return nil, b.Retry(ctx, from, args.DestinationDomainID, args.DepositNonce)
	case MethodExecuteProposal:
		args := &VoteArgs{}
		if err := rlp.DecodeBytes(call.Args, args); err != nil {
			return nil, err
		}
		return nil, b.ExecuteProposal(ctx, from, args.OriginDomainID, args.DepositNonce, args.ResourceID, args.Data)
	case MethodWithdraw:
		args := &WithdrawArgs{}
		if err := rlp.DecodeBytes(call.Args, args); err != nil {
			return nil, err
		}
		return nil, b.Withdraw(ctx, from, args.Handler, args.Data)
	default:
		return nil, fmt.Errorf("%w: method %d", ErrUnknownCall, call.Method)
	}
}

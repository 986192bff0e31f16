// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/bridge"
	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/lvldb"
	"github.com/ChainSafe/sygma-bridge/registry"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
)

const domainID uint8 = 2

var (
	bridgeAddress   = common.HexToAddress("0x6CdE2Cd82a4F8B74693Ff5e194c19CA08c2d1c68")
	fungibleAddress = common.HexToAddress("0x3cA3808176Ad060Ad80c4e08F30d85973Ef1d99e")
	genericAddress  = common.HexToAddress("0x0C6bB8C6ed3Bd52C7c8c5f5Ed2C4FaD9f3A4c17c")
	relayerA        = common.HexToAddress("0x5C1F5961696BaD2e73f73417f07EF55C62a2dC5b")
	relayerB        = common.HexToAddress("0xff93B45308FD417dF303D6515aB04D9e89a750Ca")
	relayerC        = common.HexToAddress("0x8e0a907331554AF72563Bd8D43051C2E64Be5d35")
	admin           = common.HexToAddress("0x24962717f8fA5BA3b931bACaF9ac03924EB475a0")
	depositor       = common.HexToAddress("0x148FfB2074A9e59eD58142822b3eB3fcBffb0cd7")
	recipient       = common.HexToAddress("0x7dB1B4c46C7d2F3c8d1D89e8A4fAbeF4d5a4eA1B")
	stranger        = common.HexToAddress("0x0000000000000000000000000000000000000bad")

	fungibleResourceID = types.ResourceID{1}
	genericResourceID  = types.ResourceID{2}
)

type testBlocks struct {
	height uint64
}

func (b *testBlocks) LatestBlock() uint64 {
	return b.height
}

// BridgeTestSuite wires a bridge with a fungible and a generic handler on an
// in memory database. Relayers A, B and C vote with a threshold of two and an
// expiry of ten blocks.
type BridgeTestSuite struct {
	suite.Suite
	db            *lvldb.LVLDB
	blocks        *testBlocks
	recorder      *events.Recorder
	bus           *events.Bus
	registry      *registry.Registry
	relayers      *bridge.RelayerSet
	authorityKey  *ecdsa.PrivateKey
	domain        authority.Domain
	genericErr    error
	genericCalled int
	bridge        *bridge.Bridge
}

func (s *BridgeTestSuite) SetupTest() {
	db, err := lvldb.NewMemLvlDB()
	s.Nil(err)
	s.db = db
	s.blocks = &testBlocks{}
	s.recorder = &events.Recorder{}
	s.bus = events.NewBus(s.recorder)
	s.genericErr = nil
	s.genericCalled = 0

	genericHandler := handlers.NewGenericHandler()
	genericHandler.RegisterCallTarget(genericResourceID, handlers.CallTargetFunc(func(ctx context.Context, resourceID types.ResourceID, metadata []byte) ([]byte, error) {
		s.genericCalled++
		if s.genericErr != nil {
			return nil, s.genericErr
		}
		return metadata, nil
	}))
	s.registry = registry.NewRegistry()
	s.registry.RegisterHandler(fungibleAddress, handlers.NewFungibleHandler())
	s.registry.RegisterHandler(genericAddress, genericHandler)

	key, err := crypto.GenerateKey()
	s.Nil(err)
	s.authorityKey = key
	s.domain = authority.Domain{
		Name:              "Bridge",
		Version:           "3.1.0",
		ChainID:           5,
		VerifyingContract: bridgeAddress.Hex(),
	}

	s.bridge = s.newBridge(2)
}

func (s *BridgeTestSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *BridgeTestSuite) newBridge(threshold uint64, opts ...bridge.Option) *bridge.Bridge {
	relayers, err := bridge.NewRelayerSet([]common.Address{relayerA, relayerB, relayerC}, threshold, 10)
	s.Nil(err)
	s.relayers = relayers

	opts = append([]bridge.Option{
		bridge.WithAdmin(admin),
		bridge.WithAuthority(authority.NewVerifier(crypto.PubkeyToAddress(s.authorityKey.PublicKey), s.domain)),
	}, opts...)
	b := bridge.NewBridge(domainID, bridgeAddress, s.db, s.registry, relayers, s.blocks, s.bus, opts...)
	s.Nil(b.SetResource(context.Background(), fungibleResourceID, fungibleAddress))
	s.Nil(b.SetResource(context.Background(), genericResourceID, genericAddress))
	return b
}

// addLiquidity locks amount in the fungible handler through an outbound deposit
func (s *BridgeTestSuite) addLiquidity(amount int64) {
	_, _, err := s.bridge.Deposit(
		context.Background(),
		depositor,
		3,
		fungibleResourceID,
		handlers.ConstructFungibleDepositData(recipient.Bytes(), big.NewInt(amount)),
		nil,
		nil)
	s.Nil(err)
	s.recorder.Reset()
}

func (s *BridgeTestSuite) liquidity() *big.Int {
	liquidity, err := handlers.Liquidity(s.bridge.HandlerState(fungibleAddress), fungibleResourceID)
	s.Nil(err)
	return liquidity
}

func (s *BridgeTestSuite) balance() *big.Int {
	balance, err := handlers.Balance(s.bridge.HandlerState(fungibleAddress), fungibleResourceID, recipient)
	s.Nil(err)
	return balance
}

func (s *BridgeTestSuite) executed(originDomainID uint8, depositNonce uint64) bool {
	executed, err := s.bridge.IsExecuted(originDomainID, depositNonce)
	s.Nil(err)
	return executed
}

func (s *BridgeTestSuite) proposal(originDomainID uint8, depositNonce uint64, dataHash common.Hash) *types.Proposal {
	p, err := s.bridge.Proposal(originDomainID, depositNonce, dataHash)
	s.Nil(err)
	return p
}

func (s *BridgeTestSuite) sign(p *authority.Proposal) []byte {
	hash, err := authority.ProposalHash(p, s.domain)
	s.Nil(err)
	sig, err := authority.Sign(hash, s.authorityKey)
	s.Nil(err)
	return sig
}

func (s *BridgeTestSuite) signBatch(ps []*authority.Proposal) []byte {
	hash, err := authority.ProposalsHash(ps, s.domain)
	s.Nil(err)
	sig, err := authority.Sign(hash, s.authorityKey)
	s.Nil(err)
	return sig
}

func fungibleData(amount int64) []byte {
	return handlers.ConstructFungibleDepositData(recipient.Bytes(), big.NewInt(amount))
}

func genericData(metadata string) []byte {
	return handlers.ConstructGenericDepositData([]byte(metadata))
}

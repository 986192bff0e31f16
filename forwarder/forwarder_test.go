// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package forwarder_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/forwarder"
	"github.com/ChainSafe/sygma-bridge/lvldb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
)

var (
	forwarderAddress = common.HexToAddress("0xB6e6b1D4D6f2E7C5C1F1C3D0c0D8dA2e7B2A2bAd")
	targetAddress    = common.HexToAddress("0x6CdE2Cd82a4F8B74693Ff5e194c19CA08c2d1c68")
)

type call struct {
	forwarder common.Address
	from      common.Address
	value     *big.Int
	data      []byte
}

type testTarget struct {
	calls []call
	err   error
}

func (t *testTarget) ForwardedCall(ctx context.Context, forwarder common.Address, from common.Address, value *big.Int, data []byte) ([]byte, error) {
	t.calls = append(t.calls, call{forwarder, from, value, data})
	if t.err != nil {
		return nil, t.err
	}
	return []byte("response"), nil
}

type ForwarderTestSuite struct {
	suite.Suite
	db        *lvldb.LVLDB
	key       *ecdsa.PrivateKey
	from      common.Address
	target    *testTarget
	forwarder *forwarder.Forwarder
}

func TestRunForwarderTestSuite(t *testing.T) {
	suite.Run(t, new(ForwarderTestSuite))
}

func (s *ForwarderTestSuite) SetupTest() {
	db, err := lvldb.NewMemLvlDB()
	s.Nil(err)
	s.db = db
	key, err := crypto.GenerateKey()
	s.Nil(err)
	s.key = key
	s.from = crypto.PubkeyToAddress(key.PublicKey)
	s.target = &testTarget{}
	s.forwarder = forwarder.NewForwarder(forwarderAddress, authority.Domain{
		Name:              "MinimalForwarder",
		Version:           "0.0.1",
		ChainID:           5,
		VerifyingContract: forwarderAddress.Hex(),
	}, db)
	s.forwarder.RegisterTarget(targetAddress, s.target)
}

func (s *ForwarderTestSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *ForwarderTestSuite) request(nonce uint64) *forwarder.ForwardRequest {
	return &forwarder.ForwardRequest{
		From:  s.from,
		To:    targetAddress,
		Value: big.NewInt(5),
		Gas:   100000,
		Nonce: nonce,
		Data:  []byte{1, 2, 3},
	}
}

func (s *ForwarderTestSuite) sign(req *forwarder.ForwardRequest, key *ecdsa.PrivateKey) []byte {
	hash, err := s.forwarder.Hash(req)
	s.Nil(err)
	sig, err := authority.Sign(hash, key)
	s.Nil(err)
	return sig
}

func (s *ForwarderTestSuite) Test_Execute() {
	req := s.request(0)

	response, err := s.forwarder.Execute(context.Background(), req, s.sign(req, s.key))

	s.Nil(err)
	s.Equal([]byte("response"), response)
	s.Equal([]call{{forwarderAddress, s.from, big.NewInt(5), []byte{1, 2, 3}}}, s.target.calls)
	nonce, err := s.forwarder.Nonce(s.from)
	s.Nil(err)
	s.Equal(uint64(1), nonce)
	s.Equal(forwarderAddress, s.forwarder.Address())
}

func (s *ForwarderTestSuite) Test_Execute_ReplayRejected() {
	req := s.request(0)
	sig := s.sign(req, s.key)
	_, err := s.forwarder.Execute(context.Background(), req, sig)
	s.Nil(err)

	_, err = s.forwarder.Execute(context.Background(), req, sig)

	s.ErrorIs(err, forwarder.ErrNonceMismatch)
	s.Len(s.target.calls, 1)
}

func (s *ForwarderTestSuite) Test_Execute_WrongSigner() {
	otherKey, err := crypto.GenerateKey()
	s.Nil(err)
	req := s.request(0)

	_, err = s.forwarder.Execute(context.Background(), req, s.sign(req, otherKey))

	s.ErrorIs(err, forwarder.ErrSignatureMismatch)
	s.Len(s.target.calls, 0)
}

func (s *ForwarderTestSuite) Test_Execute_TamperedRequest() {
	req := s.request(0)
	sig := s.sign(req, s.key)
	req.Gas = 1

	err := s.forwarder.Verify(req, sig)

	s.ErrorIs(err, forwarder.ErrSignatureMismatch)
}

func (s *ForwarderTestSuite) Test_Execute_UnknownTarget() {
	req := s.request(0)
	req.To = forwarderAddress

	_, err := s.forwarder.Execute(context.Background(), req, s.sign(req, s.key))

	s.ErrorIs(err, forwarder.ErrUnknownTarget)
	nonce, err := s.forwarder.Nonce(s.from)
	s.Nil(err)
	s.Equal(uint64(0), nonce)
}

func (s *ForwarderTestSuite) Test_Execute_TargetFailureConsumesNonce() {
	s.target.err = errors.New("call failed")
	req := s.request(0)

	_, err := s.forwarder.Execute(context.Background(), req, s.sign(req, s.key))

	s.NotNil(err)
	nonce, err := s.forwarder.Nonce(s.from)
	s.Nil(err)
	s.Equal(uint64(1), nonce)
}

func (s *ForwarderTestSuite) Test_Hash_DomainSeparation() {
	req := s.request(0)
	hash, err := s.forwarder.Hash(req)
	s.Nil(err)

	other := forwarder.NewForwarder(forwarderAddress, authority.Domain{
		Name:              "MinimalForwarder",
		Version:           "0.0.1",
		ChainID:           6,
		VerifyingContract: forwarderAddress.Hex(),
	}, s.db)
	otherHash, err := other.Hash(req)
	s.Nil(err)

	s.NotEqual(hash, otherHash)
}

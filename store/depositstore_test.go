// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package store_test

import (
	"testing"

	"github.com/ChainSafe/sygma-bridge/lvldb"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

type DepositStoreTestSuite struct {
	suite.Suite
	db           *lvldb.LVLDB
	depositStore *store.DepositStore
}

func TestRunDepositStoreTestSuite(t *testing.T) {
	suite.Run(t, new(DepositStoreTestSuite))
}

func (s *DepositStoreTestSuite) SetupTest() {
	db, err := lvldb.NewMemLvlDB()
	s.Nil(err)
	s.db = db
	s.depositStore = store.NewDepositStore(db)
}

func (s *DepositStoreTestSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *DepositStoreTestSuite) Test_Deposit_NotFound() {
	_, err := s.depositStore.Deposit(2, 1)

	s.ErrorIs(err, store.ErrDepositNotFound)
}

func (s *DepositStoreTestSuite) Test_StoreDeposit_RoundTrip() {
	d := &types.DepositRecord{
		DestinationDomainID: 2,
		DepositNonce:        1,
		ResourceID:          types.ResourceID{1},
		Depositor:           common.HexToAddress("0x5C1F5961696BaD2e73f73417f07EF55C62a2dC5b"),
		Data:                []byte{1, 2, 3},
		HandlerResponse:     []byte{},
	}

	err := s.depositStore.StoreDeposit(d)
	s.Nil(err)

	stored, err := s.depositStore.Deposit(2, 1)
	s.Nil(err)
	s.Equal(d, stored)
}

func (s *DepositStoreTestSuite) Test_StoreDeposit_Immutable() {
	d := &types.DepositRecord{
		DestinationDomainID: 2,
		DepositNonce:        1,
		Data:                []byte{1},
		HandlerResponse:     []byte{},
	}
	err := s.depositStore.StoreDeposit(d)
	s.Nil(err)

	err = s.depositStore.StoreDeposit(&types.DepositRecord{
		DestinationDomainID: 2,
		DepositNonce:        1,
		Data:                []byte{2},
		HandlerResponse:     []byte{},
	})

	s.ErrorIs(err, store.ErrDepositExists)
	stored, err := s.depositStore.Deposit(2, 1)
	s.Nil(err)
	s.Equal([]byte{1}, stored.Data)
}

// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package registry_test

import (
	"testing"

	mock_handlers "github.com/ChainSafe/sygma-bridge/handlers/mock"
	"github.com/ChainSafe/sygma-bridge/lvldb"
	"github.com/ChainSafe/sygma-bridge/registry"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var (
	handlerAddress = common.HexToAddress("0x3cA3808176Ad060Ad80c4e08F30d85973Ef1d99e")
	resourceID     = types.ResourceID{1}
)

type RegistryTestSuite struct {
	suite.Suite
	db       *lvldb.LVLDB
	registry *registry.Registry
	handler  *mock_handlers.MockHandler
}

func TestRunRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	db, err := lvldb.NewMemLvlDB()
	s.Nil(err)
	s.db = db

	gomockController := gomock.NewController(s.T())
	s.handler = mock_handlers.NewMockHandler(gomockController)
	s.registry = registry.NewRegistry()
	s.registry.RegisterHandler(handlerAddress, s.handler)
}

func (s *RegistryTestSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *RegistryTestSuite) Test_ResourceHandler_Unmapped() {
	_, err := s.registry.ResourceHandler(s.db, resourceID)

	s.ErrorIs(err, registry.ErrResourceNotFound)
}

func (s *RegistryTestSuite) Test_SetResource_UnknownHandler() {
	err := s.registry.SetResource(s.db, resourceID, common.HexToAddress("0x01"))

	s.ErrorIs(err, registry.ErrHandlerNotFound)
}

func (s *RegistryTestSuite) Test_Resolve() {
	err := s.registry.SetResource(s.db, resourceID, handlerAddress)
	s.Nil(err)

	address, h, err := s.registry.Resolve(s.db, resourceID)

	s.Nil(err)
	s.Equal(handlerAddress, address)
	s.Equal(s.handler, h)
}

func (s *RegistryTestSuite) Test_SetResource_Remap() {
	otherAddress := common.HexToAddress("0x75dF75bcdCa8eA2360c562b4aaDBAF3dfAf5b19b")
	s.registry.RegisterHandler(otherAddress, s.handler)
	err := s.registry.SetResource(s.db, resourceID, handlerAddress)
	s.Nil(err)

	err = s.registry.SetResource(s.db, resourceID, otherAddress)
	s.Nil(err)

	address, err := s.registry.ResourceHandler(s.db, resourceID)
	s.Nil(err)
	s.Equal(otherAddress, address)
}

func (s *RegistryTestSuite) Test_Handler_NotInstalled() {
	_, err := s.registry.Handler(common.HexToAddress("0x01"))

	s.ErrorIs(err, registry.ErrHandlerNotFound)
}

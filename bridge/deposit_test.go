// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ChainSafe/sygma-bridge/bridge"
	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/fee"
	mock_fee "github.com/ChainSafe/sygma-bridge/fee/mock"
	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DepositTestSuite struct {
	BridgeTestSuite
}

func TestRunDepositTestSuite(t *testing.T) {
	suite.Run(t, new(DepositTestSuite))
}

func (s *DepositTestSuite) Test_Deposit_NoncesAreMonotonicPerDestination() {
	for i := uint64(1); i <= 3; i++ {
		depositNonce, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(10), nil, nil)
		s.Nil(err)
		s.Equal(i, depositNonce)
	}

	depositNonce, _, err := s.bridge.Deposit(context.Background(), depositor, 4, fungibleResourceID, fungibleData(10), nil, nil)
	s.Nil(err)
	s.Equal(uint64(1), depositNonce)

	count, err := s.bridge.DepositCount(3)
	s.Nil(err)
	s.Equal(uint64(3), count)
	s.Equal(big.NewInt(40), s.liquidity())
}

func (s *DepositTestSuite) Test_Deposit_StoresRecordAndEmitsEvent() {
	data := fungibleData(10)

	depositNonce, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, data, nil, nil)

	s.Nil(err)
	record, err := s.bridge.DepositRecord(3, depositNonce)
	s.Nil(err)
	s.Equal(uint8(3), record.DestinationDomainID)
	s.Equal(uint64(1), record.DepositNonce)
	s.Equal(fungibleResourceID, record.ResourceID)
	s.Equal(depositor, record.Depositor)
	s.Equal(data, record.Data)
	s.Empty(record.HandlerResponse)
	s.Equal([]events.Event{
		events.Deposit{
			DestinationDomainID: 3,
			ResourceID:          fungibleResourceID,
			DepositNonce:        1,
			SenderAddress:       depositor,
			Data:                data,
		},
	}, s.recorder.Events())
}

func (s *DepositTestSuite) Test_Deposit_UnknownResource() {
	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, types.ResourceID{9}, fungibleData(10), nil, nil)

	s.ErrorIs(err, bridge.ErrUnknownResource)
	count, err := s.bridge.DepositCount(3)
	s.Nil(err)
	s.Equal(uint64(0), count)
}

func (s *DepositTestSuite) Test_Deposit_HandlerRejectionBurnsNonce() {
	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(0), nil, nil)

	s.ErrorIs(err, bridge.ErrHandlerAborted)
	count, err := s.bridge.DepositCount(3)
	s.Nil(err)
	s.Equal(uint64(1), count)
	_, err = s.bridge.DepositRecord(3, 1)
	s.ErrorIs(err, store.ErrDepositNotFound)
	s.Len(s.recorder.Events(), 0)

	depositNonce, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(10), nil, nil)
	s.Nil(err)
	s.Equal(uint64(2), depositNonce)
}

func (s *DepositTestSuite) Test_Deposit_FeeFailureBurnsNothing() {
	feeHandler := fee.NewBasicFeeHandler(big.NewInt(10))
	s.bridge = s.newBridge(2, bridge.WithFeeHandler(feeHandler))

	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(10), nil, big.NewInt(5))

	s.ErrorIs(err, fee.ErrIncorrectFee)
	count, err := s.bridge.DepositCount(3)
	s.Nil(err)
	s.Equal(uint64(0), count)
	s.Equal(0, s.liquidity().Sign())
}

func (s *DepositTestSuite) Test_Deposit_FeeCollaboratorCalledBeforeNonce() {
	ctrl := gomock.NewController(s.T())
	feeHandler := mock_fee.NewMockFeeHandler(ctrl)
	s.bridge = s.newBridge(2, bridge.WithFeeHandler(feeHandler))
	feeHandler.EXPECT().CollectFee(
		gomock.Any(),
		gomock.Any(),
		depositor,
		domainID,
		uint8(3),
		fungibleResourceID,
		fungibleData(10),
		[]byte{1},
		big.NewInt(7),
	).Return(fmt.Errorf("oracle unavailable"))

	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(10), []byte{1}, big.NewInt(7))

	s.ErrorContains(err, "oracle unavailable")
	count, err := s.bridge.DepositCount(3)
	s.Nil(err)
	s.Equal(uint64(0), count)
}

func (s *DepositTestSuite) Test_Deposit_FeeCollected() {
	feeHandler := fee.NewBasicFeeHandler(big.NewInt(10))
	s.bridge = s.newBridge(2, bridge.WithFeeHandler(feeHandler))

	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(10), nil, big.NewInt(10))

	s.Nil(err)
	collected, err := fee.Collected(s.bridge.FeeState(), fungibleResourceID)
	s.Nil(err)
	s.Equal(big.NewInt(10), collected)
}

func (s *DepositTestSuite) Test_Deposit_HandlerRejectionRevertsFee() {
	feeHandler := fee.NewBasicFeeHandler(big.NewInt(10))
	s.bridge = s.newBridge(2, bridge.WithFeeHandler(feeHandler))

	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(0), nil, big.NewInt(10))

	s.ErrorIs(err, bridge.ErrHandlerAborted)
	collected, err := fee.Collected(s.bridge.FeeState(), fungibleResourceID)
	s.Nil(err)
	s.Equal(0, collected.Sign())
}

func (s *DepositTestSuite) Test_Deposit_NoFeeRejectsValue() {
	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, fungibleResourceID, fungibleData(10), nil, big.NewInt(1))

	s.ErrorIs(err, fee.ErrIncorrectFee)
}

func (s *DepositTestSuite) Test_Retry() {
	_, _, err := s.bridge.Deposit(context.Background(), depositor, 3, genericResourceID, genericData("call"), nil, nil)
	s.Nil(err)
	s.recorder.Reset()

	err = s.bridge.Retry(context.Background(), stranger, 3, 1)
	s.ErrorIs(err, bridge.ErrNotRelayer)

	err = s.bridge.Retry(context.Background(), relayerA, 3, 2)
	s.ErrorIs(err, store.ErrDepositNotFound)

	err = s.bridge.Retry(context.Background(), admin, 3, 1)
	s.Nil(err)
	s.Equal([]events.Event{events.Retry{DestinationDomainID: 3, DepositNonce: 1}}, s.recorder.Events())
}

func (s *DepositTestSuite) Test_Withdraw() {
	s.addLiquidity(100)
	data := append(fungibleResourceID[:], fungibleData(30)...)

	err := s.bridge.Withdraw(context.Background(), relayerA, fungibleAddress, data)
	s.ErrorIs(err, bridge.ErrNotAdmin)

	err = s.bridge.Withdraw(context.Background(), admin, fungibleAddress, data)
	s.Nil(err)
	s.Equal(big.NewInt(70), s.liquidity())
	s.Equal(big.NewInt(30), s.balance())
}

func (s *DepositTestSuite) Test_Withdraw_FailureRollsBack() {
	s.addLiquidity(10)
	data := append(fungibleResourceID[:], fungibleData(30)...)

	err := s.bridge.Withdraw(context.Background(), admin, fungibleAddress, data)

	s.ErrorIs(err, handlers.ErrInsufficientLiquidity)
	s.Equal(big.NewInt(10), s.liquidity())
}

func (s *DepositTestSuite) Test_ResourceHandler() {
	address, err := s.bridge.ResourceHandler(genericResourceID)
	s.Nil(err)
	s.Equal(genericAddress, address)

	_, err = s.bridge.ResourceHandler(types.ResourceID{9})
	s.ErrorIs(err, bridge.ErrUnknownResource)
}

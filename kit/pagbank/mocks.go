package pagbank

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type GatewayMock struct {
	mock.Mock
	Gateway
}

func (m *GatewayMock) OrderStatus(ctx context.Context, pagbankOrderID string) (ChargeStatus, error) {
	args := m.Called(ctx, pagbankOrderID)
	return args.Get(0).(ChargeStatus), args.Error(1)
}

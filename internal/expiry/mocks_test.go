package expiry

import (
	"context"

	"pagsync/internal/order"

	"github.com/stretchr/testify/mock"
)

type OrderSaverMock struct {
	mock.Mock
	OrderSaver
}

func (m *OrderSaverMock) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MetricsMock struct {
	mock.Mock
	Metrics
}

func (m *MetricsMock) OrdersExpiredAdd(n int64) {
	m.Called(n)
}

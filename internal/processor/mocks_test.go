package processor

import (
	"context"

	"pagsync/internal/envelope"
	"pagsync/internal/order"
	"pagsync/internal/transaction"

	"github.com/stretchr/testify/mock"
)

type FinderMock struct {
	mock.Mock
	transaction.RepositoryContract
}

func (m *FinderMock) Find(ctx context.Context, txnID string) (*transaction.Transaction, error) {
	args := m.Called(ctx, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

type OrderRepositoryMock struct {
	mock.Mock
	order.RepositoryContract
}

func (m *OrderRepositoryMock) Get(ctx context.Context, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderRepositoryMock) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type UpdaterMock struct {
	mock.Mock
	order.PaymentUpdaterContract
}

func (m *UpdaterMock) UpdatePaymentStatus(ctx context.Context, o *order.Order, pagbankOrderID string) error {
	args := m.Called(ctx, o, pagbankOrderID)
	return args.Error(0)
}

type ExpirerMock struct {
	mock.Mock
	Expirer
}

func (m *ExpirerMock) MaybeExpire(ctx context.Context, o *order.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
	Publisher
}

func (m *PublisherMock) Publish(ctx context.Context, env envelope.Envelope) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}

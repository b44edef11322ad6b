package handlers

import (
	"context"

	"pagsync/internal/health"
	"pagsync/internal/ingest"

	"github.com/stretchr/testify/mock"
)

type RouterMock struct {
	mock.Mock
	NotificationRouterContract
}

func (m *RouterMock) Route(ctx context.Context, raw []byte) ingest.Decision {
	args := m.Called(ctx, raw)
	return args.Get(0).(ingest.Decision)
}

type HealthMock struct {
	mock.Mock
	HealthContract
}

func (m *HealthMock) Check(ctx context.Context) health.Result {
	args := m.Called(ctx)
	return args.Get(0).(health.Result)
}

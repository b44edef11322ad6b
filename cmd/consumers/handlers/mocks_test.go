package handlers

import (
	"context"

	"pagsync/internal/envelope"
	"pagsync/internal/processor"

	"github.com/stretchr/testify/mock"
)

type ProcessorMock struct {
	mock.Mock
	ProcessorContract
}

func (m *ProcessorMock) Process(ctx context.Context, env envelope.Envelope) (processor.Outcome, error) {
	args := m.Called(ctx, env)
	return args.Get(0).(processor.Outcome), args.Error(1)
}

type RecoveryMock struct {
	mock.Mock
	RecoveryContract
}

func (m *RecoveryMock) SendToDLQ(ctx context.Context, topic, key, reason string, payload []byte) error {
	args := m.Called(ctx, topic, key, reason, payload)
	return args.Error(0)
}

type MetricsMock struct {
	mock.Mock
	MetricsContract
}

func (m *MetricsMock) ConsumedAdd(outcome string) {
	m.Called(outcome)
}

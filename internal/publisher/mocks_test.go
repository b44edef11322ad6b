package publisher

import (
	"context"

	"pagsync/kit/broker"

	"github.com/stretchr/testify/mock"
)

type ProducerMock struct {
	mock.Mock
	broker.Producer
}

func (m *ProducerMock) Produce(ctx context.Context, topic, key string, value []byte) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type MetricsMock struct {
	mock.Mock
	Metrics
}

func (m *MetricsMock) PublishedAdd(source, result string) {
	m.Called(source, result)
}

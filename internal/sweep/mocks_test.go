package sweep

import (
	"context"

	"pagsync/internal/envelope"

	"github.com/stretchr/testify/mock"
)

type PublisherMock struct {
	mock.Mock
	Publisher
}

func (m *PublisherMock) Publish(ctx context.Context, env envelope.Envelope) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}

type CandidatesMock struct {
	mock.Mock
}

func (m *CandidatesMock) ListPendingIDs(ctx context.Context, method string, limit int) ([]int64, error) {
	args := m.Called(ctx, method, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

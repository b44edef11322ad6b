package ingest

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

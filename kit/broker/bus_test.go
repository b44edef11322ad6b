package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_ProduceAndDrain(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name          string
		capacity      int
		produce       int
		handler       func(b *Bus, got *[]Message) Handler
		expectedErr   error
		expectedCount int
	}{
		{
			name:     "delivers in order",
			capacity: 4,
			produce:  3,
			handler: func(b *Bus, got *[]Message) Handler {
				return func(ctx context.Context, msg Message) error {
					*got = append(*got, msg)
					return nil
				}
			},
			expectedCount: 3,
		},
		{
			name:     "queue full",
			capacity: 1,
			produce:  2,
			handler: func(b *Bus, got *[]Message) Handler {
				return func(ctx context.Context, msg Message) error {
					*got = append(*got, msg)
					return nil
				}
			},
			expectedErr:   ErrQueueFull,
			expectedCount: 1,
		},
		{
			name:     "handler re-producing is delivered in the same drain",
			capacity: 4,
			produce:  1,
			handler: func(b *Bus, got *[]Message) Handler {
				return func(ctx context.Context, msg Message) error {
					*got = append(*got, msg)
					if len(*got) < 3 {
						return b.Produce(ctx, msg.Topic, msg.Key, msg.Value)
					}
					return nil
				}
			},
			expectedCount: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := New(tt.capacity)
			var got []Message
			b.Subscribe("topic", tt.handler(b, &got))

			var err error
			for i := 0; i < tt.produce; i++ {
				if pErr := b.Produce(ctx, "topic", "k", []byte("v")); pErr != nil {
					err = pErr
				}
			}
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}

			b.Drain(ctx)
			require.Len(t, got, tt.expectedCount)
			for _, m := range got {
				require.Equal(t, "topic", m.Topic)
				require.Equal(t, "k", m.Key)
				require.NotEmpty(t, m.ID)
			}
		})
	}
}

func TestBus_DeliverRecoversPanics(t *testing.T) {
	b := New(1)
	b.Subscribe("topic", func(ctx context.Context, msg Message) error { panic("boom") })
	b.Subscribe("topic", func(ctx context.Context, msg Message) error { return errors.New("nope") })

	errs := b.Deliver(context.Background(), Message{Topic: "topic"})
	require.Len(t, errs, 2)
}

func TestBus_ProduceAfterClose(t *testing.T) {
	b := New(1)
	b.Close()
	b.Close()

	err := b.Produce(context.Background(), "topic", "k", nil)
	require.ErrorIs(t, err, ErrClosed)
	require.Equal(t, 0, b.Drain(context.Background()))
}

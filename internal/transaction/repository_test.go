package transaction

import (
	"context"
	"testing"
	"time"

	"pagsync/kit/db"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransactionSQLRepository_Find(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var tests = []struct {
		name        string
		repo        func() *SQLRepository
		expected    *Transaction
		expectedErr error
	}{
		{
			name: "not found",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Return(db.ErrNotFound)
				c.On("QueryRow", ctx, qTransactionFind, []any{"TXN1", TypeOrder}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expectedErr: db.ErrNotFound,
		},
		{
			name: "client error",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				c.On("QueryRow", ctx, qTransactionFind, []any{"TXN1", TypeOrder}).Return((db.Row)(nil), db.ErrInternal)
				return NewSQLRepository(c)
			},
			expectedErr: db.ErrInternal,
		},
		{
			name: "found",
			repo: func() *SQLRepository {
				c := new(db.ClientMock)
				r := new(db.RowMock)
				r.On("Scan", mock.Anything).Run(func(args mock.Arguments) {
					dest := args.Get(0).([]any)
					*dest[0].(*int64) = 7
					*dest[1].(*string) = "TXN1"
					*dest[2].(*string) = TypeOrder
					*dest[3].(*int64) = 42
					*dest[4].(*int64) = 43
					*dest[5].(*time.Time) = createdAt
				}).Return(nil)
				c.On("QueryRow", ctx, qTransactionFind, []any{"TXN1", TypeOrder}).Return(r, nil)
				return NewSQLRepository(c)
			},
			expected: &Transaction{ID: 7, TxnID: "TXN1", Type: TypeOrder, OrderID: 42, PaymentID: 43, CreatedAt: createdAt},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.repo().Find(ctx, "TXN1")
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestTransactionInMemoryRepository_PicksMostRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	repo.Add(Transaction{TxnID: "TXN1", Type: TypeOrder, OrderID: 1, CreatedAt: base})
	repo.Add(Transaction{TxnID: "TXN1", Type: TypeOrder, OrderID: 2, CreatedAt: base.Add(time.Minute)})
	repo.Add(Transaction{TxnID: "TXN1", Type: "capture", OrderID: 3, CreatedAt: base.Add(time.Hour)})

	got, err := repo.Find(ctx, "TXN1")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.OrderID)

	got, err = repo.FindByOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "TXN1", got.TxnID)

	_, err = repo.Find(ctx, "TXN2")
	require.ErrorIs(t, err, db.ErrNotFound)

	_, err = repo.FindByOrder(ctx, 3)
	require.ErrorIs(t, err, db.ErrNotFound)
}

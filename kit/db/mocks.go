package db

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ClientMock struct {
	mock.Mock
	TxClient
}

func (m *ClientMock) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	ret := m.Called(ctx, query, args)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *ClientMock) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(Row), ret.Error(1)
}

func (m *ClientMock) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(Rows), ret.Error(1)
}

// InTx hands the mock itself to fn so statement expectations registered on
// the mock cover both transactional and plain calls.
func (m *ClientMock) InTx(ctx context.Context, fn func(tx Client) error) error {
	ret := m.Called(ctx)
	if err := ret.Error(0); err != nil {
		return err
	}
	return fn(m)
}

type RowMock struct {
	mock.Mock
	Row
}

func (m *RowMock) Scan(dest ...any) error {
	ret := m.Called(dest)
	return ret.Error(0)
}

// RowsMock iterates over fixed value tuples, assigning them through Scan the
// same way a driver would.
type RowsMock struct {
	Values [][]any
	ScanFn func(vals []any, dest ...any) error
	Error  error
	pos    int
	Closed bool
}

func (r *RowsMock) Next() bool {
	if r.pos >= len(r.Values) {
		return false
	}
	r.pos++
	return true
}

func (r *RowsMock) Scan(dest ...any) error {
	return r.ScanFn(r.Values[r.pos-1], dest...)
}

func (r *RowsMock) Err() error { return r.Error }

func (r *RowsMock) Close() { r.Closed = true }

package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTx struct {
	mock.Mock
}

func (m *mockTx) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return nil, nil
}
func (m *mockTx) QueryRow(ctx context.Context, query string, args ...any) Row { return nil }
func (m *mockTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return nil, nil
}
func (m *mockTx) Commit(ctx context.Context) error   { return m.Called().Error(0) }
func (m *mockTx) Rollback(ctx context.Context) error { return m.Called().Error(0) }

type mockConn struct {
	mockTx
	tx Transaction
}

func (c *mockConn) BeginTx(ctx context.Context) (Transaction, error) {
	c.Called()
	return c.tx, nil
}
func (c *mockConn) Close() error                   { return nil }
func (c *mockConn) Ping(ctx context.Context) error { return nil }
func (c *mockConn) Driver() Driver                 { return DriverSQLite }
func (c *mockConn) StdDB() (*sql.DB, func() error, error) {
	return nil, func() error { return nil }, nil
}

func TestUnitOfWork_CommitsOutermostOnly(t *testing.T) {
	tx := new(mockTx)
	tx.On("Commit").Return(nil).Once()
	conn := &mockConn{tx: tx}
	conn.On("BeginTx").Once()
	uow := NewUnitOfWork(conn)

	outer, err := uow.Begin(context.Background())
	require.NoError(t, err)
	inner, err := uow.Begin(outer)
	require.NoError(t, err)

	assert.Same(t, tx, TxFromContext(inner))
	assert.Same(t, tx, ExecutorFromContext(inner, conn))

	require.NoError(t, uow.Commit(inner))
	require.NoError(t, uow.Commit(outer))

	tx.AssertExpectations(t)
	conn.AssertExpectations(t)
}

func TestUnitOfWork_RollbackWithoutTransaction(t *testing.T) {
	uow := NewUnitOfWork(&mockConn{})

	assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoTransaction)
	assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoTransaction)
}

func TestExecutorFromContext_FallsBackToConnection(t *testing.T) {
	conn := &mockConn{}
	assert.Same(t, conn, ExecutorFromContext(context.Background(), conn))
}

package outbox_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) (*outbox.SQLiteRepository, database.Connection) {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "outbox.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Up(ctx, conn))
	return outbox.NewSQLiteRepository(conn), conn
}

func TestSQLiteRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	first := seed(t, repo, "organization.provisioned", epoch)
	second := seed(t, repo, "onboarding.completed", epoch.Add(time.Second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	pending, err := repo.Pending(ctx, epoch.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.EventID, pending[0].EventID)
	assert.Equal(t, epoch, pending[0].CreatedAt)
	assert.JSONEq(t, `{}`, string(pending[0].Payload))

	require.NoError(t, repo.MarkFailed(ctx, first.ID, "broker down", epoch.Add(time.Hour)))
	require.NoError(t, repo.MarkPublished(ctx, second.ID, epoch.Add(2*time.Second)))

	pending, err = repo.Pending(ctx, epoch.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "retry not yet due and the other is published")

	pending, err = repo.Pending(ctx, epoch.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	assert.Equal(t, "broker down", pending[0].LastError)

	require.NoError(t, repo.MarkDead(ctx, first.ID, "gave up", epoch.Add(3*time.Hour)))
	pending, err = repo.Pending(ctx, epoch.Add(4*time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	purged, err := repo.Purge(ctx, epoch.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestSQLiteRepository_SaveJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	repo, conn := newSQLiteRepo(t)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	msg := &outbox.Message{
		EventID:       uuid.New(),
		AggregateType: "Organization",
		AggregateID:   uuid.New(),
		RoutingKey:    "organization.provisioned",
		Payload:       []byte(`{}`),
		CreatedAt:     epoch,
	}
	require.NoError(t, repo.Save(txCtx, msg))
	require.NoError(t, uow.Rollback(txCtx))

	pending, err := repo.Pending(ctx, epoch.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}


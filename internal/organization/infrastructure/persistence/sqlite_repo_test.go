package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	"github.com/felixgeelhaar/onramp/internal/organization/infrastructure/persistence"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 2, 15, 30, 0, 0, time.UTC)

func openDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "org.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Up(ctx, conn))
	return conn
}

func mustOrg(t *testing.T, name, slug string, owner uuid.UUID, at time.Time) *domain.Organization {
	t.Helper()
	org, err := domain.NewOrganization(name, slug, owner, "Owner", "", 48*time.Hour, at)
	require.NoError(t, err)
	return org
}

func TestSQLiteOrganizationRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLiteOrganizationRepository(openDB(t))
	owner := uuid.New()
	org := mustOrg(t, "Northlight", "northlight", owner, now)

	require.NoError(t, repo.Create(ctx, org))

	got, err := repo.FindByID(ctx, org.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Northlight", got.Name())
	assert.Equal(t, owner, got.OwnerUserID())
	assert.Equal(t, domain.SubscriptionTrialing, got.SubscriptionStatus())
	require.NotNil(t, got.TrialEndsAt())
	assert.Equal(t, now.Add(48*time.Hour), *got.TrialEndsAt())
	assert.Equal(t, now, got.CreatedAt())

	byOwner, err := repo.FindByOwner(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, byOwner)
	assert.Equal(t, org.ID(), byOwner.ID())

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	taken, err := repo.SlugExists(ctx, "northlight")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.SlugExists(ctx, "other")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestSQLiteOrganizationRepository_UniqueViolations(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLiteOrganizationRepository(openDB(t))
	owner := uuid.New()
	require.NoError(t, repo.Create(ctx, mustOrg(t, "Acme", "acme", owner, now)))

	err := repo.Create(ctx, mustOrg(t, "Acme Two", "acme-two", owner, now))
	assert.ErrorIs(t, err, domain.ErrOwnerHasOrganization)

	err = repo.Create(ctx, mustOrg(t, "Acme", "acme", uuid.New(), now))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestSQLiteOrganizationRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLiteOrganizationRepository(openDB(t))
	org := mustOrg(t, "Acme", "acme", uuid.New(), now)
	require.NoError(t, repo.Create(ctx, org))

	require.NoError(t, org.ExtendTrial(2, uuid.New(), now.Add(time.Hour)))
	require.NoError(t, org.AttachPaymentCustomer("cus_42", now.Add(time.Hour)))
	require.NoError(t, repo.Update(ctx, org))

	got, err := repo.FindByID(ctx, org.ID())
	require.NoError(t, err)
	assert.Equal(t, "cus_42", got.PaymentCustomerRef())
	assert.Equal(t, now.Add(48*time.Hour).AddDate(0, 0, 2), *got.TrialEndsAt())

	ghost := mustOrg(t, "Ghost", "ghost", uuid.New(), now)
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
}

func TestSQLiteOrganizationRepository_ListTrialEndingBetween(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLiteOrganizationRepository(openDB(t))

	inside := mustOrg(t, "Inside", "inside", uuid.New(), now)
	outside := mustOrg(t, "Outside", "outside", uuid.New(), now.Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, inside))
	require.NoError(t, repo.Create(ctx, outside))

	from := now.Add(48 * time.Hour).Truncate(24 * time.Hour)
	got, err := repo.ListTrialEndingBetween(ctx, from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID(), got[0].ID())
}

func TestSQLiteOrganizationRepository_Members(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLiteOrganizationRepository(openDB(t))
	org := mustOrg(t, "Acme", "acme", uuid.New(), now)
	require.NoError(t, repo.Create(ctx, org))

	owner := domain.NewOwner(org, "Ava", now)
	require.NoError(t, repo.Add(ctx, owner))
	require.NoError(t, repo.Add(ctx, owner))

	members, err := repo.ListByOrganization(ctx, org.ID())
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, domain.RoleOwner, members[0].Role)
	assert.Equal(t, "Ava", members[0].DisplayName)
	assert.Equal(t, now, members[0].JoinedAt)
}

func TestSQLiteRecordRepository(t *testing.T) {
	ctx := context.Background()
	conn := openDB(t)
	orgs := persistence.NewSQLiteOrganizationRepository(conn)
	records := persistence.NewSQLiteRecordRepository(conn)
	org := mustOrg(t, "Acme", "acme", uuid.New(), now)
	require.NoError(t, orgs.Create(ctx, org))

	none, err := records.FindTrialSubscription(ctx, org.ID())
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, records.CreateTrialSubscription(ctx, domain.NewTrialSubscription(org, "onboarding", now)))
	sub, err := records.FindTrialSubscription(ctx, org.ID())
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "onboarding", sub.Metadata["created_via"])
	assert.Equal(t, now.Add(48*time.Hour), sub.TrialEnd)

	require.NoError(t, records.AppendAudit(ctx, domain.NewAuditEntry(org, org.OwnerUserID(), domain.AuditActionCreate, map[string]string{"source": "onboarding"}, now)))
	require.NoError(t, records.AppendAudit(ctx, domain.NewAuditEntry(org, uuid.Nil, domain.AuditActionExtendTrial, nil, now.Add(time.Minute))))

	entries, err := records.ListAudit(ctx, org.ID())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditActionCreate, entries[0].Action)
	assert.Equal(t, org.OwnerUserID(), entries[0].ActorUserID)
	assert.Equal(t, "onboarding", entries[0].Metadata["source"])
	assert.Equal(t, uuid.Nil, entries[1].ActorUserID)
	assert.Equal(t, org.ID(), entries[1].EntityID)
}

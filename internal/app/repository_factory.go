package app

import (
	"fmt"

	onboardingDomain "github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	onboardingPersistence "github.com/felixgeelhaar/onramp/internal/onboarding/infrastructure/persistence"
	orgDomain "github.com/felixgeelhaar/onramp/internal/organization/domain"
	orgPersistence "github.com/felixgeelhaar/onramp/internal/organization/infrastructure/persistence"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/outbox"
	trialDomain "github.com/felixgeelhaar/onramp/internal/trial/domain"
	trialPersistence "github.com/felixgeelhaar/onramp/internal/trial/infrastructure/persistence"
)

// OrganizationStore persists organizations and their members.
type OrganizationStore interface {
	orgDomain.Repository
	orgDomain.MemberRepository
}

// OnboardingStore persists onboarding progress and the settings snapshot.
type OnboardingStore interface {
	onboardingDomain.ProgressRepository
	onboardingDomain.SettingsRepository
}

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// OrganizationRepository creates an organization repository for the configured driver.
func (f *RepositoryFactory) OrganizationRepository() (OrganizationStore, error) {
	switch f.driver {
	case database.DriverPostgres:
		return orgPersistence.NewPostgresOrganizationRepository(f.conn), nil
	case database.DriverSQLite:
		return orgPersistence.NewSQLiteOrganizationRepository(f.conn), nil
	default:
		return nil, f.unsupported()
	}
}

// RecordRepository creates the trial subscription and audit repository.
func (f *RepositoryFactory) RecordRepository() (orgDomain.RecordRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return orgPersistence.NewPostgresRecordRepository(f.conn), nil
	case database.DriverSQLite:
		return orgPersistence.NewSQLiteRecordRepository(f.conn), nil
	default:
		return nil, f.unsupported()
	}
}

// OnboardingRepository creates the progress and settings repository.
func (f *RepositoryFactory) OnboardingRepository() (OnboardingStore, error) {
	switch f.driver {
	case database.DriverPostgres:
		return onboardingPersistence.NewPostgresRepository(f.conn), nil
	case database.DriverSQLite:
		return onboardingPersistence.NewSQLiteRepository(f.conn), nil
	default:
		return nil, f.unsupported()
	}
}

// ChecklistRepository creates a checklist repository for the configured driver.
func (f *RepositoryFactory) ChecklistRepository() (onboardingDomain.ChecklistRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return onboardingPersistence.NewPostgresChecklistRepository(f.conn), nil
	case database.DriverSQLite:
		return onboardingPersistence.NewSQLiteChecklistRepository(f.conn), nil
	default:
		return nil, f.unsupported()
	}
}

// ReminderRepository creates the trial reminder dedupe repository.
func (f *RepositoryFactory) ReminderRepository() (trialDomain.ReminderRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return trialPersistence.NewPostgresReminderRepository(f.conn), nil
	case database.DriverSQLite:
		return trialPersistence.NewSQLiteReminderRepository(f.conn), nil
	default:
		return nil, f.unsupported()
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return outbox.NewPostgresRepository(f.conn), nil
	case database.DriverSQLite:
		return outbox.NewSQLiteRepository(f.conn), nil
	default:
		return nil, f.unsupported()
	}
}

func (f *RepositoryFactory) unsupported() error {
	return fmt.Errorf("unsupported driver: %s", f.driver)
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}

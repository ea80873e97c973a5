package cli

import (
	"context"
	"errors"
	"fmt"

	internalApp "github.com/felixgeelhaar/onramp/internal/app"
	onboardingApplication "github.com/felixgeelhaar/onramp/internal/onboarding/application"
	onboardingDomain "github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	orgApplication "github.com/felixgeelhaar/onramp/internal/organization/application"
	trialApplication "github.com/felixgeelhaar/onramp/internal/trial/application"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ErrNotInitialized is returned by commands that need the database when
// the container could not be built.
var ErrNotInitialized = errors.New("onramp is not initialized: check DATABASE_URL or SQLITE_PATH")

// ErrUserRequired is returned when no acting user was given.
var ErrUserRequired = errors.New("a user id is required: pass --user")

// App holds the CLI application dependencies.
type App struct {
	Saga        *onboardingApplication.Saga
	Provisioner *orgApplication.Provisioner
	Trial       *trialApplication.Service
	Gate        *trialApplication.Gate
	Sweeper     *trialApplication.ReminderSweeper

	Settings onboardingDomain.SettingsRepository
	Health   *observability.HealthRegistry

	// CurrentUserID is used when --user is not given.
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided services.
func NewApp(
	saga *onboardingApplication.Saga,
	provisioner *orgApplication.Provisioner,
	trial *trialApplication.Service,
	gate *trialApplication.Gate,
	sweeper *trialApplication.ReminderSweeper,
) *App {
	return &App{
		Saga:        saga,
		Provisioner: provisioner,
		Trial:       trial,
		Gate:        gate,
		Sweeper:     sweeper,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// SetSettings updates the settings snapshot repository.
func (a *App) SetSettings(repo onboardingDomain.SettingsRepository) {
	a.Settings = repo
}

// SetHealth updates the health registry.
func (a *App) SetHealth(h *observability.HealthRegistry) {
	a.Health = h
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}

// UserID resolves the acting user from --user or the app default.
func UserID(cmd *cobra.Command) (uuid.UUID, error) {
	if userFlag != "" {
		id, err := uuid.Parse(userFlag)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid user id: %w", err)
		}
		return id, nil
	}
	if app != nil && app.CurrentUserID != uuid.Nil {
		return app.CurrentUserID, nil
	}
	return uuid.Nil, ErrUserRequired
}

// OrganizationID parses args[0] when present, otherwise it resolves the
// organization owned by the acting user.
func OrganizationID(ctx context.Context, cmd *cobra.Command, args []string) (uuid.UUID, error) {
	if len(args) > 0 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid organization id: %w", err)
		}
		return id, nil
	}

	a, err := RequireApp()
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := UserID(cmd)
	if err != nil {
		return uuid.Nil, errors.New("pass an organization id or --user")
	}
	org, err := a.Provisioner.FindByOwner(ctx, userID)
	if err != nil {
		return uuid.Nil, Friendly(cmd, err)
	}
	if org == nil {
		return uuid.Nil, fmt.Errorf("user %s has no organization yet", userID)
	}
	return org.ID(), nil
}

// AppFromContainer builds the CLI application from a wired container.
func AppFromContainer(c *internalApp.Container) *App {
	a := NewApp(c.Saga, c.Provisioner, c.Trial, c.Gate, c.Sweeper)
	a.SetSettings(c.Onboarding)
	a.SetHealth(c.Health)
	return a
}

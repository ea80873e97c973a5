// Package app wires onramp's repositories, services and infrastructure
// from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	onboardingApplication "github.com/felixgeelhaar/onramp/internal/onboarding/application"
	onboardingDomain "github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	orgApplication "github.com/felixgeelhaar/onramp/internal/organization/application"
	orgDomain "github.com/felixgeelhaar/onramp/internal/organization/domain"
	paymentApplication "github.com/felixgeelhaar/onramp/internal/payment/application"
	paymentDomain "github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/felixgeelhaar/onramp/internal/payment/infrastructure/local"
	"github.com/felixgeelhaar/onramp/internal/payment/infrastructure/stripe"
	sharedApplication "github.com/felixgeelhaar/onramp/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/resilience"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/security"
	trialApplication "github.com/felixgeelhaar/onramp/internal/trial/application"
	trialDomain "github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/felixgeelhaar/onramp/internal/trial/infrastructure/session"
	"github.com/felixgeelhaar/onramp/pkg/config"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clock   sharedDomain.Clock
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories (use interfaces for driver-agnostic access)
	Organizations OrganizationStore
	Records       orgDomain.RecordRepository
	Onboarding    OnboardingStore
	Checklists    onboardingDomain.ChecklistRepository
	Reminders     trialDomain.ReminderRepository
	OutboxRepo    outbox.Repository
	Dismissals    trialDomain.DismissalStore

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Payments
	PaymentProvider paymentDomain.Provider
	PaymentPolicy   *resilience.Policy

	// Services
	Provisioner *orgApplication.Provisioner
	Payments    *paymentApplication.Coordinator
	Saga        *onboardingApplication.Saga
	Trial       *trialApplication.Service
	Gate        *trialApplication.Gate
	Sweeper     *trialApplication.ReminderSweeper
}

// Option overrides a container default before wiring.
type Option func(*Container)

// WithClock replaces the system clock.
func WithClock(clock sharedDomain.Clock) Option {
	return func(c *Container) { c.Clock = clock }
}

// WithPaymentProvider replaces the configured payment provider.
func WithPaymentProvider(p paymentDomain.Provider) Option {
	return func(c *Container) { c.PaymentProvider = p }
}

// WithMetrics replaces the in-memory metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(c *Container) { c.Metrics = m }
}

// NewContainer connects to the configured database (PostgreSQL, or SQLite in
// local mode), applies migrations and wires every service.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if cfg.LocalMode {
		return NewLocalContainer(ctx, cfg, logger, opts...)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver: database.DriverPostgres,
		URL:    cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database")

	c, err := newContainer(ctx, cfg, logger, conn, opts)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite.
// This provides zero-config operation without requiring PostgreSQL, Redis, or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = database.SQLitePathFromURL(cfg.DatabaseURL)
	}
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	path, err := security.ValidateDatabasePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid SQLite path: %w", err)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	logger.Debug("opened SQLite database", "path", path)

	c, err := newContainer(ctx, cfg, logger, conn, opts)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func newContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, conn database.Connection, opts []Option) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Clock:    sharedDomain.SystemClock{},
		Metrics:  observability.NewInMemoryMetrics(),
		Health:   observability.NewHealthRegistry(),
		DBConn:   conn,
		DBDriver: conn.Driver(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := migrations.Up(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Health.Register("database", observability.PingChecker(conn.Ping, observability.HealthStatusUnhealthy))

	if err := c.initRepositories(); err != nil {
		return nil, err
	}
	if err := c.initDismissals(ctx); err != nil {
		return nil, err
	}
	c.initPayments()
	c.initServices()
	return c, nil
}

func (c *Container) initRepositories() error {
	factory := NewRepositoryFactory(c.DBConn)
	var err error
	if c.Organizations, err = factory.OrganizationRepository(); err != nil {
		return err
	}
	if c.Records, err = factory.RecordRepository(); err != nil {
		return err
	}
	if c.Onboarding, err = factory.OnboardingRepository(); err != nil {
		return err
	}
	if c.Checklists, err = factory.ChecklistRepository(); err != nil {
		return err
	}
	if c.Reminders, err = factory.ReminderRepository(); err != nil {
		return err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return err
	}
	c.UnitOfWork = database.NewUnitOfWork(c.DBConn)
	return nil
}

// initDismissals uses Redis when configured. Outside development an
// unreachable Redis is fatal; in development dismissals fall back to memory.
func (c *Container) initDismissals(ctx context.Context) error {
	ttl := c.Config.BannerSessionTTL
	if c.Config.RedisURL == "" {
		c.Dismissals = session.NewMemoryStore(ttl, c.Clock)
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, banner dismissals will use in-memory fallback", "error", err)
		c.Dismissals = session.NewMemoryStore(ttl, c.Clock)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, banner dismissals will use in-memory fallback", "error", err)
		c.Dismissals = session.NewMemoryStore(ttl, c.Clock)
		return nil
	}

	c.RedisClient = client
	c.Dismissals = session.NewRedisStore(client, ttl)
	c.Health.Register("redis", observability.PingChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}, observability.HealthStatusDegraded))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initPayments() {
	if c.PaymentProvider == nil {
		if c.Config.StripeAPIKey != "" {
			c.PaymentProvider = stripe.NewProvider(stripe.NewHandle(c.Config.StripeAPIKey))
		} else {
			c.Logger.Debug("STRIPE_API_KEY not set, using local payment simulator")
			c.PaymentProvider = local.NewSimulator()
		}
	}

	c.PaymentPolicy = resilience.NewPolicy(resilience.Config{
		Name:             "payment-provider",
		Timeout:          c.Config.PaymentTimeout,
		MaxTries:         convert.IntToUintClamped(c.Config.PaymentMaxRetries),
		FailureThreshold: convert.IntToUint32Clamped(c.Config.PaymentBreakerThreshold),
	}, c.Logger)
	c.Payments = paymentApplication.NewCoordinator(c.PaymentProvider, c.PaymentPolicy, c.Clock, c.Metrics, c.Logger)
	c.Health.Register("payment_provider", c.Payments.HealthCheck)
}

func (c *Container) initServices() {
	c.Provisioner = orgApplication.NewProvisioner(
		c.Organizations, c.Organizations, c.Records, c.OutboxRepo, c.UnitOfWork,
		orgApplication.Config{TrialDuration: c.Config.TrialDuration},
		c.Clock, c.Metrics, c.Logger,
	)

	c.Saga = onboardingApplication.NewSaga(onboardingApplication.Dependencies{
		Progress:    c.Onboarding,
		Checklists:  c.Checklists,
		Settings:    c.Onboarding,
		Provisioner: c.Provisioner,
		Payments:    c.Payments,
		Outbox:      c.OutboxRepo,
		UnitOfWork:  c.UnitOfWork,
		Clock:       c.Clock,
		Metrics:     c.Metrics,
		Logger:      c.Logger,
	})

	c.Trial = trialApplication.NewService(c.Organizations, c.Dismissals, trialDomain.NewClock(c.Config.TrialDuration), c.Clock, c.Logger)
	c.Gate = trialApplication.NewGate(c.Trial, c.Metrics, c.Logger)
	c.Sweeper = trialApplication.NewReminderSweeper(
		c.Organizations, c.Reminders, c.OutboxRepo, c.UnitOfWork,
		c.Config.TrialReminderDays, c.Clock, c.Metrics, c.Logger,
	)
}

// NewOutboxProcessor builds a processor that drains the outbox into publisher.
func (c *Container) NewOutboxProcessor(publisher eventbus.Publisher) *outbox.Processor {
	cfg := outbox.DefaultProcessorConfig()
	if c.Config.OutboxPollInterval > 0 {
		cfg.PollInterval = c.Config.OutboxPollInterval
	}
	if c.Config.OutboxBatchSize > 0 {
		cfg.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxRetries > 0 {
		cfg.MaxRetries = c.Config.OutboxMaxRetries
	}
	if retention := c.Config.OutboxRetention(); retention > 0 {
		cfg.Retention = retention
	}
	if c.Config.OutboxCleanupInterval > 0 {
		cfg.PurgeInterval = c.Config.OutboxCleanupInterval
	}
	return outbox.NewProcessor(c.OutboxRepo, publisher, cfg, c.Clock, c.Metrics, c.Logger)
}

// NewPublisher connects to RabbitMQ when RABBITMQ_URL is set. Without a
// URL, local mode gets an in-process bus that logs every lifecycle event
// and other modes get a noop publisher. In development an unreachable
// broker also falls back to noop.
func NewPublisher(cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, error) {
	if cfg.RabbitMQURL == "" {
		if cfg.LocalMode {
			logger.Info("RABBITMQ_URL not set, delivering events in process")
			return newLocalBus(logger), nil
		}
		logger.Info("RABBITMQ_URL not set, using noop publisher")
		return eventbus.NewNoopPublisher(logger), nil
	}
	publisher, err := eventbus.NewRabbitMQPublisher(eventbus.RabbitMQConfig{
		URL:   cfg.RabbitMQURL,
		AppID: "onramp",
	}, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			return eventbus.NewNoopPublisher(logger), nil
		}
		return nil, err
	}
	return publisher, nil
}

func newLocalBus(logger *slog.Logger) *eventbus.InProcessBus {
	bus := eventbus.NewInProcessBus(logger)
	bus.Subscribe("#", eventbus.HandlerFunc(func(ctx context.Context, e *eventbus.Event) error {
		logger.InfoContext(ctx, "lifecycle event",
			"routing_key", e.RoutingKey,
			"aggregate_id", e.AggregateID,
			"event_id", e.EventID,
		)
		return nil
	}))
	return bus
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBDriver)
		}
	}
}

package testfixtures

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/persistence"
)

// Admin credentials accepted by services built with a ServiceFactory.
const (
	AdminUsername = "admin"
	AdminPassword = "correct horse battery staple"
	SessionSecret = "test-session-secret"
)

// CheapArgon2idParams keeps password hashing fast in tests.
var CheapArgon2idParams = application.Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

// ServiceFactory assists tests with constructing application services using
// a shared clock and deterministic session ids.
type ServiceFactory struct {
	Clock      *Clock
	SessionTTL time.Duration
	Logger     *slog.Logger

	sessions atomic.Uint64
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:      NewClock(time.Time{}),
		SessionTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithLogger routes service logs to logger.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Services bundles every application service over one pair of stores.
type Services struct {
	Classes   *application.ClassService
	Events    *application.EventService
	Dashboard *application.DashboardService
	Transfer  *application.TransferService
	Auth      *application.AuthService
}

// NewServices builds all services over classes and events. notifier and
// observer may be nil.
func (f *ServiceFactory) NewServices(tb testing.TB, classes persistence.ClassRepository, events persistence.EventRepository, notifier application.ChangeNotifier, observer application.ImportObserver) Services {
	tb.Helper()
	return Services{
		Classes:   application.NewClassServiceWithLogger(classes, notifier, f.Logger),
		Events:    application.NewEventServiceWithLogger(events, notifier, f.Logger),
		Dashboard: application.NewDashboardServiceWithLogger(classes, events, f.Clock.NowFunc(), f.Logger),
		Transfer:  application.NewTransferServiceWithLogger(classes, events, notifier, observer, f.Logger),
		Auth:      f.NewAuthService(tb),
	}
}

// NewAuthService builds an auth service for AdminUsername/AdminPassword.
func (f *ServiceFactory) NewAuthService(tb testing.TB) *application.AuthService {
	tb.Helper()
	hash, err := application.CreatePasswordHash(AdminPassword, CheapArgon2idParams)
	if err != nil {
		tb.Fatalf("failed to hash admin password: %v", err)
	}
	return application.NewAuthServiceWithLogger(
		application.AdminAccount{Username: AdminUsername, PasswordHash: hash},
		[]byte(SessionSecret),
		nil,
		f.nextSessionID,
		f.Clock.NowFunc(),
		f.SessionTTL,
		f.Logger,
	)
}

func (f *ServiceFactory) nextSessionID() string {
	return fmt.Sprintf("session-%d", f.sessions.Add(1))
}

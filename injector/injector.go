//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/safatanc/gsalt-paylink/internal/app/deliveries"
	"github.com/safatanc/gsalt-paylink/internal/app/middlewares"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/repositories"
	"github.com/safatanc/gsalt-paylink/internal/app/services"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewRedisKeyPrefix,
	infrastructures.NewValidator,
	infrastructures.NewPrometheusRegistry,
	infrastructures.NewPrometheusGatherer,
	infrastructures.NewMetrics,
	infrastructures.NewMarketplaceConfig,
	infrastructures.NewMarketplaceClient,
	infrastructures.NewPaymentLinkConfig,
	infrastructures.NewRateLimitConfig,
	pkg.NewSystemClock,
	pkg.NewLifecycle,
	wire.Bind(new(pkg.Clock), new(*pkg.SystemClock)),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Repository providers
var repositorySet = wire.NewSet(
	repositories.NewGormPaymentLinkRepository,
	wire.Bind(new(repositories.PaymentLinkRepository), new(*repositories.GormPaymentLinkRepository)),
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewAuditService,
	services.NewPaymentLinkService,
	services.NewExpiryWatcher,
	services.NewMarketplaceGate,
	services.NewRedisPaymentCache,
	wire.Bind(new(services.PaymentCache), new(*services.RedisPaymentCache)),
	services.NewMarketplaceService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewPaymentLinkHandler,
	deliveries.NewMarketplaceHandler,
	deliveries.NewMetricsHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}

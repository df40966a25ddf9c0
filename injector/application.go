package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/gsalt-paylink/internal/app/deliveries"
	"github.com/safatanc/gsalt-paylink/internal/app/middlewares"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/services"
)

// Application represents the main application container for gsalt-paylink
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	PaymentLinkHandler  *deliveries.PaymentLinkHandler
	MarketplaceHandler  *deliveries.MarketplaceHandler
	MetricsHandler      *deliveries.MetricsHandler
	RateLimitMiddleware *middlewares.RateLimitMiddleware
	ExpiryWatcher       *services.ExpiryWatcher
	Lifecycle           *pkg.Lifecycle
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	// health and metrics stay reachable for probes and scrapers
	app.HealthHandler.RegisterRoutes(router)
	app.MetricsHandler.RegisterRoutes(router)

	router.Use(app.RateLimitMiddleware.LimitByIP())

	app.PaymentLinkHandler.RegisterRoutes(router)
	app.MarketplaceHandler.RegisterRoutes(router)
}

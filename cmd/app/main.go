package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/safatanc/gsalt-paylink/injector"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config := infrastructures.LoadConfig()
	infrastructures.ConfigureLogger(config.LOG_LEVEL)

	app, err := injector.InitializeApplication()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	// no WriteTimeout, countdown streams stay open for the whole payment window
	router := fiber.New(fiber.Config{
		ReadTimeout:  time.Second * 60,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return pkg.ErrorResponse(c, err)
		},
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:        300,
	}))

	app.RegisterRoutes(router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return router.Listen(":" + config.APP_PORT)
	})

	g.Go(func() error {
		return app.ExpiryWatcher.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")
		// streams end first, otherwise the server waits on them until the timeout
		app.Lifecycle.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

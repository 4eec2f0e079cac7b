// Package main provides the scriptflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/voxline/scriptflow/pkg/eventbus"
	"github.com/voxline/scriptflow/pkg/flow"
	"github.com/voxline/scriptflow/pkg/persistence"
	"github.com/voxline/scriptflow/pkg/script"
	"github.com/voxline/scriptflow/pkg/services"
	"github.com/voxline/scriptflow/pkg/web"
)

type API struct {
	logger   *slog.Logger
	loader   *script.Loader
	registry *script.Registry
	manager  *flow.Manager
	store    persistence.Persistence
	eventBus eventbus.EventBus
	validate *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	loader *script.Loader,
	registry *script.Registry,
	manager *flow.Manager,
	store persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:   logger,
		loader:   loader,
		registry: registry,
		manager:  manager,
		store:    store,
		eventBus: eventBus,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	scriptService := services.NewScript(a.loader, a.registry, a.store, a.logger)
	sessionService := services.NewSession(a.manager, a.store, a.logger)

	handlers := web.NewAPIHandlers(scriptService, sessionService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Scriptflow API")
	})

	handlers.RegisterRoutes(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/observability"
)

// ServerConfig bundles everything needed to build the fiber app.
type ServerConfig struct {
	AppName        string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	Routes         RouteConfig
}

// NewServer builds the fiber app with middlewares and routes attached.
func NewServer(cfg ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          NewErrorHandler(cfg.Logger),
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout)
	cfg.Routes.Metrics = cfg.Metrics
	RegisterRoutes(app, cfg.Routes)
	return app
}

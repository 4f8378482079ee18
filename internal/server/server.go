package server

import (
	"context"

	"venture-ai-be/internal/bootstrap"
	"venture-ai-be/internal/config"
	"venture-ai-be/internal/pkg/serverutils"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             10 * 1024 * 1024, // 10MB
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	prom := fiberprometheus.New("venture_ai")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	// Rendered memos from the local artifact store
	app.Static("/uploads", cfg.Artifact.Dir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
	})

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("SERVER", "Server is running", map[string]interface{}{
		"url": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	var auth []fiber.Handler
	if cfg.App.AuthEnabled {
		auth = append(auth, serverutils.JwtMiddleware(cfg.App.JwtSecret))
	}

	c.SessionController.RegisterRoutes(api, auth...)
	c.AnalysisController.RegisterRoutes(api, auth...)
	c.JobController.RegisterRoutes(api, auth...)
}

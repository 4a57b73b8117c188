package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/dvor-map/internal/config"
	"github.com/dvor-map/internal/delivery/http/handler"
	"github.com/dvor-map/internal/delivery/http/middleware"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	mapHandler   *handler.MapHandler
	panelHandler *handler.PanelHandler
	helpHandler  *handler.HelpHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	mapHandler *handler.MapHandler,
	panelHandler *handler.PanelHandler,
	helpHandler *handler.HelpHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Dvor Map",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:          app,
		config:       cfg,
		logger:       logger,
		mapHandler:   mapHandler,
		panelHandler: panelHandler,
		helpHandler:  helpHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Map routes
	mapGroup := api.Group("/map")
	mapGroup.Get("/state", s.mapHandler.State)
	mapGroup.Post("/viewport", s.mapHandler.Viewport)
	mapGroup.Post("/filters", s.mapHandler.Filters)
	mapGroup.Post("/geolocate", s.mapHandler.Geolocate)
	mapGroup.Post("/click/building/:id", s.mapHandler.ClickBuilding)
	mapGroup.Post("/click/primary", s.mapHandler.ClickPrimary)
	mapGroup.Post("/click/secondary", s.mapHandler.ClickSecondary)
	mapGroup.Post("/place/start", s.mapHandler.PlaceStart)
	mapGroup.Post("/place/address", s.mapHandler.PlaceAddress)
	mapGroup.Post("/place/confirm", s.mapHandler.PlaceConfirm)
	mapGroup.Post("/place/cancel", s.mapHandler.PlaceCancel)
	mapGroup.Post("/relocate/start", s.mapHandler.RelocateStart)
	mapGroup.Post("/relocate/confirm", s.mapHandler.RelocateConfirm)
	mapGroup.Post("/relocate/cancel", s.mapHandler.RelocateCancel)
	mapGroup.Post("/select/:id", s.mapHandler.Select)

	// Side panel routes
	panel := api.Group("/panel")
	panel.Get("/", s.panelHandler.Get)
	panel.Post("/close", s.panelHandler.Close)
	panel.Post("/reports", s.panelHandler.SubmitReport)
	panel.Post("/reports/:id/confirm-problem", s.panelHandler.ConfirmProblem)
	panel.Post("/reports/:id/confirm-resolved", s.panelHandler.ConfirmResolved)
	panel.Post("/positive", s.panelHandler.ConfirmPositive)

	// Help board routes
	help := api.Group("/help")
	help.Get("/", s.helpHandler.List)
	help.Post("/", s.helpHandler.Create)
	help.Post("/:id/close", s.helpHandler.Close)
	help.Post("/:id/respond", s.helpHandler.Respond)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}

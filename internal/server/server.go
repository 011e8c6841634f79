// Package server exposes one loaded dataset as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"time"

	"fjacquet/bill-analyzer/internal/categorizer"
	"fjacquet/bill-analyzer/internal/insights"
	"fjacquet/bill-analyzer/internal/loader"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/narrator"
	"fjacquet/bill-analyzer/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Config wires a Server. Narrator may be nil.
type Config struct {
	Dataset           loader.Dataset
	Categorizer       *categorizer.Categorizer
	Insights          *insights.Generator
	Reports           *report.Generator
	Narrator          narrator.Narrator
	Logger            logging.Logger
	AllowOrigins      string
	RequestsPerMinute int
}

// Server serves the dataset it was built with.
type Server struct {
	app    *fiber.App
	cfg    Config
	logger logging.Logger
}

// New builds the fiber app and registers the routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscardLogger()
	}
	if cfg.Narrator == nil {
		cfg.Narrator = narrator.Plain{}
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	s := &Server{cfg: cfg, logger: cfg.Logger}

	s.app = fiber.New(fiber.Config{
		AppName:               "bill-analyzer",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	if cfg.RequestsPerMinute > 0 {
		s.app.Use(limiter.New(limiter.Config{
			Max:        cfg.RequestsPerMinute,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_requests"})
			},
		}))
	}
	s.routes()
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Run listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	s.logger.Info("HTTP server listening", logging.F(logging.FieldAddress, addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		if err := s.app.ShutdownWithTimeout(ShutdownTimeout); err != nil {
			return err
		}
		return <-errCh
	}
}

func (s *Server) routes() {
	api := s.app.Group("/api")
	api.Get("/health", s.health)
	api.Get("/provenance", s.provenance)
	api.Get("/views", s.viewNames)
	api.Get("/summary/:view", s.summary)
	api.Get("/transactions", s.transactions)
	api.Get("/insights", s.insights)
	api.Get("/categories", s.categories)
	api.Get("/categories/metrics", s.categoryMetrics)
	api.Get("/compare", s.compare)
	api.Get("/predict", s.predict)
	api.Get("/reports/:kind", s.report)
	api.Post("/categorize", s.categorize)
}

// handleError renders soft query failures as 422 {kind, message} and
// everything else as {error}.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var qe *metrics.QueryError
	if errors.As(err, &qe) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(qe)
	}

	code := fiber.StatusInternalServerError
	message := "internal error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		s.logger.WithError(err).Error("Request failed", logging.F(logging.FieldOperation, c.Path()))
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

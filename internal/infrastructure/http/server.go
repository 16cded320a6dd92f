package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	handlers "github.com/wekeepgrowing/charge-orchestrator/internal/adapter/handler/http"
	"github.com/wekeepgrowing/charge-orchestrator/internal/config"
	"github.com/wekeepgrowing/charge-orchestrator/internal/middleware/auth"
	pkglogger "github.com/wekeepgrowing/charge-orchestrator/pkg/logger"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers the server routes to.
type Handlers struct {
	Checkout *handlers.CheckoutHandler
	Cards    *handlers.CardHandler
	Orders   *handlers.OrderHandler
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	handlers Handlers
	registry *prometheus.Registry
}

// NewServer builds the router. Request metrics and /metrics are only set up
// when registry is non-nil.
func NewServer(cfg *config.Config, logger *zap.Logger, h Handlers, registry *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	pkglogger.WithEchoLogger(e, logger)
	e.Use(pkglogger.NewEchoRequestLogger(logger))
	e.Use(middleware.Recover())
	if registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  cfg.Service.Name,
			Registerer: registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics" || c.Path() == "/health"
			},
		}))
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	s := &Server{
		config:   cfg,
		logger:   logger,
		echo:     e,
		handlers: h,
		registry: registry,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
			"mode":    s.config.Stripe.Mode(),
		})
	})
	if s.registry != nil {
		s.echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: s.registry}))
	}

	v1 := s.echo.Group("/api/v1")

	// Card form validation carries no card data and needs no session.
	v1.POST("/checkout/validation", s.handlers.Checkout.ValidateCardForm)

	protected := v1.Group("", auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	}))
	protected.POST("/orders/:id/checkout", s.handlers.Checkout.Checkout)

	cards := protected.Group("/cards")
	cards.GET("", s.handlers.Cards.ListCards)
	cards.POST("", s.handlers.Cards.RegisterCard)
	cards.PUT("/default", s.handlers.Cards.SetDefaultCard)
	cards.DELETE("/:index", s.handlers.Cards.DeleteCard)

	// Called by the storefront on order lifecycle events.
	internal := v1.Group("/internal", auth.InternalTokenMiddleware(s.config.Service.RenewalToken, s.logger))
	internal.POST("/orders/:id/complete", s.handlers.Orders.CompleteOrder)
	internal.POST("/renewals", s.handlers.Orders.ChargeRenewal)
}

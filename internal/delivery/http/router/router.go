// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"nerves/internal/delivery/http/middleware"
	"nerves/internal/delivery/http/router/handler"
	"nerves/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	EntryHandler        *handler.EntryHandler
	ChatHandler         *handler.ChatHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	Gatherer            prometheus.Gatherer
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	entryHandler        *handler.EntryHandler
	chatHandler         *handler.ChatHandler
	authMiddleware      *middleware.AuthMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	gatherer            prometheus.Gatherer
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		entryHandler:        params.EntryHandler,
		chatHandler:         params.ChatHandler,
		authMiddleware:      params.AuthMiddleware,
		rateLimitMiddleware: params.RateLimitMiddleware,
		gatherer:            params.Gatherer,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check and Prometheus scrape endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(r.gatherer)))

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.SignUp)
		authGroup.POST("/login", r.authHandler.Login)

		// Routes that require an established session
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
		authGroup.GET("/session", r.authHandler.Session, r.authMiddleware.Authenticate)
	}

	// Entry routes: the feed is public, publishing requires authentication
	entryGroup := e.Group("/entries")
	{
		entryGroup.GET("", r.entryHandler.List)
		entryGroup.POST("", r.entryHandler.Create, r.authMiddleware.Authenticate)
	}

	// Chat proxy: public but rate limited, its upstream calls are expensive
	e.POST("/chat", r.chatHandler.Ask, r.rateLimitMiddleware.Limit)
}

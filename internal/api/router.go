package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/api/handler"
	"github.com/smartcampus/campus-portal/internal/api/middleware"
	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

// Deps are the collaborators the portal routes are built from.
type Deps struct {
	AuthService ports.AuthService
	APIClient   ports.APIClient
	Storage     ports.StorageProvider
	Cookie      middleware.CookieConfig

	// Ready lists the dependencies pinged by /health/ready.
	Ready    map[string]ports.Pinger
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: d.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health probes and metrics (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: storage backend
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	// --- Browser-session routes ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.Log)
	pageHandler := handler.NewPageHandler()
	proxyHandler := handler.NewProxyHandler(d.APIClient)

	web := e.Group("", middleware.BrowserSession(d.Storage, d.Cookie, d.Log))
	web.GET("/", pageHandler.Home)
	web.GET("/session", pageHandler.Session)

	web.GET(string(domain.DestinationLogin), authHandler.LoginPage)
	web.POST(string(domain.DestinationLogin), authHandler.Login)
	web.GET(string(domain.DestinationSignup), authHandler.SignupPage)
	web.POST(string(domain.DestinationSignup), authHandler.Signup)
	web.GET("/logout", authHandler.Logout)
	web.POST("/logout", authHandler.Logout)

	for _, role := range domain.Roles {
		web.GET(string(domain.DashboardFor(string(role))), pageHandler.Dashboard(role),
			middleware.RequireSession(), middleware.RequireRole(role))
	}

	web.Any("/proxy/*", proxyHandler.Forward, middleware.RequireSession())

	return e, nil
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/teacherpoli/members-api/docs"
	"github.com/teacherpoli/members-api/internal/api/handler"
	"github.com/teacherpoli/members-api/internal/api/middleware"
	"github.com/teacherpoli/members-api/internal/core/ports"
)

// RouterConfig carries the wired services and the settings the HTTP layer needs.
type RouterConfig struct {
	AuthService    ports.AuthService
	WebhookService ports.WebhookService

	JWTSecret     string
	WebhookSecret string

	// StoreBackend and ReadinessChecks feed the readiness probe.
	StoreBackend    string
	ReadinessChecks map[string]handler.DependencyCheck

	// EnableTestRoutes registers /test/simulate-purchase. Development only.
	EnableTestRoutes bool

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("members"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	webhookHandler := handler.NewWebhookHandler(cfg.WebhookService)

	// --- Webhook (signature-verified) ---
	e.POST("/webhook/hotmart", webhookHandler.Receive, middleware.WebhookSignature(cfg.WebhookSecret))

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/check-purchase", authHandler.CheckPurchase)
	auth.POST("/check-credential", authHandler.CheckCredential)
	auth.POST("/create-password", authHandler.CreatePassword)
	auth.POST("/login", authHandler.Login)
	auth.POST("/complete-onboarding", authHandler.CompleteOnboarding, middleware.Auth(cfg.JWTSecret))

	// --- Test seam (never registered in production) ---
	if cfg.EnableTestRoutes {
		testingHandler := handler.NewTestingHandler(cfg.WebhookService)
		e.POST("/test/simulate-purchase", testingHandler.SimulatePurchase)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.StoreBackend, cfg.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

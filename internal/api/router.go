package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/confhub/conference-portal/docs"
	"github.com/confhub/conference-portal/internal/api/handler"
	"github.com/confhub/conference-portal/internal/api/middleware"
	"github.com/confhub/conference-portal/internal/core/ports"
	"github.com/confhub/conference-portal/internal/core/service"
	"github.com/confhub/conference-portal/internal/core/token"
	mongodb "github.com/confhub/conference-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/confhub/conference-portal/internal/infrastructure/db/redis"
	"github.com/confhub/conference-portal/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The gatekeeper middleware is installed globally: every request is
// authorized against the route policy before any handler runs.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := mongodb.NewAccountRepository(db)
	revocations := redisdb.NewRevocationList(rdb)
	identity := service.NewIdentityService(accounts, codec, revocations, audit, log)

	cookieSecure := cfg.Auth.CookieSecure || cfg.IsProduction()
	sessions := func(c echo.Context) ports.SessionService {
		creds := handler.NewCookieCredentialStore(c, cfg.Auth.CookieName, cookieSecure)
		collab := handler.NewIdentityCollaborator(identity)
		return service.NewSessionService(creds, collab, collab, cfg.Auth.TokenTTL, log)
	}

	gatekeeper := middleware.NewGatekeeper(codec, middleware.DefaultPolicy(), cfg.Auth.CookieName)
	e.Use(gatekeeper.Middleware())

	// --- Auth collaborator endpoints (allowlisted, 401 semantics) ---
	authHandler := handler.NewAuthHandler(identity, sessions, cfg.Auth.CookieName)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/profile", authHandler.Profile)
	e.GET("/session", authHandler.Session)

	// --- Pages ---
	pages := handler.NewPageHandler()
	e.GET("/", pages.Landing)
	e.GET("/login", pages.LoginPage)
	e.GET("/forbidden", pages.Forbidden)
	e.GET("/author", pages.Dashboard)
	e.GET("/reviewer", pages.Dashboard)
	e.GET("/organizer", pages.Dashboard)

	// --- Health probes & metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// API docs, organizer-gated by the route policy.
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

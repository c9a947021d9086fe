package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/notes-service/docs"
	"github.com/99minutos/notes-service/internal/api/handler"
	"github.com/99minutos/notes-service/internal/api/middleware"
	"github.com/99minutos/notes-service/internal/api/session"
	"github.com/99minutos/notes-service/internal/core/ports"
	"github.com/99minutos/notes-service/internal/core/service"
	"github.com/99minutos/notes-service/internal/pkg/config"
)

// Dependencies carries everything NewRouter needs. Limiter, HealthChecks and
// Metrics are optional.
type Dependencies struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Users        ports.UserRepository
	Notes        ports.NoteRepository
	Limiter      handler.LoginLimiter
	HealthChecks map[string]handler.DependencyCheck
	// Metrics receives the HTTP collectors. Nil uses the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	cfg := deps.Config
	log := deps.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = clientIPExtractor(cfg)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "notes",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	ttl := cfg.Auth.TokenTTL()
	tokens := service.NewJWTIssuer(cfg.Auth.JWTSecret)
	authService := service.NewAuthService(deps.Users, service.NewBcryptHasher(), tokens, ttl, log)
	noteService := service.NewNoteService(deps.Notes, log)

	var guardOpts []service.GuardOption
	if cfg.Auth.SessionRevalidate {
		guardOpts = append(guardOpts, service.WithRevalidation(deps.Users))
	}
	guard := service.NewSessionGuard(tokens, log, guardOpts...)
	requireSession := middleware.Auth(guard)

	cookies := session.NewCookieBuilder(ttl, cfg.IsProduction())
	authHandler := handler.NewAuthHandler(authService, cookies, deps.Limiter, log)
	noteHandler := handler.NewNoteHandler(noteService)

	// --- Public routes ---
	e.GET("/", handler.Greeting)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)
	auth.POST("/log-out", authHandler.LogOut, requireSession)

	// --- Note routes (session required) ---
	notes := e.Group("/note", requireSession)
	notes.POST("", noteHandler.Create)
	notes.GET("", noteHandler.List)

	return e
}

// clientIPExtractor decides what c.RealIP returns, and with it the sign-in
// limiter key. Forwarded headers are honoured only from configured proxies.
func clientIPExtractor(cfg *config.Config) echo.IPExtractor {
	nets := cfg.TrustedProxyNets()
	if len(nets) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range nets {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

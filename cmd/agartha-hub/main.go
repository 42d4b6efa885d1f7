package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agartha-hub/internal/adapter/gateway"
	adapterhandler "agartha-hub/internal/adapter/handler"
	infracache "agartha-hub/internal/infrastructure/cache"
	infratoken "agartha-hub/internal/infrastructure/token"
	"agartha-hub/internal/usecase"

	"agartha-hub/config"
	appmiddleware "agartha-hub/middleware"
	"agartha-hub/utils/logger"
	"agartha-hub/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"privy_api_url", cfg.PrivyAPIURL,
		"port", cfg.Port,
		"fresh_cache_ttl", cfg.FreshCacheTTL,
		"degraded_cache_ttl", cfg.DegradedCacheTTL)

	// Infrastructure
	freshCache := infracache.NewIdentityCache(cfg.FreshCacheTTL)
	degradedCache := infracache.NewIdentityCache(cfg.DegradedCacheTTL)
	privyGateway := gateway.NewPrivyGateway(cfg.PrivyAPIURL, cfg.PrivyAppID, cfg.PrivyTimeout)
	memberStore := gateway.NewMemberStoreGateway(cfg.MemberStoreURL, cfg.InternalSharedSecret, 5*time.Second)

	sessionCodec, err := infratoken.NewSessionCodec(cfg.SessionSecret, time.Now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session codec", "error", err)
		os.Exit(1)
	}

	jwtIssuer, err := infratoken.NewJWTIssuer(infratoken.JWTConfig{
		Secret:   cfg.BackendTokenSecret,
		Issuer:   cfg.BackendTokenIssuer,
		Audience: cfg.BackendTokenAudience,
		TTL:      cfg.BackendTokenTTL,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create backend token issuer", "error", err)
		os.Exit(1)
	}

	// Usecases
	resolveUC := usecase.NewResolveIdentity(privyGateway, freshCache, degradedCache, slog.Default())
	syncUC := usecase.NewSyncSession(resolveUC, sessionCodec, cfg.SessionTTL, slog.Default())
	sessionUC := usecase.NewGetSession(jwtIssuer, slog.Default())
	badgeUC := usecase.NewAwardBadge(memberStore, memberStore, slog.Default())

	// Handlers
	syncHandler := adapterhandler.NewSyncHandler(syncUC, adapterhandler.CookieSettings{
		MaxAge: cfg.SessionTTL,
		Secure: cfg.Production(),
	})
	logoutHandler := adapterhandler.NewLogoutHandler(cfg.Production())
	sessionHandler := adapterhandler.NewSessionHandler(sessionUC)
	badgeHandler := adapterhandler.NewBadgeHandler(badgeUC)
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Session gate: every request is authenticated from its credential alone
	e.Use(appmiddleware.RequestGate(appmiddleware.GateConfig{
		Verifier: sessionCodec,
		PublicPaths: []string{
			"/",
			"/login",
			"/communities",
			"/_next",
			"/favicon.ico",
			"/api/health",
			"/auth/sync",
			"/auth/logout",
		},
		LoginPath: "/login",
	}))

	// Rate limiters per endpoint group
	syncRL := appmiddleware.NewRateLimiter(30.0/60.0, 10) // 30 req/min
	badgeRL := appmiddleware.NewRateLimiter(10.0/60.0, 5) // 10 req/min

	// Routes
	e.POST("/auth/sync", syncHandler.Handle, syncRL.Middleware())
	e.POST("/auth/logout", logoutHandler.Handle)
	e.GET("/auth/session", sessionHandler.Handle)
	e.POST("/api/badges/award", badgeHandler.Handle, badgeRL.Middleware())
	e.GET("/api/health", healthHandler.Handle)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting agartha-hub server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/api/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}

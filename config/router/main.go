package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/go-redis/redis/v8"
	"github.com/mcsoccercamp/camp-api/internal/log"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"github.com/mcsoccercamp/camp-api/pkg/ratelimit"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// DefaultTimeoutDuration applies when RouterConfig leaves RequestTimeout unset.
const DefaultTimeoutDuration = 30 * time.Second

type MiddlewareConfig struct {
	TimeoutDuration time.Duration
}

// Cache is the part of the application cache the router needs. A cache that also
// exposes its Redis client gets distributed rate limiting.
type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RouterService struct {
	engine            *gin.Engine
	server            *http.Server
	logger            *log.Logger
	rateLimiter       ratelimit.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
	redisClient       *redis.Client
	middlewareConfig  *MiddlewareConfig
	registry          prometheus.Registerer
	security          *securityConfig

	// Keyed by "<METHOD>-<path>" for handlers and by mount point for controllers.
	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
}

type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	if routerConfig == nil {
		routerConfig = &RouterConfig{}
	}
	if routerConfig.RequestTimeout <= 0 {
		routerConfig.RequestTimeout = DefaultTimeoutDuration
	}

	if mode := utils.GetEnvTrimmed("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
	registerValidators(logger)

	rs := &RouterService{
		engine:            newEngine(logger),
		logger:            logger,
		rateLimitRequests: routerConfig.RateLimitRequests,
		rateLimitWindow:   routerConfig.RateLimitWindow,
		redisClient:       redisClientOf(cache, logger),
		middlewareConfig:  &MiddlewareConfig{TimeoutDuration: routerConfig.RequestTimeout},
		security:          newSecurityConfig(),

		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[string]*RESTController),
	}

	rs.initRateLimiting()
	rs.mountMetrics()
	rs.useMiddleware()
	rs.handleUnmatched()

	// Handlers run on the request goroutine, so these server timeouts are what
	// bound a stuck request.
	rs.server = &http.Server{
		Handler:           rs.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       routerConfig.RequestTimeout,
		WriteTimeout:      routerConfig.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized", "request_timeout", routerConfig.RequestTimeout.String())
	return rs
}

func newEngine(logger *log.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true
	engine.RedirectTrailingSlash = true

	if utils.IsTracingEnabled() {
		engine.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}

	// Gin trusts every proxy by default, which lets clients spoof ClientIP through
	// X-Forwarded-For and dodge per-IP rate limits.
	proxies := parseTrustedProxiesEnv(utils.GetEnvTrimmed("TRUSTED_PROXIES"))
	if err := engine.SetTrustedProxies(proxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; trusting none", "error", err)
		_ = engine.SetTrustedProxies(nil)
	} else if proxies == nil {
		logger.Info("Trusted proxies disabled", "env", "TRUSTED_PROXIES")
	}

	return engine
}

// useMiddleware installs the chain. Correlation comes first so every later log line,
// including rate-limit rejections, carries the request ID.
func (routerService *RouterService) useMiddleware() {
	routerService.engine.Use(
		routerService.correlationIDMiddleware(),
		routerService.loggerInjectionMiddleware(),
		routerService.requestLoggingMiddleware(),
		routerService.securityHeadersMiddleware(),
		routerService.maxBodySizeMiddleware(),
		routerService.corsMiddleware(),
		routerService.rateLimitMiddleware(),
		routerService.timeoutMiddleware(),
	)
}

func (routerService *RouterService) handleUnmatched() {
	routerService.engine.NoRoute(func(c *gin.Context) {
		routerService.logger.WithCorrelationID(c.Request.Context()).Warn("Route not found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, ErrorResult(apperrors.StatusNotFound, "Route not found", nil).ToJSON())
	})

	routerService.engine.NoMethod(func(c *gin.Context) {
		routerService.logger.WithCorrelationID(c.Request.Context()).Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusMethodNotAllowed, ErrorResult(apperrors.StatusMethodNotAllowed, "Method not allowed", nil).ToJSON())
	})
}

func redisClientOf(cache Cache, logger *log.Logger) *redis.Client {
	provider, ok := cache.(RedisClientProvider)
	if !ok {
		return nil
	}

	client := provider.GetClient()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable; rate limiting stays in memory", "error", err)
		return nil
	}
	return client
}

var validatorsOnce sync.Once

// registerValidators adds the non-standard tags request DTOs rely on to gin's validator.
func registerValidators(logger *log.Logger) {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logger.Warn("Binding validator is not go-playground; notblank is unavailable")
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			logger.Error("Failed to register notblank validator", "error", err)
		}
	})
}

// parseTrustedProxiesEnv returns nil (trust nobody) for an empty value. "*" trusts
// everything and is meant for local setups behind a dev proxy.
func parseTrustedProxiesEnv(v string) []string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	if s == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}

	var proxies []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

func (routerService *RouterService) initRateLimiting() {
	routerService.rateLimiter = ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests: routerService.rateLimitRequests,
		Window:   routerService.rateLimitWindow,
		Redis:    routerService.redisClient,
		Logger:   routerService.logger,
	})

	backend := "memory"
	if routerService.redisClient != nil {
		backend = "redis"
	}
	routerService.logger.Info("Rate limiting initialized",
		"backend", backend,
		"requests", routerService.rateLimitRequests,
		"window", routerService.rateLimitWindow.String(),
	)
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

func (routerService *RouterService) Cleanup() {
	if routerService.rateLimiter == nil {
		return
	}
	if err := routerService.rateLimiter.Close(); err != nil {
		routerService.logger.Error("Failed to close rate limiter", "error", err)
	}
}

func (routerService *RouterService) MountController(controller *RESTController) {
	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"path", controller.mountPoint,
		"handlers", controller.handlerCount,
	)
}

// RunHTTPServer blocks until the server stops. A graceful Shutdown returns nil.
func (routerService *RouterService) RunHTTPServer() error {
	routerService.server.Addr = ":" + utils.GetEnvTrimmedOrDefault("APP_PORT", "8080")
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	err := routerService.server.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	routerService.logger.Error("HTTP server failed", "error", err)
	return fmt.Errorf("http server: %w", err)
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server")
	return routerService.server.Shutdown(ctx)
}

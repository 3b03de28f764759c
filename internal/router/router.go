package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-dashboard/internal/handler/health"
	"github.com/jwalitptl/clinic-dashboard/internal/handler/prometheus"
	"github.com/jwalitptl/clinic-dashboard/internal/middleware"
)

// Handler is a resource handler mounted behind authentication.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AuthHandler mounts its own public routes and protects logout itself.
type AuthHandler interface {
	RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc)
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	authH     AuthHandler
	resources []Handler
	health    *health.Handler
	metrics   *prometheus.Handler
}

type RouterConfig struct {
	RateLimit      rate.Limit
	RateBurst      int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	SecureHeaders  middleware.SecurityConfig
	SizeLimit      middleware.SizeLimitConfig
	// Debug keeps gin in debug mode.
	Debug bool
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH AuthHandler,
	healthH *health.Handler,
	metricsH *prometheus.Handler,
	config RouterConfig,
	resources ...Handler,
) *Router {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		authH:     authH,
		resources: resources,
		health:    healthH,
		metrics:   metricsH,
	}

	// RequestID first so every later log line carries it.
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		metricsH.Middleware(),
		middleware.ErrorHandler(),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(config.SecureHeaders),
	)

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = middleware.DefaultTimeoutConfig().Duration
	}
	if config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}
	sizeLimit := config.SizeLimit
	if sizeLimit.MaxBodySize <= 0 {
		sizeLimit = middleware.DefaultSizeLimitConfig()
	}
	engine.Use(
		middleware.SizeLimit(sizeLimit),
		middleware.Timeout(middleware.TimeoutConfig{Duration: timeout}),
	)

	return r
}

func (r *Router) Setup() {
	r.health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")
	api.Use(middleware.Cache(middleware.DefaultCacheConfig()))

	requireSession := r.auth.Authenticate()
	r.authH.RegisterRoutes(api, requireSession)

	protected := api.Group("")
	protected.Use(requireSession)
	for _, h := range r.resources {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

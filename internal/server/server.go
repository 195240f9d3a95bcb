package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/subscriptions/internal/auth"
	"github.com/smallbiznis/subscriptions/internal/clock"
	"github.com/smallbiznis/subscriptions/internal/config"
	"github.com/smallbiznis/subscriptions/internal/customer"
	customerdomain "github.com/smallbiznis/subscriptions/internal/customer/domain"
	"github.com/smallbiznis/subscriptions/internal/events"
	"github.com/smallbiznis/subscriptions/internal/observability"
	obsmiddleware "github.com/smallbiznis/subscriptions/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/subscriptions/internal/observability/metrics"
	obstracing "github.com/smallbiznis/subscriptions/internal/observability/tracing"
	"github.com/smallbiznis/subscriptions/internal/ratelimit"
	"github.com/smallbiznis/subscriptions/internal/subscription"
	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/smallbiznis/subscriptions/pkg/idgen"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	clock.Module,
	idgen.Module,
	events.Module,
	auth.Module,
	ratelimit.Module,
	customer.Module,
	subscription.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// EngineConfig carries what the engine-wide middleware needs.
type EngineConfig struct {
	Debug          bool
	AllowedOrigins []string
}

func NewEngine(cfg EngineConfig, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           cfg.Debug,
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(EngineConfig{
		Debug:          obsCfg.Debug(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	authenticator   *auth.Authenticator
	limiter         *ratelimit.Limiter
	obsMetrics      *obsmetrics.Metrics
	customerSvc     customerdomain.Service
	subscriptionSvc subscriptiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Authenticator   *auth.Authenticator
	CustomerSvc     customerdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
	Limiter         *ratelimit.Limiter  `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authenticator:   p.Authenticator,
		limiter:         p.Limiter,
		obsMetrics:      p.ObsMetrics,
		customerSvc:     p.CustomerSvc,
		subscriptionSvc: p.SubscriptionSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(s.BasicAuthRequired())

	// Writes are bound by the default policies plus the write policies.
	read := s.RateLimit(config.ScopeDefault)
	write := s.RateLimit(config.ScopeWrite)

	// -------- Subscription Plans --------
	v1.GET("/subscription-plans", read, s.ListSubscriptionPlans)
	v1.POST("/subscription-plans", write, s.CreateSubscriptionPlan)
	v1.GET("/subscription-plans/:id", read, s.GetSubscriptionPlanByID)
	v1.POST("/subscription-plans/:id/variations", write, s.CreatePlanVariation)

	// -------- Subscriptions --------
	v1.POST("/subscriptions", write, s.CreateSubscription)

	// -------- Customers --------
	v1.GET("/customers", read, s.ListCustomers)
	v1.POST("/customers", write, s.CreateCustomer)
	v1.GET("/customers/:id", read, s.GetCustomerByID)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/numera/internal/config"
	"github.com/smallbiznis/numera/internal/counter"
	"github.com/smallbiznis/numera/internal/eventlog"
	eventlogdomain "github.com/smallbiznis/numera/internal/eventlog/domain"
	"github.com/smallbiznis/numera/internal/invoice"
	invoicedomain "github.com/smallbiznis/numera/internal/invoice/domain"
	"github.com/smallbiznis/numera/internal/observability"
	obsmiddleware "github.com/smallbiznis/numera/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/numera/internal/observability/metrics"
	obstracing "github.com/smallbiznis/numera/internal/observability/tracing"
	billing "github.com/smallbiznis/numera/internal/providers/billing"
	"github.com/smallbiznis/numera/internal/tenant"
	tenantdomain "github.com/smallbiznis/numera/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	counter.Module,
	tenant.Module,
	eventlog.Module,
	billing.Module,
	invoice.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	InvoiceSvc  invoicedomain.Service
	TenantSvc   tenantdomain.Service
	EventLogSvc eventlogdomain.Service
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	invoiceSvc  invoicedomain.Service
	tenantSvc   tenantdomain.Service
	eventLogSvc eventlogdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		invoiceSvc:  p.InvoiceSvc,
		tenantSvc:   p.TenantSvc,
		eventLogSvc: p.EventLogSvc,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/invoices", s.SubmitInvoice)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	tenants := admin.Group("/tenants")
	{
		tenants.GET("", s.ListTenants)
		tenants.POST("", s.CreateTenant)
		tenants.GET("/:id", s.GetTenant)
		tenants.PUT("/:id", s.UpdateTenant)
	}

	admin.GET("/logs", s.ListEventLogs)
}

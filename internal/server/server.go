package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/costvista/billquest/internal/config"
	ingestiondomain "github.com/costvista/billquest/internal/ingestion/domain"
	obsmiddleware "github.com/costvista/billquest/internal/observability/logger"
	obsmetrics "github.com/costvista/billquest/internal/observability/metrics"
	querydomain "github.com/costvista/billquest/internal/query/domain"
	useraccessdomain "github.com/costvista/billquest/internal/useraccess/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewEngine(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	querySvc      querydomain.Service
	ingestionSvc  ingestiondomain.Service
	userAccessSvc useraccessdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	QuerySvc      querydomain.Service
	IngestionSvc  ingestiondomain.Service
	UserAccessSvc useraccessdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		querySvc:      p.QuerySvc,
		ingestionSvc:  p.IngestionSvc,
		userAccessSvc: p.UserAccessSvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Billing queries --------
	v1.GET("/billing/query", s.QueryBilling)
	v1.GET("/billing/invoices", s.ListInvoiceIDs)

	// -------- Ingestion triggers --------
	v1.POST("/ingest", s.IngestBillingFile)
	v1.POST("/users/ingest", s.IngestUserAccessFile)

	// -------- User access --------
	v1.GET("/users/accounts", s.GetUserAccounts)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
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

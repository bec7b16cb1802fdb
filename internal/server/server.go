package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sreeramsuresh/steelcore/internal/cloudmetrics"
	"github.com/sreeramsuresh/steelcore/internal/config"
	"github.com/sreeramsuresh/steelcore/internal/draft"
	"github.com/sreeramsuresh/steelcore/internal/margin"
	"github.com/sreeramsuresh/steelcore/internal/observability"
	obsmiddleware "github.com/sreeramsuresh/steelcore/internal/observability/logger"
	obsmetrics "github.com/sreeramsuresh/steelcore/internal/observability/metrics"
	obstracing "github.com/sreeramsuresh/steelcore/internal/observability/tracing"
	"github.com/sreeramsuresh/steelcore/internal/ratelimit"
	"github.com/sreeramsuresh/steelcore/internal/trn"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	cloudmetrics.Module,
	margin.Module,
	trn.Module,
	draft.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
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

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				if log != nil {
					log.Info("http server listening", zap.String("addr", addr))
				}
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

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	marginSvc     *margin.Service
	verifier      trn.Verifier
	drafts        *draft.Factory
	verifyLimiter *ratelimit.VerifyLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	Log       *zap.Logger
	MarginSvc *margin.Service
	Verifier  trn.Verifier
	Drafts    *draft.Factory

	VerifyLimiter *ratelimit.VerifyLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log,
		marginSvc:     p.MarginSvc,
		verifier:      p.Verifier,
		drafts:        p.Drafts,
		verifyLimiter: p.VerifyLimiter,
		obsMetrics:    p.ObsMetrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Product codes --------
	v1.POST("/ssot/validate", s.ValidateProductCode)
	v1.POST("/ssot/parse", s.ParseProductCode)
	v1.POST("/ssot/generate", s.GenerateProductCode)
	v1.GET("/ssot/migration-check", s.CheckProductCodeMigration)

	// -------- Margin --------
	v1.GET("/margin/thresholds", s.GetMarginThresholds)
	v1.POST("/margin/classify", s.ClassifyMargin)

	// -------- TRN --------
	v1.GET("/trn/format/:country", s.GetTRNFormat)
	v1.POST("/trn/validate", s.ValidateTRN)
	v1.POST("/trn/verify", s.VerifyRateLimit(), s.VerifyTRN)

	// -------- Drafts --------
	v1.PUT("/drafts/:owner", s.PutDraft)
	v1.GET("/drafts/:owner", s.GetDraft)
	v1.DELETE("/drafts/:owner", s.DeleteDraft)
}

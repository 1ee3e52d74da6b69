package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mowind/icap-go/internal/codec"
	"github.com/mowind/icap-go/internal/config"
	apperrors "github.com/mowind/icap-go/internal/errors"
	"github.com/mowind/icap-go/internal/metrics"
	"github.com/mowind/icap-go/internal/router"
	ginlogrus "github.com/toorop/gin-logrus"
)

// Builder 服务器构建器
type Builder struct {
	cfg     *config.Config
	logger  apperrors.Logger
	metrics *metrics.Recorder
}

// NewBuilder 创建新的服务器构建器
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// WithLogger 使用外部创建的日志器
func (b *Builder) WithLogger(logger apperrors.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetrics 使用外部创建的指标记录器
func (b *Builder) WithMetrics(rec *metrics.Recorder) *Builder {
	b.metrics = rec
	return b
}

// Build 构建服务器
func (b *Builder) Build() (*Server, error) {
	// 路由注册冲突会让 gin panic，提前返回配置错误
	if err := b.cfg.Metrics.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metrics config: %w", err)
	}

	b.setGinMode()

	logger, err := b.createLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rec := b.metrics
	if rec == nil && b.cfg.Metrics.Enabled {
		rec = metrics.NewDefault()
	}

	service := codec.NewService(logger, rec)
	rpc := router.NewRouterFactory(logger.GetUnderlying(), router.Options{
		MaxRequestSize: b.cfg.HTTP.MaxRequestBytes(),
		MaxBatchSize:   b.cfg.Batch.MaxSize,
		BatchWorkers:   b.cfg.Batch.Workers,
		Metrics:        rec,
	}).CreateRouter(service)

	s := &Server{
		config:  b.cfg,
		engine:  b.createEngine(logger),
		rpc:     rpc,
		service: service,
		metrics: rec,
		logger:  logger,
	}

	s.setupRoutes()
	return s, nil
}

// setGinMode 设置 gin 模式
func (b *Builder) setGinMode() {
	if b.cfg.Log.Level == config.LogLevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

// createEngine 创建 gin 引擎并挂载通用中间件
func (b *Builder) createEngine(logger apperrors.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(ginlogrus.Logger(logger.GetUnderlying(), "/health", "/ready"))
	engine.Use(AuthMiddleware(b.cfg.Auth))
	return engine
}

// createLogger 创建日志器，已注入时直接使用
func (b *Builder) createLogger() (apperrors.Logger, error) {
	if b.logger != nil {
		return b.logger, nil
	}
	return apperrors.NewLogger(&apperrors.LoggerConfig{
		Level:        b.cfg.Log.Level,
		Format:       b.cfg.Log.Format,
		Output:       b.cfg.Log.Output,
		EnableCaller: b.cfg.Log.Level == config.LogLevelDebug,
	})
}

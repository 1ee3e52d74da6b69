package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mowind/icap-go/internal/codec"
	"github.com/mowind/icap-go/internal/config"
	apperrors "github.com/mowind/icap-go/internal/errors"
	"github.com/mowind/icap-go/internal/metrics"
	"github.com/mowind/icap-go/internal/router"
	"github.com/sirupsen/logrus"
)

// Server 表示 HTTP 服务器
type Server struct {
	config  *config.Config
	engine  *gin.Engine
	rpc     *router.Router
	service *codec.Service
	metrics *metrics.Recorder
	logger  apperrors.Logger

	server   *http.Server
	listener net.Listener
}

// New 使用配置创建 HTTP 服务器
func New(cfg *config.Config) (*Server, error) {
	return NewBuilder(cfg).Build()
}

// setupRoutes 设置服务器路由
func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)
	s.engine.GET("/ready", s.readyHandler)

	// JSON-RPC 端点
	s.engine.POST("/", s.jsonRPCHandler)

	if s.config.Metrics.Enabled && s.metrics != nil {
		s.engine.GET(s.config.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.engine.Group("/v1")
	v1.GET("/icap/:identifier", s.parseHandler)
	v1.GET("/icap/:identifier/validate", s.validateHandler)
	v1.GET("/address/:address/icap", s.encodeHandler)
}

// Handler 返回 HTTP 处理器，便于测试
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readyHandler 报告已注册的方法，路由器没有方法时视为未就绪
func (s *Server) readyHandler(c *gin.Context) {
	methods := s.rpc.GetRegisteredMethods()
	if len(methods) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"methods": len(methods),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) jsonRPCHandler(c *gin.Context) {
	entry := s.logger.GetUnderlying().WithField("request_id", c.GetString(requestIDKey))
	s.rpc.HandleHTTPRequestWithContext(c.Writer, c.Request, entry)
}

func (s *Server) parseHandler(c *gin.Context) {
	res, err := s.service.Parse(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) validateHandler(c *gin.Context) {
	raw := c.DefaultQuery("skipChecksum", "false")
	skip, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.Newf(apperrors.ErrorTypeInvalidParams,
			apperrors.ErrInvalidParams.Code, "skipChecksum must be a boolean, got %q", raw)))
		return
	}
	c.JSON(http.StatusOK, s.service.Validate(c.Request.Context(), c.Param("identifier"), skip))
}

func (s *Server) encodeHandler(c *gin.Context) {
	res, err := s.service.Encode(c.Request.Context(), c.Param("address"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeError 客户端输入错误返回 422，其余返回 500 并记录日志
func (s *Server) writeError(c *gin.Context, err error) {
	appErr := apperrors.ConvertError(err)

	status := http.StatusUnprocessableEntity
	if apperrors.IsServerError(appErr) {
		status = http.StatusInternalServerError
		s.logger.WithContext(c.Request.Context()).LogError(appErr, "path", c.FullPath())
	}
	c.JSON(status, errorBody(appErr))
}

func errorBody(appErr *apperrors.AppError) gin.H {
	body := gin.H{
		"type":    string(appErr.Type),
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	return gin.H{"error": body}
}

// Start 监听端口并在后台启动 HTTP 服务器，监听失败时立即返回错误
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.HTTP.Host, strconv.Itoa(s.config.HTTP.Port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.GetUnderlying().WithFields(logrus.Fields{
		"host": s.config.HTTP.Host,
		"port": s.config.HTTP.Port,
	}).Info("Starting HTTP server")

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("HTTP server error")
		}
	}()

	return nil
}

// Addr 返回实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 优雅停止 HTTP 服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	start := time.Now()
	err := s.server.Shutdown(ctx)
	s.logger.LogOperation("shutdown", start, err)
	return err
}

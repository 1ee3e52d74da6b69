package router

import (
	"context"

	"github.com/mowind/icap-go/internal/codec"
	"github.com/mowind/icap-go/internal/jsonrpc"
	"github.com/sirupsen/logrus"
)

// RouterFactory 路由器工厂，简化路由器的创建和配置
type RouterFactory struct {
	logger *logrus.Logger
	opts   Options
}

// NewRouterFactory 创建路由器工厂
func NewRouterFactory(logger *logrus.Logger, opts Options) *RouterFactory {
	return &RouterFactory{
		logger: logger,
		opts:   opts,
	}
}

// CreateRouter 创建注册了全部 icap_* 方法的路由器
func (f *RouterFactory) CreateRouter(service *codec.Service) *Router {
	router := NewRouterWithOptions(f.logger, f.opts)

	// ICAPHandler 处理多个方法，为每个方法注册同一个处理器
	icapHandler := NewICAPHandler(service, f.logger)
	for _, method := range codec.Operations {
		if err := router.Register(&MethodHandler{
			handler: icapHandler,
			method:  method,
		}); err != nil {
			f.logger.WithError(err).WithField("method", method).Error("Failed to register handler")
		}
	}

	return router
}

// MethodHandler 包装处理器，使其以指定方法名注册
type MethodHandler struct {
	handler Handler
	method  string
}

// Method 返回方法名
func (m *MethodHandler) Method() string {
	return m.method
}

// Handle 处理请求
func (m *MethodHandler) Handle(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	return m.handler.Handle(ctx, request)
}

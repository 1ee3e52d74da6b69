package router

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/mowind/icap-go/internal/errors"
	"github.com/mowind/icap-go/internal/jsonrpc"
	"github.com/sirupsen/logrus"
)

// BaseHandler 提供处理器的基础功能
type BaseHandler struct {
	method string
	logger *logrus.Logger
}

// NewBaseHandler 创建基础处理器
func NewBaseHandler(method string, logger *logrus.Logger) *BaseHandler {
	return &BaseHandler{
		method: method,
		logger: logger,
	}
}

// Method 返回方法名
func (h *BaseHandler) Method() string {
	return h.method
}

// ParseParams 解析位置参数并检查个数，调用方负责 Release
func (h *BaseHandler) ParseParams(params json.RawMessage, minArgs, maxArgs int) (*jsonrpc.Params, *jsonrpc.Error) {
	p, err := jsonrpc.ParsePositional(params, minArgs, maxArgs)
	if err != nil {
		return nil, jsonrpc.NewInvalidParamsError("Invalid params: %v", err)
	}
	return p, nil
}

// CreateSuccessResponse 创建成功响应
func (h *BaseHandler) CreateSuccessResponse(id interface{}, result interface{}) (*jsonrpc.Response, error) {
	response, err := jsonrpc.NewResponse(id, result)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create success response")
		return nil, fmt.Errorf("failed to create response: %v", err)
	}
	return response, nil
}

// CreateErrorResponse 创建错误响应
func (h *BaseHandler) CreateErrorResponse(id interface{}, code int, message string, data interface{}) *jsonrpc.Response {
	return jsonrpc.NewErrorResponse(id, &jsonrpc.Error{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// CreateInvalidParamsResponse 创建无效参数响应
func (h *BaseHandler) CreateInvalidParamsResponse(id interface{}, message string) *jsonrpc.Response {
	return h.CreateErrorResponse(id, jsonrpc.CodeInvalidParams, message, nil)
}

// CreateAppErrorResponse 将应用错误转换为 JSON-RPC 错误响应
func (h *BaseHandler) CreateAppErrorResponse(id interface{}, err error) *jsonrpc.Response {
	return jsonrpc.NewErrorResponse(id, apperrors.ConvertToJSONRPC(err))
}

// LogRequest 记录请求日志
func (h *BaseHandler) LogRequest(request *jsonrpc.Request) {
	h.logger.WithFields(logrus.Fields{
		"method": request.Method,
		"id":     request.ID,
		"params": string(request.Params),
	}).Debug("Processing JSON-RPC request")
}

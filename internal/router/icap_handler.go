package router

import (
	"context"

	"github.com/mowind/icap-go/internal/codec"
	"github.com/mowind/icap-go/internal/jsonrpc"
	"github.com/sirupsen/logrus"
)

// ICAPHandler 处理 icap_* JSON-RPC 方法
type ICAPHandler struct {
	*BaseHandler
	service *codec.Service
}

// NewICAPHandler 创建 ICAP 处理器
func NewICAPHandler(service *codec.Service, logger *logrus.Logger) *ICAPHandler {
	return &ICAPHandler{
		BaseHandler: NewBaseHandler("icap_handler", logger),
		service:     service,
	}
}

// Handle 处理 JSON-RPC 请求
func (h *ICAPHandler) Handle(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	h.LogRequest(request)

	switch request.Method {
	case codec.OpEncode:
		return h.handleEncode(ctx, request)
	case codec.OpCanEncode:
		return h.handleCanEncode(ctx, request)
	case codec.OpDecode:
		return h.handleDecode(ctx, request)
	case codec.OpValidate:
		return h.handleValidate(ctx, request)
	case codec.OpParse:
		return h.handleParse(ctx, request)
	default:
		return nil, jsonrpc.MethodNotFoundError
	}
}

// singleString 读取唯一的字符串参数
func (h *ICAPHandler) singleString(request *jsonrpc.Request) (string, *jsonrpc.Error) {
	params, jsonErr := h.ParseParams(request.Params, 1, 1)
	if jsonErr != nil {
		return "", jsonErr
	}
	defer params.Release()

	s, err := params.String(0)
	if err != nil {
		return "", jsonrpc.NewInvalidParamsError("Invalid params: %v", err)
	}
	return s, nil
}

func (h *ICAPHandler) handleEncode(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	address, jsonErr := h.singleString(request)
	if jsonErr != nil {
		return nil, jsonErr
	}

	res, err := h.service.Encode(ctx, address)
	if err != nil {
		return h.CreateAppErrorResponse(request.ID, err), nil
	}
	return h.CreateSuccessResponse(request.ID, res)
}

func (h *ICAPHandler) handleCanEncode(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	address, jsonErr := h.singleString(request)
	if jsonErr != nil {
		return nil, jsonErr
	}

	ok, err := h.service.CanEncode(ctx, address)
	if err != nil {
		return h.CreateAppErrorResponse(request.ID, err), nil
	}
	return h.CreateSuccessResponse(request.ID, ok)
}

func (h *ICAPHandler) handleDecode(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	identifier, jsonErr := h.singleString(request)
	if jsonErr != nil {
		return nil, jsonErr
	}

	res, err := h.service.Decode(ctx, identifier)
	if err != nil {
		return h.CreateAppErrorResponse(request.ID, err), nil
	}
	return h.CreateSuccessResponse(request.ID, res)
}

// handleValidate 接受 [icap] 或 [icap, {"skipChecksum": bool}]
func (h *ICAPHandler) handleValidate(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	params, jsonErr := h.ParseParams(request.Params, 1, 2)
	if jsonErr != nil {
		return nil, jsonErr
	}
	defer params.Release()

	identifier, err := params.String(0)
	if err != nil {
		return nil, jsonrpc.NewInvalidParamsError("Invalid params: %v", err)
	}
	skip, err := params.OptionalBool(1, "skipChecksum")
	if err != nil {
		return nil, jsonrpc.NewInvalidParamsError("Invalid params: %v", err)
	}

	return h.CreateSuccessResponse(request.ID, h.service.Validate(ctx, identifier, skip))
}

func (h *ICAPHandler) handleParse(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	identifier, jsonErr := h.singleString(request)
	if jsonErr != nil {
		return nil, jsonErr
	}

	res, err := h.service.Parse(ctx, identifier)
	if err != nil {
		return h.CreateAppErrorResponse(request.ID, err), nil
	}
	return h.CreateSuccessResponse(request.ID, res)
}

package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// JSONRPCVersion JSON-RPC 协议版本
const JSONRPCVersion = "2.0"

// Request 表示 JSON-RPC 2.0 请求
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id"`

	// invalid 批量请求中未通过校验的条目，路由时直接返回 Invalid Request
	invalid error
}

// Err 返回该请求的校验错误，合法请求返回 nil
func (r *Request) Err() error {
	return r.invalid
}

// ErrInvalidRequest 请求体是合法 JSON，但不是合法的 JSON-RPC 请求
var ErrInvalidRequest = errors.New("invalid request")

// Response 表示 JSON-RPC 2.0 响应
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      interface{}     `json:"id"`
}

// Error 表示 JSON-RPC 2.0 错误
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var requestParserPool fastjson.ParserPool

// ParseRequest 解析 JSON-RPC 请求，支持单个请求和批量请求
func ParseRequest(data []byte) ([]Request, error) {
	// 先用 fastjson 判断请求形状，避免对同一份数据反复试探解析
	p := requestParserPool.Get()
	defer requestParserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %v", err)
	}

	switch v.Type() {
	case fastjson.TypeObject:
		single, err := decodeRequest(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return []Request{single}, nil

	case fastjson.TypeArray:
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("invalid JSON-RPC request: %v", err)
		}
		if len(raws) == 0 {
			return nil, fmt.Errorf("%w: empty batch", ErrInvalidRequest)
		}

		// 单个条目无效不影响其他条目
		batch := make([]Request, len(raws))
		for i, raw := range raws {
			req, err := decodeRequest(raw)
			if err != nil {
				req.invalid = fmt.Errorf("%w at index %d: %v", ErrInvalidRequest, i, err)
			}
			batch[i] = req
		}
		return batch, nil

	default:
		return nil, fmt.Errorf("%w: expected object or array, got %s", ErrInvalidRequest, v.Type())
	}
}

// decodeRequest 解码并校验单个请求，失败时尽量保留可用的 ID
func decodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, err
	}
	if err := validateRequest(&req); err != nil {
		if !validID(req.ID) {
			req.ID = nil
		}
		return req, err
	}
	return req, nil
}

// IsBatch 判断原始请求体是否为批量请求
func IsBatch(data []byte) bool {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// validateRequest 验证单个请求
func validateRequest(req *Request) error {
	if req.JSONRPC != JSONRPCVersion {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}
	if !validID(req.ID) {
		return fmt.Errorf("invalid id type: %T", req.ID)
	}
	return nil
}

// validID ID 可以是 null、字符串或数字
func validID(id interface{}) bool {
	switch id.(type) {
	case nil, string, float64:
		return true
	default:
		return false
	}
}

// NewResponse 创建成功响应
func NewResponse(id interface{}, result interface{}) (*Response, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	return &Response{
		JSONRPC: JSONRPCVersion,
		Result:  resultJSON,
		ID:      id,
	}, nil
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(id interface{}, err *Error) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		Error:   err,
		ID:      id,
	}
}

// MarshalResponse 序列化响应
func MarshalResponse(resp *Response) ([]byte, error) {
	return json.Marshal(resp)
}

// MarshalResponses 序列化响应，batch 为 true 时总是输出数组
func MarshalResponses(responses []*Response, batch bool) ([]byte, error) {
	if len(responses) == 1 && !batch {
		return MarshalResponse(responses[0])
	}
	return json.Marshal(responses)
}

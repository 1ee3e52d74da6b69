package errors

import (
	"fmt"

	"github.com/mowind/icap-go/internal/jsonrpc"
)

// ErrorType 错误类型
type ErrorType string

const (
	// 系统级错误
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
	ErrorTypeConfig     ErrorType = "CONFIG_ERROR"
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"

	// JSON-RPC 相关错误
	ErrorTypeJSONRPC        ErrorType = "JSONRPC_ERROR"
	ErrorTypeMethodNotFound ErrorType = "METHOD_NOT_FOUND"
	ErrorTypeInvalidParams  ErrorType = "INVALID_PARAMS"

	// ICAP 编解码错误
	ErrorTypeStructuralMismatch ErrorType = "STRUCTURAL_MISMATCH"
	ErrorTypeChecksumMismatch   ErrorType = "CHECKSUM_MISMATCH"
	ErrorTypeNonEncodable       ErrorType = "NON_ENCODABLE"
	ErrorTypeMalformedPayload   ErrorType = "MALFORMED_PAYLOAD"
	ErrorTypeNotDirect          ErrorType = "NOT_DIRECT"
	ErrorTypeInvalidAddress     ErrorType = "INVALID_ADDRESS"
)

// AppError 应用统一的错误类型
type AppError struct {
	Type        ErrorType              `json:"type"`
	Code        int                    `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	OriginalErr error                  `json:"-"`
}

// New 创建新的应用错误
func New(errorType ErrorType, code int, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Newf 创建带格式的应用错误
func Newf(errorType ErrorType, code int, format string, args ...interface{}) *AppError {
	return New(errorType, code, fmt.Sprintf(format, args...))
}

// Wrap 包装现有错误
func Wrap(err error, errorType ErrorType, code int, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(errorType, code, message)
	appErr.OriginalErr = err
	appErr.Details = err.Error()
	return appErr
}

// WithContext 添加上下文信息
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s [%s:%d]: %s", e.Message, e.Type, e.Code, e.Details)
	}
	return fmt.Sprintf("%s [%s:%d]", e.Message, e.Type, e.Code)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.OriginalErr
}

// Is 按错误类型比较
func (e *AppError) Is(target error) bool {
	if targetErr, ok := target.(*AppError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsCodecError 判断是否为 ICAP 编解码错误
func (e *AppError) IsCodecError() bool {
	switch e.Type {
	case ErrorTypeStructuralMismatch, ErrorTypeChecksumMismatch, ErrorTypeNonEncodable,
		ErrorTypeMalformedPayload, ErrorTypeNotDirect, ErrorTypeInvalidAddress:
		return true
	}
	return false
}

// ToJSONRPCError 转换为 JSON-RPC 错误
func (e *AppError) ToJSONRPCError() *jsonrpc.Error {
	var jsonrpcCode int
	switch {
	case e.IsCodecError():
		jsonrpcCode = e.Code
	case e.Type == ErrorTypeInvalidParams, e.Type == ErrorTypeValidation:
		jsonrpcCode = jsonrpc.CodeInvalidParams
	case e.Type == ErrorTypeMethodNotFound:
		jsonrpcCode = jsonrpc.CodeMethodNotFound
	default:
		jsonrpcCode = jsonrpc.CodeInternalError
	}

	errorData := map[string]interface{}{
		"type": string(e.Type),
	}
	if e.Details != "" {
		errorData["details"] = e.Details
	}
	for k, v := range e.Context {
		errorData[k] = v
	}

	return &jsonrpc.Error{
		Code:    jsonrpcCode,
		Message: e.Message,
		Data:    errorData,
	}
}

// Common errors 常用错误，仅用于 errors.Is 比较
var (
	ErrInternal   = New(ErrorTypeInternal, jsonrpc.CodeInternalError, "Internal server error")
	ErrConfig     = New(ErrorTypeConfig, jsonrpc.CodeInternalError, "Configuration error")
	ErrValidation = New(ErrorTypeValidation, jsonrpc.CodeInvalidParams, "Validation failed")

	ErrMethodNotFound = New(ErrorTypeMethodNotFound, jsonrpc.CodeMethodNotFound, "Method not found")
	ErrInvalidParams  = New(ErrorTypeInvalidParams, jsonrpc.CodeInvalidParams, "Invalid parameters")

	ErrStructuralMismatch = New(ErrorTypeStructuralMismatch, jsonrpc.CodeStructuralMismatch, "Malformed ICAP identifier")
	ErrChecksumMismatch   = New(ErrorTypeChecksumMismatch, jsonrpc.CodeChecksumMismatch, "ICAP checksum mismatch")
	ErrNonEncodable       = New(ErrorTypeNonEncodable, jsonrpc.CodeNonEncodable, "Address cannot be encoded as a direct ICAP")
	ErrMalformedPayload   = New(ErrorTypeMalformedPayload, jsonrpc.CodeMalformedPayload, "Malformed direct ICAP payload")
	ErrNotDirect          = New(ErrorTypeNotDirect, jsonrpc.CodeNotDirect, "ICAP identifier is not in direct form")
	ErrInvalidAddress     = New(ErrorTypeInvalidAddress, jsonrpc.CodeInvalidAddress, "Invalid address")
)

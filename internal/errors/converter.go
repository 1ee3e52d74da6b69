package errors

import (
	stderrors "errors"

	"github.com/mowind/icap-go/internal/icap"
	"github.com/mowind/icap-go/internal/jsonrpc"
)

// codecMappings 编解码哨兵错误到应用错误模板的映射，按优先级排列
var codecMappings = []struct {
	sentinel error
	template *AppError
}{
	{icap.ErrChecksumMismatch, ErrChecksumMismatch},
	{icap.ErrNonEncodable, ErrNonEncodable},
	{icap.ErrMalformedPayload, ErrMalformedPayload},
	{icap.ErrNotDirect, ErrNotDirect},
	{icap.ErrInvalidAddress, ErrInvalidAddress},
	{icap.ErrStructuralMismatch, ErrStructuralMismatch},
	{icap.ErrInvalidCharacter, ErrStructuralMismatch},
}

// FromCodecError 将 icap 包返回的错误转换为应用错误，非编解码错误返回 nil
func FromCodecError(err error) *AppError {
	if err == nil {
		return nil
	}

	for _, m := range codecMappings {
		if stderrors.Is(err, m.sentinel) {
			appErr := Wrap(err, m.template.Type, m.template.Code, m.template.Message)

			var parseErr *icap.ParseError
			if stderrors.As(err, &parseErr) {
				appErr.WithContext("input", parseErr.Input)
			}
			return appErr
		}
	}
	return nil
}

// FromJSONRPC 从 JSON-RPC 错误转换
func FromJSONRPC(jsonErr *jsonrpc.Error) *AppError {
	if jsonErr == nil {
		return nil
	}

	var errorType ErrorType
	switch jsonErr.Code {
	case jsonrpc.CodeMethodNotFound:
		errorType = ErrorTypeMethodNotFound
	case jsonrpc.CodeInvalidParams:
		errorType = ErrorTypeInvalidParams
	case jsonrpc.CodeInternalError:
		errorType = ErrorTypeInternal
	default:
		errorType = ErrorTypeJSONRPC
	}

	appErr := New(errorType, jsonErr.Code, jsonErr.Message)
	if jsonErr.Data != nil {
		appErr.WithContext("original_data", jsonErr.Data)
	}
	return appErr
}

// ConvertError 通用的错误转换函数
func ConvertError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var jsonErr *jsonrpc.Error
	if stderrors.As(err, &jsonErr) {
		return FromJSONRPC(jsonErr)
	}

	if codecErr := FromCodecError(err); codecErr != nil {
		return codecErr
	}

	return Wrap(err, ErrorTypeInternal, jsonrpc.CodeInternalError, "Internal error")
}

// ConvertToJSONRPC 快速转换为 JSON-RPC 错误
func ConvertToJSONRPC(err error) *jsonrpc.Error {
	if err == nil {
		return nil
	}
	return ConvertError(err).ToJSONRPCError()
}

// IsErrorType 检查错误是否属于指定类型
func IsErrorType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsClientError 检查是否是调用方输入导致的错误
func IsClientError(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	if appErr.IsCodecError() {
		return true
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeInvalidParams, ErrorTypeMethodNotFound:
		return true
	}
	return false
}

// IsServerError 检查是否是服务端错误
func IsServerError(err error) bool {
	return err != nil && !IsClientError(err)
}

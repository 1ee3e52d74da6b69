package errors

import (
	"context"

	"github.com/google/uuid"
)

// context keys
type contextKey string

const (
	// RequestIDKey 请求ID的context key
	RequestIDKey contextKey = "request_id"
	// OperationKey 操作名称的context key
	OperationKey contextKey = "operation"

	// RequestIDHeader 请求ID的HTTP头
	RequestIDHeader = "X-Request-ID"
)

// NewContextWithRequestID 创建带有请求ID的context，空ID时自动生成
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// NewContextWithOperation 创建带有操作名称的context
func NewContextWithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// GetRequestID 从context获取请求ID
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetOperation 从context获取操作名称
func GetOperation(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if operation, ok := ctx.Value(OperationKey).(string); ok {
		return operation
	}
	return ""
}

// GenerateRequestID 生成新的请求ID
func GenerateRequestID() string {
	return uuid.New().String()
}

// RequestIDFromHeader 接受客户端提供的 UUID 请求ID，其他值一律重新生成
func RequestIDFromHeader(value string) string {
	id, err := uuid.Parse(value)
	if err != nil {
		return GenerateRequestID()
	}
	return id.String()
}

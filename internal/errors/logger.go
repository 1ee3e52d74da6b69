package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger 结构化日志器接口
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	// 键值对形式的结构化日志
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	WithContext(ctx context.Context) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	WithRequestID(requestID string) Logger

	// LogCodecOperation 记录一次编解码操作，客户端输入错误记为 warn
	LogCodecOperation(operation, input string, startTime time.Time, err error)
	LogOperation(operation string, startTime time.Time, err error)
	LogError(err error, context ...interface{})
	LogAppError(appErr *AppError, context ...interface{})

	SetLevel(level string) error
	SetFormatter(format string) error

	// GetUnderlying 获取底层 logrus 实例，供 gin-logrus 使用
	GetUnderlying() *logrus.Logger
}

// Fields 日志字段
type Fields map[string]interface{}

// StructuredLogger 基于 logrus 的结构化日志器
type StructuredLogger struct {
	logger    *logrus.Logger
	requestID string
	operation string
	fields    Fields
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `mapstructure:"level"`
	Format       string `mapstructure:"format"`
	Output       string `mapstructure:"output"`
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// DefaultLoggerConfig 默认日志配置
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:        "info",
		Format:       "json",
		Output:       "stdout",
		EnableCaller: true,
	}
}

// NewLogger 创建新的结构化日志器
func NewLogger(config *LoggerConfig) (Logger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	output, err := createOutput(config.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return NewLoggerWithWriter(config, output)
}

// NewLoggerWithWriter 使用指定输出创建日志器，Output 字段被忽略
func NewLoggerWithWriter(config *LoggerConfig, w io.Writer) (*StructuredLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", config.Level, err)
	}
	logger.SetLevel(level)

	formatter, err := createFormatter(config.Format, config.EnableCaller)
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}
	logger.SetFormatter(formatter)
	logger.SetReportCaller(config.EnableCaller)
	logger.SetOutput(w)

	return &StructuredLogger{
		logger: logger,
		fields: make(Fields),
	}, nil
}

func createFormatter(format string, enableCaller bool) (logrus.Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				if !enableCaller {
					return "", ""
				}
				filename := f.File
				if idx := strings.LastIndex(filename, "/"); idx >= 0 {
					filename = filename[idx+1:]
				}
				return fmt.Sprintf("%s:%d", filename, f.Line), f.Function
			},
		}, nil
	case "text":
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func createOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		// #nosec G304 - 日志文件路径来自配置
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", output, err)
		}
		return file, nil
	}
}

// entry 合并当前字段、请求ID与操作名称
func (l *StructuredLogger) entry() *logrus.Entry {
	fields := make(logrus.Fields, len(l.fields)+2)
	for k, v := range l.fields {
		fields[k] = v
	}
	if l.requestID != "" {
		fields["request_id"] = l.requestID
	}
	if l.operation != "" {
		fields["operation"] = l.operation
	}
	return l.logger.WithFields(fields)
}

func (l *StructuredLogger) Debug(args ...interface{}) { l.entry().Debug(args...) }
func (l *StructuredLogger) Info(args ...interface{})  { l.entry().Info(args...) }
func (l *StructuredLogger) Warn(args ...interface{})  { l.entry().Warn(args...) }
func (l *StructuredLogger) Error(args ...interface{}) { l.entry().Error(args...) }

func (l *StructuredLogger) logWithFields(level logrus.Level, msg string, keysAndValues ...interface{}) {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	l.entry().WithFields(fields).Log(level, msg)
}

func (l *StructuredLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.logWithFields(logrus.DebugLevel, msg, keysAndValues...)
}

func (l *StructuredLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.logWithFields(logrus.InfoLevel, msg, keysAndValues...)
}

func (l *StructuredLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.logWithFields(logrus.WarnLevel, msg, keysAndValues...)
}

func (l *StructuredLogger) Errorw(msg string, keysAndValues ...interface{}) {
	l.logWithFields(logrus.ErrorLevel, msg, keysAndValues...)
}

func (l *StructuredLogger) WithContext(ctx context.Context) Logger {
	newLogger := l.clone()
	if requestID := GetRequestID(ctx); requestID != "" {
		newLogger.requestID = requestID
	}
	if operation := GetOperation(ctx); operation != "" {
		newLogger.operation = operation
	}
	return newLogger
}

func (l *StructuredLogger) WithField(key string, value interface{}) Logger {
	newLogger := l.clone()
	newLogger.fields[key] = value
	return newLogger
}

func (l *StructuredLogger) WithFields(fields Fields) Logger {
	newLogger := l.clone()
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

func (l *StructuredLogger) WithError(err error) Logger {
	newLogger := l.clone()
	if err == nil {
		return newLogger
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		newLogger.fields["error_type"] = string(appErr.Type)
		newLogger.fields["error_code"] = appErr.Code
		if appErr.Details != "" {
			newLogger.fields["error_details"] = appErr.Details
		}
	} else {
		newLogger.fields["error"] = err.Error()
	}
	return newLogger
}

func (l *StructuredLogger) WithRequestID(requestID string) Logger {
	newLogger := l.clone()
	newLogger.requestID = requestID
	return newLogger
}

func (l *StructuredLogger) LogCodecOperation(operation, input string, startTime time.Time, err error) {
	fields := []interface{}{
		"operation", operation,
		"input", input,
		"duration_us", time.Since(startTime).Microseconds(),
	}

	if err == nil {
		l.Debugw("Codec operation completed", fields...)
		return
	}

	appErr := ConvertError(err)
	fields = append(fields,
		"error_type", string(appErr.Type),
		"error", err.Error(),
	)
	if IsClientError(appErr) {
		l.Warnw("Codec operation rejected input", fields...)
		return
	}
	l.Errorw("Codec operation failed", fields...)
}

func (l *StructuredLogger) LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)

	if err != nil {
		l.Errorw("Operation failed",
			"operation", operation,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	l.Infow("Operation completed successfully",
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	)
}

func (l *StructuredLogger) LogError(err error, context ...interface{}) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		l.LogAppError(appErr, context...)
		return
	}

	fields := append([]interface{}{"error", err.Error()}, context...)
	l.Errorw("Application error occurred", fields...)
}

func (l *StructuredLogger) LogAppError(appErr *AppError, context ...interface{}) {
	fields := []interface{}{
		"error_type", string(appErr.Type),
		"error_code", appErr.Code,
		"error_message", appErr.Message,
	}
	if appErr.Details != "" {
		fields = append(fields, "error_details", appErr.Details)
	}
	for k, v := range appErr.Context {
		fields = append(fields, "context_"+k, v)
	}
	fields = append(fields, context...)

	l.Errorw("Application error with context", fields...)
}

func (l *StructuredLogger) SetLevel(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %s: %w", level, err)
	}
	l.logger.SetLevel(logLevel)
	return nil
}

func (l *StructuredLogger) SetFormatter(format string) error {
	formatter, err := createFormatter(format, l.logger.ReportCaller)
	if err != nil {
		return fmt.Errorf("failed to create formatter: %w", err)
	}
	l.logger.SetFormatter(formatter)
	return nil
}

func (l *StructuredLogger) GetUnderlying() *logrus.Logger {
	return l.logger
}

func (l *StructuredLogger) clone() *StructuredLogger {
	newFields := make(Fields, len(l.fields))
	for k, v := range l.fields {
		newFields[k] = v
	}

	return &StructuredLogger{
		logger:    l.logger,
		requestID: l.requestID,
		operation: l.operation,
		fields:    newFields,
	}
}

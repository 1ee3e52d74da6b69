package config

const (
	// MaxPort 最大端口号
	MaxPort = 65535

	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"

	LogFormatJSON = "json"
	LogFormatText = "text"

	// DefaultHTTPHost 默认 HTTP 主机
	DefaultHTTPHost = "localhost"
	// DefaultHTTPPort 默认 HTTP 端口
	DefaultHTTPPort = 9000
	// DefaultMaxRequestSizeMB 默认最大请求大小（MB）
	DefaultMaxRequestSizeMB int64 = 10

	// DefaultBatchMaxSize 单个批量请求的最大条目数
	DefaultBatchMaxSize = 100
	// DefaultBatchWorkers 批量请求的并发处理数
	DefaultBatchWorkers = 16
	// MaxBatchWorkers 批量并发上限
	MaxBatchWorkers = 256

	// DefaultMetricsPath 默认指标路径
	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = LogLevelInfo
	DefaultLogFormat = LogFormatJSON
	DefaultLogOutput = "stdout"
)

// reservedPaths 服务器内置路由，指标路径不能与之重复
var reservedPaths = []string{"/health", "/ready"}

// reservedAPIPrefix REST 路由前缀
const reservedAPIPrefix = "/v1"

// DefaultAuthWhitelist 鉴权豁免路径
var DefaultAuthWhitelist = []string{"/health", "/ready"}

// Validator 验证器接口
type Validator interface {
	Validate() error
}

var validLogLevels = map[string]bool{
	LogLevelDebug: true,
	LogLevelInfo:  true,
	LogLevelWarn:  true,
	LogLevelError: true,
	LogLevelFatal: true,
}

var validLogFormats = map[string]bool{
	LogFormatJSON: true,
	LogFormatText: true,
}

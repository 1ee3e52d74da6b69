package config

import (
	"fmt"
	"strings"
)

// Config 表示应用程序的完整配置
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// HTTPConfig 定义 HTTP 服务器配置
type HTTPConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	MaxRequestSizeMB int64  `mapstructure:"max-request-size"`
}

// Validate 验证 HTTP 配置
func (c *HTTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("http-host is required")
	}
	if c.Port <= 0 || c.Port > MaxPort {
		return fmt.Errorf("http-port must be between 1 and %d", MaxPort)
	}
	if c.MaxRequestSizeMB < 0 {
		return fmt.Errorf("http-max-request-size must not be negative")
	}
	return nil
}

// MaxRequestBytes 返回请求体上限（字节），未配置时使用默认值
func (c *HTTPConfig) MaxRequestBytes() int64 {
	if c.MaxRequestSizeMB == 0 {
		return DefaultMaxRequestSizeMB * 1024 * 1024
	}
	return c.MaxRequestSizeMB * 1024 * 1024
}

// AuthConfig 定义接口鉴权配置
type AuthConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Secret    string   `mapstructure:"secret"`
	Whitelist []string `mapstructure:"whitelist"`
}

// Validate 验证鉴权配置
func (c *AuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Secret == "" {
		return fmt.Errorf("auth-secret is required when auth is enabled")
	}
	for _, p := range c.Whitelist {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("auth-whitelist entries must start with /, got: %s", p)
		}
	}
	return nil
}

// BatchConfig 定义 JSON-RPC 批量请求配置
type BatchConfig struct {
	MaxSize int `mapstructure:"max-size"`
	Workers int `mapstructure:"workers"`
}

// Validate 验证批量配置
func (c *BatchConfig) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("batch-max-size must be positive")
	}
	if c.Workers <= 0 || c.Workers > MaxBatchWorkers {
		return fmt.Errorf("batch-workers must be between 1 and %d", MaxBatchWorkers)
	}
	return nil
}

// MetricsConfig 定义 Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("metrics-path must start with /, got: %s", c.Path)
	}
	if strings.ContainsAny(c.Path, ":*") {
		return fmt.Errorf("metrics-path must be a static path, got: %s", c.Path)
	}
	if isReservedPath(c.Path) {
		return fmt.Errorf("metrics-path %s collides with a built-in route", c.Path)
	}
	return nil
}

// isReservedPath 检查路径是否已被服务器内置路由占用
func isReservedPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	if path == "" || path == reservedAPIPrefix {
		return true
	}
	for _, p := range reservedPaths {
		if path == p {
			return true
		}
	}
	return strings.HasPrefix(path, reservedAPIPrefix+"/")
}

// LogConfig 定义日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Validate 验证日志配置
func (c *LogConfig) Validate() error {
	if !validLogLevels[strings.ToLower(c.Level)] {
		return fmt.Errorf("log-level must be one of: debug, info, warn, error, fatal, got: %s", c.Level)
	}
	if !validLogFormats[strings.ToLower(c.Format)] {
		return fmt.Errorf("log-format must be one of: json, text, got: %s", c.Format)
	}
	return nil
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:             DefaultHTTPHost,
			Port:             DefaultHTTPPort,
			MaxRequestSizeMB: DefaultMaxRequestSizeMB,
		},
		Auth: AuthConfig{
			Whitelist: append([]string(nil), DefaultAuthWhitelist...),
		},
		Batch: BatchConfig{
			MaxSize: DefaultBatchMaxSize,
			Workers: DefaultBatchWorkers,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
	}
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	// 设置默认值
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Batch.MaxSize == 0 {
		c.Batch.MaxSize = DefaultBatchMaxSize
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = DefaultBatchWorkers
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	validators := []Validator{&c.HTTP, &c.Auth, &c.Batch, &c.Metrics, &c.Log}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// String 返回配置的安全摘要（不包含敏感信息）
func (c *Config) String() string {
	return fmt.Sprintf(
		"HTTP: {Host: %s, Port: %d, MaxRequestSizeMB: %d}, "+
			"Auth: {Enabled: %t, Secret: [REDACTED], Whitelist: %v}, "+
			"Batch: {MaxSize: %d, Workers: %d}, "+
			"Metrics: {Enabled: %t, Path: %s}, "+
			"Log: {Level: %s, Format: %s}",
		c.HTTP.Host, c.HTTP.Port, c.HTTP.MaxRequestSizeMB,
		c.Auth.Enabled, c.Auth.Whitelist,
		c.Batch.MaxSize, c.Batch.Workers,
		c.Metrics.Enabled, c.Metrics.Path,
		c.Log.Level, c.Log.Format,
	)
}

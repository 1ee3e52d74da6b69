package main

import (
	"fmt"

	"github.com/mowind/icap-go/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag 定义命令行标志
type Flag struct {
	Name         string
	DefaultValue interface{}
	Description  string
	BindTo       string // viper 键名
	Required     bool
}

// logFlags 日志标志
var logFlags = []Flag{
	{
		Name:         "log-level",
		DefaultValue: config.DefaultLogLevel,
		Description:  "Log level (debug, info, warn, error, fatal)",
		BindTo:       "log.level",
	},
	{
		Name:         "log-format",
		DefaultValue: config.DefaultLogFormat,
		Description:  "Log format (json, text)",
		BindTo:       "log.format",
	},
	{
		Name:         "log-output",
		DefaultValue: config.DefaultLogOutput,
		Description:  "Log output (stdout, stderr or a file path)",
		BindTo:       "log.output",
	},
}

// serveFlags serve 子命令的标志
var serveFlags = []Flag{
	// HTTP 服务器配置
	{
		Name:         "http-host",
		DefaultValue: config.DefaultHTTPHost,
		Description:  "HTTP server host",
		BindTo:       "http.host",
	},
	{
		Name:         "http-port",
		DefaultValue: config.DefaultHTTPPort,
		Description:  "HTTP server port",
		BindTo:       "http.port",
	},
	{
		Name:         "http-max-request-size",
		DefaultValue: config.DefaultMaxRequestSizeMB,
		Description:  "Maximum request body size in MB",
		BindTo:       "http.max-request-size",
	},

	// 认证配置
	{
		Name:         "auth-enabled",
		DefaultValue: false,
		Description:  "Require an API key or bearer token",
		BindTo:       "auth.enabled",
	},
	{
		Name:         "auth-secret",
		DefaultValue: "",
		Description:  "Shared secret accepted as API key or bearer token",
		BindTo:       "auth.secret",
	},
	{
		Name:         "auth-whitelist",
		DefaultValue: config.DefaultAuthWhitelist,
		Description:  "Paths served without authentication",
		BindTo:       "auth.whitelist",
	},

	// 批量请求配置
	{
		Name:         "batch-max-size",
		DefaultValue: config.DefaultBatchMaxSize,
		Description:  "Maximum number of requests in a JSON-RPC batch",
		BindTo:       "batch.max-size",
	},
	{
		Name:         "batch-workers",
		DefaultValue: config.DefaultBatchWorkers,
		Description:  "Number of workers processing a JSON-RPC batch",
		BindTo:       "batch.workers",
	},

	// 指标配置
	{
		Name:         "metrics-enabled",
		DefaultValue: true,
		Description:  "Expose Prometheus metrics",
		BindTo:       "metrics.enabled",
	},
	{
		Name:         "metrics-path",
		DefaultValue: config.DefaultMetricsPath,
		Description:  "Prometheus metrics path",
		BindTo:       "metrics.path",
	},
}

// registerFlags 注册标志并绑定到 viper
func registerFlags(cmd *cobra.Command, flags []Flag, persistent bool) error {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}

	for _, flag := range flags {
		// 根据类型添加标志
		switch v := flag.DefaultValue.(type) {
		case string:
			fs.String(flag.Name, v, flag.Description)
		case int:
			fs.Int(flag.Name, v, flag.Description)
		case int64:
			fs.Int64(flag.Name, v, flag.Description)
		case bool:
			fs.Bool(flag.Name, v, flag.Description)
		case []string:
			fs.StringSlice(flag.Name, append([]string(nil), v...), flag.Description)
		default:
			return fmt.Errorf("unsupported flag type: %T for flag %s", v, flag.Name)
		}

		// 绑定到 viper
		if err := viper.BindPFlag(flag.BindTo, fs.Lookup(flag.Name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}

		// 标记必需标志
		if flag.Required {
			if err := cobra.MarkFlagRequired(fs, flag.Name); err != nil {
				return fmt.Errorf("failed to mark flag %s required: %w", flag.Name, err)
			}
		}
	}

	return nil
}

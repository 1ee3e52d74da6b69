package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mowind/icap-go/internal/config"
	"github.com/mowind/icap-go/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ICAP operations over HTTP",
		Long: `Start an HTTP server exposing icap_encode, icap_canEncode, icap_decode,
icap_validate and icap_parse as JSON-RPC methods on POST /, plus REST routes
under /v1 and Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	for _, flags := range [][]Flag{serveFlags, logFlags} {
		if err := registerFlags(cmd, flags, false); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}

// loadConfig 从 viper 读取并校验配置
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return &cfg, nil
}

// runServe 是 serve 命令的执行函数
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 打印配置摘要
	fmt.Fprintf(cmd.OutOrStdout(), "Starting icap server with configuration: %s\n", cfg.String())

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// 等待中断信号
	return waitForInterrupt(cmd, srv)
}

// waitForInterrupt 等待中断信号并优雅关闭服务器
func waitForInterrupt(cmd *cobra.Command, srv *server.Server) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Server shutdown complete")
	return nil
}

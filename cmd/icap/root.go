package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// newRootCmd 构建命令树
func newRootCmd() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "icap",
		Short: "icap converts Ethereum addresses to and from ICAP identifiers",
		Long: `icap implements the Inter-exchange Client Address Protocol for Ethereum.

It can:
1. Encode a 20-byte address into its direct ICAP identifier
2. Decode, validate and inspect direct and indirect identifiers
3. Serve the same operations over HTTP JSON-RPC and REST`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// 全局标志
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.icap.yaml)")

	serveCmd, err := newServeCmd()
	if err != nil {
		return nil, err
	}

	rootCmd.AddCommand(
		serveCmd,
		newEncodeCmd(),
		newDecodeCmd(),
		newValidateCmd(),
		newInspectCmd(),
		newVersionCmd(),
	)
	return rootCmd, nil
}

// Execute 执行根命令
func Execute() {
	rootCmd, err := newRootCmd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register flags: %v\n", err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig 初始化配置
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".icap")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ICAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

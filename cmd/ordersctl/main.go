package main

import (
	"fmt"
	"os"

	"pagsync/cmd/consumers/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "ordersctl",
	Short:         "Operate the PagBank order reconciliation service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("PAGSYNC_CONFIG"), "path to a YAML config file")
	rootCmd.AddCommand(migrateCmd, sweepCmd, publishCmd)
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

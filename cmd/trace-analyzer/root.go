package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ns3-trace-analyzer/internal/config"
	"ns3-trace-analyzer/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	appCfg *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trace-analyzer",
	Short: "ns-3 network simulator trace analyzer",
	Long:  "trace-analyzer parses ns-3 ASCII packet traces into structured entries and exports, summarizes or replays them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg.ApplyEnv()
		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Logging.Format = logFormat
		}
		appCfg = cfg
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to analyzer configuration YAML")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}

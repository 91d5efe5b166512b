package main

import (
	"github.com/spf13/cobra"

	"ns3-trace-analyzer/internal/dashboard"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the Grafana dashboard for the GreptimeDB trace table",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := dashboard.Render(dashboardOut, dashboard.Params{
			Table:    appCfg.Greptime.Table,
			Database: appCfg.Greptime.Database,
		})
		if err != nil {
			return err
		}
		for _, p := range paths {
			logger.Info("dashboard written", "path", p)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}

package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ns3-trace-analyzer/internal/filter"
	"ns3-trace-analyzer/internal/pipeline"
	"ns3-trace-analyzer/internal/stats"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per-event, per-node and per-flow counts of a trace",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		filters, err := filter.Parse(parseFilters)
		if err != nil {
			return err
		}
		opts := pipelineOptions(cmd)
		opts.Progress = progressPrinter(os.Stderr, stderrIsTerminal(), logger)
		res, err := pipeline.AnalyzeFile(ctx, parseInput, opts)
		if err != nil {
			return err
		}
		sum := stats.Summarize(filters.Apply(res.Entries))
		if summaryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"run": res, "summary": sum})
		}
		sum.Print(os.Stdout)
		if res.Skipped > 0 || res.FailedChunks > 0 {
			logger.Warn("some lines were not parsed", "skipped", res.Skipped, "failed_chunks", res.FailedChunks)
		}
		return nil
	},
}

func init() {
	addPipelineFlags(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print the summary as JSON")
}

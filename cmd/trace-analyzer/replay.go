package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ns3-trace-analyzer/internal/export"
)

var (
	replayInput     string
	replayFormat    string
	replayBatch     int
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a JSONL entry export",
	Long:  "replay feeds entries from a JSONL export back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, cleanup, err := newWriters(appCfg, replayFormat, "", replayPrintOnly, uuid.NewString())
		if err != nil {
			return err
		}
		if writer == nil {
			cleanup()
			return fmt.Errorf("nothing to replay into: format %q and no GreptimeDB endpoint", replayFormat)
		}
		n, err := export.ReplayJSONLFile(replayInput, writer, replayBatch)
		if cerr := cleanup(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		logger.Info("replay finished", "entries", n, "input", replayInput)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to JSONL entry export")
	replayCmd.Flags().StringVar(&replayFormat, "format", "jsonl", "Local output format (csv, jsonl, json, text, none)")
	replayCmd.Flags().IntVar(&replayBatch, "batch", 1000, "Entries per write batch")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print entries to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}

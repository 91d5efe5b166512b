package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ns3-trace-analyzer/internal/admin"
	"ns3-trace-analyzer/internal/export"
	"ns3-trace-analyzer/internal/filter"
	"ns3-trace-analyzer/internal/pipeline"
	"ns3-trace-analyzer/internal/tui"
)

var (
	parseInput     string
	parseFormat    string
	parseOutput    string
	parseChunkSize int
	parseWorkers   int
	parseOrdered   bool
	parseFilters   []string
	parseTUI       bool
	parseAdmin     string
	parsePrintOnly bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a trace file and export its entries",
	Long:  "parse splits an ns-3 trace into chunks, parses them on a worker pool and writes the entries to CSV, JSON, text or GreptimeDB.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		filters, err := filter.Parse(parseFilters)
		if err != nil {
			return err
		}
		opts := pipelineOptions(cmd)
		format, output := appCfg.Output.Format, appCfg.Output.Path
		if cmd.Flags().Changed("format") {
			format = parseFormat
		}
		if cmd.Flags().Changed("output") {
			output = parseOutput
		}
		adminAddr := appCfg.Admin.Addr
		if cmd.Flags().Changed("admin") {
			adminAddr = parseAdmin
		}

		tracker := pipeline.NewTracker(opts.RunID)
		var prog *tui.Program
		if parseTUI {
			prog = tui.Start(parseInput)
			opts.Progress = pipeline.MultiProgress(tracker.Update, prog.ProgressSink())
			go func() {
				select {
				case <-prog.Done():
					cancel()
				case <-ctx.Done():
				}
			}()
			if output == "" {
				format = "none"
			}
		} else {
			opts.Progress = pipeline.MultiProgress(tracker.Update, progressPrinter(os.Stderr, stderrIsTerminal(), logger))
		}

		if adminAddr != "" {
			srv := admin.NewServer(tracker, logger)
			go func() {
				if err := srv.Start(ctx, adminAddr); err != nil {
					logger.Error("status server failed", "err", err)
				}
			}()
		}

		res, runErr := pipeline.AnalyzeFile(ctx, parseInput, opts)
		var accessErr *pipeline.FileAccessError
		if errors.As(runErr, &accessErr) || res == nil {
			if prog != nil {
				prog.Finish(nil, nil, runErr)
				prog.Wait()
			}
			return runErr
		}
		tracker.SetResult(res)
		entries := filters.Apply(res.Entries)
		if len(filters) > 0 {
			logger.Info("filters applied", "filters", filters.String(), "matched", len(entries), "entries", len(res.Entries))
		}

		writer, cleanup, err := newWriters(appCfg, format, output, parsePrintOnly, res.RunID)
		if err != nil {
			return err
		}
		if writer != nil {
			if err := export.WriteAll(writer, entries); err != nil {
				cleanup()
				return fmt.Errorf("export entries: %w", err)
			}
		}
		if err := cleanup(); err != nil {
			return fmt.Errorf("close outputs: %w", err)
		}

		if prog != nil {
			prog.Finish(entries, res, runErr)
			if err := prog.Wait(); err != nil {
				return err
			}
			if errors.Is(runErr, context.Canceled) {
				// quitting the UI early is not an error
				return nil
			}
			return runErr
		}
		if runErr != nil {
			return runErr
		}
		if adminAddr != "" {
			logger.Info("run finished, status server still running; press Ctrl+C to exit", "addr", adminAddr)
			<-ctx.Done()
		}
		return nil
	},
}

// pipelineOptions layers command-line flags over the configured pipeline
// section.
func pipelineOptions(cmd *cobra.Command) pipeline.Options {
	opts := appCfg.PipelineOptions()
	if cmd.Flags().Changed("chunk-size") {
		opts.ChunkSize = parseChunkSize
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = parseWorkers
	}
	if cmd.Flags().Changed("ordered") {
		opts.Ordered = parseOrdered
	}
	opts.RunID = uuid.NewString()
	return opts
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&parseInput, "input", "", "Path to the ns-3 trace file")
	cmd.Flags().IntVar(&parseChunkSize, "chunk-size", pipeline.DefaultChunkSize, "Lines per chunk")
	cmd.Flags().IntVar(&parseWorkers, "workers", pipeline.DefaultWorkers, "Concurrent chunk workers")
	cmd.Flags().BoolVar(&parseOrdered, "ordered", false, "Keep entries in input order")
	cmd.Flags().StringArrayVar(&parseFilters, "filter", nil, "Column filter column=value (repeatable)")
	cmd.MarkFlagRequired("input")
}

func init() {
	addPipelineFlags(parseCmd)
	parseCmd.Flags().StringVar(&parseFormat, "format", "csv", "Output format (csv, jsonl, json, text, none)")
	parseCmd.Flags().StringVar(&parseOutput, "output", "", "Output file (default STDOUT)")
	parseCmd.Flags().BoolVar(&parseTUI, "tui", false, "Show progress and results in a terminal UI")
	parseCmd.Flags().StringVar(&parseAdmin, "admin", "", "Serve run status on this address (e.g. :8080)")
	parseCmd.Flags().BoolVar(&parsePrintOnly, "print-only", false, "Do not write to GreptimeDB even when configured")
}

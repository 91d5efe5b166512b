package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"ns3-trace-analyzer/internal/config"
	"ns3-trace-analyzer/internal/export"
)

// newWriters sets up the entry sinks for format and output path, plus the
// GreptimeDB writer unless printOnly is set or no endpoint is configured.
// The returned cleanup flushes and closes every sink.
func newWriters(cfg *config.Config, format, output string, printOnly bool, runID string) (export.EntryWriter, func() error, error) {
	var closers []io.Closer
	cleanup := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	base, closer, err := baseWriter(format, output)
	if err != nil {
		return nil, nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	if printOnly || cfg.Greptime.Endpoint == "" {
		return base, cleanup, nil
	}
	gw, err := export.NewGreptimeDBWriter(export.GreptimeOptions{
		Endpoint: cfg.Greptime.Endpoint,
		Port:     cfg.Greptime.Port,
		Database: cfg.Greptime.Database,
		Table:    cfg.Greptime.Table,
		RunID:    runID,
		Base:     time.Now(),
		Logger:   logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if base == nil {
		return gw, cleanup, nil
	}
	return export.NewMultiWriter(base, gw), cleanup, nil
}

// baseWriter picks the local sink for format. An empty output writes to
// STDOUT. format "none" disables local output.
func baseWriter(format, output string) (export.EntryWriter, io.Closer, error) {
	switch format {
	case "none":
		return nil, nil, nil
	case "csv":
		if output == "" {
			w := export.NewCSVWriter(os.Stdout)
			return w, w, nil
		}
		w, err := export.NewCSVFileWriter(output)
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil
	case "jsonl", "json":
		if output == "" {
			return export.NewJSONStdoutWriter(), nil, nil
		}
		w, err := export.NewFileWriter(output)
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil
	case "text":
		if output == "" {
			return export.NewTextWriter(os.Stdout), nil, nil
		}
		f, err := os.Create(output)
		if err != nil {
			return nil, nil, err
		}
		return export.NewTextWriter(f), f, nil
	default:
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
}

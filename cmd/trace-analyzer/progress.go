package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"ns3-trace-analyzer/internal/pipeline"
	"ns3-trace-analyzer/internal/tui"
)

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// progressPrinter redraws a single status line on interactive terminals and
// otherwise logs once per 10% step.
func progressPrinter(w io.Writer, interactive bool, log *slog.Logger) pipeline.ProgressFunc {
	lastStep := -1
	return func(s pipeline.Snapshot) {
		if interactive {
			fmt.Fprintf(w, "\r%5.1f%%  %d/%d lines  elapsed %s  remaining %s",
				s.Percent, s.Lines, s.Total, tui.FormatDuration(s.Elapsed), tui.FormatDuration(s.Remaining))
			if s.Done {
				fmt.Fprintln(w)
			}
			return
		}
		step := int(s.Percent) / 10
		if step == lastStep && !s.Done {
			return
		}
		lastStep = step
		log.Info("progress", "percent", fmt.Sprintf("%.1f", s.Percent), "lines", s.Lines,
			"elapsed", tui.FormatDuration(s.Elapsed), "remaining", tui.FormatDuration(s.Remaining))
	}
}

// Writers printing entries to STDOUT
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/truncate"

	"ns3-trace-analyzer/internal/trace"
)

// JSONStdoutWriter prints entries as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs an entry in JSON format.
func (w *JSONStdoutWriter) Write(e trace.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteBatch outputs multiple entries in JSON format.
func (w *JSONStdoutWriter) WriteBatch(entries []trace.Entry) error {
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			return err
		}
	}
	return nil
}

// TextWriter prints entries as aligned, human-readable columns. Header cells
// longer than MaxCell are cut with an ellipsis.
type TextWriter struct {
	out     io.Writer
	MaxCell uint
}

// NewTextWriter creates a TextWriter writing to out, or STDOUT when out is nil.
func NewTextWriter(out io.Writer) *TextWriter {
	if out == nil {
		out = os.Stdout
	}
	return &TextWriter{out: out, MaxCell: 48}
}

// Write prints a single entry without a header row.
func (w *TextWriter) Write(e trace.Entry) error {
	_, err := fmt.Fprintln(w.out, strings.Join(w.cells(e), "  "))
	return err
}

// WriteBatch prints a header and the entries aligned in a table.
func (w *TextWriter) WriteBatch(entries []trace.Entry) error {
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(Header, "\t"))
	for _, e := range entries {
		fmt.Fprintln(tw, strings.Join(w.cells(e), "\t"))
	}
	return tw.Flush()
}

func (w *TextWriter) cells(e trace.Entry) []string {
	row := Row(e)
	for i, c := range row {
		if c == "" {
			row[i] = "-"
			continue
		}
		if w.MaxCell > 0 {
			row[i] = truncate.StringWithTail(c, w.MaxCell, "…")
		}
	}
	return row
}

package export

import (
	"encoding/csv"
	"io"
	"os"

	"ns3-trace-analyzer/internal/trace"
)

// CSVWriter writes entries as a delimited table with the Header row first.
type CSVWriter struct {
	w           *csv.Writer
	closer      io.Closer
	wroteHeader bool
}

// NewCSVWriter writes CSV to out. The header row is written before the first
// entry, or on Close when there were none.
func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(out)}
}

// NewCSVFileWriter creates path and writes CSV into it.
func NewCSVFileWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw := NewCSVWriter(f)
	cw.closer = f
	return cw, nil
}

func (c *CSVWriter) header() error {
	if c.wroteHeader {
		return nil
	}
	c.wroteHeader = true
	return c.w.Write(Header)
}

// Write appends one entry row.
func (c *CSVWriter) Write(e trace.Entry) error {
	if err := c.header(); err != nil {
		return err
	}
	return c.w.Write(Row(e))
}

// WriteBatch appends rows for entries and flushes.
func (c *CSVWriter) WriteBatch(entries []trace.Entry) error {
	if err := c.header(); err != nil {
		return err
	}
	for _, e := range entries {
		if err := c.w.Write(Row(e)); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes buffered rows and closes the file, if any.
func (c *CSVWriter) Close() error {
	err := c.header()
	c.w.Flush()
	if e := c.w.Error(); e != nil && err == nil {
		err = e
	}
	if c.closer != nil {
		if e := c.closer.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

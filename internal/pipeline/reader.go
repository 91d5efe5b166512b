package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileAccessError reports a trace file that could not be opened or read.
// It is the only failure that aborts a run.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read trace file %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ReadLines loads every line of the file at path. Line terminators,
// including a trailing '\r', are stripped. Lines longer than maxLineBytes are
// kept cut to maxLineBytes+1 bytes so the parse step can reject them.
func ReadLines(path string, maxLineBytes int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()
	lines, err := ScanLines(f, maxLineBytes)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return lines, nil
}

// ScanLines reads all lines from r. At most maxLineBytes+1 bytes of a line
// are buffered; the rest of an oversized line is discarded.
func ScanLines(r io.Reader, maxLineBytes int) ([]string, error) {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	br := bufio.NewReaderSize(r, min(64*1024, maxLineBytes))
	var (
		lines []string
		buf   []byte
	)
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, nil
			}
			return nil, err
		}
		if room := maxLineBytes + 1 - len(buf); room > 0 {
			buf = append(buf, frag[:min(len(frag), room)]...)
		}
		if isPrefix {
			continue
		}
		lines = append(lines, strings.TrimSuffix(string(buf), "\r"))
		buf = buf[:0]
	}
}

// AnalyzeFile reads the trace at path and parses it with a Dispatcher. The
// file is read completely before the first chunk is scheduled, so a
// FileAccessError is always returned before any progress notification.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	d := NewDispatcher(opts)
	lines, err := ReadLines(path, d.opts.MaxLineBytes)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, lines)
}

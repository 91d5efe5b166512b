package export

import (
	"encoding/json"
	"os"

	"ns3-trace-analyzer/internal/trace"
)

// FileWriter writes entries to a JSONL file, one object per line.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates path and returns a FileWriter for it.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Write logs a single entry.
func (f *FileWriter) Write(e trace.Entry) error {
	return f.enc.Encode(e)
}

// WriteBatch logs multiple entries.
func (f *FileWriter) WriteBatch(entries []trace.Entry) error {
	for _, e := range entries {
		if err := f.Write(e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (f *FileWriter) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

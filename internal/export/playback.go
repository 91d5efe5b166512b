package export

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"ns3-trace-analyzer/internal/trace"
)

// ReplayJSONL decodes entries written by FileWriter from r and sends them to
// writer in batches of batchSize. It returns the number of entries replayed.
func ReplayJSONL(r io.Reader, writer EntryWriter, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	dec := json.NewDecoder(r)
	batch := make([]trace.Entry, 0, batchSize)
	n := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := WriteAll(writer, batch); err != nil {
			return err
		}
		n += len(batch)
		batch = batch[:0]
		return nil
	}
	for {
		var e trace.Entry
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return n, flush()
			}
			return n, err
		}
		batch = append(batch, e)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return n, err
			}
		}
	}
}

// ReplayJSONLFile opens a file and replays its entries.
func ReplayJSONLFile(path string, writer EntryWriter, batchSize int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayJSONL(f, writer, batchSize)
}

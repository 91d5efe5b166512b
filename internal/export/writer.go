// Sinks for parsed trace entries
package export

import "ns3-trace-analyzer/internal/trace"

// EntryWriter consumes parsed trace entries.
type EntryWriter interface {
	Write(trace.Entry) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]trace.Entry) error
}

// WriteAll sends entries to w, using WriteBatch when w supports it.
func WriteAll(w EntryWriter, entries []trace.Entry) error {
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(entries)
	}
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			return err
		}
	}
	return nil
}

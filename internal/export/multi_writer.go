package export

import "ns3-trace-analyzer/internal/trace"

// MultiWriter fan-outs entries to multiple writers.
type MultiWriter struct {
	writers []EntryWriter
}

// NewMultiWriter creates a new MultiWriter. Nil writers are ignored.
func NewMultiWriter(ws ...EntryWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// Write sends an entry to all writers.
func (mw *MultiWriter) Write(e trace.Entry) error {
	for _, w := range mw.writers {
		if err := w.Write(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends entries to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(entries []trace.Entry) error {
	for _, w := range mw.writers {
		if err := WriteAll(w, entries); err != nil {
			return err
		}
	}
	return nil
}

// Writers returns the underlying writers.
func (mw *MultiWriter) Writers() []EntryWriter { return mw.writers }

// Package journal records the event stream to a zstd-compressed NDJSON
// file so long sessions can be replayed and diffed offline.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"

	"arenamind/server/logging"
)

// Recorder is a logging sink that appends every event as one JSON line to a
// zstd stream. It satisfies logging.Sink and plugs into the router like any
// other sink.
type Recorder struct {
	mu      sync.Mutex
	file    *os.File
	zw      *zstd.Encoder
	encoder *json.Encoder
	closed  bool
}

// Open creates or truncates the journal file at path.
func Open(path string) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	rec, err := newRecorder(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	rec.file = file
	return rec, nil
}

// NewWriter wraps an arbitrary writer. Used by tests to record into memory.
func NewWriter(w io.Writer) (*Recorder, error) {
	return newRecorder(w)
}

func newRecorder(w io.Writer) (*Recorder, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("journal compressor: %w", err)
	}
	return &Recorder{zw: zw, encoder: json.NewEncoder(zw)}, nil
}

// Write satisfies logging.Sink.
func (r *Recorder) Write(event logging.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("journal closed")
	}
	return r.encoder.Encode(event)
}

// Close flushes the compressed stream and the underlying file.
func (r *Recorder) Close(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.zw.Close()
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Read decodes every event from a journal stream, in order.
func Read(r io.Reader) ([]logging.Event, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("journal decompressor: %w", err)
	}
	defer zr.Close()

	var events []logging.Event
	decoder := json.NewDecoder(zr)
	for {
		var event logging.Event
		if err := decoder.Decode(&event); err == io.EOF {
			return events, nil
		} else if err != nil {
			return events, fmt.Errorf("journal decode: %w", err)
		}
		events = append(events, event)
	}
}

// Package trace records dispatched events as a zstd-compressed msgpack
// stream so that two runs can be compared event by event.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/sim"
)

// Record is one dispatched event.
type Record struct {
	Index      uint64  `msgpack:"i"` // dispatch order, from 0
	Seq        uint64  `msgpack:"q"` // calendar sequence number
	Time       float64 `msgpack:"t"`
	Type       string  `msgpack:"k"`
	Agent      uint64  `msgpack:"a"`
	Population int     `msgpack:"p"` // live agents after the event
}

func (r Record) String() string {
	return fmt.Sprintf("#%d t=%.6f %s agent=%d pop=%d seq=%d", r.Index, r.Time, r.Type, r.Agent, r.Population, r.Seq)
}

const defaultBatch = 512

// Writer buffers records and writes them in batches.
type Writer struct {
	f     *os.File
	zw    *zstd.Encoder
	bw    *bufio.Writer
	enc   *msgpack.Encoder
	batch []Record
	size  int
	next  uint64
	err   error
}

// Create opens path for writing, creating parent directories. Records are
// encoded once batch of them are pending.
func Create(path string, batch int) (*Writer, error) {
	if batch < 1 {
		batch = defaultBatch
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace: %w", err)
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	bw := bufio.NewWriterSize(zw, 128*1024)
	return &Writer{
		f:     f,
		zw:    zw,
		bw:    bw,
		enc:   msgpack.NewEncoder(bw),
		batch: make([]Record, 0, batch),
		size:  batch,
	}, nil
}

// Write appends r, assigning its Index.
func (w *Writer) Write(r Record) error {
	if w.err != nil {
		return w.err
	}
	r.Index = w.next
	w.next++
	w.batch = append(w.batch, r)
	if len(w.batch) >= w.size {
		return w.Flush()
	}
	return nil
}

// Flush encodes every pending record.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	for i := range w.batch {
		if err := w.enc.Encode(&w.batch[i]); err != nil {
			w.err = fmt.Errorf("encoding trace record: %w", err)
			return w.err
		}
	}
	w.batch = w.batch[:0]
	if err := w.bw.Flush(); err != nil {
		w.err = fmt.Errorf("flushing trace: %w", err)
	}
	return w.err
}

// Written returns how many records have been accepted.
func (w *Writer) Written() uint64 { return w.next }

// Observe implements sim.Observer. The first write error is logged and
// returned again by Close.
func (w *Writer) Observe(s *sim.Simulation, ev event.Event) {
	if w.err != nil {
		return
	}
	var id uint64
	if ev.Owner != nil {
		id = ev.Owner.ID()
	}
	err := w.Write(Record{
		Seq:        ev.Seq,
		Time:       ev.Time,
		Type:       ev.Type.String(),
		Agent:      id,
		Population: s.Population().Len(),
	})
	if err != nil {
		slog.Warn("trace write failed", "error", err)
	}
}

// Close flushes pending records and closes the file.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	zErr := w.zw.Close()
	fErr := w.f.Close()
	return errors.Join(flushErr, zErr, fErr)
}

// ReadFile decodes every record in the trace at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes every record from a compressed trace stream.
func Read(r io.Reader) ([]Record, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer zr.Close()

	dec := msgpack.NewDecoder(bufio.NewReader(zr))
	var out []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("decoding record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}

// Diff returns the index of the first record that differs between a and
// b, and whether the traces are identical. When one trace is a prefix of
// the other the index is the length of the shorter.
func Diff(a, b []Record) (int, bool) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i, false
		}
	}
	if len(a) != len(b) {
		return n, false
	}
	return n, true
}

// Package ndjson reads and writes readings and alerts as newline-delimited
// JSON, one record per line.
package ndjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// Writer streams records to an underlying writer as NDJSON. It buffers
// internally; call Close (or Flush) to ensure everything reaches the
// destination. Not safe for concurrent use.
type Writer struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// NewWriter wraps w. The caller retains ownership of w; Close flushes but
// does not close it.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	return &Writer{buf: buf, enc: json.NewEncoder(buf)}
}

// OpenFile creates (or truncates) path and returns a Writer that owns the
// file handle.
func OpenFile(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open ndjson output: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// WriteReadings appends one line per reading.
func (w *Writer) WriteReadings(ctx context.Context, readings []domain.Reading) error {
	for _, r := range readings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.enc.Encode(r); err != nil {
			return fmt.Errorf("encode reading %s: %w", r.SensorID, err)
		}
	}
	return nil
}

// PublishAlerts appends one line per alert.
func (w *Writer) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	for _, a := range alerts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.enc.Encode(a); err != nil {
			return fmt.Errorf("encode alert %s: %w", a.RuleName, err)
		}
	}
	return nil
}

// Flush pushes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Close flushes and, when the Writer owns its destination, closes it.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// ReadingScanner iterates readings from an NDJSON stream.
type ReadingScanner struct {
	scanner *bufio.Scanner
	line    int
}

// NewReadingScanner wraps r. Lines may be up to 1 MiB.
func NewReadingScanner(r io.Reader) *ReadingScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReadingScanner{scanner: s}
}

// Next returns the next reading, io.EOF at end of stream, or a decode error
// naming the offending line. Blank lines are skipped.
func (s *ReadingScanner) Next() (domain.Reading, error) {
	for s.scanner.Scan() {
		s.line++
		raw := s.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var r domain.Reading
		if err := json.Unmarshal(raw, &r); err != nil {
			return domain.Reading{}, fmt.Errorf("decode reading at line %d: %w", s.line, err)
		}
		return r, nil
	}
	if err := s.scanner.Err(); err != nil {
		return domain.Reading{}, err
	}
	return domain.Reading{}, io.EOF
}

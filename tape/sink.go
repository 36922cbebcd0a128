package tape

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Sink receives one rendered fill in both forms and persists whichever form
// it is responsible for.
type Sink interface {
	WriteFill(decorated, plain string) error
}

// SinkWriteError reports a failed write to one named sink. The fill itself
// is already on the tape; the run loop decides whether to halt.
type SinkWriteError struct {
	Sink string
	Err  error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("tape: %s sink write: %v", e.Sink, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

// ConsoleSink writes the decorated transcript to an interactive writer.
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) WriteFill(decorated, _ string) error {
	_, err := fmt.Fprintln(s.w, decorated)
	return err
}

// FileSink persists the plain audit log. It strips ANSI escapes at the sink
// boundary itself, so its output stays marker-free even if a caller hands
// it a decorated string.
type FileSink struct {
	w io.Writer
	f *os.File
}

// NewFileSink truncates path on open; the durable log covers one session.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open fill log: %w", err)
	}
	return &FileSink{w: f, f: f}, nil
}

// NewFileSinkWriter wraps an arbitrary writer, mostly for tests.
func NewFileSinkWriter(w io.Writer) *FileSink {
	return &FileSink{w: w}
}

func (s *FileSink) WriteFill(_, plain string) error {
	_, err := fmt.Fprintln(s.w, Strip(plain))
	return err
}

func (s *FileSink) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// DualSink routes one rendered fill to the interactive and durable sinks.
// Each sink gets its write regardless of whether the other failed; failures
// come back joined, wrapped per sink in SinkWriteError.
type DualSink struct {
	Console Sink
	File    Sink
}

func NewDualSink(console, file Sink) *DualSink {
	return &DualSink{Console: console, File: file}
}

func (d *DualSink) WriteFill(decorated, plain string) error {
	var errs []error
	if d.Console != nil {
		if err := d.Console.WriteFill(decorated, plain); err != nil {
			errs = append(errs, &SinkWriteError{Sink: "console", Err: err})
		}
	}
	if d.File != nil {
		if err := d.File.WriteFill(decorated, plain); err != nil {
			errs = append(errs, &SinkWriteError{Sink: "file", Err: err})
		}
	}
	return errors.Join(errs...)
}

// Package notify defines the user-facing notification surface consumed by
// the auth flows and the completion scheduler's fire handler.
package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/studynotes/internal/logging"
)

// Sink receives user-visible success/error feedback.
type Sink interface {
	Success(msg string)
	Error(msg string)
}

// WriterSink prints notifications to an io.Writer, typically the terminal.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Success(msg string) {
	fmt.Fprintln(s.w, msg)
}

func (s *WriterSink) Error(msg string) {
	fmt.Fprintln(s.w, "Error: "+msg)
}

// LoggerSink routes notifications to the structured logger; used when no
// interactive surface is attached.
type LoggerSink struct {
	log logging.Logger
}

func NewLoggerSink(log logging.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

func (s *LoggerSink) Success(msg string) {
	s.log.Info(context.Background(), msg)
}

func (s *LoggerSink) Error(msg string) {
	s.log.Error(context.Background(), msg)
}

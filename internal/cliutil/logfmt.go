package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Lifecycle event names emitted by the CLI while supervising a process.
const (
	EventStart     = "proc.start"
	EventExit      = "proc.exit"
	EventTerminate = "proc.terminate"
	EventError     = "proc.error"
)

// LogRecord represents a structured lifecycle log event ready for JSON
// encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Job       string    `json:"job"`
	Event     string    `json:"event"`
	Level     string    `json:"level"`
	Message   string    `json:"msg,omitempty"`
	Pid       int       `json:"pid,omitempty"`
	ExitCode  *int      `json:"exitCode,omitempty"`
	Signal    *int      `json:"signal,omitempty"`
}

// NewLogRecord builds a lifecycle record with sensible defaults applied.
// The message passes through secret redaction since job command lines often
// embed credentials.
func NewLogRecord(job, event, message string) LogRecord {
	level := "info"
	if event == EventError {
		level = "error"
	}
	return LogRecord{
		Timestamp: time.Now(),
		Job:       job,
		Event:     event,
		Level:     level,
		Message:   RedactSecrets(message),
	}
}

// WithExit attaches exit status fields to the record.
func (r LogRecord) WithExit(code, signal int) LogRecord {
	r.ExitCode = &code
	r.Signal = &signal
	return r
}

// WithPid attaches the process identifier to the record.
func (r LogRecord) WithPid(pid int) LogRecord {
	r.Pid = pid
	return r
}

// EncodeLogEvent encodes a record to JSON, reporting errors to stderr if
// needed.
func EncodeLogEvent(enc *json.Encoder, stderr io.Writer, record LogRecord) {
	if enc == nil {
		return
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := enc.Encode(&record); err != nil {
		fmt.Fprintf(stderr, "error: encode log: %v\n", err)
	}
}

package cliutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogRecordDefaults(t *testing.T) {
	record := NewLogRecord("db", EventStart, "postgres -D /data")
	if record.Level != "info" {
		t.Fatalf("expected info level, got %q", record.Level)
	}
	if record.Timestamp.IsZero() {
		t.Fatal("expected a timestamp")
	}
	if record.Job != "db" || record.Event != EventStart {
		t.Fatalf("unexpected record: %+v", record)
	}

	errRecord := NewLogRecord("db", EventError, "boom")
	if errRecord.Level != "error" {
		t.Fatalf("expected error level, got %q", errRecord.Level)
	}
}

func TestNewLogRecordRedactsSecrets(t *testing.T) {
	record := NewLogRecord("job", EventStart, "run --api_key=hunter2")
	if strings.Contains(record.Message, "hunter2") {
		t.Fatalf("secret leaked into log message: %q", record.Message)
	}
}

func TestEncodeLogEvent(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	code, sig := 3, 0
	record := NewLogRecord("job", EventExit, "").WithPid(123).WithExit(code, sig)
	EncodeLogEvent(enc, &bytes.Buffer{}, record)

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode emitted record: %v", err)
	}
	if decoded["event"] != EventExit {
		t.Fatalf("expected event %q, got %v", EventExit, decoded["event"])
	}
	if decoded["pid"] != float64(123) {
		t.Fatalf("expected pid 123, got %v", decoded["pid"])
	}
	if decoded["exitCode"] != float64(3) {
		t.Fatalf("expected exitCode 3, got %v", decoded["exitCode"])
	}
	if decoded["signal"] != float64(0) {
		t.Fatalf("expected signal 0, got %v", decoded["signal"])
	}

	// A nil encoder is tolerated rather than panicking.
	EncodeLogEvent(nil, &bytes.Buffer{}, record)
}

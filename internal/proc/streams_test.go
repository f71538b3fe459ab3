package proc

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

func TestBindStreamsInheritByDefault(t *testing.T) {
	b, err := bindStreams(Stream{}, Stream{}, Stream{})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer b.closeOpened()
	if b.files[0] != os.Stdin || b.files[1] != os.Stdout || b.files[2] != os.Stderr {
		t.Fatal("zero-value streams must inherit the parent's streams")
	}
	if len(b.opened) != 0 {
		t.Fatalf("inherit must not open files, got %d", len(b.opened))
	}
}

func TestBindStreamsAbortsWithoutLeaking(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	// stdout binds fine, then stdin... order is stdin first, so make
	// stdout fail instead: an unopenable directory path.
	_, err := bindStreams(Stream{}, FileStream(dir), FileStream(out))
	if err == nil {
		t.Fatal("expected binding a directory as stdout to fail")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("stderr target must not be created after an earlier binding failed")
	}
}

func TestBindStreamsFileModes(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	if err := writeFile(in, "x"); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if err := writeFile(out, "pre-existing "); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	b, err := bindStreams(FileStream(in), FileStream(out), DiscardStream())
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if len(b.opened) != 3 {
		t.Fatalf("expected 3 binder-opened files, got %d", len(b.opened))
	}

	// Output bindings append rather than truncate.
	if _, err := b.files[1].WriteString("appended"); err != nil {
		t.Fatalf("write: %v", err)
	}
	b.closeOpened()

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "pre-existing appended" {
		t.Fatalf("expected append semantics, got %q", got)
	}
}

func TestHandleStreamIsNotConsumed(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "owned"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	b, err := bindStreams(Stream{}, HandleStream(f), Stream{})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if len(b.opened) != 0 {
		t.Fatal("a caller-owned handle must not be tracked for closing")
	}
	b.closeOpened()

	// The caller's file must remain usable.
	if _, err := f.WriteString("still open"); err != nil {
		t.Fatalf("caller-owned handle was consumed: %v", err)
	}

	if _, err := bindStreams(Stream{}, HandleStream(nil), Stream{}); err == nil {
		t.Fatal("expected an error for a nil handle binding")
	}
}

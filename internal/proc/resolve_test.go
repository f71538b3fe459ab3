package proc

import (
	"path/filepath"
	"testing"
)

func TestLookExecutable(t *testing.T) {
	skipOnWindows(t)

	path, err := LookExecutable("sh")
	if err != nil {
		t.Fatalf("resolve sh: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Fatalf("expected an absolute path, got %q", path)
	}

	if _, err := LookExecutable("definitely-not-a-real-binary-4711"); err == nil {
		t.Fatal("expected a not-found error")
	}
	if _, err := LookExecutable(""); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestLookExecutableDirectPath(t *testing.T) {
	skipOnWindows(t)

	path, err := LookExecutable("/bin/sh")
	if err != nil {
		t.Fatalf("resolve /bin/sh: %v", err)
	}
	if path != "/bin/sh" {
		t.Fatalf("expected /bin/sh, got %q", path)
	}

	// A plain file without the execute bit is not an executable.
	plain := filepath.Join(t.TempDir(), "data")
	if err := writeFile(plain, "not a program"); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LookExecutable(plain); err == nil {
		t.Fatal("expected a not-executable error")
	}
}

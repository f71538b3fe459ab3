package proc

import (
	"fmt"
	"os/exec"
	"path/filepath"
)

// LookExecutable resolves name to an absolute path of a verified-executable
// file. Bare names are searched on PATH; relative and absolute paths are
// checked directly. A not-found result is an expected, recoverable
// condition for callers to branch on, not a programming error.
func LookExecutable(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("resolve executable: empty name")
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("resolve executable %q: %w", name, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve executable %q: %w", name, err)
	}
	return abs, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a job definition from the provided path. Unknown keys are a
// caller error, not silently ignored.
func Load(path string) (*Job, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve job path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open job file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var job Job
	if err := decoder.Decode(&job); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}

	if !job.Command.IsSet() {
		return nil, fmt.Errorf("%s: command is required", absPath)
	}
	if job.Name == "" {
		job.Name = defaultJobName(job)
	}
	if job.Cwd != "" && !filepath.IsAbs(job.Cwd) {
		job.Cwd = filepath.Clean(filepath.Join(filepath.Dir(absPath), job.Cwd))
	}
	return &job, nil
}

func defaultJobName(job Job) string {
	if len(job.Command.Argv) > 0 {
		return filepath.Base(job.Command.Argv[0])
	}
	return "shell"
}

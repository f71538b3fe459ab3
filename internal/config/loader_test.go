package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func writeJob(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write job file: %v", err)
	}
	return path
}

func TestLoadVectorCommand(t *testing.T) {
	path := writeJob(t, `
name: sleeper
command: ["sleep", "5"]
stdout: out.log
killOnRelease: true
timeout: 30s
`)
	job, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, job.Name, "sleeper")
	assert.Assert(t, is.DeepEqual(job.Command.Argv, []string{"sleep", "5"}))
	assert.Equal(t, job.Command.Shell, "")
	assert.Equal(t, job.KillOnRelease, true)
	assert.Equal(t, job.Timeout.Duration, 30*time.Second)

	spec, err := job.Spec()
	assert.NilError(t, err)
	assert.Equal(t, spec.KillOnRelease, true)
}

func TestLoadShellCommand(t *testing.T) {
	path := writeJob(t, `command: "sleep 5 | cat"`)
	job, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, job.Command.Shell, "sleep 5 | cat")
	assert.Equal(t, len(job.Command.Argv), 0)
	assert.Equal(t, job.Name, "shell")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeJob(t, `
command: ["true"]
restartPolicy: always
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "restartPolicy")
}

func TestLoadRequiresCommand(t *testing.T) {
	path := writeJob(t, `name: empty`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "command is required")
}

func TestLoadResolvesRelativeCwd(t *testing.T) {
	path := writeJob(t, `
command: ["true"]
cwd: work
`)
	job, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, job.Cwd, filepath.Join(filepath.Dir(path), "work"))
}

func TestLoadDefaultName(t *testing.T) {
	path := writeJob(t, `command: ["/usr/bin/sleep", "1"]`)
	job, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, job.Name, "sleep")
}

func TestKillSequenceConversion(t *testing.T) {
	path := writeJob(t, `
command: ["true"]
killSequence: [graceful, 2s, graceful, 8s, forceful]
`)
	job, err := Load(path)
	assert.NilError(t, err)

	spec, err := job.Spec()
	assert.NilError(t, err)
	assert.Equal(t, len(spec.KillSequence), 3)
	assert.Equal(t, spec.KillSequence[0].Grace, 2*time.Second)
	assert.Equal(t, spec.KillSequence[2].Grace, time.Duration(0))
}

func TestKillSequenceRejectsUnknownAction(t *testing.T) {
	path := writeJob(t, `
command: ["true"]
killSequence: [polite, 2s]
`)
	job, err := Load(path)
	assert.NilError(t, err)
	_, err = job.Spec()
	assert.ErrorContains(t, err, "unknown kill action")
}

func TestCommandRejectsMapping(t *testing.T) {
	path := writeJob(t, `
command:
  exe: true
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "command must be a string or a list of strings")
}

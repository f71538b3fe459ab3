package proc

import (
	"fmt"
	"os"
	"time"
)

// Spec describes one process to supervise. Exactly one of Argv and Shell
// must be set; everything else is optional. A Spec is immutable once handed
// to Start.
type Spec struct {
	// Argv is the argument vector form: Argv[0] names the executable
	// (unless Exe overrides it) and is resolved to an absolute path
	// before creation.
	Argv []string

	// Shell is a single command line handed to the platform shell.
	// Executable resolution is deferred to the shell; the handle's
	// ExePath stays empty for this form.
	Shell string

	// Exe overrides the executable actually launched while Argv[0] is
	// still what the child sees as its own name. Incompatible with Shell.
	Exe string

	// Dir is the child's working directory. It must already exist; a
	// missing directory is a creation failure, not a failure of the
	// child at runtime.
	Dir string

	// Stdin, Stdout and Stderr bind the child's standard streams. The
	// zero value inherits the parent's stream.
	Stdin, Stdout, Stderr Stream

	// KillOnRelease makes Close drive the kill escalation protocol
	// before releasing the handle, and registers the handle so
	// ShutdownAll can terminate it during program shutdown. No running
	// process then outlives its handle.
	KillOnRelease bool

	// KillSequence overrides DefaultSequence for Terminate, Close and
	// ShutdownAll when non-nil.
	KillSequence Sequence
}

// validate applies the configuration-error checks that must fail before any
// OS resource is touched.
func (s *Spec) validate() error {
	hasArgv := len(s.Argv) > 0
	hasShell := s.Shell != ""
	switch {
	case hasArgv && hasShell:
		return fmt.Errorf("command: argument vector and shell line are mutually exclusive")
	case !hasArgv && !hasShell:
		return fmt.Errorf("command: an argument vector or a shell line is required")
	case hasShell && s.Exe != "":
		return fmt.Errorf("exe: incompatible with a shell command line")
	}
	if hasArgv && s.Argv[0] == "" && s.Exe == "" {
		return fmt.Errorf("command: empty executable name")
	}
	return s.KillSequence.validate()
}

// Start creates the process described by spec and returns its handle with
// the lifecycle state machine in the Running state. On any failure no
// handle is produced and every partially-acquired resource (files opened
// for stream bindings) is released before returning.
func Start(spec Spec) (*Handle, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	if spec.Dir != "" {
		info, err := os.Stat(spec.Dir)
		if err != nil {
			return nil, fmt.Errorf("working directory %s: %w", spec.Dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("working directory %s: not a directory", spec.Dir)
		}
	}

	var exePath string
	var exe string
	var argv []string
	if spec.Shell != "" {
		exe, argv = shellCommand(spec.Shell)
	} else {
		name := spec.Exe
		if name == "" {
			name = spec.Argv[0]
		}
		resolved, err := LookExecutable(name)
		if err != nil {
			return nil, err
		}
		exePath = resolved
		exe = resolved
		argv = spec.Argv
	}

	bound, err := bindStreams(spec.Stdin, spec.Stdout, spec.Stderr)
	if err != nil {
		return nil, err
	}

	np, pid, err := startNative(exe, argv, spec.Dir, bound.files)
	// The parent's copies of binder-opened files are dead weight once the
	// spawn attempt is over, whichever way it went.
	bound.closeOpened()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", exe, err)
	}

	h := &Handle{
		spec:      spec,
		exePath:   exePath,
		pid:       pid,
		np:        np,
		startTime: time.Now().Truncate(time.Second),
	}
	if spec.KillOnRelease {
		h.shutdownID = registerShutdown(h)
	}
	return h, nil
}

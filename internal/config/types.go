package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/procwatch/internal/proc"
)

// Duration wraps time.Duration for YAML unmarshalling.
type Duration struct {
	time.Duration
	explicit bool
}

// UnmarshalText parses a textual duration, accepting empty strings.
func (d *Duration) UnmarshalText(text []byte) error {
	d.explicit = true
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsSet reports whether the duration was explicitly provided or non-zero.
func (d Duration) IsSet() bool {
	return d.explicit || d.Duration != 0
}

// Command accepts either a YAML sequence (argument vector form) or a YAML
// scalar (single shell-interpreted command line).
type Command struct {
	Argv  []string
	Shell string
}

// UnmarshalYAML decodes the two command shapes by node kind.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&c.Argv)
	case yaml.ScalarNode:
		return node.Decode(&c.Shell)
	default:
		return fmt.Errorf("line %d: command must be a string or a list of strings", node.Line)
	}
}

// IsSet reports whether either command form was provided.
func (c Command) IsSet() bool {
	return len(c.Argv) > 0 || c.Shell != ""
}

// StreamSpec configures one standard stream of the job. The keywords
// "inherit" (also the empty value) and "discard" select those modes;
// anything else is a file path.
type StreamSpec string

// Stream converts the spec into a binding for the process launcher.
func (s StreamSpec) Stream() proc.Stream {
	switch s {
	case "", "inherit":
		return proc.InheritStream()
	case "discard":
		return proc.DiscardStream()
	default:
		return proc.FileStream(string(s))
	}
}

// Job mirrors the job-file document structure.
type Job struct {
	Name          string     `yaml:"name"`
	Command       Command    `yaml:"command"`
	Exe           string     `yaml:"exe"`
	Cwd           string     `yaml:"cwd"`
	Stdin         StreamSpec `yaml:"stdin"`
	Stdout        StreamSpec `yaml:"stdout"`
	Stderr        StreamSpec `yaml:"stderr"`
	KillOnRelease bool       `yaml:"killOnRelease"`
	KillSequence  []string   `yaml:"killSequence"`
	Timeout       Duration   `yaml:"timeout"`
}

// Spec converts the job into a launch spec plus its kill sequence. The
// sequence is nil when the job file does not override the default.
func (j *Job) Spec() (proc.Spec, error) {
	spec := proc.Spec{
		Argv:          j.Command.Argv,
		Shell:         j.Command.Shell,
		Exe:           j.Exe,
		Dir:           j.Cwd,
		Stdin:         j.Stdin.Stream(),
		Stdout:        j.Stdout.Stream(),
		Stderr:        j.Stderr.Stream(),
		KillOnRelease: j.KillOnRelease,
	}
	if len(j.KillSequence) > 0 {
		seq, err := proc.ParseSequence(j.KillSequence)
		if err != nil {
			return proc.Spec{}, fmt.Errorf("killSequence: %w", err)
		}
		spec.KillSequence = seq
	}
	return spec, nil
}

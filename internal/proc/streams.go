package proc

import (
	"fmt"
	"os"
)

// StreamMode selects how one of the child's standard streams is bound.
type StreamMode int

const (
	// StreamInherit hands the child the parent's own stream. This is the
	// zero value and the default for all three streams. The child shares
	// the descriptor with the parent on every platform; a parent without
	// a valid standard handle (a detached Windows GUI process, say)
	// passes that absence through unchanged.
	StreamInherit StreamMode = iota
	// StreamDiscard binds the stream to the platform null device.
	StreamDiscard
	// StreamFile binds the stream to a named file, opened for reading on
	// stdin and created/appended on stdout and stderr.
	StreamFile
	// StreamHandle binds an already-open file. The descriptor is
	// duplicated into the child at spawn; the caller keeps ownership and
	// must close it themselves.
	StreamHandle
)

// Stream is a declarative binding for one standard stream of the child.
// The zero value inherits the parent's stream.
type Stream struct {
	mode StreamMode
	path string
	file *os.File
}

// InheritStream binds the child's stream to the parent's.
func InheritStream() Stream { return Stream{mode: StreamInherit} }

// DiscardStream binds the stream to the null device.
func DiscardStream() Stream { return Stream{mode: StreamDiscard} }

// FileStream binds the stream to the named file.
func FileStream(path string) Stream { return Stream{mode: StreamFile, path: path} }

// HandleStream binds the stream to an already-open file without consuming it.
func HandleStream(f *os.File) Stream { return Stream{mode: StreamHandle, file: f} }

// Mode reports how the stream is bound.
func (s Stream) Mode() StreamMode { return s.mode }

// Path returns the file path for a StreamFile binding.
func (s Stream) Path() string { return s.path }

// boundStreams carries the three files destined for the child plus the
// subset the binder opened itself, which must be closed again: on a failed
// creation nothing may leak, and after a successful spawn the parent's
// copies are no longer needed.
type boundStreams struct {
	files  [3]*os.File
	opened []*os.File
}

func (b *boundStreams) closeOpened() {
	for _, f := range b.opened {
		_ = f.Close()
	}
	b.opened = nil
}

// bindStreams materializes the three stream bindings in stdin, stdout,
// stderr order. The first failure closes everything opened so far and
// aborts; a partially-bound set is never returned.
func bindStreams(stdin, stdout, stderr Stream) (*boundStreams, error) {
	b := &boundStreams{}
	specs := []struct {
		name    string
		s       Stream
		inherit *os.File
		input   bool
	}{
		{"stdin", stdin, os.Stdin, true},
		{"stdout", stdout, os.Stdout, false},
		{"stderr", stderr, os.Stderr, false},
	}
	for i, spec := range specs {
		f, err := bindOne(spec.s, spec.inherit, spec.input)
		if err != nil {
			b.closeOpened()
			return nil, fmt.Errorf("bind %s: %w", spec.name, err)
		}
		b.files[i] = f
		if spec.s.mode == StreamDiscard || spec.s.mode == StreamFile {
			b.opened = append(b.opened, f)
		}
	}
	return b, nil
}

func bindOne(s Stream, inherit *os.File, input bool) (*os.File, error) {
	switch s.mode {
	case StreamInherit:
		return inherit, nil
	case StreamDiscard:
		flag := os.O_RDONLY
		if !input {
			flag = os.O_WRONLY
		}
		return os.OpenFile(os.DevNull, flag, 0)
	case StreamFile:
		if input {
			return os.Open(s.path)
		}
		return os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	case StreamHandle:
		if s.file == nil {
			return nil, fmt.Errorf("nil file handle")
		}
		return s.file, nil
	default:
		return nil, fmt.Errorf("unknown stream mode %d", s.mode)
	}
}

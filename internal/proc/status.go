package proc

// WaitStatus is the packed exit status of a reaped process, encoded the way
// the POSIX wait(2) status word is: bits 8-15 carry the exit code and bits
// 0-6 carry the number of the terminating signal. Exactly one of the two is
// meaningful; callers should consult Signal before interpreting ExitCode,
// since a signaled process reports an exit code of zero.
//
// The Windows backend synthesizes the same packing so tooling that expects
// the POSIX word sees a consistent value on both platforms.
type WaitStatus int

// ExitCode returns the process's own exit code, or 0 if it was signaled.
func (s WaitStatus) ExitCode() int {
	return int(s) >> 8 & 0xff
}

// Signal returns the terminating signal number, or 0 on a normal exit.
func (s WaitStatus) Signal() int {
	return int(s) & 0x7f
}

// Signaled reports whether the process was terminated by a signal.
func (s WaitStatus) Signaled() bool {
	return s.Signal() != 0
}

// statusFromCode packs a plain exit code into the wait-status word.
func statusFromCode(code int) WaitStatus {
	return WaitStatus((code & 0xff) << 8)
}

// statusFromSignal packs a terminating signal into the wait-status word.
func statusFromSignal(sig int) WaitStatus {
	return WaitStatus(sig & 0x7f)
}

package proc

import "time"

// waitOutcome classifies one poll of the platform wait primitive.
type waitOutcome int

const (
	// waitRunning means the process has not terminated yet.
	waitRunning waitOutcome = iota
	// waitExited means the poll consumed the process's exit status.
	waitExited
	// waitLost means the process is gone but its status was already
	// consumed by another observer (for example an external reaper), so
	// no status word can ever be recovered for it.
	waitLost
)

// nativeProc is the platform-level capability set for one child process:
// non-blocking status collection, bounded passive waiting, termination
// signaling, and resource release. The lifecycle state machine in handle.go
// is written entirely against this interface; backend_unix.go and
// backend_windows.go provide the two concrete models (pid + wait4/kill
// versus OS handle + WaitForSingleObject/TerminateProcess).
type nativeProc interface {
	// poll performs one non-blocking reap attempt. On waitExited the
	// returned status is the packed wait-status word. The OS primitive
	// behind poll is single-consumer; callers must serialize poll for a
	// given process (handle.go funnels every call through h.mu).
	poll() (waitOutcome, WaitStatus, error)

	// await blocks the calling goroutine for up to d while the process
	// may still be running. It never consumes exit status; it exists so
	// a waiter can sleep efficiently between polls. It may return early
	// (process likely exited, spurious wakeup) or run the full duration.
	await(d time.Duration)

	// signal delivers the graceful termination action, or the forceful
	// one when forceful is true. Delivery to an already-dead process is
	// not an error. On platforms without a graceful/forceful distinction
	// both degrade to the forceful action.
	signal(forceful bool) error

	// close releases any platform resources held for the process. It
	// does not terminate the process and is idempotent.
	close()
}

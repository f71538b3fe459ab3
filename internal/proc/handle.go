package proc

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrReleased is returned by operations on a handle after Close.
var ErrReleased = errors.New("process handle released")

// Handle supervises one process from creation through termination. It is
// the lifecycle state machine of the package: a handle is Running while the
// native reference is held and becomes Exited, terminally, once the exit
// status has been reaped. All operations are synchronous; the handle spawns
// no goroutines of its own and is safe for concurrent use, with every state
// mutation funneled through the single mutex-serialized reap path.
//
// The package installs no asynchronous exit notification. A background
// process's exit becomes visible through whichever caller polls Alive, Poll
// or Wait next; something must do so periodically for the exit to be seen.
type Handle struct {
	spec       Spec
	exePath    string
	pid        int
	startTime  time.Time
	shutdownID uint64

	mu       sync.Mutex
	np       nativeProc // non-nil iff the process has not been reaped
	reaped   bool
	status   WaitStatus
	endTime  time.Time
	released bool
}

// Pid returns the platform process identifier. It is assigned at creation
// and remains stable after the process exits.
func (h *Handle) Pid() int { return h.pid }

// ExePath returns the resolved absolute executable path, or an empty string
// for the shell-command form, where resolution was left to the shell.
func (h *Handle) ExePath() string { return h.exePath }

// StartTime returns the coarse wall-clock creation time.
func (h *Handle) StartTime() time.Time { return h.startTime }

// EndTime returns the coarse wall-clock time at which the exit status was
// reaped, and false while the process is still running.
func (h *Handle) EndTime() (time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.endTime, h.reaped
}

// completeLocked performs the single Running→Exited transition. The status
// word is recorded exactly once and the native reference is released;
// callers must hold h.mu.
func (h *Handle) completeLocked(st WaitStatus) {
	h.status = st
	h.reaped = true
	h.endTime = time.Now().Truncate(time.Second)
	h.np.close()
	h.np = nil
}

// pollLocked is the sole consumer of the platform wait primitive for this
// handle: one non-blocking reap attempt under h.mu. A process whose status
// was already consumed elsewhere still transitions to Exited, with a
// synthesized zero status — the handle must never report "running" forever
// because status collection raced another observer.
func (h *Handle) pollLocked() (WaitStatus, bool, error) {
	if h.reaped {
		return h.status, true, nil
	}
	if h.np == nil {
		return 0, false, ErrReleased
	}
	outcome, st, err := h.np.poll()
	if err != nil {
		return 0, false, err
	}
	switch outcome {
	case waitExited:
		h.completeLocked(st)
		return h.status, true, nil
	case waitLost:
		h.completeLocked(0)
		return h.status, true, nil
	}
	return 0, false, nil
}

// Poll performs one non-blocking reap attempt. It returns the cached status
// once the handle is Exited and (0, false), without mutating state, while
// the process is still running.
func (h *Handle) Poll() (WaitStatus, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, done, err := h.pollLocked()
	if err != nil {
		return 0, false
	}
	return st, done
}

// Alive reports whether the process is still running. It returns false
// immediately once the handle is Exited; otherwise it performs an
// opportunistic non-blocking reap first, so polling Alive in a loop is a
// valid way to make a background process's exit observable.
func (h *Handle) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reaped || h.released {
		return false
	}
	_, done, err := h.pollLocked()
	if err != nil {
		// An unexpected wait failure leaves liveness unknown; report
		// running rather than fabricating an exit.
		return true
	}
	return !done
}

// Status returns the raw packed wait-status word once the handle is Exited.
func (h *Handle) Status() (WaitStatus, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.reaped
}

// ExitCode returns the process's own exit code once Exited. A zero code is
// ambiguous between a clean exit and death by signal; consult ExitSignal
// before trusting it.
func (h *Handle) ExitCode() (int, bool) {
	st, ok := h.Status()
	if !ok {
		return 0, false
	}
	return st.ExitCode(), true
}

// ExitSignal returns the terminating signal number once Exited, 0 for a
// normal exit.
func (h *Handle) ExitSignal() (int, bool) {
	st, ok := h.Status()
	if !ok {
		return 0, false
	}
	return st.Signal(), true
}

// Wait blocks until the process has been reaped or ctx is done, whichever
// comes first, and returns the packed status on success. The context
// deadline bounds total blocking time: the loop recomputes the remaining
// budget on every wakeup, so interrupted or spurious wakeups of the
// underlying primitive retry without ever overshooting the deadline. An
// already-expired context still gets one non-blocking reap attempt, making
// Wait with such a context equivalent to Poll.
//
// Wait is idempotent: once a reap has succeeded it returns the cached
// status immediately without touching the OS. It never holds the handle
// lock while blocked, so a concurrent Terminate can reap and wake it.
func (h *Handle) Wait(ctx context.Context) (WaitStatus, error) {
	for {
		h.mu.Lock()
		st, done, err := h.pollLocked()
		np := h.np
		h.mu.Unlock()
		if err != nil {
			return 0, err
		}
		if done {
			return st, nil
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		slice := 50 * time.Millisecond
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining < slice {
				slice = remaining
			}
		}
		if slice > 0 {
			np.await(slice)
		}
	}
}

// Close releases the handle. With KillOnRelease set, the kill escalation
// protocol runs first so no running process outlives its handle; the
// handle is then removed from the shutdown registry and the native
// reference dropped. Closing an already-exited or already-closed handle is
// a no-op. Without KillOnRelease, a still-running process is left running
// and merely unobservable through this handle afterward.
func (h *Handle) Close() error {
	if h.spec.KillOnRelease && h.Alive() {
		h.Terminate(context.Background(), h.spec.KillSequence)
	}
	if h.shutdownID != 0 {
		unregisterShutdown(h.shutdownID)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.np != nil {
		h.np.close()
		h.np = nil
		h.released = true
	}
	return nil
}

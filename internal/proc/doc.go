// Package proc supervises one externally-launched process per Handle, from
// creation with redirected standard streams through liveness probing,
// at-most-once exit-status reaping, timeout-bounded waiting, and a
// graceful-then-forceful kill escalation protocol.
//
// Two native process models hide behind one contract. On POSIX systems the
// pid is the native reference, wait4 with WNOHANG collects exit status, and
// kill(2) delivers SIGTERM or SIGKILL. On Windows an OS process handle is
// the reference, WaitForSingleObject observes termination, and
// TerminateProcess ends the process — there the graceful action degrades to
// the forceful one, a best-effort limitation of the platform rather than of
// the protocol.
//
// Exit status is exposed as the POSIX packed wait-status word on both
// platforms: status>>8 is the exit code, status&0x7f the terminating
// signal. The OS-level wait primitive is single-consumer, so all status
// collection for a handle funnels through one internal, mutex-serialized
// reap path; concurrent observers on the same handle see the first reap's
// cached result. The package manages exactly one process per handle and
// does not stream the child's output while it runs; richer tools own that
// problem.
package proc

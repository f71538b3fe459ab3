//go:build !windows

package proc

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// unixProc supervises a child through the POSIX model: the pid is the
// native reference, wait4 with WNOHANG collects status, and kill(2)
// delivers termination signals.
type unixProc struct {
	pid int
}

// startNative launches the child with the provided standard streams and
// returns its platform handle. The *os.Process is released immediately;
// status collection goes through wait4 so it can be non-blocking, which
// os.Process.Wait cannot express.
func startNative(exe string, argv []string, dir string, files [3]*os.File) (nativeProc, int, error) {
	attr := &os.ProcAttr{
		Dir:   dir,
		Files: []*os.File{files[0], files[1], files[2]},
	}
	p, err := os.StartProcess(exe, argv, attr)
	if err != nil {
		return nil, 0, err
	}
	pid := p.Pid
	_ = p.Release()
	return &unixProc{pid: pid}, pid, nil
}

// shellCommand maps a single shell-interpreted line onto an exec vector.
// Resolution of the commands inside the line is the shell's business.
func shellCommand(line string) (string, []string) {
	return "/bin/sh", []string{"sh", "-c", line}
}

func (p *unixProc) poll() (waitOutcome, WaitStatus, error) {
	for {
		var ws unix.WaitStatus
		wpid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			// Someone else consumed the status (an external reaper,
			// or the child was never ours to wait on). The process
			// is gone either way.
			return waitLost, 0, nil
		case err != nil:
			return waitRunning, 0, fmt.Errorf("wait4 pid %d: %w", p.pid, err)
		case wpid == p.pid:
			return waitExited, WaitStatus(ws), nil
		default:
			return waitRunning, 0, nil
		}
	}
}

// await sleeps briefly; POSIX offers no way to wait on a pid with a timeout
// without consuming its status, so bounded waiting is polling. The caller
// loops poll/await and recomputes its own deadline each round.
func (p *unixProc) await(d time.Duration) {
	const slice = 20 * time.Millisecond
	if d > slice {
		d = slice
	}
	if d > 0 {
		time.Sleep(d)
	}
}

func (p *unixProc) signal(forceful bool) error {
	sig := unix.SIGTERM
	if forceful {
		sig = unix.SIGKILL
	}
	if err := unix.Kill(p.pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("signal pid %d: %w", p.pid, err)
	}
	return nil
}

func (p *unixProc) close() {}

//go:build windows

package proc

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/windows"
)

// windowsProc supervises a child through the handle model: an OS process
// handle is the native reference, WaitForSingleObject observes termination
// with a real timeout, and TerminateProcess ends the process.
//
// Windows has no general-purpose graceful termination for an arbitrary
// child, so the graceful action degrades to TerminateProcess. This is a
// documented platform limitation, not a protocol violation; processes that
// need an orderly shutdown on Windows must arrange their own channel for it.
type windowsProc struct {
	pid int

	mu     sync.RWMutex
	handle windows.Handle
	closed bool
}

const stillActive = 259 // STILL_ACTIVE exit code sentinel

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
	h, err := windows.OpenProcess(
		windows.SYNCHRONIZE|windows.PROCESS_QUERY_LIMITED_INFORMATION|windows.PROCESS_TERMINATE,
		false, uint32(pid))
	_ = p.Release()
	if err != nil {
		return nil, 0, fmt.Errorf("open process %d: %w", pid, err)
	}
	return &windowsProc{pid: pid, handle: h}, pid, nil
}

func shellCommand(line string) (string, []string) {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = `C:\Windows\System32\cmd.exe`
	}
	return comspec, []string{"cmd", "/c", line}
}

func (p *windowsProc) poll() (waitOutcome, WaitStatus, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return waitLost, 0, nil
	}
	ev, err := windows.WaitForSingleObject(p.handle, 0)
	switch ev {
	case windows.WAIT_TIMEOUT:
		return waitRunning, 0, nil
	case windows.WAIT_OBJECT_0:
		var code uint32
		if err := windows.GetExitCodeProcess(p.handle, &code); err != nil {
			return waitLost, 0, nil
		}
		if code == stillActive {
			return waitRunning, 0, nil
		}
		return waitExited, statusFromCode(int(code)), nil
	default:
		return waitRunning, 0, fmt.Errorf("wait for process %d: %w", p.pid, err)
	}
}

func (p *windowsProc) await(d time.Duration) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		time.Sleep(d)
		return
	}
	ms := uint32(windows.INFINITE)
	if d >= 0 {
		ms = uint32(d / time.Millisecond)
	}
	_, _ = windows.WaitForSingleObject(p.handle, ms)
}

func (p *windowsProc) signal(forceful bool) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil
	}
	// Exit code 1 distinguishes a forced kill from a clean exit; there is
	// no signal number to convey on Windows.
	err := windows.TerminateProcess(p.handle, 1)
	if err != nil && err != windows.ERROR_ACCESS_DENIED {
		return fmt.Errorf("terminate process %d: %w", p.pid, err)
	}
	return nil
}

func (p *windowsProc) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	_ = windows.CloseHandle(p.handle)
}

package proc

import "testing"

func TestWaitStatusPacking(t *testing.T) {
	cases := []struct {
		name   string
		status WaitStatus
		code   int
		signal int
	}{
		{"clean exit", statusFromCode(0), 0, 0},
		{"exit code 3", statusFromCode(3), 3, 0},
		{"exit code 255", statusFromCode(255), 255, 0},
		{"sigterm", statusFromSignal(15), 0, 15},
		{"sigkill", statusFromSignal(9), 0, 9},
		{"sigkill with core-dump bit", WaitStatus(9 | 0x80), 0, 9},
	}
	for _, tc := range cases {
		if got := tc.status.ExitCode(); got != tc.code {
			t.Errorf("%s: exit code %d, expected %d", tc.name, got, tc.code)
		}
		if got := tc.status.Signal(); got != tc.signal {
			t.Errorf("%s: signal %d, expected %d", tc.name, got, tc.signal)
		}
		if tc.status.Signaled() != (tc.signal != 0) {
			t.Errorf("%s: Signaled() inconsistent with signal %d", tc.name, tc.signal)
		}
	}
}

func TestWaitStatusMatchesShellConvention(t *testing.T) {
	// The packed word is the POSIX status word: a shell reading $? after
	// `exit 3` corresponds to 3<<8 here.
	if statusFromCode(3) != 0x300 {
		t.Fatalf("expected 0x300, got %#x", int(statusFromCode(3)))
	}
	if statusFromSignal(9) != 9 {
		t.Fatalf("expected 9, got %d", int(statusFromSignal(9)))
	}
}

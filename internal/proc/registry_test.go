package proc

import (
	"context"
	"testing"
	"time"
)

func TestCloseKillsWhenConfigured(t *testing.T) {
	skipOnWindows(t)

	h, err := Start(Spec{
		Argv:          []string{"/bin/sh", "-c", "sleep 30"},
		KillOnRelease: true,
		KillSequence:  Sequence{{ActionForceful, 2 * time.Second}},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !h.Alive() {
		t.Fatal("expected process running before close")
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if h.Alive() {
		t.Fatal("kill-on-release handle left its process running")
	}
	if sig, ok := h.ExitSignal(); !ok || sig == 0 {
		t.Fatalf("expected a signaled exit after close, got (%d, %v)", sig, ok)
	}
}

func TestCloseWithoutKillLeavesProcessAlone(t *testing.T) {
	skipOnWindows(t)

	h, err := Start(Spec{Argv: []string{"/bin/sh", "-c", "sleep 0.3"}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if h.Alive() {
		t.Fatal("closed handle must not report the process as alive")
	}
	if _, ok := h.Status(); ok {
		t.Fatal("closing without kill-on-release must not fabricate a status")
	}
}

func TestShutdownAllDrainsRegistry(t *testing.T) {
	skipOnWindows(t)

	h, err := Start(Spec{
		Argv:          []string{"/bin/sh", "-c", "sleep 30"},
		KillOnRelease: true,
		KillSequence:  Sequence{{ActionForceful, 2 * time.Second}},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ShutdownAll(ctx)

	if h.Alive() {
		t.Fatal("shutdown did not terminate a registered handle")
	}

	shutdownMu.Lock()
	remaining := len(shutdownEntries)
	shutdownMu.Unlock()
	if remaining != 0 {
		t.Fatalf("registry should be empty after shutdown, found %d entries", remaining)
	}
}

func TestUnregisterRemovesEntry(t *testing.T) {
	fp := &fakeProc{}
	h := fakeHandle(fp)
	id := registerShutdown(h)

	shutdownMu.Lock()
	before := len(shutdownEntries)
	shutdownMu.Unlock()
	if before == 0 {
		t.Fatal("expected an entry after registration")
	}

	unregisterShutdown(id)
	shutdownMu.Lock()
	for _, entry := range shutdownEntries {
		if entry.id == id {
			shutdownMu.Unlock()
			t.Fatal("entry survived unregistration")
		}
	}
	shutdownMu.Unlock()
}

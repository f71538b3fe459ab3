package proc

import (
	"context"
	"sync"
	"weak"
)

// The shutdown registry tracks every live handle created with
// KillOnRelease so an orderly program shutdown can terminate their
// processes in registration order. References are weak: the registry never
// keeps a handle (or its process) alive, and a handle collected without
// Close simply drops out of the drain. Termination runs from the explicit
// ShutdownAll hook, never from finalizers, whose ordering across unrelated
// objects guarantees nothing about termination-before-teardown.

type shutdownEntry struct {
	id     uint64
	handle weak.Pointer[Handle]
}

var (
	shutdownMu      sync.Mutex
	shutdownNextID  uint64 = 1
	shutdownEntries []shutdownEntry
)

func registerShutdown(h *Handle) uint64 {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	id := shutdownNextID
	shutdownNextID++
	shutdownEntries = append(shutdownEntries, shutdownEntry{id: id, handle: weak.Make(h)})
	return id
}

func unregisterShutdown(id uint64) {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	for i, entry := range shutdownEntries {
		if entry.id == id {
			shutdownEntries = append(shutdownEntries[:i], shutdownEntries[i+1:]...)
			return
		}
	}
}

// ShutdownAll terminates every registered kill-on-release handle that is
// still reachable and alive, in registration order, and empties the
// registry. Intended to run once from the program's shutdown path; ctx
// bounds the grace-period waits of each handle's kill sequence.
func ShutdownAll(ctx context.Context) {
	shutdownMu.Lock()
	entries := shutdownEntries
	shutdownEntries = nil
	shutdownMu.Unlock()

	for _, entry := range entries {
		h := entry.handle.Value()
		if h == nil {
			continue
		}
		h.Terminate(ctx, h.spec.KillSequence)
	}
}

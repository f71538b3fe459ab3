package proc

import (
	"context"
	"fmt"
	"time"
)

// Action names a termination request in a kill sequence.
type Action int

const (
	// ActionGraceful is a request the target may intercept and act on
	// before exiting (SIGTERM on POSIX systems). Platforms without a
	// graceful mechanism degrade it to the forceful action.
	ActionGraceful Action = iota
	// ActionForceful is an unconditional termination the target cannot
	// intercept (SIGKILL on POSIX systems).
	ActionForceful
)

func (a Action) String() string {
	switch a {
	case ActionGraceful:
		return "graceful"
	case ActionForceful:
		return "forceful"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps an action name from the closed set {graceful, forceful}.
func ParseAction(name string) (Action, error) {
	switch name {
	case "graceful":
		return ActionGraceful, nil
	case "forceful":
		return ActionForceful, nil
	default:
		return 0, fmt.Errorf("unknown kill action %q", name)
	}
}

// Step is one entry of a kill sequence: deliver Action, then wait up to
// Grace for the process to die before escalating to the next step.
type Step struct {
	Action Action
	Grace  time.Duration
}

// Sequence is an ordered kill escalation plan. A zero Grace means "no
// further wait" and is valid only on the final step.
type Sequence []Step

func (s Sequence) validate() error {
	for i, step := range s {
		if step.Grace < 0 {
			return fmt.Errorf("kill sequence step %d: negative grace period", i)
		}
		if step.Grace == 0 && i != len(s)-1 {
			return fmt.Errorf("kill sequence step %d: grace period may be omitted only on the final step", i)
		}
	}
	return nil
}

// DefaultSequence returns the escalation plan used when the caller supplies
// none: a graceful request with a short grace, the same request again with
// a longer one for processes whose shutdown path is slow to engage, then
// the forceful action twice. Total worst-case wait is the sum of the grace
// periods, 16 seconds.
func DefaultSequence() Sequence {
	return Sequence{
		{ActionGraceful, 2 * time.Second},
		{ActionGraceful, 8 * time.Second},
		{ActionForceful, 3 * time.Second},
		{ActionForceful, 3 * time.Second},
	}
}

// ParseSequence decodes the flat textual form of a kill sequence: an
// ordered list alternating action names and grace periods, for example
// ["graceful", "2s", "graceful", "8s", "forceful"]. The grace period may be
// omitted only for the final action.
func ParseSequence(entries []string) (Sequence, error) {
	var seq Sequence
	for i := 0; i < len(entries); {
		action, err := ParseAction(entries[i])
		if err != nil {
			return nil, fmt.Errorf("kill sequence entry %d: %w", i, err)
		}
		i++
		step := Step{Action: action}
		if i < len(entries) {
			grace, err := time.ParseDuration(entries[i])
			if err != nil {
				return nil, fmt.Errorf("kill sequence entry %d: invalid grace period %q: %w", i, entries[i], err)
			}
			if grace <= 0 {
				return nil, fmt.Errorf("kill sequence entry %d: grace period must be positive", i)
			}
			step.Grace = grace
			i++
		}
		seq = append(seq, step)
	}
	if err := seq.validate(); err != nil {
		return nil, err
	}
	return seq, nil
}

// Terminate drives the kill escalation protocol and reports whether the
// process is confirmed not alive afterward, "already dead" included. Each
// step short-circuits if the process is already gone, delivers its action,
// then performs a blocking reap bounded by the step's grace period — the
// bounded wait is also how the next step's liveness check is informed, so
// termination and observation interleave rather than running as separate
// phases. With a nil sequence DefaultSequence applies.
//
// Terminate is idempotent and safe on an already-exited handle: it returns
// true immediately without issuing any action. Signal delivery that fails
// because the process already exited counts as success.
func (h *Handle) Terminate(ctx context.Context, seq Sequence) bool {
	if seq == nil {
		seq = DefaultSequence()
	}
	for _, step := range seq {
		if !h.Alive() {
			return true
		}
		h.mu.Lock()
		np := h.np
		h.mu.Unlock()
		if np == nil {
			return true
		}
		if err := np.signal(step.Action == ActionForceful); err != nil {
			continue
		}
		if step.Grace <= 0 {
			continue
		}
		waitCtx, cancel := context.WithTimeout(ctx, step.Grace)
		_, err := h.Wait(waitCtx)
		cancel()
		if err == nil {
			return true
		}
	}
	return !h.Alive()
}

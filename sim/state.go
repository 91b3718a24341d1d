package sim

import "fmt"

// StateName names one of the buckets a process can occupy.
type StateName string

// The closed set of states.
const (
	StateHold    StateName = "Hold"
	StateReady   StateName = "Ready"
	StateRun     StateName = "Run"
	StateSuspend StateName = "Suspend"
	StateBlocked StateName = "Blocked"
	StateDone    StateName = "Done"
)

// AllStates returns every state name in declaration order.
func AllStates() []StateName {
	return []StateName{
		StateHold,
		StateReady,
		StateRun,
		StateSuspend,
		StateBlocked,
		StateDone,
	}
}

// ParseStateName converts a string to a StateName. It fails if the name is
// not one of the known states.
func ParseStateName(name string) (StateName, error) {
	for _, s := range AllStates() {
		if string(s) == name {
			return s, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownState, name)
}

// Limits maps a state to the maximum number of processes it may hold. A state
// that is absent from the map is unlimited.
type Limits map[StateName]int

// DefaultLimits returns the standard capacity table.
func DefaultLimits() Limits {
	return Limits{
		StateReady:   4,
		StateBlocked: 6,
		StateRun:     1,
	}
}

// Clone returns an independent copy of the limits.
func (l Limits) Clone() Limits {
	c := make(Limits, len(l))
	for k, v := range l {
		c[k] = v
	}

	return c
}

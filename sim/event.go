package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownState is returned when a name is not one of the known states.
	ErrUnknownState = errors.New("unknown state")

	// ErrEmptyCatalog is returned when an engine is built without events.
	ErrEmptyCatalog = errors.New("event catalog is empty")
)

// An Event is a permissible transition from one state to another.
type Event struct {
	From StateName
	To   StateName
}

// NewEvent creates an event.
func NewEvent(from, to StateName) Event {
	return Event{From: from, To: to}
}

func (e Event) String() string {
	return fmt.Sprintf("%s -> %s", e.From, e.To)
}

// A Catalog is the ordered list of events the engine draws from. Entries may
// repeat; a repeated entry is drawn proportionally more often.
type Catalog []Event

// DefaultCatalog returns the standard twelve-entry catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		NewEvent(StateHold, StateReady),
		NewEvent(StateReady, StateRun),
		NewEvent(StateRun, StateBlocked),
		NewEvent(StateBlocked, StateReady),
		NewEvent(StateRun, StateSuspend), // user
		NewEvent(StateRun, StateSuspend), // timer
		NewEvent(StateBlocked, StateDone),
		NewEvent(StateSuspend, StateDone),
		NewEvent(StateSuspend, StateReady), // user
		NewEvent(StateSuspend, StateReady), // timer
		NewEvent(StateRun, StateDone),
		NewEvent(StateReady, StateHold),
	}
}

// Weight returns how many entries of the catalog equal the event.
func (c Catalog) Weight(e Event) int {
	n := 0
	for _, entry := range c {
		if entry == e {
			n++
		}
	}

	return n
}

// Validate checks that the catalog is not empty and only names known states.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}

	for i, e := range c {
		for _, s := range []StateName{e.From, e.To} {
			if _, err := ParseStateName(string(s)); err != nil {
				return fmt.Errorf("catalog entry %d: %w", i, err)
			}
		}
	}

	return nil
}

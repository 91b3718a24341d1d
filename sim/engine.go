package sim

// DefaultMaxEvents is the number of events an engine fires before it stops.
const DefaultMaxEvents = 500

// A RandSource draws uniformly distributed integers in [0, n). *rand.Rand
// satisfies it.
type RandSource interface {
	Intn(n int) int
}

// EventCounter can be used to get the number of events fired so far.
type EventCounter interface {
	EventCount() int
}

// A TerminationCondition reports whether the simulation should stop, in
// addition to the event budget.
type TerminationCondition func(store *Store) bool

// AllProcessesDone is a TerminationCondition that holds once the store has at
// least one process and every process is in Done.
func AllProcessesDone(store *Store) bool {
	total := store.TotalProcessCount()
	return total > 0 && store.GetProcessCount(StateDone) == total
}

// A SimulationEndHandler is a handler that is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(eventCount int)
}

// TickResult describes the outcome of applying one event.
type TickResult struct {
	Event   Event
	Process *Process
	Moved   bool
}

// An Engine repeatedly draws events from a catalog and applies them to a
// Store until it is finished.
type Engine interface {
	Hookable
	EventCounter

	// SelectRandomEvent draws one catalog entry uniformly.
	SelectRandomEvent() Event

	// Tick draws one event, applies it, and counts it.
	Tick() TickResult

	// IsFinished tells if the engine has reached a termination condition.
	IsFinished() bool

	// Run ticks until the engine is finished.
	Run() error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()

	// RegisterSimulationEndHandler registers a handler that perform some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandler
	Finished()
}

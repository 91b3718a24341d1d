package sim

import (
	"sync"
)

// A SerialEngine is an Engine that applies events one after another.
type SerialEngine struct {
	HookableBase

	store      *Store
	catalog    Catalog
	rand       RandSource
	maxEvents  int
	conditions []TerminationCondition

	countLock  sync.RWMutex
	eventCount int

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine that drives the store with events
// drawn from the catalog. The catalog is copied.
func NewSerialEngine(
	store *Store,
	catalog Catalog,
	rand RandSource,
) (*SerialEngine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	e := new(SerialEngine)
	e.store = store
	e.catalog = append(Catalog(nil), catalog...)
	e.rand = rand
	e.maxEvents = DefaultMaxEvents

	return e, nil
}

// SetMaxEvents changes the event budget.
func (e *SerialEngine) SetMaxEvents(n int) {
	e.maxEvents = n
}

// MaxEvents returns the event budget.
func (e *SerialEngine) MaxEvents() int {
	return e.maxEvents
}

// Catalog returns a copy of the catalog the engine draws from.
func (e *SerialEngine) Catalog() Catalog {
	return append(Catalog(nil), e.catalog...)
}

// Store returns the store the engine drives.
func (e *SerialEngine) Store() *Store {
	return e.store
}

// RegisterTerminationCondition adds a condition that can finish the engine
// before the event budget is spent.
func (e *SerialEngine) RegisterTerminationCondition(c TerminationCondition) {
	e.conditions = append(e.conditions, c)
}

// SelectRandomEvent draws a catalog index uniformly and returns its event.
func (e *SerialEngine) SelectRandomEvent() Event {
	return e.catalog[e.rand.Intn(len(e.catalog))]
}

// Tick draws an event and applies it to the store. The event is counted
// whether or not a process moved.
func (e *SerialEngine) Tick() TickResult {
	evt := e.SelectRandomEvent()

	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	p, moved := e.store.ChangeProcessState(evt)
	e.incrementCount()

	result := TickResult{
		Event:   evt,
		Process: p,
		Moved:   moved,
	}

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Detail = result
	e.InvokeHook(hookCtx)

	return result
}

// EventCount returns the number of events fired so far.
func (e *SerialEngine) EventCount() int {
	e.countLock.RLock()
	defer e.countLock.RUnlock()

	return e.eventCount
}

func (e *SerialEngine) incrementCount() {
	e.countLock.Lock()
	e.eventCount++
	e.countLock.Unlock()
}

// IsFinished returns true once the event budget is spent or any termination
// condition holds.
func (e *SerialEngine) IsFinished() bool {
	if e.EventCount() >= e.maxEvents {
		return true
	}

	for _, c := range e.conditions {
		if c(e.store) {
			return true
		}
	}

	return false
}

// Run ticks until the engine is finished.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		e.pauseLock.Lock()

		if e.IsFinished() {
			e.pauseLock.Unlock()
			return nil
		}

		e.Tick()

		e.pauseLock.Unlock()
	}
}

// Pause prevents the SerialEngine to fire more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to fire more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// IsPaused tells if the engine is currently paused.
func (e *SerialEngine) IsPaused() bool {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	return e.isPaused
}

// RegisterSimulationEndHandler registers a handler to be called by Finished.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	count := e.EventCount()
	for _, h := range e.simulationEndHandlers {
		h.Handle(count)
	}
}

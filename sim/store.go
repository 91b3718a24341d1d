package sim

import (
	"log"
	"sync"
)

// A Store partitions processes into named states and enforces the capacity
// limit of each state.
//
// A process is in at most one state at a time. A state with a limit never
// holds more processes than the limit. Every query that can come up empty
// reports absence through a boolean instead of an error.
type Store struct {
	lock   sync.RWMutex
	states map[StateName][]*Process
	limits Limits

	debugLogger *log.Logger
}

// NewStore creates an empty store with the given capacity limits. Hold is
// always unlimited; a Hold entry in the limits is ignored.
func NewStore(limits Limits) *Store {
	s := &Store{
		states: make(map[StateName][]*Process),
		limits: limits.Clone(),
	}

	delete(s.limits, StateHold)

	return s
}

// WithDebugLogger makes the store report recoverable lookup misses, such as
// an out-of-range index, to the given logger.
func (s *Store) WithDebugLogger(logger *log.Logger) *Store {
	s.debugLogger = logger
	return s
}

// Limit returns the capacity limit of a state. The second return value is
// false if the state is unlimited.
func (s *Store) Limit(state StateName) (int, bool) {
	limit, ok := s.limits[state]
	return limit, ok
}

// IsStateFull returns true if the state has a limit and its occupancy has
// reached it.
func (s *Store) IsStateFull(state StateName) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.isFull(state)
}

// IsStateEmpty returns true if no process is in the state.
func (s *Store) IsStateEmpty(state StateName) bool {
	return s.GetProcessCount(state) == 0
}

// IsAddPossible returns true if one more process can enter the state.
func (s *Store) IsAddPossible(state StateName) bool {
	return !s.IsStateFull(state)
}

// AddProcess appends the process to the end of the state. It returns false
// and leaves the store unchanged if the state is full or the process is
// already in a state.
func (s *Store) AddProcess(p *Process, state StateName) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, found := s.stateOf(p); found {
		return false
	}

	return s.add(p, state)
}

// RemoveProcessFromState removes the first occurrence of the process from the
// state. It returns false if the process is not there.
func (s *Store) RemoveProcessFromState(p *Process, state StateName) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.remove(p, state)
}

// GetProcesses returns a snapshot of the processes in the state, in arrival
// order.
func (s *Store) GetProcesses(state StateName) []*Process {
	s.lock.RLock()
	defer s.lock.RUnlock()

	procs := s.states[state]
	snapshot := make([]*Process, len(procs))
	copy(snapshot, procs)

	return snapshot
}

// GetProcessAtIndex returns the process at the index of the state.
func (s *Store) GetProcessAtIndex(state StateName, index int) (*Process, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.processAt(state, index)
}

// GetProcess returns the earliest-arrived process of the state.
func (s *Store) GetProcess(state StateName) (*Process, bool) {
	return s.GetProcessAtIndex(state, 0)
}

// GetLargestProcess returns the process with the largest size in the state.
func (s *Store) GetLargestProcess(state StateName) (*Process, bool) {
	return s.GetMaxProcess(state, BySize)
}

// GetMaxProcess returns the maximal process in the state according to the
// comparator.
func (s *Store) GetMaxProcess(
	state StateName,
	compare Comparator,
) (*Process, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return MaxProcess(s.states[state], compare)
}

// GetProcessCount returns the occupancy of the state.
func (s *Store) GetProcessCount(state StateName) int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.states[state])
}

// ChangeProcessState moves the earliest-arrived process of the event's source
// state to its destination state. It returns the moved process, or false if
// the destination is full or the source is empty. In both failure cases the
// store is unchanged.
func (s *Store) ChangeProcessState(evt Event) (*Process, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isFull(evt.To) {
		return nil, false
	}

	p, ok := s.processAt(evt.From, 0)
	if !ok {
		return nil, false
	}

	s.move(p, evt.From, evt.To)

	return p, true
}

// ChangeProcessStateToHold moves the process from the given state to Hold
// without checking the capacity of Hold.
func (s *Store) ChangeProcessStateToHold(p *Process, from StateName) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.remove(p, from) {
		return false
	}

	s.states[StateHold] = append(s.states[StateHold], p)

	return true
}

// GetMostFilledStateCount returns the largest occupancy among all states.
func (s *Store) GetMostFilledStateCount() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	most := 0
	for _, procs := range s.states {
		if len(procs) > most {
			most = len(procs)
		}
	}

	return most
}

// Occupancy returns the number of processes in every known state.
func (s *Store) Occupancy() map[StateName]int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	occupancy := make(map[StateName]int, len(AllStates()))
	for _, state := range AllStates() {
		occupancy[state] = 0
	}

	for state, procs := range s.states {
		occupancy[state] = len(procs)
	}

	return occupancy
}

// TotalProcessCount returns the number of processes across all states.
func (s *Store) TotalProcessCount() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	total := 0
	for _, procs := range s.states {
		total += len(procs)
	}

	return total
}

// StateOf returns the state that currently holds the process.
func (s *Store) StateOf(p *Process) (StateName, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.stateOf(p)
}

// ProcessByID looks up a process and its state by ID.
func (s *Store) ProcessByID(id uint64) (*Process, StateName, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for state, procs := range s.states {
		for _, p := range procs {
			if p.ID == id {
				return p, state, true
			}
		}
	}

	return nil, "", false
}

func (s *Store) stateOf(p *Process) (StateName, bool) {
	for state, procs := range s.states {
		if indexOf(procs, p) >= 0 {
			return state, true
		}
	}

	return "", false
}

func (s *Store) isFull(state StateName) bool {
	limit, ok := s.limits[state]
	if !ok {
		return false
	}

	return len(s.states[state]) >= limit
}

func (s *Store) add(p *Process, state StateName) bool {
	if s.isFull(state) {
		return false
	}

	s.states[state] = append(s.states[state], p)

	return true
}

func (s *Store) remove(p *Process, state StateName) bool {
	procs := s.states[state]

	i := indexOf(procs, p)
	if i < 0 {
		return false
	}

	s.states[state] = append(procs[:i:i], procs[i+1:]...)

	return true
}

// move must only be called after the destination capacity was checked under
// the same lock.
func (s *Store) move(p *Process, from, to StateName) {
	if !s.remove(p, from) {
		log.Panicf("process %d vanished from state %s", p.ID, from)
	}

	if !s.add(p, to) {
		log.Panicf("process %d cannot enter state %s after capacity check",
			p.ID, to)
	}
}

func (s *Store) processAt(state StateName, index int) (*Process, bool) {
	procs := s.states[state]
	if index < 0 || index >= len(procs) {
		if s.debugLogger != nil && len(procs) > 0 {
			s.debugLogger.Printf(
				"no process at index %d of state %s (occupancy %d)",
				index, state, len(procs))
		}

		return nil, false
	}

	return procs[index], true
}

func indexOf(procs []*Process, p *Process) int {
	for i, candidate := range procs {
		if candidate == p {
			return i
		}
	}

	return -1
}

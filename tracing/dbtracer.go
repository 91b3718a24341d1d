// Package tracing records what happens in a simulation.
package tracing

import (
	"sync"

	"github.com/procstate/procsim/datarecording"
	"github.com/procstate/procsim/sim"
)

// Table names written by the DBTracer.
const (
	TransitionTable = "transitions"
	ProcessTable    = "processes"
)

// TransitionEntry is one row of the transitions table. ProcessID is zero when
// no process moved. Rejected rows record a process sent back to Hold right
// after it entered From; they are not drawn events.
type TransitionEntry struct {
	Tick      int
	From      string
	To        string
	ProcessID uint64
	Moved     bool
	Rejected  bool
}

// ProcessEntry is one row of the processes table.
type ProcessEntry struct {
	ProcessID uint64
	State     string
	Size      int
	Time      int
}

// DBTracer is a hook that stores every applied event and every created
// process into a DataRecorder.
type DBTracer struct {
	mu      sync.Mutex
	counter sim.EventCounter
	backend datarecording.DataRecorder

	movedOnly bool
}

// NewDBTracer creates a DBTracer and the tables it writes to.
func NewDBTracer(
	counter sim.EventCounter,
	backend datarecording.DataRecorder,
) *DBTracer {
	t := &DBTracer{
		counter: counter,
		backend: backend,
	}

	backend.CreateTable(TransitionTable, TransitionEntry{})
	backend.CreateTable(ProcessTable, ProcessEntry{})

	return t
}

// MovedOnly makes the tracer skip events that did not move a process.
func (t *DBTracer) MovedOnly() *DBTracer {
	t.movedOnly = true
	return t
}

// Func records the hook site into the backend.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterEvent:
		result, ok := ctx.Detail.(sim.TickResult)
		if !ok {
			return
		}

		t.recordTransition(result)
	case sim.HookPosProcessCreated:
		p, ok := ctx.Item.(*sim.Process)
		if !ok {
			return
		}

		state, _ := ctx.Detail.(sim.StateName)
		t.recordProcess(p, state)
	case sim.HookPosProcessRejected:
		p, ok := ctx.Item.(*sim.Process)
		if !ok {
			return
		}

		state, _ := ctx.Detail.(sim.StateName)
		t.recordRejection(p, state)
	}
}

func (t *DBTracer) recordTransition(result sim.TickResult) {
	if t.movedOnly && !result.Moved {
		return
	}

	entry := TransitionEntry{
		Tick:  t.counter.EventCount(),
		From:  string(result.Event.From),
		To:    string(result.Event.To),
		Moved: result.Moved,
	}

	if result.Process != nil {
		entry.ProcessID = result.Process.ID
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(TransitionTable, entry)
}

func (t *DBTracer) recordRejection(p *sim.Process, from sim.StateName) {
	entry := TransitionEntry{
		Tick:      t.counter.EventCount(),
		From:      string(from),
		To:        string(sim.StateHold),
		ProcessID: p.ID,
		Moved:     true,
		Rejected:  true,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(TransitionTable, entry)
}

func (t *DBTracer) recordProcess(p *sim.Process, state sim.StateName) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(ProcessTable, ProcessEntry{
		ProcessID: p.ID,
		State:     string(state),
		Size:      p.Size,
		Time:      p.Time,
	})
}

// Flush writes all buffered rows.
func (t *DBTracer) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}

// Handle flushes the tracer when the simulation ends.
func (t *DBTracer) Handle(_ int) {
	t.Flush()
}

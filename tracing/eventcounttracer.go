package tracing

import (
	"sync"

	"github.com/procstate/procsim/sim"
)

// EventCountTracer counts, for every distinct event, how often it was drawn
// and how often it moved a process. A move whose process is sent back to
// Hold right away is not counted as a move.
type EventCountTracer struct {
	lock       sync.Mutex
	events     []sim.Event
	drawCount  map[sim.Event]uint64
	movedCount map[sim.Event]uint64
	rejections uint64

	lastMoved sim.TickResult
}

// NewEventCountTracer creates a new EventCountTracer
func NewEventCountTracer() *EventCountTracer {
	return &EventCountTracer{
		drawCount:  make(map[sim.Event]uint64),
		movedCount: make(map[sim.Event]uint64),
	}
}

// Func counts the applied event.
func (t *EventCountTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterEvent:
		result, ok := ctx.Detail.(sim.TickResult)
		if !ok {
			return
		}

		t.countEvent(result)
	case sim.HookPosProcessRejected:
		p, ok := ctx.Item.(*sim.Process)
		if !ok {
			return
		}

		t.countRejection(p)
	}
}

func (t *EventCountTracer) countEvent(result sim.TickResult) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, seen := t.drawCount[result.Event]; !seen {
		t.events = append(t.events, result.Event)
	}

	t.drawCount[result.Event]++
	t.lastMoved = sim.TickResult{}

	if result.Moved {
		t.movedCount[result.Event]++
		t.lastMoved = result
	}
}

func (t *EventCountTracer) countRejection(p *sim.Process) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.rejections++

	if t.lastMoved.Process == p {
		t.movedCount[t.lastMoved.Event]--
		t.lastMoved = sim.TickResult{}
	}
}

// Rejections returns how many processes were sent back to Hold after
// entering a state.
func (t *EventCountTracer) Rejections() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.rejections
}

// Events returns the distinct events in the order they were first drawn.
func (t *EventCountTracer) Events() []sim.Event {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]sim.Event(nil), t.events...)
}

// DrawCount returns how often the event was drawn.
func (t *EventCountTracer) DrawCount(e sim.Event) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.drawCount[e]
}

// MovedCount returns how often the event moved a process.
func (t *EventCountTracer) MovedCount(e sim.Event) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.movedCount[e]
}

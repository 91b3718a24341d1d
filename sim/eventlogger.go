package sim

import (
	"log"
)

// EventLogger is a hook that prints every drawn event, every moved process,
// and every process creation.
type EventLogger struct {
	*log.Logger

	verbose bool
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// Verbose makes the logger also report events that did not move a process.
func (h *EventLogger) Verbose() *EventLogger {
	h.verbose = true
	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosBeforeEvent:
		evt, ok := ctx.Item.(Event)
		if !ok {
			return
		}

		h.Printf("Event: %s", evt)
	case HookPosAfterEvent:
		h.logResult(ctx)
	case HookPosProcessCreated:
		p, ok := ctx.Item.(*Process)
		if !ok {
			return
		}

		h.Printf("Process created at state: %q with ID: %d, Size: %dk, "+
			"and Time: %d", ctx.Detail, p.ID, p.Size, p.Time)
	}
}

func (h *EventLogger) logResult(ctx HookCtx) {
	result, ok := ctx.Detail.(TickResult)
	if !ok {
		return
	}

	if result.Moved {
		h.Printf("Process %d moved: %s", result.Process.ID, result.Event)
		return
	}

	if h.verbose {
		h.Printf("No process moved: %s", result.Event)
	}
}

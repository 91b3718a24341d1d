package mem

import (
	"log"

	"github.com/procstate/procsim/sim"
)

// RequiresMemory tells if a process in the state must be memory resident.
func RequiresMemory(state sim.StateName) bool {
	switch state {
	case sim.StateReady, sim.StateRun, sim.StateSuspend, sim.StateBlocked:
		return true
	default:
		return false
	}
}

// A ResidencyHook keeps the allocator in step with the store. A process that
// enters a resident state from a non-resident one must be allocated; if the
// allocation fails the process is sent back to Hold and HookPosProcessRejected
// is invoked on the hook's domain. A process that enters a non-resident state
// releases its memory.
type ResidencyHook struct {
	store     *sim.Store
	allocator Allocator
	logger    *log.Logger

	rejected int
}

// NewResidencyHook creates a ResidencyHook.
func NewResidencyHook(store *sim.Store, allocator Allocator) *ResidencyHook {
	return &ResidencyHook{
		store:     store,
		allocator: allocator,
	}
}

// WithLogger makes the hook report allocations and rejections.
func (h *ResidencyHook) WithLogger(logger *log.Logger) *ResidencyHook {
	h.logger = logger
	return h
}

// Rejected returns how many processes were sent back to Hold because they
// did not fit.
func (h *ResidencyHook) Rejected() int {
	return h.rejected
}

// Func updates the allocator after a process is created or moved.
func (h *ResidencyHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosProcessCreated:
		p, ok := ctx.Item.(*sim.Process)
		if !ok {
			return
		}

		state, _ := ctx.Detail.(sim.StateName)
		if RequiresMemory(state) {
			h.admit(ctx.Domain, p, state)
		}
	case sim.HookPosAfterEvent:
		result, ok := ctx.Detail.(sim.TickResult)
		if !ok || !result.Moved {
			return
		}

		h.afterMove(ctx.Domain, result)
	}
}

func (h *ResidencyHook) afterMove(domain sim.Hookable, result sim.TickResult) {
	from, to := result.Event.From, result.Event.To

	switch {
	case !RequiresMemory(to):
		h.allocator.Free(result.Process)
	case !RequiresMemory(from):
		h.admit(domain, result.Process, to)
	}
}

func (h *ResidencyHook) admit(
	domain sim.Hookable,
	p *sim.Process,
	state sim.StateName,
) {
	if h.allocator.TryAllocate(p) {
		h.logf("Process %d added to memory with size %dk", p.ID, p.Size)
		return
	}

	h.rejected++
	if !h.store.ChangeProcessStateToHold(p, state) {
		log.Panicf("process %d is not in state %s", p.ID, state)
	}

	h.logf("Process %d does not fit in memory, moved back to Hold", p.ID)

	if invoker, ok := domain.(sim.HookInvoker); ok {
		invoker.InvokeHook(sim.HookCtx{
			Domain: domain,
			Pos:    sim.HookPosProcessRejected,
			Item:   p,
			Detail: state,
		})
	}
}

func (h *ResidencyHook) logf(format string, args ...any) {
	if h.logger == nil {
		return
	}

	h.logger.Printf(format, args...)
}

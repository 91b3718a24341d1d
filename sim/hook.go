package sim

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// HookPosBeforeEvent is a hook position that triggers after an event is
// drawn from the catalog and before it is applied to the store. The item is
// the Event.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after an event is
// applied. The item is the Event and the detail is a TickResult.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosProcessCreated triggers when a new process enters the simulation.
// The item is the *Process and the detail is the StateName it was placed in.
var HookPosProcessCreated = &HookPos{Name: "ProcessCreated"}

// HookPosProcessRejected triggers when a process that just entered a state
// is sent back to Hold because it could not be admitted. The item is the
// *Process and the detail is the StateName it was removed from.
var HookPosProcessRejected = &HookPos{Name: "ProcessRejected"}

// A HookInvoker can trigger the hooks registered on it.
type HookInvoker interface {
	InvokeHook(ctx HookCtx)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the register Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

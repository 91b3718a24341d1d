package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/procstate/procsim/sim"
)

type hookFunc func(ctx sim.HookCtx)

func (f hookFunc) Func(ctx sim.HookCtx) {
	f(ctx)
}

var _ = Describe("ResidencyHook", func() {
	var (
		mockCtrl  *gomock.Controller
		allocator *MockAllocator
		store     *sim.Store
		hook      *ResidencyHook
	)

	moved := func(p *sim.Process, from, to sim.StateName) sim.HookCtx {
		evt := sim.NewEvent(from, to)
		return sim.HookCtx{
			Pos:    sim.HookPosAfterEvent,
			Item:   evt,
			Detail: sim.TickResult{Event: evt, Process: p, Moved: true},
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		allocator = NewMockAllocator(mockCtrl)
		store = sim.NewStore(sim.DefaultLimits())
		hook = NewResidencyHook(store, allocator)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should allocate a process leaving hold", func() {
		p := sim.NewProcess(1, 100, 1)
		store.AddProcess(p, sim.StateReady)
		allocator.EXPECT().TryAllocate(p).Return(true)

		hook.Func(moved(p, sim.StateHold, sim.StateReady))

		state, _ := store.StateOf(p)
		Expect(state).To(Equal(sim.StateReady))
		Expect(hook.Rejected()).To(Equal(0))
	})

	It("should send a process that does not fit back to hold", func() {
		p := sim.NewProcess(1, 100, 1)
		store.AddProcess(p, sim.StateReady)
		allocator.EXPECT().TryAllocate(p).Return(false)

		hook.Func(moved(p, sim.StateHold, sim.StateReady))

		state, _ := store.StateOf(p)
		Expect(state).To(Equal(sim.StateHold))
		Expect(hook.Rejected()).To(Equal(1))
	})

	It("should announce a process sent back to hold on its domain", func() {
		domain := sim.NewHookableBase()
		var rejected []sim.HookCtx
		domain.AcceptHook(hookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == sim.HookPosProcessRejected {
				rejected = append(rejected, ctx)
			}
		}))

		p := sim.NewProcess(1, 100, 1)
		store.AddProcess(p, sim.StateReady)
		allocator.EXPECT().TryAllocate(p).Return(false)

		ctx := moved(p, sim.StateHold, sim.StateReady)
		ctx.Domain = domain
		hook.Func(ctx)

		Expect(rejected).To(HaveLen(1))
		Expect(rejected[0].Item).To(BeIdenticalTo(p))
		Expect(rejected[0].Detail).To(Equal(sim.StateReady))
	})

	It("should free a process that finishes", func() {
		p := sim.NewProcess(1, 100, 1)
		allocator.EXPECT().Free(p)

		hook.Func(moved(p, sim.StateRun, sim.StateDone))
	})

	It("should leave resident moves alone", func() {
		p := sim.NewProcess(1, 100, 1)

		hook.Func(moved(p, sim.StateReady, sim.StateRun))
	})

	It("should ignore events that moved nothing", func() {
		evt := sim.NewEvent(sim.StateHold, sim.StateReady)

		hook.Func(sim.HookCtx{
			Pos:    sim.HookPosAfterEvent,
			Item:   evt,
			Detail: sim.TickResult{Event: evt},
		})
	})

	It("should allocate processes created in a resident state", func() {
		p := sim.NewProcess(1, 320, 6)
		store.AddProcess(p, sim.StateBlocked)
		allocator.EXPECT().TryAllocate(p).Return(true)

		hook.Func(sim.HookCtx{
			Pos:    sim.HookPosProcessCreated,
			Item:   p,
			Detail: sim.StateBlocked,
		})
	})

	It("should not allocate processes created in hold", func() {
		p := sim.NewProcess(1, 320, 6)
		store.AddProcess(p, sim.StateHold)

		hook.Func(sim.HookCtx{
			Pos:    sim.HookPosProcessCreated,
			Item:   p,
			Detail: sim.StateHold,
		})
	})

	It("should work with a real pool", func() {
		pool := NewPool(150)
		hook = NewResidencyHook(store, pool)
		p1 := sim.NewProcess(1, 100, 1)
		p2 := sim.NewProcess(2, 100, 1)
		store.AddProcess(p1, sim.StateHold)
		store.AddProcess(p2, sim.StateHold)

		for i := 0; i < 2; i++ {
			evt := sim.NewEvent(sim.StateHold, sim.StateReady)
			p, ok := store.ChangeProcessState(evt)
			Expect(ok).To(BeTrue())
			hook.Func(moved(p, evt.From, evt.To))
		}

		Expect(pool.Used()).To(Equal(100))
		Expect(store.GetProcesses(sim.StateReady)).To(Equal([]*sim.Process{p1}))
		Expect(store.GetProcesses(sim.StateHold)).To(Equal([]*sim.Process{p2}))
	})
})

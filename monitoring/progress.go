package monitoring

import (
	"sync"
	"time"

	"github.com/procstate/procsim/sim"
)

// A ProgressBar tracks how much of the event budget has been spent. It is a
// hook that counts applied events.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Moved     uint64    `json:"moved"`
	Rejected  uint64    `json:"rejected"`
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Progress returns the finished and total counts.
func (b *ProgressBar) Progress() (finished, total uint64) {
	b.Lock()
	defer b.Unlock()

	return b.Finished, b.Total
}

// Func counts an applied event and processes rejected after a move.
func (b *ProgressBar) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterEvent:
		b.Lock()
		defer b.Unlock()

		b.Finished++

		result, ok := ctx.Detail.(sim.TickResult)
		if ok && result.Moved {
			b.Moved++
		}
	case sim.HookPosProcessRejected:
		b.Lock()
		defer b.Unlock()

		b.Rejected++
	}
}

type progressRsp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Moved     uint64    `json:"moved"`
	Rejected  uint64    `json:"rejected"`
}

func (b *ProgressBar) snapshot() progressRsp {
	b.Lock()
	defer b.Unlock()

	return progressRsp{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
		Moved:     b.Moved,
		Rejected:  b.Rejected,
	}
}

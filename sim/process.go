package sim

import (
	"cmp"
	"fmt"
)

// A Process is a simulated job. Its size is in units of k and its time is
// the remaining CPU time requirement. The core never mutates a process after
// it is created.
type Process struct {
	ID   uint64
	Size int
	Time int
}

// NewProcess creates a process with the given identity and attributes.
func NewProcess(id uint64, size, time int) *Process {
	return &Process{
		ID:   id,
		Size: size,
		Time: time,
	}
}

func (p *Process) String() string {
	return fmt.Sprintf("Process %d (%dk, time %d)", p.ID, p.Size, p.Time)
}

// A Comparator orders two processes. It returns a negative number when a is
// ordered before b, zero when they are equal, and a positive number otherwise.
type Comparator func(a, b *Process) int

// BySize orders processes by their memory size.
func BySize(a, b *Process) int {
	return cmp.Compare(a.Size, b.Size)
}

// ByTime orders processes by their remaining CPU time.
func ByTime(a, b *Process) int {
	return cmp.Compare(a.Time, b.Time)
}

// MaxProcess returns the maximal process according to the comparator. Ties
// resolve to the earliest maximal element. The second return value is false
// if the slice is empty.
func MaxProcess(procs []*Process, compare Comparator) (*Process, bool) {
	if len(procs) == 0 {
		return nil, false
	}

	best := procs[0]
	for _, p := range procs[1:] {
		if compare(p, best) > 0 {
			best = p
		}
	}

	return best, true
}

package simulation

import (
	"github.com/procstate/procsim/config"
	"github.com/procstate/procsim/sim"
)

// A ProcessSource creates processes whose size and time are drawn uniformly
// from closed ranges.
type ProcessSource struct {
	rand  sim.RandSource
	idGen sim.IDGenerator

	minSize, maxSize int
	minTime, maxTime int
}

// NewProcessSource creates a ProcessSource that uses the ranges of the
// initial conditions.
func NewProcessSource(
	rand sim.RandSource,
	idGen sim.IDGenerator,
	initial config.Initial,
) *ProcessSource {
	return &ProcessSource{
		rand:    rand,
		idGen:   idGen,
		minSize: initial.MinSize,
		maxSize: initial.MaxSize,
		minTime: initial.MinTime,
		maxTime: initial.MaxTime,
	}
}

// Next returns a new process with a fresh ID.
func (s *ProcessSource) Next() *sim.Process {
	size := s.draw(s.minSize, s.maxSize)
	time := s.draw(s.minTime, s.maxTime)

	return sim.NewProcess(s.idGen.Generate(), size, time)
}

func (s *ProcessSource) draw(low, high int) int {
	return low + s.rand.Intn(high-low+1)
}

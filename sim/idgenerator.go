package sim

import (
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate process IDs
type IDGenerator interface {
	// Generate an ID
	Generate() uint64
}

// NewSequentialIDGenerator creates an IDGenerator that hands out 1, 2, 3, ...
// Each simulation owns its generator so that runs are reproducible.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() uint64 {
	return atomic.AddUint64(&g.nextID, 1)
}

// NewRunID returns a globally unique, sortable identifier for a simulation
// run. Run IDs are used to name output files and are not deterministic.
func NewRunID() string {
	return xid.New().String()
}

// Package mem provides the memory collaborator of the simulation. It tracks
// how much of a fixed memory pool each resident process occupies.
package mem

import (
	"sync"

	"github.com/procstate/procsim/sim"
)

// DefaultCapacity is the total user memory, in k.
const DefaultCapacity = 2048

// An Allocator decides whether a process can become memory resident.
type Allocator interface {
	// TryAllocate reserves memory for the process. It returns false if the
	// process does not fit. Allocating an already resident process succeeds
	// without reserving more memory.
	TryAllocate(p *sim.Process) bool

	// Free releases the memory of the process, if any.
	Free(p *sim.Process)
}

// A Pool is an Allocator with a fixed capacity.
type Pool struct {
	lock      sync.Mutex
	capacity  int
	used      int
	allocated map[uint64]int
}

// NewPool creates a pool with the given capacity in k.
func NewPool(capacity int) *Pool {
	return &Pool{
		capacity:  capacity,
		allocated: make(map[uint64]int),
	}
}

// TryAllocate reserves the size of the process if it fits.
func (m *Pool) TryAllocate(p *sim.Process) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.allocated[p.ID]; ok {
		return true
	}

	if m.used+p.Size > m.capacity {
		return false
	}

	m.allocated[p.ID] = p.Size
	m.used += p.Size

	return true
}

// Free releases the memory held by the process.
func (m *Pool) Free(p *sim.Process) {
	m.lock.Lock()
	defer m.lock.Unlock()

	size, ok := m.allocated[p.ID]
	if !ok {
		return
	}

	delete(m.allocated, p.ID)
	m.used -= size
}

// IsResident tells if the process currently holds memory.
func (m *Pool) IsResident(p *sim.Process) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	_, ok := m.allocated[p.ID]

	return ok
}

// Capacity returns the total size of the pool.
func (m *Pool) Capacity() int {
	return m.capacity
}

// Used returns the memory currently allocated.
func (m *Pool) Used() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.used
}

// Available returns the memory that can still be allocated.
func (m *Pool) Available() int {
	return m.capacity - m.Used()
}

// NumResident returns the number of processes holding memory.
func (m *Pool) NumResident() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return len(m.allocated)
}

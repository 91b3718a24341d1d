// Package simulation assembles a store, an engine, and their observers into
// a runnable simulation.
package simulation

import (
	"errors"
	"fmt"
	"log"

	"github.com/procstate/procsim/config"
	"github.com/procstate/procsim/datarecording"
	"github.com/procstate/procsim/mem"
	"github.com/procstate/procsim/monitoring"
	"github.com/procstate/procsim/sim"
	"github.com/procstate/procsim/tracing"
)

// ErrStateFull is returned when a process cannot be created because its
// state is at capacity.
var ErrStateFull = errors.New("state is full")

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id     string
	seed   int64
	cfg    config.Config
	logger *log.Logger

	rand   sim.RandSource
	idGen  sim.IDGenerator
	source *ProcessSource

	store  *sim.Store
	engine *sim.SerialEngine

	pool      *mem.Pool
	residency *mem.ResidencyHook

	eventCounts  *tracing.EventCountTracer
	dataRecorder datarecording.DataRecorder
	dbTracer     *tracing.DBTracer

	monitor     *monitoring.Monitor
	progressBar *monitoring.ProgressBar

	terminated bool
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Seed returns the seed of the random source. It is zero when the random
// source was injected.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Config returns the parameters the simulation was built with.
func (s *Simulation) Config() config.Config {
	return s.cfg
}

// GetStore returns the process state store.
func (s *Simulation) GetStore() *sim.Store {
	return s.store
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() *sim.SerialEngine {
	return s.engine
}

// GetMemory returns the memory pool.
func (s *Simulation) GetMemory() *mem.Pool {
	return s.pool
}

// GetResidency returns the hook that keeps the memory pool in step with the
// store.
func (s *Simulation) GetResidency() *mem.ResidencyHook {
	return s.residency
}

// GetEventCounts returns the per-event statistics.
func (s *Simulation) GetEventCounts() *tracing.EventCountTracer {
	return s.eventCounts
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// when recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// CreateProcess places a new process with the given size and time into a
// state.
func (s *Simulation) CreateProcess(
	state sim.StateName,
	size, time int,
) (*sim.Process, error) {
	if !s.store.IsAddPossible(state) {
		return nil, fmt.Errorf("creating process in %s: %w", state, ErrStateFull)
	}

	p := sim.NewProcess(s.idGen.Generate(), size, time)
	s.add(p, state)

	return p, nil
}

// CreateRandomProcess places a process with random size and time into a
// state.
func (s *Simulation) CreateRandomProcess(
	state sim.StateName,
) (*sim.Process, error) {
	if !s.store.IsAddPossible(state) {
		return nil, fmt.Errorf("creating process in %s: %w", state, ErrStateFull)
	}

	p := s.source.Next()
	s.add(p, state)

	return p, nil
}

func (s *Simulation) add(p *sim.Process, state sim.StateName) {
	if !s.store.AddProcess(p, state) {
		log.Panicf("state %s rejected process %d", state, p.ID)
	}

	s.engine.InvokeHook(sim.HookCtx{
		Domain: s.engine,
		Pos:    sim.HookPosProcessCreated,
		Item:   p,
		Detail: state,
	})
}

// SeedInitialConditions creates the active processes and the held processes
// described by the configuration.
func (s *Simulation) SeedInitialConditions() error {
	initial := s.cfg.Initial

	for _, name := range initial.ActiveStates {
		state, err := sim.ParseStateName(name)
		if err != nil {
			return err
		}

		_, err = s.CreateProcess(state, initial.ActiveSize, initial.ActiveTime)
		if err != nil {
			return err
		}
	}

	for i := 0; i < initial.HeldCount; i++ {
		_, err := s.CreateRandomProcess(sim.StateHold)
		if err != nil {
			return err
		}
	}

	return nil
}

// Run drives the engine until it is finished.
func (s *Simulation) Run() error {
	err := s.engine.Run()

	if s.progressBar != nil {
		s.monitor.CompleteProgressBar(s.progressBar)
	}

	return err
}

// Terminate notifies the end handlers and closes the data recorder. Calling
// it more than once has no effect.
func (s *Simulation) Terminate() error {
	if s.terminated {
		return nil
	}

	s.terminated = true
	s.engine.Finished()

	if s.dataRecorder == nil {
		return nil
	}

	return s.dataRecorder.Close()
}

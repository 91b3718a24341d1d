package simulation

import (
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/procstate/procsim/config"
	"github.com/procstate/procsim/datarecording"
	"github.com/procstate/procsim/mem"
	"github.com/procstate/procsim/monitoring"
	"github.com/procstate/procsim/sim"
	"github.com/procstate/procsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg             config.Config
	rand            sim.RandSource
	monitorOn       bool
	monitorPort     int
	openBrowser     bool
	recordOn        bool
	movedOnly       bool
	outputFileName  string
	logger          *log.Logger
	debug           bool
	stopWhenAllDone bool
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		cfg:       config.Default(),
		monitorOn: true,
		recordOn:  true,
		logger:    log.New(os.Stdout, "", 0),
	}
}

// WithConfig sets the parameters of the simulation.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithRandSource sets the random source. The configured seed is ignored.
func (b Builder) WithRandSource(r sim.RandSource) Builder {
	b.rand = r
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitor in a browser once the server starts.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithoutRecording disables the SQLite trace.
func (b Builder) WithoutRecording() Builder {
	b.recordOn = false
	return b
}

// WithMovedOnlyRecording skips events that did not move a process in the
// SQLite trace.
func (b Builder) WithMovedOnlyRecording() Builder {
	b.movedOnly = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithLogger sets where events are printed. A nil logger silences the
// simulation.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithDebug also logs events that did not move a process and lookups that
// missed.
func (b Builder) WithDebug() Builder {
	b.debug = true
	return b
}

// WithStopWhenAllDone ends the run early once every process is in Done.
func (b Builder) WithStopWhenAllDone() Builder {
	b.stopWhenAllDone = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}

	if !b.recordOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}

	if !b.recordOn && b.movedOnly {
		panic("moved-only recording needs recording enabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	limits, err := b.cfg.SimLimits()
	if err != nil {
		return nil, err
	}

	catalog, err := b.cfg.SimCatalog()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:     sim.NewRunID(),
		cfg:    b.cfg,
		logger: b.logger,
		idGen:  sim.NewSequentialIDGenerator(),
	}

	b.buildRand(s)

	s.store = sim.NewStore(limits)
	if b.debug && b.logger != nil {
		s.store.WithDebugLogger(b.logger)
	}

	s.engine, err = sim.NewSerialEngine(s.store, catalog, s.rand)
	if err != nil {
		return nil, err
	}

	s.engine.SetMaxEvents(b.cfg.MaxEvents)

	if b.stopWhenAllDone {
		s.engine.RegisterTerminationCondition(sim.AllProcessesDone)
	}

	s.source = NewProcessSource(s.rand, s.idGen, b.cfg.Initial)

	b.buildHooks(s)
	b.buildRecorder(s)

	if b.monitorOn {
		err = b.buildMonitor(s)
		if err != nil {
			return nil, err
		}
	}

	// Registered last so that every other hook sees a move before the
	// rejection that may follow it.
	s.engine.AcceptHook(s.residency)

	return s, nil
}

func (b Builder) buildRand(s *Simulation) {
	if b.rand != nil {
		s.rand = b.rand
		return
	}

	s.seed = b.cfg.Seed
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}

	s.rand = rand.New(rand.NewSource(s.seed))
}

func (b Builder) buildHooks(s *Simulation) {
	if b.logger != nil {
		eventLogger := sim.NewEventLogger(b.logger)
		if b.debug {
			eventLogger.Verbose()
		}

		s.engine.AcceptHook(eventLogger)
	}

	s.pool = mem.NewPool(b.cfg.MemorySize)
	s.residency = mem.NewResidencyHook(s.store, s.pool)
	if b.logger != nil {
		s.residency.WithLogger(b.logger)
	}

	s.eventCounts = tracing.NewEventCountTracer()
	s.engine.AcceptHook(s.eventCounts)
}

func (b Builder) buildRecorder(s *Simulation) {
	if !b.recordOn {
		return
	}

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "procsim_" + s.id
	}

	s.dataRecorder = datarecording.New(outputPath)
	s.dbTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
	if b.movedOnly {
		s.dbTracer.MovedOnly()
	}

	s.engine.AcceptHook(s.dbTracer)
	s.engine.RegisterSimulationEndHandler(s.dbTracer)
}

func (b Builder) buildMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterStore(s.store)
	s.monitor.RegisterMemory(s.pool)

	s.progressBar = s.monitor.CreateProgressBar(
		"Events", uint64(b.cfg.MaxEvents))
	s.engine.AcceptHook(s.progressBar)

	s.monitor.StartServer()

	if b.openBrowser {
		return s.monitor.OpenBrowser()
	}

	return nil
}

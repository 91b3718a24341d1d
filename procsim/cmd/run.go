package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/procstate/procsim/config"
	"github.com/procstate/procsim/sim"
	"github.com/procstate/procsim/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long: `Run seeds the initial processes and fires events until the ` +
		`event budget is spent. Every event is logged and, unless ` +
		`--no-record is given, recorded into a SQLite file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true
		return runSimulation(cmd, cmd.OutOrStdout())
	},
}

func init() {
	f := runCmd.Flags()
	f.String("config", "", "YAML configuration file")
	f.Int64("seed", 0, "seed of the random source, 0 picks one")
	f.Int("max-events", sim.DefaultMaxEvents, "number of events to fire")
	f.Bool("monitor", false, "serve the monitoring API while running")
	f.Int("monitor-port", 0, "port of the monitoring API")
	f.Bool("open-browser", false, "open the monitoring API in a browser")
	f.String("output", "", "name of the SQLite trace, without extension")
	f.Bool("no-record", false, "do not record a SQLite trace")
	f.Bool("record-moved-only", false,
		"leave events that moved nothing out of the SQLite trace")
	f.Bool("stop-when-done", false,
		"stop before the budget is spent once every process is Done")
	f.Bool("debug", false, "also log events that did not move a process")
	f.Bool("quiet", false, "do not log events")

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, out io.Writer) error {
	f := cmd.Flags()

	path, _ := f.GetString("config")

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	err = applyFlags(cmd, &cfg)
	if err != nil {
		return err
	}

	b, err := builderFromFlags(cmd, cfg, out)
	if err != nil {
		return err
	}

	s, err := b.Build()
	if err != nil {
		return err
	}

	err = s.SeedInitialConditions()
	if err != nil {
		return err
	}

	err = s.Run()
	if err != nil {
		return err
	}

	err = s.Terminate()
	if err != nil {
		return err
	}

	printSummary(out, s)

	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}

	if f.Changed("max-events") {
		cfg.MaxEvents, _ = f.GetInt("max-events")
	}

	return cfg.Validate()
}

func builderFromFlags(
	cmd *cobra.Command,
	cfg config.Config,
	out io.Writer,
) (simulation.Builder, error) {
	f := cmd.Flags()
	b := simulation.MakeBuilder().WithConfig(cfg)

	if quiet, _ := f.GetBool("quiet"); quiet {
		b = b.WithLogger(nil)
	} else {
		b = b.WithLogger(log.New(out, "", 0))
	}

	if debug, _ := f.GetBool("debug"); debug {
		b = b.WithDebug()
	}

	monitor, _ := f.GetBool("monitor")
	port, _ := f.GetInt("monitor-port")
	openBrowser, _ := f.GetBool("open-browser")

	if !monitor && (port != 0 || openBrowser) {
		return b, fmt.Errorf("--monitor-port and --open-browser need --monitor")
	}

	if !monitor {
		b = b.WithoutMonitoring()
	} else {
		b = b.WithMonitorPort(port)
		if openBrowser {
			b = b.WithBrowser()
		}
	}

	noRecord, _ := f.GetBool("no-record")
	output, _ := f.GetString("output")
	movedOnly, _ := f.GetBool("record-moved-only")

	if noRecord && (output != "" || movedOnly) {
		return b, fmt.Errorf(
			"--output and --record-moved-only cannot be used with --no-record")
	}

	if noRecord {
		b = b.WithoutRecording()
	} else {
		b = b.WithOutputFileName(output)
		if movedOnly {
			b = b.WithMovedOnlyRecording()
		}
	}

	if stop, _ := f.GetBool("stop-when-done"); stop {
		b = b.WithStopWhenAllDone()
	}

	return b, nil
}

func printSummary(out io.Writer, s *simulation.Simulation) {
	fmt.Fprintf(out, "\nRun %s finished after %d events",
		s.ID(), s.GetEngine().EventCount())
	if s.Seed() != 0 {
		fmt.Fprintf(out, " (seed %d)", s.Seed())
	}
	fmt.Fprintln(out)

	store := s.GetStore()
	for _, state := range sim.AllStates() {
		fmt.Fprintf(out, "  %-8s %d\n", state, store.GetProcessCount(state))
	}

	mem := s.GetMemory()
	fmt.Fprintf(out, "Memory: %dk of %dk used by %d processes\n",
		mem.Used(), mem.Capacity(), mem.NumResident())
}

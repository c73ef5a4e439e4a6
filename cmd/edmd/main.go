// Command edmd runs an event-driven molecular dynamics simulation from
// a configuration document, the way the teacher's sample binaries wire
// an engine, a device and a driver together in main (see
// samples/*/main.go), finishing every exit path with atexit.Exit so
// registered cleanup handlers still run.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/edmdsim/dynamogo/cell"
	"github.com/edmdsim/dynamogo/checkpoint"
	"github.com/edmdsim/dynamogo/ioconfig"
	"github.com/edmdsim/dynamogo/observer"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/report"
	"github.com/edmdsim/dynamogo/scheduler"
	"github.com/edmdsim/dynamogo/simerr"
	"github.com/edmdsim/dynamogo/simulation"
)

// Exit codes distinguish a configuration mistake from a numerical
// fatal from an operator interrupt.
const (
	exitOK                 = 0
	exitGenericError       = 1
	exitConfigError        = 2
	exitInvariantViolation = 3
	exitUnsupported        = 4
	exitNumericOverflow    = 5
	exitInterrupted        = 6
)

type cliFlags struct {
	configPath   string
	paramsPath   string
	outputPath   string
	checkpointDB string
	textOutput   bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "path to the simulation configuration document (required)")
	flag.StringVar(&f.paramsPath, "run-params", "", "path to a YAML run-parameters file (optional)")
	flag.StringVar(&f.outputPath, "output", "final.xml", "path to write the final configuration document")
	flag.StringVar(&f.checkpointDB, "checkpoint-db", "", "path to a SQLite checkpoint database (optional)")
	flag.BoolVar(&f.textOutput, "text", false, "force ASCII particle data in the output document")
	flag.Parse()
	return f
}

func setupLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

func main() {
	flags := parseFlags()
	log := setupLogger()

	if flags.configPath == "" {
		log.Error("missing required flag", "flag", "-config")
		atexit.Exit(exitGenericError)
	}

	configFile, err := os.Open(flags.configPath)
	if err != nil {
		log.Error("cannot open configuration document", "error", err)
		atexit.Exit(exitConfigError)
	}
	cfg, err := ioconfig.Load(configFile)
	configFile.Close()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		atexit.Exit(exitConfigError)
	}

	runParams := ioconfig.DefaultRunParams
	if flags.paramsPath != "" {
		runParams, err = ioconfig.LoadRunParams(flags.paramsPath)
		if err != nil {
			log.Error("failed to load run parameters", "error", err)
			atexit.Exit(exitConfigError)
		}
	}

	store := particle.NewStore(cfg.Particles)

	sorterName := cfg.SchedulerType
	if sorterName == "" {
		sorterName = runParams.Sorter
	}

	var nbhd scheduler.Neighbourhood
	var grid *cell.Grid
	var sorter scheduler.Sorter

	if sorterName == "Dumb" {
		sorter = scheduler.NewDumb()
		nbhd = scheduler.BruteNeighbourhood{Store: store}
	} else {
		sorter = scheduler.NewBoundedPQ()
		dMax := maxParticleDiameter(cfg)
		grid, err = cell.NewGrid(cfg.Size, dMax, cfg.OverLink, cfg.Lambda, cfg.BC, cfg.Dynamics)
		if err != nil {
			log.Error("failed to build cell grid", "error", err)
			atexit.Exit(exitConfigError)
		}
		grid.Initialise(cfg.Particles)
		grid.AddLocalEvents(cell.BuildLocalEntries(cfg.Locals))
		nbhd = grid
	}

	sched := scheduler.New(sorter, nbhd, store)
	bus := observer.New()

	limits := simulation.Limits{
		MaxEvents:    runParams.MaxEvents,
		MaxWallClock: runParams.MaxWallClock,
		MaxSimTime:   runParams.MaxSimTime,
	}

	s := simulation.NewBuilder().
		WithLimits(limits).
		WithLogger(log).
		Build(store, cfg.Species, cfg.Dynamics, grid, cfg.Locals, sched, bus)

	s.FullUpdate()

	var chkStore *checkpoint.Store
	var runID xid.ID
	if flags.checkpointDB != "" {
		chkStore, err = checkpoint.Open(flags.checkpointDB)
		if err != nil {
			log.Error("failed to open checkpoint database", "error", err)
			atexit.Exit(exitGenericError)
		}
		defer chkStore.Close()

		var configBuf bytes.Buffer
		if err := ioconfig.SaveSimulation(&configBuf, cfg, cfg.Particles, ioconfig.SaveOptions{Binary: !flags.textOutput}); err != nil {
			log.Warn("failed to serialise configuration for checkpoint record", "error", err)
		}
		runID, err = chkStore.NewRun(runParams.RNGSeed, configBuf.Bytes())
		if err != nil {
			log.Error("failed to record run", "error", err)
			atexit.Exit(exitGenericError)
		}
		log.Info("checkpointing enabled", "db", flags.checkpointDB, "run", runID.String())
	}

	initialSnapshot := report.Sample(0, cfg.Particles, cfg.Species, cfg.Dynamics)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	func() {
		defer func() {
			if r := recover(); r != nil {
				handlePanic(r, log, chkStore, runID, s, cfg)
			}
		}()

		started := time.Now()
		for {
			select {
			case <-sigCh:
				log.Warn("interrupted, writing crash dump")
				writeDump(chkStore, runID, s, cfg, checkpoint.ReasonCrash, flags.textOutput)
				atexit.Exit(exitInterrupted)
			default:
			}

			_, ok, err := s.Step()
			if err != nil {
				log.Error("event loop returned an error", "error", err)
				writeDump(chkStore, runID, s, cfg, checkpoint.ReasonCrash, flags.textOutput)
				atexit.Exit(exitGenericError)
			}
			if !ok {
				break
			}

			if chkStore != nil && checkpoint.ShouldCheckpoint(s.EventCount, runParams.CheckpointEvery) {
				writeDump(chkStore, runID, s, cfg, checkpoint.ReasonPeriodic, flags.textOutput)
			}

			if limits.MaxEvents != 0 && s.EventCount >= limits.MaxEvents {
				break
			}
			if limits.MaxSimTime != 0 && float64(s.Now) >= limits.MaxSimTime {
				break
			}
			if limits.MaxWallClock != 0 && time.Since(started) >= limits.MaxWallClock {
				break
			}
		}
	}()

	finalSnapshot := report.Sample(float64(s.Now), cfg.Particles, cfg.Species, cfg.Dynamics)
	drift := report.Drift(initialSnapshot, finalSnapshot)
	fmt.Println(drift.Render())

	if res, err := report.SampleResources(); err == nil {
		fmt.Println(res.String())
	} else {
		log.Warn("failed to sample process resources", "error", err)
	}

	outFile, err := os.Create(flags.outputPath)
	if err != nil {
		log.Error("failed to create output file", "error", err)
		atexit.Exit(exitGenericError)
	}
	err = ioconfig.SaveSimulation(outFile, cfg, cfg.Particles, ioconfig.SaveOptions{Binary: !flags.textOutput})
	outFile.Close()
	if err != nil {
		log.Error("failed to write final configuration", "error", err)
		atexit.Exit(exitGenericError)
	}

	if chkStore != nil {
		writeDump(chkStore, runID, s, cfg, checkpoint.ReasonFinal, flags.textOutput)
	}

	log.Info("run complete", "events", s.EventCount, "simTime", float64(s.Now))
	atexit.Exit(exitOK)
}

// maxParticleDiameter returns 2*maxRadius across the Genus table, the
// dMax the cell lattice sizes itself against.
func maxParticleDiameter(cfg *ioconfig.Config) float64 {
	maxRadius := cfg.Species.Default.Radius
	for _, sp := range cfg.Species.Entries {
		if sp.Radius > maxRadius {
			maxRadius = sp.Radius
		}
	}
	return 2 * maxRadius
}

// writeDump serialises the current state and records it in the
// checkpoint store; failures are logged, not fatal, since a dump is
// best-effort accompaniment to the run rather than the run itself.
func writeDump(store *checkpoint.Store, runID xid.ID, s *simulation.Simulation, cfg *ioconfig.Config, reason checkpoint.DumpReason, text bool) {
	if store == nil {
		return
	}
	var buf bytes.Buffer
	if err := ioconfig.SaveSimulation(&buf, cfg, cfg.Particles, ioconfig.SaveOptions{Binary: !text}); err != nil {
		slog.Default().Warn("failed to serialise dump", "error", err)
		return
	}
	if _, err := store.SaveDump(runID, s.EventCount, float64(s.Now), reason, buf.Bytes()); err != nil {
		slog.Default().Warn("failed to save dump", "error", err)
	}
}

// handlePanic recovers a simerr panic from the event loop, attempts a
// best-effort crash dump, and exits with the code matching the panic's
// error type.
func handlePanic(r any, log *slog.Logger, store *checkpoint.Store, runID xid.ID, s *simulation.Simulation, cfg *ioconfig.Config) {
	switch e := r.(type) {
	case *simerr.InvariantViolation:
		log.Error("invariant violation", "error", e.Error())
		writeDump(store, runID, s, cfg, checkpoint.ReasonCrash, false)
		atexit.Exit(exitInvariantViolation)
	case *simerr.UnsupportedForThisDynamics:
		log.Error("unsupported operation", "error", e.Error())
		writeDump(store, runID, s, cfg, checkpoint.ReasonCrash, false)
		atexit.Exit(exitUnsupported)
	case *simerr.NumericOverflow:
		log.Error("numeric overflow escalated to fatal", "error", e.Error())
		writeDump(store, runID, s, cfg, checkpoint.ReasonCrash, false)
		atexit.Exit(exitNumericOverflow)
	case *simerr.ConfigError:
		log.Error("configuration error", "error", e.Error())
		atexit.Exit(exitConfigError)
	default:
		log.Error("unrecovered panic", "value", fmt.Sprintf("%v", r))
		writeDump(store, runID, s, cfg, checkpoint.ReasonCrash, false)
		atexit.Exit(exitGenericError)
	}
}

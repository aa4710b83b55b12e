// Command worldsim runs the food grid simulation and prints the world every tick.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/foodgrid/internal/api"
	"github.com/talgya/foodgrid/internal/config"
	"github.com/talgya/foodgrid/internal/engine"
	"github.com/talgya/foodgrid/internal/entropy"
	"github.com/talgya/foodgrid/internal/journal"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		seed       = flag.Int64("seed", 0, "world seed (0 = config value, or a fresh seed)")
		width      = flag.Int("width", 0, "grid width")
		height     = flag.Int("height", 0, "grid height")
		agentCount = flag.Int("agents", -1, "number of agents")
		maxTicks   = flag.Uint64("ticks", 0, "stop after this many ticks (0 = run until stopped)")
		interval   = flag.Duration("interval", 0, "time between ticks")
		quiet      = flag.Bool("quiet", false, "do not print snapshots")
		showPre    = flag.Bool("pre", false, "also print the pre-action snapshot of every tick")
		journalOn  = flag.Bool("journal", false, "record the run in the SQLite journal")
		apiAddr    = flag.String("api", "", "serve the read-only HTTP API on this address")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override the file.
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *width > 0 {
		cfg.World.Width = *width
	}
	if *height > 0 {
		cfg.World.Height = *height
	}
	if *agentCount >= 0 {
		cfg.World.Agents = *agentCount
	}
	if *maxTicks > 0 {
		cfg.Engine.MaxTicks = *maxTicks
	}
	if *interval > 0 {
		cfg.Engine.TickInterval = *interval
	}
	if *journalOn {
		cfg.Journal.Enabled = true
	}
	if *apiAddr != "" {
		cfg.API.Enabled = true
		cfg.API.Addr = *apiAddr
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.World.Seed == 0 {
		s, source := entropy.Seed(ctx, entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY")))
		cfg.World.Seed = s
		slog.Info("drew world seed", "seed", s, "source", source)
	}

	if err := run(ctx, stop, cfg, *quiet, *showPre); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg config.Config, quiet, showPre bool) error {
	sim, err := engine.NewSimulation(cfg.WorldConfig())
	if err != nil {
		return err
	}
	slog.Info("world ready",
		"width", cfg.World.Width,
		"height", cfg.World.Height,
		"cells", humanize.Comma(int64(sim.Grid.CellCount())),
		"agents", len(sim.Agents),
		"food", sim.Food.Len(),
		"seed", sim.Seed,
	)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	if !quiet {
		fmt.Fprint(out, sim.Snapshot().String())
		out.Flush()
		if showPre {
			sim.OnSnapshot = func(snap engine.Snapshot) {
				if snap.Phase == engine.PhasePre {
					fmt.Fprintf(out, "-- tick %d (before actions)\n%s", snap.Tick, snap)
				}
			}
		}
	}

	var db *journal.DB
	if cfg.Journal.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Journal.DBPath), 0o755); err != nil {
			return fmt.Errorf("journal dir: %w", err)
		}
		db, err = journal.Open(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		runID, err := db.BeginRun(cfg.WorldConfig())
		if err != nil {
			return err
		}
		slog.Info("journal opened", "path", cfg.Journal.DBPath, "run_id", runID)
	}

	var tickLog *journal.TickLog
	if cfg.Journal.Enabled && cfg.Journal.TickLog != "" {
		tickLog = journal.NewTickLog(cfg.Journal.TickLog, 0)
		defer func() {
			if err := tickLog.Close(); err != nil {
				slog.Error("tick log close failed", "error", err)
			}
		}()
	}

	eng := engine.NewEngine(sim)
	eng.Interval = cfg.Engine.TickInterval
	eng.MaxTicks = cfg.Engine.MaxTicks
	eng.SummaryEvery = cfg.Engine.SummaryEvery

	var server *api.Server
	if cfg.API.Enabled {
		server = api.NewServer(eng, db, cfg.API.Addr)
	}

	eng.OnTick = func(snap engine.Snapshot, events []engine.Event) {
		if !quiet {
			fmt.Fprint(out, snap.String())
			out.Flush()
		}
		if db != nil {
			if err := db.RecordTick(snap, events); err != nil {
				slog.Error("journal write failed", "tick", snap.Tick, "error", err)
			}
		}
		if tickLog != nil {
			if err := tickLog.Write(snap); err != nil {
				slog.Error("tick log write failed", "tick", snap.Tick, "error", err)
			}
		}
		if server != nil {
			server.Publish(snap)
		}
	}

	var wg sync.WaitGroup
	if server != nil {
		apiCtx, apiCancel := context.WithCancel(ctx)
		defer func() {
			apiCancel()
			wg.Wait()
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Run(apiCtx); err != nil {
				slog.Error("HTTP API stopped", "error", err)
			}
		}()
	}

	go waitForEnter(cancel)
	slog.Info("press Enter to stop", "interval", eng.Interval)

	start := time.Now()
	err = eng.Run(ctx)
	stats := eng.Stats()
	slog.Info("simulation finished",
		"ticks", humanize.Comma(int64(stats.Ticks)),
		"meals", humanize.Comma(int64(stats.Meals)),
		"transitions", humanize.Comma(int64(stats.Transitions)),
		"shortfalls", stats.Shortfalls,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// waitForEnter cancels the run once a line arrives on stdin. A closed or
// non-interactive stdin never stops the run.
func waitForEnter(cancel context.CancelFunc) {
	if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err == nil {
		slog.Info("stop requested")
		cancel()
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/pthm-cable/ocean/config"
	"github.com/pthm-cable/ocean/game"
	"github.com/pthm-cable/ocean/ocean"
	"github.com/pthm-cable/ocean/prompt"
	"github.com/pthm-cable/ocean/stream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	iterations := flag.Int("iterations", -1, "Iterations to run (-1 = use config or prompt)")
	interactive := flag.Bool("interactive", false, "Prompt on stdin for population counts and iterations")
	quiet := flag.Bool("quiet", false, "Do not print frames")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	serve := flag.String("serve", "", "Address to stream frames over websocket (e.g. :8080)")

	flag.Parse()

	// Set up slog (JSON to stderr; stdout carries the frames)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *seed, *iterations, *interactive, *quiet, *logStats, *outputDir, *serve); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, iterations int, interactive, quiet, logStats bool, outputDir, serve string) error {
	// Initialize config before anything else
	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	rngSeed := seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	budget := cfg.Run.Iterations
	if iterations >= 0 {
		budget = iterations
	}

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  logStats,
		OutputDir: outputDir,
		Quiet:     quiet,
	}

	var hub *stream.Hub
	var srv *http.Server
	if serve != "" {
		hub = stream.NewHub(cfg.Ocean.Rows, cfg.Ocean.Cols, cfg.Stream.SendBuffer)
		opts.Sink = hub

		mux := http.NewServeMux()
		mux.Handle(cfg.Stream.Path, hub)
		srv = &http.Server{Addr: serve, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("stream server failed", "error", err)
			}
		}()
		slog.Info("streaming frames", "addr", serve, "path", cfg.Stream.Path)
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	var p *prompt.Prompter
	if interactive {
		p = prompt.New(os.Stdin, os.Stdout)
	}
	slog.Info("starting simulation", "seed", rngSeed)
	res, err := play(g, cfg, p, budget)

	if hub != nil {
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("stream server shutdown", "error", err)
		}
	}
	if err != nil {
		return err
	}

	slog.Info("simulation stopped", "iterations", res.Iterations, "reason", res.Reason.String())
	return nil
}

// play seeds and runs g. With a prompter the population is read first and
// the iteration budget only after the seeded frame has been shown.
func play(g *game.Game, cfg *config.Config, p *prompt.Prompter, budget int) (ocean.RunResult, error) {
	pop := cfg.Population
	if p != nil {
		var err error
		if pop, err = p.Population(cfg.Derived.Capacity, cfg.Population); err != nil {
			return ocean.RunResult{}, err
		}
	}
	g.Seed(pop)

	if p != nil {
		if err := g.Start(); err != nil {
			return ocean.RunResult{}, err
		}
		var err error
		if budget, err = p.Iterations(cfg.ClampIterations(budget), cfg.Run.MaxIterations); err != nil {
			return ocean.RunResult{}, err
		}
	}
	budget = cfg.ClampIterations(budget)

	slog.Info("running", "iterations", budget)
	return g.Run(budget)
}

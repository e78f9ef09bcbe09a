// cmd/chaos/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-magball/pkg/chaos"
	"github.com/opd-ai/go-magball/pkg/config"
	"github.com/opd-ai/go-magball/pkg/level"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/physics"
)

// options are the command line settings of one study.
type options struct {
	levelNum  int
	levelFile string
	steps     int
	balls     int
	seed      uint64
	field     float64
	angle     float64 // degrees
	speed     float64
	out       string
	bins      int
	height    int
}

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	var opts options
	flag.IntVar(&opts.levelNum, "level", 1, "Level number whose table is studied")
	flag.StringVar(&opts.levelFile, "file", "", "Level file to study (overrides -level)")
	flag.IntVar(&opts.steps, "steps", 0, "Time steps to simulate (0 uses the configured count)")
	flag.IntVar(&opts.balls, "balls", 0, "Balls to seed (0 uses the configured count)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 uses the configured seed)")
	flag.Float64Var(&opts.field, "field", 0, "Magnetic field strength")
	flag.Float64Var(&opts.angle, "angle", 30, "Launch angle in degrees")
	flag.Float64Var(&opts.speed, "speed", 200, "Launch speed")
	flag.StringVar(&opts.out, "out", "", "Write the samples as msgpack to this file")
	flag.IntVar(&opts.bins, "bins", 60, "Histogram bins")
	flag.IntVar(&opts.height, "height", 10, "Histogram height in rows")
	flag.Parse()

	logger := logging.NewLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithSessionID(ctx, logging.GenerateSessionID())

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error(ctx, "failed to load configuration", err, "path", *configPath)
		os.Exit(1)
	}

	if err := run(ctx, cfg, opts, os.Stdout, logger); err != nil {
		logger.Error(ctx, "chaos study failed", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.DefaultConfig()
	case err != nil:
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run seeds a study on the chosen level, simulates it and reports to w. An
// interrupted run still reports the samples gathered so far.
func run(ctx context.Context, cfg *config.Config, opts options, w io.Writer, logger *logging.Logger) error {
	if opts.balls > 0 {
		cfg.Chaos.BallCount = opts.balls
	}
	if opts.seed != 0 {
		cfg.Chaos.Seed = opts.seed
	}
	if opts.steps > 0 {
		cfg.Chaos.Steps = opts.steps
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var (
		lvl *level.Level
		err error
	)
	if opts.levelFile != "" {
		lvl, err = level.Load(opts.levelFile)
	} else {
		lvl, err = level.LoadNumbered(cfg.LevelDir, opts.levelNum)
	}
	if err != nil {
		return err
	}

	obstacles, err := lvl.Polygons(physics.WithRestitution(cfg.Physics.RestPerpendicular, cfg.Physics.RestParallel))
	if err != nil {
		return logging.WrapError(err, "failed to build obstacles")
	}

	rng := rand.New(rand.NewPCG(cfg.Chaos.Seed, cfg.Chaos.Seed))
	study, err := chaos.NewStudy(obstacles, cfg, rng, chaos.WithLogger(logger))
	if err != nil {
		return err
	}
	aim := physics.FromAngle(opts.angle*math.Pi/180, opts.speed)
	if _, err := study.Seed(lvl.Ball, aim); err != nil {
		return err
	}

	runErr := study.Run(ctx, opts.field, cfg.Physics.TimeStep, cfg.Chaos.Steps)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if err := writeReport(w, study, opts.bins, opts.height); err != nil {
		return err
	}
	if opts.out != "" {
		if err := exportSamples(study, opts.out); err != nil {
			return err
		}
		logger.Info(ctx, "samples written", "path", opts.out)
	}
	return nil
}

func exportSamples(study *chaos.Study, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample file: %w", err)
	}
	if err := study.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

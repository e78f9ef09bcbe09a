// cmd/magball/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/opd-ai/go-magball/pkg/config"
	"github.com/opd-ai/go-magball/pkg/engine"
	"github.com/opd-ai/go-magball/pkg/event"
	"github.com/opd-ai/go-magball/pkg/level"
	"github.com/opd-ai/go-magball/pkg/logging"
	engorender "github.com/opd-ai/go-magball/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	levelNum := flag.Int("level", 1, "Level number to play")
	levelFile := flag.String("file", "", "Level file to play (overrides -level)")
	renderer := flag.String("renderer", "terminal", "Renderer type: 'terminal' or 'engo'")
	flag.Parse()

	logger := logging.NewLogger()
	ctx := logging.WithSessionID(context.Background(), logging.GenerateSessionID())

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error(ctx, "failed to load configuration", err, "path", *configPath)
		os.Exit(1)
	}

	loader := levelLoader{dir: cfg.LevelDir, file: *levelFile}
	lvl, err := loader.load(*levelNum)
	if err != nil {
		logger.Error(ctx, "failed to load level", err, "level", *levelNum)
		os.Exit(1)
	}

	bus := event.NewEventBus()
	game, err := engine.NewGame(lvl, cfg, bus, logger)
	if err != nil {
		logger.Error(ctx, "failed to start game", err)
		os.Exit(1)
	}

	switch *renderer {
	case "engo":
		engorender.Run(game, cfg, logger)
	case "terminal":
		if err := runTerminal(game, cfg, loader, logger); err != nil {
			logger.Error(ctx, "terminal session failed", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown renderer %q\n", *renderer)
		os.Exit(2)
	}
}

// loadConfig reads path when it exists, falling back to the defaults, then
// applies environment overrides.
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// levelLoader finds levels either in a numbered directory or a single file.
type levelLoader struct {
	dir  string
	file string
}

func (l levelLoader) load(n int) (*level.Level, error) {
	if l.file != "" {
		return level.Load(l.file)
	}
	return level.LoadNumbered(l.dir, n)
}

// hasNext reports whether level n+1 exists.
func (l levelLoader) hasNext(n int) bool {
	return l.file == "" && n < level.Count(l.dir)
}

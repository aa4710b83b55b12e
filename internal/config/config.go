// Package config loads the run configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/foodgrid/internal/engine"
	"github.com/talgya/foodgrid/internal/world"
)

type Config struct {
	World   World   `yaml:"world"`
	Engine  Engine  `yaml:"engine"`
	Journal Journal `yaml:"journal"`
	API     API     `yaml:"api"`
}

type World struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Agents  int      `yaml:"agents"`
	Seed    int64    `yaml:"seed"` // 0 = draw a fresh seed at startup
	MaxFood int      `yaml:"max_food"`
	Names   []string `yaml:"names"`
}

type Engine struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	MaxTicks     uint64        `yaml:"max_ticks"`
	SummaryEvery uint64        `yaml:"summary_every"`
}

type Journal struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
	TickLog string `yaml:"tick_log_dir"` // Empty disables the compressed tick log
}

type API struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		World: World{
			Width:   10,
			Height:  10,
			Agents:  2,
			MaxFood: world.MaxFoodPieces,
		},
		Engine: Engine{
			TickInterval: time.Second,
			SummaryEvery: engine.DefaultSummaryEvery,
		},
		Journal: Journal{
			DBPath: "data/foodgrid.db",
		},
		API: API{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML file on top of Defaults.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks fields that the world constructor does not.
func (c Config) Validate() error {
	var errs []error
	if err := c.WorldConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Engine.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("engine.tick_interval must be positive, got %s", c.Engine.TickInterval))
	}
	if c.Journal.Enabled && c.Journal.DBPath == "" {
		errs = append(errs, errors.New("journal.db_path is required when the journal is enabled"))
	}
	if c.API.Enabled && c.API.Addr == "" {
		errs = append(errs, errors.New("api.addr is required when the api is enabled"))
	}
	return errors.Join(errs...)
}

// WorldConfig converts the world section into simulation parameters.
func (c Config) WorldConfig() engine.Config {
	return engine.Config{
		Width:   c.World.Width,
		Height:  c.World.Height,
		Agents:  c.World.Agents,
		Seed:    c.World.Seed,
		MaxFood: c.World.MaxFood,
		Names:   c.World.Names,
	}
}

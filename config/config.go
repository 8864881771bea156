package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override config.toml.
const (
	EnvDSN       = "BRAWLER_DSN"
	EnvRelayAddr = "BRAWLER_RELAY_ADDR"
	EnvLogLevel  = "BRAWLER_LOG_LEVEL"
)

type Config struct {
	Window      WindowConfig      `toml:"window"`
	Simulation  SimulationConfig  `toml:"simulation"`
	Network     NetworkConfig     `toml:"network"`
	Persistence PersistenceConfig `toml:"persistence"`
	Logging     Logging           `toml:"logging"`
}

type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
}

type SimulationConfig struct {
	TickRate int `toml:"tick_rate"`
	// Seed drives bot randomness. Zero seeds from the clock.
	Seed        int64         `toml:"seed"`
	RoundTime   time.Duration `toml:"round_time"`
	RoundsToWin int           `toml:"rounds_to_win"`
	MaxRounds   int           `toml:"max_rounds"`
	// HotReload watches the prefab directory and rebuilds specs between rounds.
	HotReload bool `toml:"hot_reload"`
}

type NetworkConfig struct {
	Enabled   bool   `toml:"enabled"`
	RelayAddr string `toml:"relay_addr"`
	// SendQueue bounds outbound snapshots; extra sends are dropped.
	SendQueue    int           `toml:"send_queue"`
	RecvQueue    int           `toml:"recv_queue"`
	DialTimeout  time.Duration `toml:"dial_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

type PersistenceConfig struct {
	Enabled bool   `toml:"enabled"`
	DSN     string `toml:"dsn"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Brawler",
			Width:  1920,
			Height: 1080,
		},
		Simulation: SimulationConfig{
			TickRate:    60,
			RoundTime:   60 * time.Second,
			RoundsToWin: 2,
			MaxRounds:   9,
		},
		Network: NetworkConfig{
			RelayAddr:    "localhost:5000",
			SendQueue:    32,
			RecvQueue:    256,
			DialTimeout:  3 * time.Second,
			WriteTimeout: time.Second,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := defaults()
	applyEnv(cfg)
	return cfg
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDSN); v != "" {
		cfg.Persistence.DSN = v
		cfg.Persistence.Enabled = true
	}
	if v := os.Getenv(EnvRelayAddr); v != "" {
		cfg.Network.RelayAddr = v
		cfg.Network.Enabled = true
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size must be positive")
	case c.Simulation.TickRate <= 0:
		return fmt.Errorf("config: simulation.tick_rate must be positive")
	case c.Simulation.RoundTime <= 0:
		return fmt.Errorf("config: simulation.round_time must be positive")
	case c.Simulation.RoundsToWin <= 0:
		return fmt.Errorf("config: simulation.rounds_to_win must be positive")
	case c.Simulation.MaxRounds < c.Simulation.RoundsToWin:
		return fmt.Errorf("config: simulation.max_rounds must be at least rounds_to_win")
	case c.Network.Enabled && c.Network.RelayAddr == "":
		return fmt.Errorf("config: network.relay_addr is required when network is enabled")
	case c.Persistence.Enabled && c.Persistence.DSN == "":
		return fmt.Errorf("config: persistence.dsn is required when persistence is enabled")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: logging.format %q must be json or console", c.Logging.Format)
	}
	return nil
}

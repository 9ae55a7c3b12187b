package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Network  NetworkConfig  `toml:"network"`
	Battle   BattleConfig   `toml:"battle"`
	Accounts AccountsConfig `toml:"accounts"`
	Persist  PersistConfig  `toml:"persist"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	StartTime int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindAddress       string        `toml:"bind_address"`
	TickRate          time.Duration `toml:"tick_rate"`
	InQueueSize       int           `toml:"in_queue_size"`
	OutQueueSize      int           `toml:"out_queue_size"`
	MaxPacketsPerTick int           `toml:"max_packets_per_tick"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
	ReadTimeout       time.Duration `toml:"read_timeout"`
	RingCapacity      int           `toml:"ring_capacity"`
}

// BattleConfig bounds the lobby/matchmaking knobs spec.md §4.8 leaves to
// the surrounding system.
type BattleConfig struct {
	MaxSeatsPerRoom   int           `toml:"max_seats_per_room"`
	MatchQueueSize    int           `toml:"match_queue_size"`
	MatchQueueWait    time.Duration `toml:"match_queue_wait"`
	RandomSeed        int64         `toml:"random_seed"`
	ShopOverridePath  string        `toml:"shop_override_path"` // optional Lua override, empty = built-in defaults
	HeroOverridePath  string        `toml:"hero_override_path"` // optional YAML override, empty = built-in defaults
}

type AccountsConfig struct {
	FilePath        string        `toml:"file_path"`
	PersistInterval time.Duration `toml:"persist_interval"`
	BcryptCost      int           `toml:"bcrypt_cost"`
}

// PersistConfig is the optional post-battle match-history recorder.
// Enabled switches it on (DSN is then the connection string); when
// Enabled is false nothing is recorded. Battle state itself is never
// persisted, per spec.md's Non-goals.
type PersistConfig struct {
	DSN     string `toml:"dsn"`
	Enabled bool   `toml:"enabled"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "arenad",
			ID:   1,
		},
		Network: NetworkConfig{
			BindAddress:       "0.0.0.0:7777",
			TickRate:          50 * time.Millisecond, // 20Hz
			InQueueSize:       256,
			OutQueueSize:      512,
			MaxPacketsPerTick: 64,
			WriteTimeout:      10 * time.Second,
			ReadTimeout:       60 * time.Second,
			RingCapacity:      10240,
		},
		Battle: BattleConfig{
			MaxSeatsPerRoom:  10,
			MatchQueueSize:   10,
			MatchQueueWait:   10 * time.Second,
			RandomSeed:       1,
			ShopOverridePath: "",
			HeroOverridePath: "",
		},
		Accounts: AccountsConfig{
			FilePath:        "accounts.dat",
			PersistInterval: 30 * time.Second,
			BcryptCost:      10,
		},
		Persist: PersistConfig{
			DSN:     "",
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Package config loads the host tool's settings from TOML.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds everything the host tool needs to reach and drive the car
type Config struct {
	// Serial device; empty means discover
	Device      string
	Baud        int
	ReadTimeout time.Duration

	// How long to wait for Ready after opening the port
	HandshakeTimeout time.Duration
	// How long to wait for a reply to one command
	ReplyTimeout time.Duration

	Watchdog WatchdogConfig
	Sim      SimConfig

	// Line editor history file; empty disables history
	HistoryFile string
	Debug       bool
}

// WatchdogConfig controls the proximity watchdog
type WatchdogConfig struct {
	Enabled    bool
	Interval   time.Duration
	MinRangeCM int
}

// SimConfig seeds the simulated vehicle
type SimConfig struct {
	DistanceCM int
}

// Default returns the stock settings
func Default() Config {
	return Config{
		Baud:             9600,
		ReadTimeout:      100 * time.Millisecond,
		HandshakeTimeout: 5 * time.Second,
		ReplyTimeout:     2 * time.Second,
		Watchdog: WatchdogConfig{
			Enabled:    true,
			Interval:   time.Second,
			MinRangeCM: 10,
		},
		Sim:         SimConfig{DistanceCM: 120},
		HistoryFile: ".robotcar_history",
	}
}

// fileConfig is the robotcar.toml key mapping
type fileConfig struct {
	Device           string `toml:"device"`
	Baud             int    `toml:"baud"`
	ReadTimeout      string `toml:"read_timeout"`
	HandshakeTimeout string `toml:"handshake_timeout"`
	ReplyTimeout     string `toml:"reply_timeout"`
	HistoryFile      string `toml:"history_file"`
	Debug            bool   `toml:"debug"`

	Watchdog struct {
		Enabled    bool   `toml:"enabled"`
		Interval   string `toml:"interval"`
		MinRangeCM int    `toml:"min_range_cm"`
	} `toml:"watchdog"`

	Sim struct {
		DistanceCM int `toml:"distance_cm"`
	} `toml:"sim"`
}

// Load reads path and overlays the keys it defines on Default
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("device") {
		cfg.Device = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("history_file") {
		cfg.HistoryFile = strings.TrimSpace(raw.HistoryFile)
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	if meta.IsDefined("watchdog", "enabled") {
		cfg.Watchdog.Enabled = raw.Watchdog.Enabled
	}
	if meta.IsDefined("watchdog", "min_range_cm") {
		cfg.Watchdog.MinRangeCM = raw.Watchdog.MinRangeCM
	}
	if meta.IsDefined("sim", "distance_cm") {
		cfg.Sim.DistanceCM = raw.Sim.DistanceCM
	}

	durations := []struct {
		key []string
		val string
		dst *time.Duration
	}{
		{[]string{"read_timeout"}, raw.ReadTimeout, &cfg.ReadTimeout},
		{[]string{"handshake_timeout"}, raw.HandshakeTimeout, &cfg.HandshakeTimeout},
		{[]string{"reply_timeout"}, raw.ReplyTimeout, &cfg.ReplyTimeout},
		{[]string{"watchdog", "interval"}, raw.Watchdog.Interval, &cfg.Watchdog.Interval},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key...) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.val))
		if err != nil {
			return Config{}, fmt.Errorf("load config: %s: %w", strings.Join(d.key, "."), err)
		}
		*d.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the tool cannot run with
func (c Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud %d", c.Baud)
	}
	if c.ReplyTimeout <= 0 {
		return fmt.Errorf("reply_timeout must be positive")
	}
	if c.Watchdog.Enabled {
		if c.Watchdog.Interval <= 0 {
			return fmt.Errorf("watchdog interval must be positive")
		}
		if c.Watchdog.MinRangeCM <= 0 {
			return fmt.Errorf("watchdog min_range_cm must be positive")
		}
	}
	return nil
}

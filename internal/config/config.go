// Package config defines the kong-parsed CLI surface for cmd/keyglitchd.
package config

import "time"

// CLI is the root command set, parsed by github.com/alecthomas/kong with
// layered JSON/YAML/TOML configuration discovery (internal/configpaths).
type CLI struct {
	Config string     `help:"Path to a config file (json/yaml/toml)" env:"KEYGLITCH_CONFIG"`
	Log    LogConfig  `embed:"" prefix:"log."`
	Serve  ServeCmd   `cmd:"" help:"Run the peer-link server driving a KeyStream"`
	Type   TypeCmd    `cmd:"" help:"Interactive terminal demo: type on this keyboard, see the HID reports it would send"`
}

// LogConfig configures internal/log.SetupLogger.
type LogConfig struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"KEYGLITCH_LOG_LEVEL"`
	File    string `help:"Log file path (stdout/stderr when empty)" env:"KEYGLITCH_LOG_FILE"`
	RawFile string `help:"Raw scan/report hex-dump log file path" env:"KEYGLITCH_LOG_RAW_FILE"`
}

// TimingConfig exposes the build-time-tunable constants spec.md §9 asks to
// be configurable rather than hardcoded.
type TimingConfig struct {
	ComboThresholdCnt  uint16 `help:"Max age (clock ticks) of a combo's first key" default:"219"`
	ComboSeparationCnt uint16 `help:"Minimum idle ticks since the last emit before a combo may fire" default:"0"`
	ClockHz            uint32 `help:"Reference clock frequency in Hz, for tick<->duration conversion" default:"72000000"`
}

// KeymapConfig optionally points at a keymap.LoadOverride file, applied once
// at KeyStream construction.
type KeymapConfig struct {
	OverridePath string `help:"Path to a keymap override file (json/yaml/toml)" type:"path"`
	Format       string `help:"Override file format: json, yaml, toml" default:"json" enum:"json,yaml,toml"`
}

// ServeCmd runs the peer-link server.
type ServeCmd struct {
	Addr              string        `help:"Address to listen on for the peer half" default:":7712" env:"KEYGLITCH_ADDR"`
	Password          string        `help:"Pre-shared passphrase for the peer-link handshake" env:"KEYGLITCH_PASSWORD"`
	ConnectionTimeout time.Duration `help:"Idle-connection timeout" default:"30s"`
	Timing            TimingConfig  `embed:"" prefix:"timing."`
	Keymap            KeymapConfig  `embed:"" prefix:"keymap."`
}

// TypeCmd runs the interactive terminal demo.
type TypeCmd struct {
	TickHz uint32       `help:"Simulated scan-tick rate in Hz" default:"1000"`
	Timing TimingConfig `embed:"" prefix:"timing."`
	Keymap KeymapConfig `embed:"" prefix:"keymap."`
}

// Package tuning loads the runtime configuration file. Every knob has a
// default so the server starts with no file at all.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"arenamind/server/logging"
)

// Config is the top-level runtime configuration.
type Config struct {
	Seed        string        `yaml:"seed"`
	TickRate    float64       `yaml:"tickRate"`
	MoveSpeed   float64       `yaml:"moveSpeed"`
	ListenAddr  string        `yaml:"listenAddr"`
	JournalPath string        `yaml:"journalPath"`
	Logging     LoggingConfig `yaml:"logging"`
}

// LoggingConfig selects the event sinks and their thresholds.
type LoggingConfig struct {
	MinimumSeverity string `yaml:"minimumSeverity"`
	JSONPath        string `yaml:"jsonPath"`
	Console         bool   `yaml:"console"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Seed:       "arenamind",
		TickRate:   10,
		MoveSpeed:  80,
		ListenAddr: ":8090",
		Logging: LoggingConfig{
			MinimumSeverity: "info",
			Console:         true,
		},
	}
}

// Load reads a YAML config file and fills unset knobs from Default. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	decoded := Config{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg = merge(cfg, decoded)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func merge(base, over Config) Config {
	if over.Seed != "" {
		base.Seed = over.Seed
	}
	if over.TickRate != 0 {
		base.TickRate = over.TickRate
	}
	if over.MoveSpeed != 0 {
		base.MoveSpeed = over.MoveSpeed
	}
	if over.ListenAddr != "" {
		base.ListenAddr = over.ListenAddr
	}
	if over.JournalPath != "" {
		base.JournalPath = over.JournalPath
	}
	if over.Logging.MinimumSeverity != "" {
		base.Logging.MinimumSeverity = over.Logging.MinimumSeverity
	}
	if over.Logging.JSONPath != "" {
		base.Logging.JSONPath = over.Logging.JSONPath
	}
	base.Logging.Console = base.Logging.Console || over.Logging.Console
	return base
}

// Validate rejects configurations the simulation cannot run with.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %v", c.TickRate)
	}
	if c.MoveSpeed < 0 {
		return fmt.Errorf("moveSpeed must not be negative, got %v", c.MoveSpeed)
	}
	if _, err := c.Logging.Severity(); err != nil {
		return err
	}
	return nil
}

// Severity parses the configured minimum severity.
func (l LoggingConfig) Severity() (logging.Severity, error) {
	switch l.MinimumSeverity {
	case "", "debug":
		return logging.SeverityDebug, nil
	case "info":
		return logging.SeverityInfo, nil
	case "warn":
		return logging.SeverityWarn, nil
	case "error":
		return logging.SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", l.MinimumSeverity)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Qthai16/strqueue/common/console"
	"github.com/Qthai16/strqueue/utils/hashkit"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envPrefix = "QSERVER"

var ErrInvalidConfig = errors.New("invalid config")

// Config is read from an optional yaml file, then QSERVER_* environment
// variables, then command line flags.
type Config struct {
	Addr          string        `yaml:"addr" envconfig:"ADDR"`
	MetricsAddr   string        `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`
	LogPath       string        `yaml:"log_path" envconfig:"LOG_PATH"`
	LogLevel      string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	Daemon        bool          `yaml:"daemon" envconfig:"DAEMON"`
	PidDir        string        `yaml:"pid_dir" envconfig:"PID_DIR"`
	MaxSessions   uint32        `yaml:"max_sessions" envconfig:"MAX_SESSIONS"`
	Shards        uint32        `yaml:"shards" envconfig:"SHARDS"`
	Hash          string        `yaml:"hash" envconfig:"HASH"`
	Compare       string        `yaml:"compare" envconfig:"COMPARE"`
	Length        int           `yaml:"length" envconfig:"LENGTH"`
	ClientTimeout time.Duration `yaml:"client_timeout" envconfig:"CLIENT_TIMEOUT"`
	MaxFrameSize  int32         `yaml:"max_frame_size" envconfig:"MAX_FRAME_SIZE"`
	StopTimeout   time.Duration `yaml:"stop_timeout" envconfig:"STOP_TIMEOUT"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:          ":18000",
		LogLevel:      "info",
		PidDir:        "/tmp",
		MaxSessions:   1024,
		Shards:        16,
		Hash:          hashkit.Jenkins32Name,
		Compare:       console.CmpLexical,
		Length:        console.DefaultLength,
		ClientTimeout: 0,
		MaxFrameSize:  16 * 1024 * 1024,
		StopTimeout:   5 * time.Second,
	}
}

// LoadConfig applies the file at path (skipped when empty) and the
// environment over the defaults.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, conf); err != nil {
			return nil, fmt.Errorf("parse config %v: %w", path, err)
		}
	}
	if err := envconfig.Process(envPrefix, conf); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.MaxSessions == 0 {
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	if _, err := hashkit.Lookup32(c.Hash); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Compare != console.CmpLexical && c.Compare != console.CmpNatural {
		return fmt.Errorf("%w: unknown compare %q", ErrInvalidConfig, c.Compare)
	}
	if c.Length <= 1 || c.Length > console.MaxLength {
		return fmt.Errorf("%w: length must be in (1, %d]", ErrInvalidConfig, console.MaxLength)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"basislab/internal/basis"
	"basislab/internal/logging"
	"basislab/internal/render"
)

const EnvPrefix = "BASIS__"

type EngineConfig struct {
	Policy     string           `koanf:"policy"` // orthogonal|centered
	Tolerances basis.Tolerances `koanf:"tolerances"`
}

// Basis converts the section into an engine configuration.
func (c EngineConfig) Basis() (basis.Config, error) {
	p, err := basis.ParsePolicy(c.Policy)
	if err != nil {
		return basis.Config{}, err
	}
	return basis.Config{Policy: p, Tolerances: c.Tolerances}, nil
}

type LoggingConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

func (c LoggingConfig) Options() logging.Options {
	return logging.Options{Level: c.Level, JSON: c.JSON}
}

type ServerConfig struct {
	GRPCPort    int    `koanf:"grpc_port"`
	MetricsPort int    `koanf:"metrics_port"`
	Job         string `koanf:"job"` // optional
}

type ViewConfig struct {
	MinExtent float64 `koanf:"min_extent"`
	Width     int     `koanf:"width"`
	Height    int     `koanf:"height"`
}

func (v ViewConfig) PlotOptions() render.PlotOptions {
	return render.PlotOptions{Width: v.Width, Height: v.Height, MinExtent: v.MinExtent}
}

type Config struct {
	SchemaVersion string        `koanf:"schema_version"`
	Engine        EngineConfig  `koanf:"engine"`
	Logging       LoggingConfig `koanf:"logging"`
	Server        ServerConfig  `koanf:"server"`
	View          ViewConfig    `koanf:"view"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// Load merges YAML (if present) with env-vars
// (prefix `BASIS__`, nesting delimiter `__`, e.g. BASIS__ENGINE__POLICY).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("config schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyLogEnv(k, &cfg.Logging)
	applyDefaults(&cfg)
	if _, err := cfg.Engine.Basis(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyLogEnv lets BASIS_LOG_LEVEL and BASIS_LOG_JSON fill logging
// settings that neither the file nor BASIS__LOGGING__* provided.
func applyLogEnv(k *koanf.Koanf, c *LoggingConfig) {
	opts, hasLevel, hasJSON := logging.OptionsFromEnv()
	if hasLevel && !k.Exists("logging.level") {
		c.Level = opts.Level
	}
	if hasJSON && !k.Exists("logging.json") {
		c.JSON = opts.JSON
	}
}

// BASIS__SERVER__GRPC_PORT -> server.grpc_port
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func Default() Config {
	var c Config
	applyDefaults(&c)
	return c
}

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.Engine.Policy == "" {
		c.Engine.Policy = basis.PolicyOrthogonal.String()
	}
	d := basis.DefaultTolerances()
	if c.Engine.Tolerances.Degenerate <= 0 {
		c.Engine.Tolerances.Degenerate = d.Degenerate
	}
	if c.Engine.Tolerances.Orthogonal <= 0 {
		c.Engine.Tolerances.Orthogonal = d.Orthogonal
	}
	if c.Engine.Tolerances.Centered <= 0 {
		c.Engine.Tolerances.Centered = d.Centered
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 7070
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = 9100
	}
	if c.View.MinExtent <= 0 {
		c.View.MinExtent = 4.0
	}
	if c.View.Width <= 0 {
		c.View.Width = 61
	}
	if c.View.Height <= 0 {
		c.View.Height = 31
	}
}

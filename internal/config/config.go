// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ns3-trace-analyzer/internal/pipeline"
)

// PipelineConfig tunes the chunked parser.
type PipelineConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	Workers      int  `yaml:"workers"`
	Ordered      bool `yaml:"ordered"`
	MaxLineBytes int  `yaml:"max_line_bytes"`
}

// OutputConfig selects the export format and destination. An empty path
// writes to STDOUT.
type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// GreptimeConfig enables the GreptimeDB sink when Endpoint is set.
type GreptimeConfig struct {
	Endpoint string `yaml:"endpoint"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// AdminConfig enables the status HTTP server when Addr is set.
type AdminConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the root analyzer configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Output   OutputConfig   `yaml:"output"`
	Greptime GreptimeConfig `yaml:"greptime"`
	Admin    AdminConfig    `yaml:"admin"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ChunkSize:    pipeline.DefaultChunkSize,
			Workers:      pipeline.DefaultWorkers,
			MaxLineBytes: pipeline.DefaultMaxLineBytes,
		},
		Output:   OutputConfig{Format: "csv"},
		Greptime: GreptimeConfig{Port: 4001, Database: "public", Table: "ns3_trace"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML config, validates it against the embedded CUE schema and
// layers it over Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := ValidateWithCue(path, data); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides GreptimeDB settings from GREPTIMEDB_ENDPOINT and
// GREPTIMEDB_TABLE.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GREPTIMEDB_ENDPOINT"); v != "" {
		c.Greptime.Endpoint = v
	}
	if v := os.Getenv("GREPTIMEDB_TABLE"); v != "" {
		c.Greptime.Table = v
	}
}

// PipelineOptions converts the pipeline section into dispatcher options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		ChunkSize:    c.Pipeline.ChunkSize,
		Workers:      c.Pipeline.Workers,
		Ordered:      c.Pipeline.Ordered,
		MaxLineBytes: c.Pipeline.MaxLineBytes,
	}
}

// Package config loads the server configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all emwave-api settings.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Materials MaterialsConfig `yaml:"materials"`
	Render    RenderConfig    `yaml:"render"`
	Stream    StreamConfig    `yaml:"stream"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port               string   `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"` // Empty allows all origins.
	ReadTimeout        string   `yaml:"read_timeout"`
	WriteTimeout       string   `yaml:"write_timeout"`
	ShutdownTimeout    string   `yaml:"shutdown_timeout"`
}

// MaterialsConfig points at the optional material catalogue.
type MaterialsConfig struct {
	Path string `yaml:"path"` // CSV file; empty uses the built-in media only.
}

// RenderConfig sizes the rendered figures.
type RenderConfig struct {
	WidthInches    float64 `yaml:"width_inches"`
	HeightInches   float64 `yaml:"height_inches"`
	DPI            int     `yaml:"dpi"`
	GridResolution int     `yaml:"grid_resolution"`
	Samples        int     `yaml:"samples"`
}

// StreamConfig bounds the websocket animation stream.
type StreamConfig struct {
	MaxFrames     int    `yaml:"max_frames"`
	DefaultFrames int    `yaml:"default_frames"`
	Samples       int    `yaml:"samples"`
	FrameInterval string `yaml:"frame_interval"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     "30s",
			WriteTimeout:    "60s",
			ShutdownTimeout: "10s",
		},
		Render: RenderConfig{
			WidthInches:    14,
			HeightInches:   10,
			DPI:            100,
			GridResolution: 200,
			Samples:        1000,
		},
		Stream: StreamConfig{
			MaxFrames:     600,
			DefaultFrames: 60,
			Samples:       200,
			FrameInterval: "50ms",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults, applies environment overrides
// and validates the result. An empty path or a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.CORSAllowedOrigins = splitList(origins)
	}
	if path := os.Getenv("MATERIALS_PATH"); path != "" {
		c.Materials.Path = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("RENDER_DPI"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RENDER_DPI %q: %w", v, err)
		}
		c.Render.DPI = dpi
	}
	if v := os.Getenv("STREAM_MAX_FRAMES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STREAM_MAX_FRAMES %q: %w", v, err)
		}
		c.Stream.MaxFrames = n
		if n > 0 && c.Stream.DefaultFrames > n {
			c.Stream.DefaultFrames = n
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be a number in 1..65535, got %q", c.Server.Port))
	}
	for name, d := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"stream.frame_interval":   c.Stream.FrameInterval,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if c.Render.WidthInches <= 0 || c.Render.HeightInches <= 0 {
		errs = append(errs, errors.New("render width and height must be positive"))
	}
	if c.Render.DPI < 10 || c.Render.DPI > 600 {
		errs = append(errs, fmt.Errorf("render.dpi must be in 10..600, got %d", c.Render.DPI))
	}
	if c.Render.GridResolution < 10 || c.Render.GridResolution > 2000 {
		errs = append(errs, fmt.Errorf("render.grid_resolution must be in 10..2000, got %d", c.Render.GridResolution))
	}
	if c.Render.Samples < 10 {
		errs = append(errs, fmt.Errorf("render.samples must be at least 10, got %d", c.Render.Samples))
	}

	if c.Stream.MaxFrames < 1 {
		errs = append(errs, fmt.Errorf("stream.max_frames must be positive, got %d", c.Stream.MaxFrames))
	}
	if c.Stream.DefaultFrames < 1 || c.Stream.DefaultFrames > c.Stream.MaxFrames {
		errs = append(errs, fmt.Errorf("stream.default_frames must be in 1..max_frames, got %d", c.Stream.DefaultFrames))
	}
	if c.Stream.Samples < 2 {
		errs = append(errs, fmt.Errorf("stream.samples must be at least 2, got %d", c.Stream.Samples))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 30*time.Second)
}

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 60*time.Second)
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// FrameInterval returns the delay between streamed frames.
func (c *Config) FrameInterval() time.Duration {
	return parseDuration(c.Stream.FrameInterval, 50*time.Millisecond)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Package config loads tool-wide configuration for the levelgen CLI and
// the levelgend service from YAML, with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chunkstitch/chunkstitch/internal/logger"
)

// Config is the top-level tool configuration.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Store      StoreConfig      `yaml:"store"`
	Serve      ServeConfig      `yaml:"serve"`
	Logging    logger.Config    `yaml:"logging"`
}

// GenerationConfig holds generation defaults; per-run flags and request
// fields override them.
type GenerationConfig struct {
	// ChunkFile is the path of the YAML chunk library.
	ChunkFile string `yaml:"chunk_file"`

	// AttemptBudget is the number of template draws per open context.
	AttemptBudget int `yaml:"attempt_budget"`

	// MaxChunks caps the number of chunks per level.
	MaxChunks int `yaml:"max_chunks"`

	// AlignOffset enables the adjacent-context alignment pass when
	// positive: open contexts within this distance are snapped together.
	AlignOffset float64 `yaml:"align_offset"`

	// SeedPhrase seeds runs that supply no explicit seed.
	SeedPhrase string `yaml:"seed_phrase"`
}

// StoreConfig selects the level catalog backend.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres". Empty disables the catalog.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ServeConfig holds the generation service settings.
type ServeConfig struct {
	Addr string `yaml:"addr"`

	// AllowedOrigins lists origins allowed to connect. Empty enforces
	// same-origin; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum request size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			AttemptBudget: 24,
			MaxChunks:     64,
		},
		Store: StoreConfig{
			Driver: "",
			DSN:    "data/levels.db",
		},
		Serve: ServeConfig{
			Addr:           ":8471",
			AllowedOrigins: []string{},
			MaxMessageSize: 65536,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load reads configuration from the YAML file at path, merged over the
// defaults, then applies environment overrides. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	config.applyEnv()
	config.Logging.ApplyEnv()
	return config, nil
}

// applyEnv overlays CHUNKSTITCH_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("CHUNKSTITCH_CHUNK_FILE"); v != "" {
		c.Generation.ChunkFile = v
	}
	if v := os.Getenv("CHUNKSTITCH_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("CHUNKSTITCH_STORE_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("CHUNKSTITCH_SERVE_ADDR"); v != "" {
		c.Serve.Addr = v
	}
	if v := os.Getenv("CHUNKSTITCH_MAX_CHUNKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Generation.MaxChunks = n
		}
	}
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Generation.AttemptBudget < 0 {
		return fmt.Errorf("config: attempt_budget must not be negative")
	}
	if c.Generation.MaxChunks <= 0 {
		return fmt.Errorf("config: max_chunks must be positive")
	}
	if c.Generation.AlignOffset < 0 {
		return fmt.Errorf("config: align_offset must not be negative")
	}
	switch c.Store.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// IsOriginAllowed reports whether a websocket origin may connect: exact
// match or "*" in AllowedOrigins, or same-origin when the list is empty.
func (s *ServeConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(s.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}
	for _, allowed := range s.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		// No origin header means a non-browser client.
		return true
	}
	originHost := origin
	if i := strings.Index(originHost, "://"); i >= 0 {
		originHost = originHost[i+3:]
	}
	return strings.EqualFold(originHost, requestHost)
}

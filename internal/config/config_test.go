package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Generation.AttemptBudget != 24 {
		t.Errorf("AttemptBudget = %d, want 24", c.Generation.AttemptBudget)
	}
	if c.Generation.MaxChunks != 64 {
		t.Errorf("MaxChunks = %d, want 64", c.Generation.MaxChunks)
	}
	if c.Serve.Addr != ":8471" {
		t.Errorf("Serve.Addr = %q, want :8471", c.Serve.Addr)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should load defaults, got %v", err)
	}
	if c.Generation.MaxChunks != 64 {
		t.Errorf("MaxChunks = %d, want default 64", c.Generation.MaxChunks)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
generation:
  chunk_file: chunks/dungeon.yaml
  max_chunks: 128
store:
  driver: sqlite
serve:
  addr: ":9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Generation.ChunkFile != "chunks/dungeon.yaml" {
		t.Errorf("ChunkFile = %q", c.Generation.ChunkFile)
	}
	if c.Generation.MaxChunks != 128 {
		t.Errorf("MaxChunks = %d, want 128", c.Generation.MaxChunks)
	}
	// Fields the file omits keep their defaults.
	if c.Generation.AttemptBudget != 24 {
		t.Errorf("AttemptBudget = %d, want default 24", c.Generation.AttemptBudget)
	}
	if c.Store.DSN != "data/levels.db" {
		t.Errorf("Store.DSN = %q, want default", c.Store.DSN)
	}
	if c.Serve.Addr != ":9000" {
		t.Errorf("Serve.Addr = %q, want :9000", c.Serve.Addr)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("generation: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed file should fail to load")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHUNKSTITCH_CHUNK_FILE", "env/chunks.yaml")
	t.Setenv("CHUNKSTITCH_STORE_DRIVER", "postgres")
	t.Setenv("CHUNKSTITCH_SERVE_ADDR", ":7000")
	t.Setenv("CHUNKSTITCH_MAX_CHUNKS", "12")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Generation.ChunkFile != "env/chunks.yaml" {
		t.Errorf("ChunkFile = %q", c.Generation.ChunkFile)
	}
	if c.Store.Driver != "postgres" {
		t.Errorf("Store.Driver = %q", c.Store.Driver)
	}
	if c.Serve.Addr != ":7000" {
		t.Errorf("Serve.Addr = %q", c.Serve.Addr)
	}
	if c.Generation.MaxChunks != 12 {
		t.Errorf("MaxChunks = %d, want 12", c.Generation.MaxChunks)
	}
}

func TestEnvIgnoresBadMaxChunks(t *testing.T) {
	t.Setenv("CHUNKSTITCH_MAX_CHUNKS", "many")
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Generation.MaxChunks != 64 {
		t.Errorf("MaxChunks = %d, want default 64", c.Generation.MaxChunks)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative budget", func(c *Config) { c.Generation.AttemptBudget = -1 }, false},
		{"zero max chunks", func(c *Config) { c.Generation.MaxChunks = 0 }, false},
		{"negative align offset", func(c *Config) { c.Generation.AlignOffset = -2 }, false},
		{"sqlite driver", func(c *Config) { c.Store.Driver = "sqlite" }, true},
		{"postgres driver", func(c *Config) { c.Store.Driver = "postgres" }, true},
		{"unknown driver", func(c *Config) { c.Store.Driver = "oracle" }, false},
	}
	for _, c := range cases {
		cfg := Default()
		c.mutate(cfg)
		err := cfg.Validate()
		if c.ok && err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestIsOriginAllowed(t *testing.T) {
	cases := []struct {
		name    string
		origins []string
		origin  string
		host    string
		want    bool
	}{
		{"empty list same origin", nil, "http://game.local:8471", "game.local:8471", true},
		{"empty list cross origin", nil, "http://evil.example", "game.local:8471", false},
		{"empty list no origin header", nil, "", "game.local:8471", true},
		{"wildcard", []string{"*"}, "http://anywhere.example", "game.local:8471", true},
		{"exact match", []string{"http://tools.example"}, "http://tools.example", "game.local:8471", true},
		{"no match", []string{"http://tools.example"}, "http://other.example", "game.local:8471", false},
	}
	for _, c := range cases {
		s := ServeConfig{AllowedOrigins: c.origins}
		if got := s.IsOriginAllowed(c.origin, c.host); got != c.want {
			t.Errorf("%s: IsOriginAllowed = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsSameOrigin(t *testing.T) {
	cases := []struct {
		origin      string
		requestHost string
		want        bool
	}{
		{"", "game.local:8471", true},
		{"http://game.local:8471", "game.local:8471", true},
		{"https://game.local:8471", "game.local:8471", true},
		{"ws://game.local:8471", "game.local:8471", true},
		{"http://other.example", "game.local:8471", false},
		{"http://game.local:9999", "game.local:8471", false},
	}
	for _, c := range cases {
		if got := isSameOrigin(c.origin, c.requestHost); got != c.want {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v", c.origin, c.requestHost, got, c.want)
		}
	}
}

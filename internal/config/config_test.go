package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Storage.Dir != "public/uploads" {
		t.Errorf("storage.dir = %q", cfg.Storage.Dir)
	}
	if got := cfg.Caption.Endpoint(); got != "http://localhost:5000/generate_caption" {
		t.Errorf("caption endpoint = %q", got)
	}
	if cfg.Caption.Timeout != 0 {
		t.Errorf("caption.timeout = %v, want 0", cfg.Caption.Timeout)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 || cfg.Server.CORS.AllowedOrigins[0] != "http://localhost:3001" {
		t.Errorf("cors origins = %v", cfg.Server.CORS.AllowedOrigins)
	}
	if cfg.Database.ConnMaxLifetime != time.Hour {
		t.Errorf("database.conn_max_lifetime = %v", cfg.Database.ConnMaxLifetime)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CAPTION_SERVICE_URL", "http://captioner:8000/")
	t.Setenv("CAPTION_TIMEOUT", "45s")
	t.Setenv("STORAGE_DIR", "/data/uploads")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Caption.Endpoint(); got != "http://captioner:8000/generate_caption" {
		t.Errorf("caption endpoint = %q", got)
	}
	if cfg.Caption.Timeout != 45*time.Second {
		t.Errorf("caption.timeout = %v", cfg.Caption.Timeout)
	}
	if cfg.Storage.Dir != "/data/uploads" {
		t.Errorf("storage.dir = %q", cfg.Storage.Dir)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
caption:
  base_url: https://captions.internal
  route: caption
database:
  enabled: true
  driver: postgres
  url: postgres://relay@db/relay
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if got := cfg.Caption.Endpoint(); got != "https://captions.internal/caption" {
		t.Errorf("caption endpoint = %q", got)
	}
	if got := cfg.Database.DSN(); got != "postgres://relay@db/relay" {
		t.Errorf("database DSN = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 3000},
			Storage: StorageConfig{Dir: "public/uploads"},
			Caption: CaptionConfig{BaseURL: "http://localhost:5000", Route: "/generate_caption"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"no storage dir", func(c *Config) { c.Storage.Dir = " " }, "storage.dir"},
		{"relative caption url", func(c *Config) { c.Caption.BaseURL = "localhost:5000" }, "caption endpoint"},
		{"negative timeout", func(c *Config) { c.Caption.Timeout = -time.Second }, "caption.timeout"},
		{"root url prefix", func(c *Config) { c.Storage.URLPrefix = "/" }, "storage.url_prefix"},
		{"mirror without bucket", func(c *Config) { c.Storage.Mirror.Enabled = true }, "storage.mirror.bucket"},
		{"unknown driver", func(c *Config) {
			c.Database.Enabled = true
			c.Database.Driver = "mysql"
		}, "database.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", Path: "./data/x.db"}
	if sqlite.DSN() != "./data/x.db" {
		t.Errorf("sqlite DSN = %q", sqlite.DSN())
	}

	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if pg.DSN() != want {
		t.Errorf("postgres DSN = %q, want %q", pg.DSN(), want)
	}
}

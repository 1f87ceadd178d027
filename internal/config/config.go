package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Caption  CaptionConfig  `mapstructure:"caption"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// MultipartMemoryMB is how much of a multipart body gin keeps in memory
	// before spilling parts to temporary files.
	MultipartMemoryMB int64      `mapstructure:"multipart_memory_mb"`
	CORS              CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type StorageConfig struct {
	Dir       string       `mapstructure:"dir"`
	URLPrefix string       `mapstructure:"url_prefix"`
	Mirror    MirrorConfig `mapstructure:"mirror"`
}

// MirrorConfig describes the optional S3-compatible bucket stored files are copied to.
type MirrorConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"` // r2, s3, s3compatible; detected from endpoint when empty
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
	PublicURL string `mapstructure:"public_url"`
}

// CaptionConfig points at the downstream captioning service.
type CaptionConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Route   string `mapstructure:"route"`
	// Timeout bounds a whole captioning call. Zero leaves only the transport defaults.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Endpoint returns the full URL captioning requests are posted to.
func (c CaptionConfig) Endpoint() string {
	route := c.Route
	if route != "" && !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return strings.TrimSuffix(c.BaseURL, "/") + route
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Driver          string        `mapstructure:"driver"` // sqlite or postgres
	Path            string        `mapstructure:"path"`   // sqlite file
	URL             string        `mapstructure:"url"`    // postgres URL, wins over the discrete fields
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
func (c DatabaseConfig) DSN() string {
	if c.Driver != "postgres" {
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.multipart_memory_mb", 32)
	v.SetDefault("server.cors.allow_all_origins", false)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3001"})
	v.SetDefault("storage.dir", "public/uploads")
	v.SetDefault("storage.url_prefix", "/uploads/")
	v.SetDefault("storage.mirror.enabled", false)
	v.SetDefault("storage.mirror.type", "")
	v.SetDefault("storage.mirror.endpoint", "")
	v.SetDefault("storage.mirror.access_key", "")
	v.SetDefault("storage.mirror.secret_key", "")
	v.SetDefault("storage.mirror.use_ssl", false)
	v.SetDefault("storage.mirror.bucket", "uploads")
	v.SetDefault("storage.mirror.region", "")
	v.SetDefault("storage.mirror.prefix", "uploads/")
	v.SetDefault("storage.mirror.public_url", "")
	v.SetDefault("caption.base_url", "http://localhost:5000")
	v.SetDefault("caption.route", "/generate_caption")
	v.SetDefault("caption.timeout", 0)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/captionrelay.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "captionrelay")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Conventional names used by deployment tooling
	v.BindEnv("server.port", "PORT")
	v.BindEnv("caption.base_url", "CAPTION_SERVICE_URL")
	v.BindEnv("storage.dir", "STORAGE_DIR")
	v.BindEnv("storage.mirror.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.mirror.access_key", "S3_ACCESS_KEY")
	v.BindEnv("storage.mirror.secret_key", "S3_SECRET_KEY")
	v.BindEnv("storage.mirror.bucket", "S3_BUCKET")
	v.BindEnv("database.url", "DATABASE_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration can start the service.
// Returns an error describing the first failure found.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Storage.Dir) == "" {
		return errors.New("storage.dir is required")
	}
	if strings.Trim(c.Storage.URLPrefix, "/ ") == "" && c.Storage.URLPrefix != "" {
		return fmt.Errorf("storage.url_prefix %q must name a path segment", c.Storage.URLPrefix)
	}

	u, err := url.Parse(c.Caption.Endpoint())
	if err != nil {
		return fmt.Errorf("caption endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("caption endpoint %q must be an absolute http(s) URL", c.Caption.Endpoint())
	}
	if c.Caption.Timeout < 0 {
		return errors.New("caption.timeout must not be negative")
	}

	if c.Storage.Mirror.Enabled && c.Storage.Mirror.Bucket == "" {
		return errors.New("storage.mirror.bucket is required when the mirror is enabled")
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
		}
	}

	return nil
}

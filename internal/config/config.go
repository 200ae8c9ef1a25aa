package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rpggio/ionview/internal/domain/variant"
)

// Catalog drivers.
const (
	DriverStatic = "static"
	DriverDir    = "dir"
	DriverS3     = "s3"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
	Data      DataConfig      `yaml:"data"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}

type ServerConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	MaxSessions int           `yaml:"max_sessions"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // http | stdio
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DataConfig struct {
	URL          string        `yaml:"url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type ArtifactsConfig struct {
	Dir      string        `yaml:"dir"`
	BaseHref string        `yaml:"base_href"`
	Catalog  CatalogConfig `yaml:"catalog"`
	S3       S3Config      `yaml:"s3"`
}

type CatalogConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ThresholdConfig overrides one score column's bands. Unset fields keep the
// built-in value for that column.
type ThresholdConfig struct {
	Good    *float64 `yaml:"good"`
	Medium  *float64 `yaml:"medium"`
	Reverse *bool    `yaml:"reverse"`
}

// ScoringConfig maps a score column to its threshold override.
type ScoringConfig map[string]ThresholdConfig

// Apply returns base with each configured field laid over the column's
// existing thresholds.
func (s ScoringConfig) Apply(base variant.Scoring) variant.Scoring {
	overrides := make(variant.Scoring, len(s))
	for col, th := range s {
		merged := base[col]
		if th.Good != nil {
			merged.Good = *th.Good
		}
		if th.Medium != nil {
			merged.Medium = *th.Medium
		}
		if th.Reverse != nil {
			merged.Reverse = *th.Reverse
		}
		overrides[col] = merged
	}
	return base.Merge(overrides)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			SessionTTL:  30 * time.Minute,
			MaxSessions: 10000,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Log: LogConfig{
			Level: "info",
		},
		Data: DataConfig{
			URL:          "mpnn_results.csv",
			FetchTimeout: 5 * time.Second,
		},
		Artifacts: ArtifactsConfig{
			Dir: "all_pdb",
			Catalog: CatalogConfig{
				Driver: DriverStatic,
				Table:  "artifacts",
			},
			S3: S3Config{
				Prefix: "all_pdb",
				Region: "us-east-1",
			},
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("IONVIEW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("IONVIEW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("IONVIEW_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid IONVIEW_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if ttl := os.Getenv("IONVIEW_SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid IONVIEW_SESSION_TTL: %w", err)
		}
		cfg.Server.SessionTTL = d
	}
	if maxStr := os.Getenv("IONVIEW_MAX_SESSIONS"); maxStr != "" {
		n, err := strconv.Atoi(maxStr)
		if err != nil {
			return fmt.Errorf("invalid IONVIEW_MAX_SESSIONS: %w", err)
		}
		cfg.Server.MaxSessions = n
	}
	if mode := os.Getenv("IONVIEW_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if level := os.Getenv("IONVIEW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if url := os.Getenv("IONVIEW_DATA_URL"); url != "" {
		cfg.Data.URL = url
	}
	if timeout := os.Getenv("IONVIEW_FETCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid IONVIEW_FETCH_TIMEOUT: %w", err)
		}
		cfg.Data.FetchTimeout = d
	}
	if dir := os.Getenv("IONVIEW_ARTIFACT_DIR"); dir != "" {
		cfg.Artifacts.Dir = dir
	}
	if href, ok := os.LookupEnv("IONVIEW_ARTIFACT_BASE_HREF"); ok {
		cfg.Artifacts.BaseHref = href
	}
	if driver := os.Getenv("IONVIEW_CATALOG_DRIVER"); driver != "" {
		cfg.Artifacts.Catalog.Driver = driver
	}
	if dsn := os.Getenv("IONVIEW_CATALOG_DSN"); dsn != "" {
		cfg.Artifacts.Catalog.DSN = dsn
	}
	if bucket := os.Getenv("IONVIEW_S3_BUCKET"); bucket != "" {
		cfg.Artifacts.S3.Bucket = bucket
	}
	if region := os.Getenv("IONVIEW_S3_REGION"); region != "" {
		cfg.Artifacts.S3.Region = region
	}
	if endpoint := os.Getenv("IONVIEW_S3_ENDPOINT"); endpoint != "" {
		cfg.Artifacts.S3.Endpoint = endpoint
	}
	if key := os.Getenv("IONVIEW_S3_ACCESS_KEY_ID"); key != "" {
		cfg.Artifacts.S3.AccessKeyID = key
	}
	if secret := os.Getenv("IONVIEW_S3_SECRET_ACCESS_KEY"); secret != "" {
		cfg.Artifacts.S3.SecretAccessKey = secret
	}
	return nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if c.Transport.Mode == "http" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxSessions < 0 {
		return fmt.Errorf("invalid max sessions %d", c.Server.MaxSessions)
	}
	if c.Data.FetchTimeout < 0 {
		return fmt.Errorf("invalid fetch timeout %s", c.Data.FetchTimeout)
	}

	switch c.Artifacts.Catalog.Driver {
	case DriverStatic, DriverDir, DriverSQLite:
	case DriverMySQL:
		if c.Artifacts.Catalog.DSN == "" {
			return fmt.Errorf("catalog driver mysql requires a dsn")
		}
	case DriverS3:
		if c.Artifacts.S3.Bucket == "" {
			return fmt.Errorf("catalog driver s3 requires artifacts.s3.bucket")
		}
	default:
		return fmt.Errorf("unknown catalog driver %q", c.Artifacts.Catalog.Driver)
	}

	for col := range c.Scoring {
		if !isScoreColumn(col) {
			return fmt.Errorf("scoring override for unknown column %q", col)
		}
	}
	return nil
}

func isScoreColumn(col string) bool {
	for _, c := range variant.ScoreColumns {
		if c == col {
			return true
		}
	}
	return false
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

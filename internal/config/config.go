// Package config loads process configuration from an optional YAML file and
// SUBPROFILE_* environment overrides.
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

// Config holds every tunable of the service and CLI.
type Config struct {
	Storage Storage `yaml:"storage"`
	Blob    Blob    `yaml:"blob"`
	HTTP    HTTP    `yaml:"http"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Storage selects the record store backend.
type Storage struct {
	Driver      string `yaml:"driver"` // memory|blob|sqlite|postgres
	Key         string `yaml:"key"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Blob configures the blob store used by the blob storage driver.
type Blob struct {
	Driver string `yaml:"driver"` // fs|s3|memory
	FSRoot string `yaml:"fs_root"`
	S3     S3     `yaml:"s3"`
}

type S3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

type HTTP struct {
	Addr            string        `yaml:"addr"`
	CatalogCacheTTL time.Duration `yaml:"catalog_cache_ttl"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
}

type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Metrics struct {
	Exporter string `yaml:"exporter"` // prometheus|expvar|none
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Storage: Storage{Driver: "blob", Key: "formData", SQLitePath: "subprofile.db"},
		Blob:    Blob{Driver: "fs", FSRoot: "./blobdata", S3: S3{Region: "us-east-1"}},
		HTTP: HTTP{
			Addr:            ":8080",
			CatalogCacheTTL: 10 * time.Minute,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
		},
		Logging: Logging{Level: "info"},
		Metrics: Metrics{Exporter: "prometheus"},
	}
}

// Load reads path (skipped when empty) over the defaults, applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := overrideWithEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Environment overrides:
//
//	SUBPROFILE_STORAGE_DRIVER, SUBPROFILE_STORAGE_KEY,
//	SUBPROFILE_SQLITE_PATH, SUBPROFILE_POSTGRES_DSN,
//	SUBPROFILE_BLOB_DRIVER, SUBPROFILE_BLOB_FS_ROOT,
//	SUBPROFILE_BLOB_S3_BUCKET, SUBPROFILE_BLOB_S3_REGION,
//	SUBPROFILE_BLOB_S3_ENDPOINT, SUBPROFILE_BLOB_S3_PATH_STYLE,
//	SUBPROFILE_HTTP_ADDR, SUBPROFILE_LOG_LEVEL, SUBPROFILE_METRICS_EXPORTER
func overrideWithEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"SUBPROFILE_STORAGE_DRIVER":   &cfg.Storage.Driver,
		"SUBPROFILE_STORAGE_KEY":      &cfg.Storage.Key,
		"SUBPROFILE_SQLITE_PATH":      &cfg.Storage.SQLitePath,
		"SUBPROFILE_POSTGRES_DSN":     &cfg.Storage.PostgresDSN,
		"SUBPROFILE_BLOB_DRIVER":      &cfg.Blob.Driver,
		"SUBPROFILE_BLOB_FS_ROOT":     &cfg.Blob.FSRoot,
		"SUBPROFILE_BLOB_S3_BUCKET":   &cfg.Blob.S3.Bucket,
		"SUBPROFILE_BLOB_S3_REGION":   &cfg.Blob.S3.Region,
		"SUBPROFILE_BLOB_S3_ENDPOINT": &cfg.Blob.S3.Endpoint,
		"SUBPROFILE_HTTP_ADDR":        &cfg.HTTP.Addr,
		"SUBPROFILE_LOG_LEVEL":        &cfg.Logging.Level,
		"SUBPROFILE_METRICS_EXPORTER": &cfg.Metrics.Exporter,
	}
	for name, target := range strs {
		if v := getenv(name); v != "" {
			*target = v
		}
	}
	if v := getenv("SUBPROFILE_BLOB_S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SUBPROFILE_BLOB_S3_PATH_STYLE: %w", err)
		}
		cfg.Blob.S3.PathStyle = b
	}
	return nil
}

// Validate checks enumerated values and driver prerequisites.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "memory", "blob", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage key must not be empty"))
	}
	if c.Storage.Driver == "blob" {
		switch c.Blob.Driver {
		case "fs", "memory":
		case "s3":
			if c.Blob.S3.Bucket == "" {
				errs = append(errs, errors.New("blob.s3.bucket required for s3 driver"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Blob.Driver))
		}
	}
	switch c.Metrics.Exporter {
	case "prometheus", "expvar", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown metrics exporter %q", c.Metrics.Exporter))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	if c.HTTP.CatalogCacheTTL < 0 {
		errs = append(errs, errors.New("http.catalog_cache_ttl must not be negative"))
	}
	return errors.Join(errs...)
}

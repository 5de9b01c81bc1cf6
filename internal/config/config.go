package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config defines the wash log ingestion service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
	} `yaml:"redis"`
	Blob struct {
		// Root directory of the local object store mirror. Keys are
		// slash-separated paths below it.
		Root string `yaml:"root" env:"BLOB_ROOT"`
	} `yaml:"blob"`
	Trigger struct {
		Secret string `yaml:"secret" env:"WEBHOOK_SECRET"`
	} `yaml:"trigger"`
	Kiosk struct {
		Prefix    string `yaml:"prefix" env:"KIOSK_PREFIX"`
		FileMatch string `yaml:"file_match" env:"KIOSK_FILE_MATCH"`
	} `yaml:"kiosk"`
	Loader struct {
		Prefix          string `yaml:"prefix" env:"LOADER_PREFIX"`
		Location        string `yaml:"location" env:"LOADER_LOCATION"`
		ArchivePrefix   string `yaml:"archive_prefix" env:"LOADER_ARCHIVE_PREFIX"`
		HeartbeatSource string `yaml:"heartbeat_source" env:"LOADER_HEARTBEAT_SOURCE"`
	} `yaml:"loader"`
	RTC struct {
		QuarantinePrefix string `yaml:"quarantine_prefix" env:"RTC_QUARANTINE_PREFIX"`
		// EnableFallback turns on the permissive pattern cascade for logs
		// the strict pattern cannot read.
		EnableFallback bool `yaml:"enable_fallback" env:"RTC_ENABLE_FALLBACK"`
	} `yaml:"rtc"`
	Timezone string `yaml:"timezone" env:"TIMEZONE"`
}

// Load configuration from file/env with service defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8090"
	cfg.Kiosk.Prefix = "kiosks/"
	cfg.Kiosk.FileMatch = "Transaction"
	cfg.Loader.Prefix = "loader1/"
	cfg.Loader.Location = "FRA"
	cfg.Loader.HeartbeatSource = "loader"
	cfg.RTC.QuarantinePrefix = "rtc/unparsed/"
	cfg.Timezone = "America/Chicago"

	if err := loadInto(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Blob.Root) == "" {
		return nil, errors.New("config: blob root required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8090"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

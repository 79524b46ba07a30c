package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/storefront/go/clients"
	"github.com/mcdev12/storefront/go/internal/catalog"
	"github.com/mcdev12/storefront/go/internal/flashsale"
	"github.com/mcdev12/storefront/go/internal/publisher"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Catalog struct {
		Source          clients.ExternalSource `yaml:"source"`
		BaseURL         string                 `yaml:"base_url"`
		StaticFile      string                 `yaml:"static_file"`
		RefreshInterval time.Duration          `yaml:"refresh_interval"`
		Timeout         time.Duration          `yaml:"timeout"`
	} `yaml:"catalog"`

	FlashSale struct {
		Size         int           `yaml:"size"`
		TickInterval time.Duration `yaml:"tick_interval"`
		Timezone     string        `yaml:"timezone"`
	} `yaml:"flash_sale"`

	NATS struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Catalog.Source = clients.ExternalSourceFakeStore
	cfg.Catalog.RefreshInterval = catalog.DefaultRefreshInterval
	cfg.Catalog.Timeout = 30 * time.Second
	cfg.FlashSale.Size = flashsale.DefaultSelectionSize
	cfg.FlashSale.TickInterval = time.Second
	cfg.FlashSale.Timezone = "UTC"
	cfg.NATS.URL = "nats://127.0.0.1:4222"
	cfg.NATS.Subject = publisher.DefaultSubject
	cfg.Log.Level = "info"
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// loadConfig reads the YAML file at path (if any) over the defaults and then
// applies environment overrides.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	config.applyEnv()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Catalog.Source = clients.ExternalSource(getEnv("CATALOG_SOURCE", string(c.Catalog.Source)))
	c.Catalog.BaseURL = getEnv("CATALOG_BASE_URL", c.Catalog.BaseURL)
	c.Catalog.StaticFile = getEnv("CATALOG_STATIC_FILE", c.Catalog.StaticFile)
	c.Catalog.RefreshInterval = getEnvAsDuration("CATALOG_REFRESH_INTERVAL", c.Catalog.RefreshInterval)
	c.Catalog.Timeout = getEnvAsDuration("CATALOG_TIMEOUT", c.Catalog.Timeout)
	c.FlashSale.Size = getEnvAsInt("FLASH_SALE_SIZE", c.FlashSale.Size)
	c.FlashSale.TickInterval = getEnvAsDuration("FLASH_SALE_TICK_INTERVAL", c.FlashSale.TickInterval)
	c.FlashSale.Timezone = getEnv("FLASH_SALE_TIMEZONE", c.FlashSale.Timezone)
	c.NATS.Enabled = getEnvAsBool("NATS_ENABLED", c.NATS.Enabled)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.NATS.Subject = getEnv("NATS_SUBJECT", c.NATS.Subject)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) validate() error {
	if !clients.ValidateExternalSource(c.Catalog.Source) {
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	if c.Catalog.Source == clients.ExternalSourceStatic && c.Catalog.StaticFile == "" {
		return errors.New("catalog.static_file is required for the static source")
	}
	if c.FlashSale.Size <= 0 {
		return fmt.Errorf("flash_sale.size must be positive, got %d", c.FlashSale.Size)
	}
	if c.FlashSale.TickInterval <= 0 {
		return errors.New("flash_sale.tick_interval must be positive")
	}
	if _, err := c.location(); err != nil {
		return err
	}
	return nil
}

// location resolves the time zone whose wall clock defines the sale windows
func (c *Config) location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.FlashSale.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid flash_sale.timezone %q: %w", c.FlashSale.Timezone, err)
	}
	return loc, nil
}

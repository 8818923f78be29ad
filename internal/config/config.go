package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL    string        `yaml:"base_url"`
		PageSize   int           `yaml:"page_size"`
		RatePerSec float64       `yaml:"rate_per_sec"`
		Timeout    time.Duration `yaml:"timeout"`
		CacheDir   string        `yaml:"cache_dir"`
	} `yaml:"api"`
	Download struct {
		Start      string `yaml:"start"` // 2006-01-02
		End        string `yaml:"end"`
		WindowDays int    `yaml:"window_days"`
		Workers    int    `yaml:"workers"`
	} `yaml:"download"`
	DataDir string `yaml:"data_dir"`
	DB      struct {
		Path string `yaml:"path"`
	} `yaml:"db"`
	IEC struct {
		InlineNumbered bool `yaml:"inline_numbered"`
	} `yaml:"iec"`
}

// Load reads .env, then the YAML file at path (if it exists), then
// environment overrides.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(file, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("TRIALETL_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TRIALETL_DB"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("TRIALETL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://www.isrctn.com"
	}
	if c.API.PageSize <= 0 {
		c.API.PageSize = 100
	}
	if c.API.RatePerSec <= 0 {
		c.API.RatePerSec = 2
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Download.WindowDays <= 0 {
		c.Download.WindowDays = 1
	}
	if c.Download.Workers <= 0 {
		c.Download.Workers = 6
	}
	if c.DB.Path == "" {
		c.DB.Path = "trialetl.db"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
}

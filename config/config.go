// Package config loads the forumview CLI settings and the stub server
// settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL  = "http://localhost:8080"
	DefaultTimeout = 15 * time.Second

	UserConfigDir  = ".config/forumview"
	UserConfigFile = "config.yaml"
)

// Config holds the CLI settings. Values come from defaults, then the YAML
// file, then FORUMVIEW_* environment variables.
type Config struct {
	API       APIConfig `yaml:"api"`
	Log       LogConfig `yaml:"log"`
	Reconcile string    `yaml:"reconcile" validate:"oneof=local reload"`

	// Dir holds the session file. It defaults to the config file's directory.
	Dir string `yaml:"dir" validate:"required"`
}

type APIConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		API:       APIConfig{URL: DefaultAPIURL, Timeout: DefaultTimeout},
		Log:       LogConfig{Level: "warn"},
		Reconcile: "local",
	}
}

// DefaultPath returns ~/.config/forumview/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return UserConfigFile
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// Load reads path, or the default path when path is empty. A missing
// default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if cfg.Dir == "" {
		cfg.Dir = filepath.Dir(path)
	}

	loadDotEnv()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FORUMVIEW_API_URL"); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv("FORUMVIEW_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FORUMVIEW_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("FORUMVIEW_RECONCILE"); v != "" {
		c.Reconcile = v
	}
	if v := os.Getenv("FORUMVIEW_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FORUMVIEW_DIR"); v != "" {
		c.Dir = v
	}
	return nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadDotEnv imports .env from the working directory without overriding
// variables that are already set.
func loadDotEnv() {
	_ = godotenv.Load()
}

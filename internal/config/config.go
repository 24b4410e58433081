package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/assesskit/assesskit/internal/errors"
)

// Config is the client configuration, loaded from
// ~/.assesskit/config.yaml with ASSESSKIT_* environment overrides.
type Config struct {
	// BaseURL is the API root, e.g. https://assess.example.com/api/
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each API call.
	Timeout time.Duration `yaml:"timeout"`

	// AutosaveDebounce is the quiet period before an in-progress
	// snapshot is persisted.
	AutosaveDebounce time.Duration `yaml:"autosave_debounce"`

	// HydratePolicy controls what happens when a prior partial
	// response is found for the entered email: "notify" or "auto".
	HydratePolicy string `yaml:"hydrate_policy"`

	Log LogConfig `yaml:"log"`
}

// LogConfig selects log verbosity and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:          "http://localhost:8000/api/",
		Timeout:          30 * time.Second,
		AutosaveDebounce: time.Second,
		HydratePolicy:    "notify",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.assesskit/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "resolve home directory", err)
	}
	return filepath.Join(home, ".assesskit", "config.yaml"), nil
}

// Load reads the config file at path (missing file = defaults), applies
// a .env file from the working directory if present, then applies
// ASSESSKIT_* environment variables on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env handling
		case err != nil:
			return cfg, errors.Wrap(errors.ErrCodeFileReadFailed, "read config file", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.NewFileUnmarshalError(path, "YAML", err)
			}
		}
	}

	// .env is optional; only already-unset variables are taken from it.
	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ASSESSKIT_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ASSESSKIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("ASSESSKIT_AUTOSAVE_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AutosaveDebounce = d
		}
	}
	if v := os.Getenv("ASSESSKIT_HYDRATE_POLICY"); v != "" {
		cfg.HydratePolicy = v
	}
	if v := os.Getenv("ASSESSKIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ASSESSKIT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ASSESSKIT_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil && on {
			cfg.Log.Level = "debug"
		}
	}
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "base_url must not be empty")
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "timeout must be positive")
	}
	if c.AutosaveDebounce <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "autosave_debounce must be positive")
	}
	switch c.HydratePolicy {
	case "notify", "auto":
	default:
		return errors.New(errors.ErrCodeConfigInvalid, "hydrate_policy must be \"notify\" or \"auto\"")
	}
	return nil
}

// Package config loads the client configuration from defaults, an optional
// YAML file, a .env file, GPTEASERS_ environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// GPTEASERS_API_BASE_URL for api.base_url.
const EnvPrefix = "GPTEASERS"

// Question sources.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

const (
	defaultBaseURL = "https://gpteasers.jollyocean-6818c6e0.ukwest.azurecontainerapps.io"
	defaultModel   = "gpt-3.5-turbo"
)

type Config struct {
	API    APIConfig  `mapstructure:"api"`
	Quiz   QuizConfig `mapstructure:"quiz"`
	Source string     `mapstructure:"source"`
	Log    LogConfig  `mapstructure:"log"`

	// DB is the SQLite database path. Empty selects the default location.
	DB string `mapstructure:"db"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type QuizConfig struct {
	Count      int    `mapstructure:"count"`
	Difficulty string `mapstructure:"difficulty"`
	Model      string `mapstructure:"model"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Options control where Load looks.
type Options struct {
	// File is an explicit config file. It must exist when set.
	File string

	// SearchPaths are directories searched for config.yaml when File is
	// empty. Nil uses DefaultSearchPaths.
	SearchPaths []string

	// EnvFiles are dotenv files loaded into the process environment when
	// present. Variables already set are not overridden.
	EnvFiles []string

	// Flags are bound by FlagKeys.
	Flags *pflag.FlagSet
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"api-url":    "api.base_url",
	"timeout":    "api.timeout",
	"count":      "quiz.count",
	"difficulty": "quiz.difficulty",
	"model":      "quiz.model",
	"source":     "source",
	"log-file":   "log.file",
	"log-level":  "log.level",
	"db":         "db",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", defaultBaseURL)
	v.SetDefault("api.timeout", 60*time.Second)
	v.SetDefault("api.rate_limit", 2.0)
	v.SetDefault("api.burst", 4)
	v.SetDefault("quiz.count", 10)
	v.SetDefault("quiz.difficulty", "Medium")
	v.SetDefault("quiz.model", defaultModel)
	v.SetDefault("source", SourceRemote)
	v.SetDefault("log.file", DefaultLogFile())
	v.SetDefault("log.level", "info")
	v.SetDefault("db", "")
}

// Load builds the configuration.
func Load(opts Options) (*Config, error) {
	for _, f := range opts.EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readFile(v, opts); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, opts Options) error {
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", opts.File, err)
		}
		return nil
	}

	paths := opts.SearchPaths
	if paths == nil {
		paths = DefaultSearchPaths()
	}
	if len(paths) == 0 {
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceRemote:
		if c.API.BaseURL == "" {
			return fmt.Errorf("api.base_url is required for the remote source (set %s_API_BASE_URL)", EnvPrefix)
		}
	case SourceLocal:
	default:
		return fmt.Errorf("source must be %q or %q, got %q", SourceRemote, SourceLocal, c.Source)
	}
	if c.Quiz.Count <= 0 {
		return fmt.Errorf("quiz.count must be positive, got %d", c.Quiz.Count)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	return nil
}

// DefaultSearchPaths returns $XDG_CONFIG_HOME/gpteasers, falling back to
// ~/.config/gpteasers.
func DefaultSearchPaths() []string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return []string{filepath.Join(dir, "gpteasers")}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".config", "gpteasers")}
}

// DefaultLogFile returns $XDG_STATE_HOME/gpteasers/gpteasers.log, falling
// back to ~/.local/state/gpteasers/gpteasers.log.
func DefaultLogFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "gpteasers", "gpteasers.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gpteasers.log")
	}
	return filepath.Join(home, ".local", "state", "gpteasers", "gpteasers.log")
}

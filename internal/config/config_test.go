package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noFiles keeps the user's real config out of the test.
var noFiles = Options{SearchPaths: []string{}}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")

	cfg, err := Load(noFiles)
	require.NoError(t, err)

	assert.Equal(t, defaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10, cfg.Quiz.Count)
	assert.Equal(t, "Medium", cfg.Quiz.Difficulty)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Quiz.Model)
	assert.Equal(t, SourceRemote, cfg.Source)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join("/state", "gpteasers", "gpteasers.log"), cfg.Log.File)
	assert.Empty(t, cfg.DB)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://file.example/
  timeout: 5s
quiz:
  count: 3
  difficulty: Hard
source: local
`), 0o644))

	t.Setenv("GPTEASERS_QUIZ_COUNT", "7")
	t.Setenv("GPTEASERS_DB", "/tmp/env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	flags.String("db", "", "")
	require.NoError(t, flags.Parse([]string{"--model", "deepseek-chat"}))

	cfg, err := Load(Options{File: path, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "http://file.example", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 7, cfg.Quiz.Count, "env beats file")
	assert.Equal(t, "Hard", cfg.Quiz.Difficulty)
	assert.Equal(t, "deepseek-chat", cfg.Quiz.Model, "flag beats default")
	assert.Equal(t, "/tmp/env.db", cfg.DB, "unset flag does not mask env")
	assert.Equal(t, SourceLocal, cfg.Source)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("quiz:\n  model: gemini/gemini-pro\n"), 0o644))

	cfg, err := Load(Options{SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "gemini/gemini-pro", cfg.Quiz.Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GPTEASERS_QUIZ_DIFFICULTY=Easy\n"), 0o644))
	t.Setenv("GPTEASERS_QUIZ_DIFFICULTY", "")
	os.Unsetenv("GPTEASERS_QUIZ_DIFFICULTY")

	opts := noFiles
	opts.EnvFiles = []string{path, filepath.Join(t.TempDir(), "missing.env")}
	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "Easy", cfg.Quiz.Difficulty)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			API:    APIConfig{BaseURL: "http://x", Timeout: time.Second},
			Quiz:   QuizConfig{Count: 1},
			Source: SourceRemote,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"local without url", func(c *Config) { c.Source = SourceLocal; c.API.BaseURL = "" }, true},
		{"remote without url", func(c *Config) { c.API.BaseURL = "" }, false},
		{"bad source", func(c *Config) { c.Source = "carrier-pigeon" }, false},
		{"zero count", func(c *Config) { c.Quiz.Count = 0 }, false},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, false},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

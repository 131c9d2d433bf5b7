package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, defaultTMDBURL, cfg.TMDB.BaseURL)
	assert.Equal(t, "popular", cfg.UI.DefaultCategory)
	assert.Equal(t, "substring", cfg.UI.MatchMode)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.GenreTTL)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfigFile(t *testing.T) {
	dir := writeConfig(t, `
tmdb:
  token: abc123
  region: BR
  language: pt-BR
ui:
  default_category: release_date
  match_mode: fuzzy
cache:
  dir: ""
  genre_ttl: 12h
logging:
  level: debug
`)

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "abc123", cfg.TMDB.Token)
	assert.Equal(t, "BR", cfg.TMDB.Region)
	assert.Equal(t, "pt-BR", cfg.TMDB.Language)
	assert.Equal(t, "release_date", cfg.UI.DefaultCategory)
	assert.Equal(t, "fuzzy", cfg.UI.MatchMode)
	assert.Equal(t, "", cfg.Cache.Dir)
	assert.Equal(t, 12*time.Hour, cfg.Cache.GenreTTL)
	// Untouched keys keep their defaults
	assert.Equal(t, defaultTMDBURL, cfg.TMDB.BaseURL)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, "tmdb:\n  token: from-file\n")
	t.Setenv("CINEDEX_TMDB_TOKEN", "from-env")
	t.Setenv("CINEDEX_UI_MATCH_MODE", "fuzzy")

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TMDB.Token)
	assert.Equal(t, "fuzzy", cfg.UI.MatchMode)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown category": "ui:\n  default_category: upcoming\n",
		"unknown mode":     "ui:\n  match_mode: regex\n",
		"bad url":          "tmdb:\n  base_url: not a url\n",
		"bad region":       "tmdb:\n  region: BRA\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(viper.New(), writeConfig(t, body))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("").String())
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cinedex.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO"})
	require.NoError(t, err)

	logger.Info("hello", "page", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"page":2`)
}

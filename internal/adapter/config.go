package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultTMDBURL = "https://api.themoviedb.org/3"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds catalog provider configuration
type TMDBConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	Token             string  `mapstructure:"token"`    // v4 read access token (Bearer)
	Language          string  `mapstructure:"language"` // e.g. "en-US"
	Region            string  `mapstructure:"region" validate:"omitempty,len=2"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Retries           int     `mapstructure:"retries" validate:"gte=0,lte=10"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultCategory string `mapstructure:"default_category" validate:"oneof=popular top_rated now_playing release_date trending"`
	MatchMode       string `mapstructure:"match_mode" validate:"oneof=substring fuzzy"`
}

// CacheConfig holds local cache configuration
type CacheConfig struct {
	Dir      string        `mapstructure:"dir"` // empty = memory only
	GenreTTL time.Duration `mapstructure:"genre_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:           defaultTMDBURL,
			Language:          "en-US",
			RequestsPerSecond: 20,
			Retries:           2,
		},
		UI: UIConfig{
			DefaultCategory: "popular",
			MatchMode:       "substring",
		},
		Cache: CacheConfig{
			Dir:      defaultCachePath(),
			GenreTTL: 7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinedex", "cinedex.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinedex", "cinedex.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinedex")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cinedex")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cinedex", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinedex", "cache")
	}
}

// LoadConfig loads configuration from file and environment.
// A .env file in the working directory is applied first so that
// CINEDEX_TMDB_TOKEN can live outside the config file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}
	return loadConfig(viper.GetViper(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides (CINEDEX_TMDB_TOKEN, ...)
	v.SetEnvPrefix("CINEDEX")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnv(v, cfg)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// bindEnv registers every key so AutomaticEnv applies to Unmarshal,
// which only sees keys viper already knows about.
func bindEnv(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.token", cfg.TMDB.Token)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)
	v.SetDefault("tmdb.region", cfg.TMDB.Region)
	v.SetDefault("tmdb.requests_per_second", cfg.TMDB.RequestsPerSecond)
	v.SetDefault("tmdb.retries", cfg.TMDB.Retries)
	v.SetDefault("ui.default_category", cfg.UI.DefaultCategory)
	v.SetDefault("ui.match_mode", cfg.UI.MatchMode)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.genre_ttl", cfg.Cache.GenreTTL)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("tmdb.base_url", cfg.TMDB.BaseURL)
	viper.Set("tmdb.token", cfg.TMDB.Token)
	viper.Set("tmdb.language", cfg.TMDB.Language)
	viper.Set("tmdb.region", cfg.TMDB.Region)
	viper.Set("tmdb.requests_per_second", cfg.TMDB.RequestsPerSecond)
	viper.Set("tmdb.retries", cfg.TMDB.Retries)

	viper.Set("ui.default_category", cfg.UI.DefaultCategory)
	viper.Set("ui.match_mode", cfg.UI.MatchMode)

	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("cache.genre_ttl", cfg.Cache.GenreTTL.String())

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveToken updates just the API token in the configuration
func SaveToken(token string) error {
	viper.Set("tmdb.token", token)

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if an API token is set
func (c *Config) IsConfigured() bool {
	return c.TMDB.Token != ""
}

// ClearCache removes all cached data
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. DEALFLOW_API_URL.
const EnvPrefix = "DEALFLOW"

// Config holds all runtime settings for the client and the stand-in server.
type Config struct {
	APIURL         string
	DBPath         string
	LogFile        string
	LogLevel       slog.Level
	LogCalls       bool
	RequestTimeout time.Duration // zero means no per-request timeout
	DialTimeout    time.Duration
	MockAddr       string
	MockSecret     string
}

// DefaultConfig returns a Config pointing at a local backend with state kept
// under dir (normally ~/.dealflow).
func DefaultConfig(dir string) Config {
	return Config{
		APIURL:      "http://localhost:8000",
		DBPath:      filepath.Join(dir, "dealflow.db"),
		LogFile:     filepath.Join(dir, "dealflow.log"),
		LogLevel:    slog.LevelInfo,
		DialTimeout: 5 * time.Second,
		MockAddr:    ":8000",
		MockSecret:  "dealflow-dev-secret",
	}
}

// DefaultDir returns ~/.dealflow.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".dealflow"), nil
}

// Load layers defaults, an optional config.yaml in dir, a .env file in the
// working directory and DEALFLOW_* environment variables, later sources
// winning.
func Load(dir string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	def := DefaultConfig(dir)
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_calls", false)
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("dial_timeout", def.DialTimeout.String())
	v.SetDefault("mock_addr", def.MockAddr)
	v.SetDefault("mock_secret", def.MockSecret)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		APIURL:     strings.TrimRight(v.GetString("api_url"), "/"),
		DBPath:     v.GetString("db_path"),
		LogFile:    v.GetString("log_file"),
		LogCalls:   v.GetBool("log_calls"),
		MockAddr:   v.GetString("mock_addr"),
		MockSecret: v.GetString("mock_secret"),
	}

	level, err := ParseLevel(v.GetString("log_level"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if cfg.RequestTimeout, err = parseDuration(v, "request_timeout"); err != nil {
		return Config{}, err
	}
	if cfg.DialTimeout, err = parseDuration(v, "dial_timeout"); err != nil {
		return Config{}, err
	}
	if cfg.APIURL == "" {
		return Config{}, fmt.Errorf("api_url must not be empty")
	}
	return cfg, nil
}

// ParseLevel maps debug/info/warn/error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return l, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a non-negative duration such as 30s", key, raw)
	}
	return d, nil
}

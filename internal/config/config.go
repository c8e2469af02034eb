package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// ActivitySeed is one catalog entry. Activities are a list rather than a map
// because viper lower-cases map keys.
type ActivitySeed struct {
	Name            string   `mapstructure:"name"`
	Description     string   `mapstructure:"description"`
	Schedule        string   `mapstructure:"schedule"`
	MaxParticipants int      `mapstructure:"max_participants"`
	Participants    []string `mapstructure:"participants"`
}

type Config struct {
	Mode            string         `mapstructure:"mode"`
	Port            int            `mapstructure:"port"`
	StaticPath      string         `mapstructure:"static_path"`
	ReadLimit       int64          `mapstructure:"read_limit"`
	PingPeriod      time.Duration  `mapstructure:"ping_period"`
	Secret          string         `mapstructure:"secret"`
	LogLevel        string         `mapstructure:"log_level"`
	EnforceCapacity bool           `mapstructure:"enforce_capacity"`
	ValidateEmail   bool           `mapstructure:"validate_email"`
	FeedBuffer      int            `mapstructure:"feed_buffer"`
	Activities      []ActivitySeed `mapstructure:"activities"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (CONFIG_ENV defaults to dev).
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName over the defaults. A missing file is not an error;
// ACTIVITIES_* environment variables override both.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("activities")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 4096)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("enforce_capacity", false)
	v.SetDefault("validate_email", false)
	v.SetDefault("feed_buffer", 32)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.FeedBuffer <= 0 {
		return nil, fmt.Errorf("feed_buffer must be positive, got %d", cfg.FeedBuffer)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).
		Bool("enforce_capacity", cfg.EnforceCapacity).Int("activities", len(cfg.Activities)).Msg("config ready")
	return &cfg, nil
}

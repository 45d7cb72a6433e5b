package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	RealtimePort string `mapstructure:"REALTIME_PORT"`
	Environment  string `mapstructure:"ENVIRONMENT"`

	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	AutoMigrate    bool   `mapstructure:"AUTO_MIGRATE"`

	// RedisURL may be empty, which disables the comment tree cache and the
	// cross-instance push relay.
	RedisURL string `mapstructure:"REDIS_URL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	CommentTreeCacheTTL time.Duration `mapstructure:"COMMENT_TREE_CACHE_TTL"`
	NotificationLocale  string        `mapstructure:"NOTIFICATION_LOCALE"`

	PushQueueSize     int           `mapstructure:"PUSH_QUEUE_SIZE"`
	PushSessionBuffer int           `mapstructure:"PUSH_SESSION_BUFFER"`
	PushWriteTimeout  time.Duration `mapstructure:"PUSH_WRITE_TIMEOUT"`
	PushChannel       string        `mapstructure:"PUSH_CHANNEL"`
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	configureViper(v)
	if err := readConfiguration(v); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("REALTIME_PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("AUTO_MIGRATE", false)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:4200")

	v.SetDefault("COMMENT_TREE_CACHE_TTL", "5m")
	v.SetDefault("NOTIFICATION_LOCALE", "vi")

	v.SetDefault("PUSH_QUEUE_SIZE", 1024)
	v.SetDefault("PUSH_SESSION_BUFFER", 32)
	v.SetDefault("PUSH_WRITE_TIMEOUT", "10s")
	v.SetDefault("PUSH_CHANNEL", "engagement:push")
}

func configureViper(v *viper.Viper) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func readConfiguration(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config file error: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Port == c.RealtimePort {
		return fmt.Errorf("PORT and REALTIME_PORT must differ, both are %s", c.Port)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits CORS_ORIGINS into its comma separated entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

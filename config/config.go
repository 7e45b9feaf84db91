package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// HTTP server
	Server ServerConfig `mapstructure:"server"`

	// Embedded store
	SQLite SQLiteConfig `mapstructure:"sqlite"`

	// Docker daemon
	Docker DockerConfig `mapstructure:"docker"`

	// Uploaded icon storage
	Uploads UploadsConfig `mapstructure:"uploads"`

	// Redis (optional, rate limiting only)
	Redis RedisConfig `mapstructure:"redis"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`

	// Tailscale discovery
	Tailscale TailscaleConfig `mapstructure:"tailscale"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type DockerConfig struct {
	Socket string `mapstructure:"socket"`
}

type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type PrometheusConfig struct {
	Port int `mapstructure:"port"`
}

type TailscaleConfig struct {
	Binary string `mapstructure:"binary"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Preserve legacy env variable names.
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("sqlite.path", "data/dashboard.db")
	v.SetDefault("docker.socket", "/var/run/docker.sock")
	v.SetDefault("uploads.dir", "data/uploads")
	v.SetDefault("tailscale.binary", "tailscale")
}

func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.port", "PORT")

	// SQLite
	v.BindEnv("sqlite.path", "DB_PATH")

	// Docker
	v.BindEnv("docker.socket", "DOCKER_SOCKET")

	// Uploads
	v.BindEnv("uploads.dir", "UPLOADS_DIR")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")

	// Tailscale
	v.BindEnv("tailscale.binary", "TAILSCALE_BIN")
}

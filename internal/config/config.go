package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendList = "list"
	BackendJDBC = "jdbc"
	BackendJPA  = "jpa"
)

var backendAliases = map[string]string{
	BackendList: BackendList,
	"memory":    BackendList,
	BackendJDBC: BackendJDBC,
	"sql":       BackendJDBC,
	BackendJPA:  BackendJPA,
	"orm":       BackendJPA,
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Dao      DaoConfig      `mapstructure:"dao"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Seed     SeedConfig     `mapstructure:"seed"`

	ConfigFileUsed string `mapstructure:"-"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	MaxConns int32  `mapstructure:"maxConns"`
	Migrate  bool   `mapstructure:"migrate"`
}

// ConnectionURL returns URL with Username and Password, when set, replacing the
// credentials embedded in it.
func (c DatabaseConfig) ConnectionURL() (string, error) {
	if c.URL == "" {
		return "", fmt.Errorf("database URL is empty in configuration")
	}
	if c.Username == "" && c.Password == "" {
		return c.URL, nil
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}

	username := c.Username
	password := c.Password
	if u.User != nil {
		if username == "" {
			username = u.User.Username()
		}
		if existing, ok := u.User.Password(); ok && password == "" {
			password = existing
		}
	}
	if password == "" {
		u.User = url.User(username)
	} else {
		u.User = url.UserPassword(username, password)
	}

	return u.String(), nil
}

type DaoConfig struct {
	Backend string `mapstructure:"backend"`
}

// ResolveBackend maps the configured backend (or one of its aliases) onto
// BackendList, BackendJDBC or BackendJPA.
func (c DaoConfig) ResolveBackend() (string, error) {
	backend, ok := backendAliases[strings.ToLower(strings.TrimSpace(c.Backend))]
	if !ok {
		return "", fmt.Errorf("unknown dao backend %q (expected list, jdbc or jpa)", c.Backend)
	}
	return backend, nil
}

type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type MetricsConfig struct {
	Path string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"serviceName"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Count   int  `mapstructure:"count"`
}

func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("database.url", "postgres://localhost:5432/customer?sslmode=disable")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.maxConns", 10)
	v.SetDefault("database.migrate", true)
	v.SetDefault("dao.backend", BackendJPA)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.serviceName", "customer-service")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("seed.count", 1)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using defaults and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFileUsed = v.ConfigFileUsed()

	return &cfg, nil
}

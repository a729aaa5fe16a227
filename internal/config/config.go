package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development" validate:"oneof=development production test"`
	Port            string        `envconfig:"PORT" default:"8080" validate:"required"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	DBPath        string `envconfig:"DB_PATH" default:"./bakery.db" validate:"required"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	SettingsBackend string `envconfig:"SETTINGS_BACKEND" default:"sqlite" validate:"oneof=sqlite redis"`
	RedisAddr       string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPrefix     string `envconfig:"REDIS_PREFIX" default:"bakery"`

	AdminEmail    string        `envconfig:"ADMIN_EMAIL"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`

	APIRateLimit int `envconfig:"API_RATE_LIMIT" default:"120" validate:"gt=0"`
}

// Load reads an optional .env file, then environment variables, and returns
// a populated Config.
func Load() (Config, error) {
	return load(".env")
}

func load(dotenvPath string) (Config, error) {
	// Variables already present in the environment win over the file.
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app runs outside production.
func (c Config) IsDev() bool {
	return c.AppEnv != EnvProduction
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	return warnings
}

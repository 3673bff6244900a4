package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Поддерживаемые драйверы БД
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config содержит настройки приложения
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	DBName     string `yaml:"name"`
	SSLMode    string `yaml:"ssl_mode"`
	SQLitePath string `yaml:"sqlite_path"`
}

// AuthConfig - настройки выдачи токенов
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"-"`
	// TokenTTLRaw - длительность в формате time.ParseDuration, например "72h"
	TokenTTLRaw string `yaml:"token_ttl"`
	Issuer      string `yaml:"issuer"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level string `yaml:"level"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SQLiteDSN возвращает путь к файлу SQLite с включёнными внешними ключами
func (c *DatabaseConfig) SQLiteDSN() string {
	return c.SQLitePath + "?_foreign_keys=on"
}

// Dialect возвращает имя диалекта для goose
func (c *DatabaseConfig) Dialect() string {
	if c.Driver == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// SlogLevel преобразует уровень логирования
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML-файл из
// CONFIG_FILE (если задан), затем .env и переменные окружения.
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:     DriverPostgres,
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Password:   "postgres",
			DBName:     "pontaj",
			SSLMode:    "disable",
			SQLitePath: "pontaj.db",
		},
		Auth: AuthConfig{
			TokenTTLRaw: "72h",
			Issuer:      "pontaj-api",
		},
		Log: LogConfig{Level: "info"},
	}
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.SQLitePath = getEnv("DB_SQLITE_PATH", c.Database.SQLitePath)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTLRaw = getEnv("JWT_TTL", c.Auth.TokenTTLRaw)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) validateAndNormalize() error {
	if c.Server.Port == "" {
		return fmt.Errorf("config: server.port must be set")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("config: server.port must be numeric: %w", err)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.Driver == DriverSQLite && c.Database.SQLitePath == "" {
		return fmt.Errorf("config: database.sqlite_path must be set for sqlite driver")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret must be set")
	}
	ttl, err := time.ParseDuration(c.Auth.TokenTTLRaw)
	if err != nil {
		return fmt.Errorf("config: parse auth.token_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("config: auth.token_ttl must be positive")
	}
	c.Auth.TokenTTL = ttl

	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config loads runtime settings from a .env file, an optional YAML
// file and the process environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything cmd/main.go needs to wire the service.
type Config struct {
	HTTPAddr string

	DBDriver string // "postgres" or "sqlite"
	DBDSN    string

	RedisAddr     string // empty disables Redis; in-memory stores are used instead
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	SessionTTL time.Duration
	CacheTTL   time.Duration

	StrictStatusTransitions bool
	DefaultLanguage         string
	LocalizationDir         string

	TelegramBotToken string
}

type configFile struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Session struct {
		Secret   string `yaml:"secret"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"session"`
	Complaints struct {
		CacheTTLSeconds         int   `yaml:"cache_ttl_seconds"`
		StrictStatusTransitions *bool `yaml:"strict_status_transitions"`
	} `yaml:"complaints"`
	Localization struct {
		Dir             string `yaml:"dir"`
		DefaultLanguage string `yaml:"default_language"`
	} `yaml:"localization"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
	} `yaml:"telegram"`
}

// DefaultJWTSecret is only good for local runs; Load warns when it is in use.
const DefaultJWTSecret = "change-me"

// Default returns the settings used when nothing is configured: a local
// SQLite file and in-memory session storage.
func Default() Config {
	return Config{
		HTTPAddr:                ":8080",
		DBDriver:                "sqlite",
		DBDSN:                   "smartalert.db",
		JWTSecret:               DefaultJWTSecret,
		SessionTTL:              72 * time.Hour,
		CacheTTL:                5 * time.Minute,
		StrictStatusTransitions: true,
		DefaultLanguage:         "en",
		LocalizationDir:         "internal/localization",
	}
}

// Load reads .env (if present), then the YAML file at path (if present),
// then environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := applyFile(&cfg, raw); err != nil {
			return Config{}, err
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var errs []error
	intVar := func(name string, fallback int) int {
		v, err := envInt(name, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBDriver = strings.ToLower(envOrDefault("DB_DRIVER", cfg.DBDriver))
	cfg.DBDSN = envOrDefault("DB_DSN", cfg.DBDSN)
	cfg.RedisAddr = envOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envOrDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = intVar("REDIS_DB", cfg.RedisDB)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.SessionTTL = time.Duration(intVar("SESSION_TTL_HOURS", int(cfg.SessionTTL.Hours()))) * time.Hour
	cfg.CacheTTL = time.Duration(intVar("CACHE_TTL_SECONDS", int(cfg.CacheTTL.Seconds()))) * time.Second
	cfg.StrictStatusTransitions = envBool("STRICT_STATUS_TRANSITIONS", cfg.StrictStatusTransitions)
	cfg.DefaultLanguage = envOrDefault("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.LocalizationDir = envOrDefault("LOCALIZATION_DIR", cfg.LocalizationDir)
	cfg.TelegramBotToken = envOrDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("missing DB_DSN")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	if cfg.UsesDefaultSecret() {
		log.Println("WARNING: JWT_SECRET is not set, sessions are signed with the built-in development key")
	}
	return cfg, nil
}

// UsesDefaultSecret reports whether tokens would be signed with DefaultJWTSecret.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Server.Addr != "" {
		cfg.HTTPAddr = f.Server.Addr
	}
	if f.Database.Driver != "" {
		cfg.DBDriver = f.Database.Driver
	}
	if f.Database.DSN != "" {
		cfg.DBDSN = f.Database.DSN
	}
	if f.Redis.Addr != "" {
		cfg.RedisAddr = f.Redis.Addr
		cfg.RedisPassword = f.Redis.Password
		cfg.RedisDB = f.Redis.DB
	}
	if f.Session.Secret != "" {
		cfg.JWTSecret = f.Session.Secret
	}
	if f.Session.TTLHours > 0 {
		cfg.SessionTTL = time.Duration(f.Session.TTLHours) * time.Hour
	}
	if f.Complaints.CacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(f.Complaints.CacheTTLSeconds) * time.Second
	}
	if f.Complaints.StrictStatusTransitions != nil {
		cfg.StrictStatusTransitions = *f.Complaints.StrictStatusTransitions
	}
	if f.Localization.Dir != "" {
		cfg.LocalizationDir = f.Localization.Dir
	}
	if f.Localization.DefaultLanguage != "" {
		cfg.DefaultLanguage = f.Localization.DefaultLanguage
	}
	if f.Telegram.BotToken != "" {
		cfg.TelegramBotToken = f.Telegram.BotToken
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: must be an integer", name, raw)
	}
	return v, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

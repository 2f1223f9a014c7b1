package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Log      LogConfig      `toml:"log"`
	Auth     AuthConfig     `toml:"auth"`
	LLM      LLMConfig      `toml:"llm"`
	Tutor    TutorConfig    `toml:"tutor"`
	Messages MessagesConfig `toml:"messages"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type LogConfig struct {
	Mode string `toml:"mode"` // dev or prod
}

type AuthConfig struct {
	SessionTokenSecret       string `toml:"session_token_secret"`
	SessionTokenExpireMinute int    `toml:"session_token_expire_minute"`
}

type LLMConfig struct {
	Provider              string  `toml:"provider"` // gemini or openai
	BaseURL               string  `toml:"base_url"`
	APIKey                string  `toml:"api_key"`
	Model                 string  `toml:"model"`
	FallbackModel         string  `toml:"fallback_model"`
	Temperature           float64 `toml:"temperature"`
	TopP                  float64 `toml:"top_p"`
	TopK                  int     `toml:"top_k"`
	MaxOutputTokens       int     `toml:"max_output_tokens"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
}

// TutorConfig.MaxHistory 0 sends no history; SessionIdleMinutes 0 keeps
// sessions in memory until deleted.
type TutorConfig struct {
	DefaultSubject     string `toml:"default_subject"`
	MaxHistory         int    `toml:"max_history"`
	MaxReferenceChars  int    `toml:"max_reference_chars"`
	MaxUploadBytes     int64  `toml:"max_upload_bytes"`
	SubjectsFile       string `toml:"subjects_file"`
	SessionDir         string `toml:"session_dir"`
	SessionIdleMinutes int    `toml:"session_idle_minutes"`
}

// MessagesConfig overrides entries of the user-facing message catalog. Empty
// entries keep the built-in text.
type MessagesConfig struct {
	APIKeyMissing string `toml:"api_key_missing"`
	QuotaExceeded string `toml:"quota_exceeded"`
	TimeoutError  string `toml:"timeout_error"`
	GeneralError  string `toml:"general_error"`
	ChatCleared   string `toml:"chat_cleared"`
	Thinking      string `toml:"thinking"`
	NoQuestion    string `toml:"no_question"`
}

// DatabaseConfig with an empty Driver disables durable storage.
type DatabaseConfig struct {
	Driver string       `toml:"driver"` // mysql, sqlite or empty
	MySQL  MySQLConfig  `toml:"mysql"`
	SQLite SQLiteConfig `toml:"sqlite"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type SQLiteConfig struct {
	Path string `toml:"path"`
}

// RedisConfig with an empty Addr disables the snapshot cache.
type RedisConfig struct {
	Addr               string `toml:"addr"`
	Password           string `toml:"password"`
	DB                 int    `toml:"db"`
	SnapshotTTLSeconds int    `toml:"snapshot_ttl_seconds"`
}

// RabbitMQConfig with an empty URL makes exchanges persist synchronously.
type RabbitMQConfig struct {
	URL                  string `toml:"url"`
	ExchangePersistQueue string `toml:"exchange_persist_queue"`
}

func Load() (*Config, error) {
	return LoadFile(getEnv("CONFIG_FILE", "configs/config.toml"))
}

// LoadFile reads path when it exists and applies environment overrides on top.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("decode config file failed: %w", err)
			}
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.Database.Driver {
	case "mysql":
		m := c.Database.MySQL
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", m.User, m.Password, m.Host, m.Port, m.DB, m.Params)
	case "sqlite":
		return c.Database.SQLite.Path
	default:
		return ""
	}
}

func (c *Config) SessionTokenTTL() time.Duration {
	return time.Duration(c.Auth.SessionTokenExpireMinute) * time.Minute
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.RequestTimeoutSeconds) * time.Second
}

func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.Tutor.SessionIdleMinutes) * time.Minute
}

func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.Redis.SnapshotTTLSeconds) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "gopherai-tutor",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		Log: LogConfig{
			Mode: "dev",
		},
		Auth: AuthConfig{
			SessionTokenSecret:       "change-me-in-production",
			SessionTokenExpireMinute: 24 * 60,
		},
		LLM: LLMConfig{
			Provider:              "gemini",
			Model:                 "gemini-2.0-flash-exp",
			FallbackModel:         "gemini-pro",
			Temperature:           0.7,
			TopP:                  0.95,
			TopK:                  40,
			MaxOutputTokens:       8192,
			RequestTimeoutSeconds: 90,
		},
		Tutor: TutorConfig{
			DefaultSubject:     "Python Programming",
			MaxHistory:         5,
			MaxReferenceChars:  2000,
			MaxUploadBytes:     20 << 20,
			SessionDir:         ".",
			SessionIdleMinutes: 30,
		},
		Database: DatabaseConfig{
			MySQL: MySQLConfig{
				Host:   "127.0.0.1",
				Port:   3306,
				User:   "root",
				DB:     "gopherai_tutor",
				Params: "parseTime=true&loc=Local&charset=utf8mb4",
			},
			SQLite: SQLiteConfig{
				Path: "tutor.db",
			},
		},
		Redis: RedisConfig{
			SnapshotTTLSeconds: 30 * 60,
		},
		RabbitMQ: RabbitMQConfig{
			ExchangePersistQueue: "tutor.exchange.persist",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.Log.Mode = getEnv("LOG_MODE", cfg.Log.Mode)

	cfg.Auth.SessionTokenSecret = getEnv("SESSION_TOKEN_SECRET", cfg.Auth.SessionTokenSecret)
	cfg.Auth.SessionTokenExpireMinute = getEnvAsInt("SESSION_TOKEN_EXPIRE_MINUTE", cfg.Auth.SessionTokenExpireMinute)

	cfg.LLM.Provider = getEnv("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.FallbackModel = getEnv("LLM_FALLBACK_MODEL", cfg.LLM.FallbackModel)
	cfg.LLM.Temperature = getEnvAsFloat("LLM_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.TopP = getEnvAsFloat("LLM_TOP_P", cfg.LLM.TopP)
	cfg.LLM.TopK = getEnvAsInt("LLM_TOP_K", cfg.LLM.TopK)
	cfg.LLM.MaxOutputTokens = getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", cfg.LLM.MaxOutputTokens)
	cfg.LLM.RequestTimeoutSeconds = getEnvAsInt("LLM_REQUEST_TIMEOUT_SECONDS", cfg.LLM.RequestTimeoutSeconds)

	cfg.Tutor.DefaultSubject = getEnv("TUTOR_DEFAULT_SUBJECT", cfg.Tutor.DefaultSubject)
	cfg.Tutor.MaxHistory = getEnvAsInt("TUTOR_MAX_HISTORY", cfg.Tutor.MaxHistory)
	cfg.Tutor.MaxReferenceChars = getEnvAsInt("TUTOR_MAX_REFERENCE_CHARS", cfg.Tutor.MaxReferenceChars)
	cfg.Tutor.MaxUploadBytes = int64(getEnvAsInt("TUTOR_MAX_UPLOAD_BYTES", int(cfg.Tutor.MaxUploadBytes)))
	cfg.Tutor.SubjectsFile = getEnv("TUTOR_SUBJECTS_FILE", cfg.Tutor.SubjectsFile)
	cfg.Tutor.SessionDir = getEnv("TUTOR_SESSION_DIR", cfg.Tutor.SessionDir)
	cfg.Tutor.SessionIdleMinutes = getEnvAsInt("TUTOR_SESSION_IDLE_MINUTES", cfg.Tutor.SessionIdleMinutes)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.MySQL.Host = getEnv("MYSQL_HOST", cfg.Database.MySQL.Host)
	cfg.Database.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.Database.MySQL.Port)
	cfg.Database.MySQL.User = getEnv("MYSQL_USER", cfg.Database.MySQL.User)
	cfg.Database.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.Database.MySQL.Password)
	cfg.Database.MySQL.DB = getEnv("MYSQL_DB", cfg.Database.MySQL.DB)
	cfg.Database.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.Database.MySQL.Params)
	cfg.Database.SQLite.Path = getEnv("SQLITE_PATH", cfg.Database.SQLite.Path)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.SnapshotTTLSeconds = getEnvAsInt("REDIS_SNAPSHOT_TTL_SECONDS", cfg.Redis.SnapshotTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.ExchangePersistQueue = getEnv("RABBITMQ_EXCHANGE_PERSIST_QUEUE", cfg.RabbitMQ.ExchangePersistQueue)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

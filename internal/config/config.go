package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store drivers accepted by TASKMGR_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Store    string
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Server   ServerConfig
	Tasks    TasksConfig
	Log      LogConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// AMQPConfig holds the broker URL. An empty URL disables AMQP publishing.
type AMQPConfig struct {
	URL string
}

func (c AMQPConfig) Enabled() bool { return c.URL != "" }

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// TasksConfig holds task service behaviour.
type TasksConfig struct {
	BlockedGuard bool
	StreamDelay  time.Duration
}

type LogConfig struct {
	Level  zerolog.Level
	Format string
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory. Defaults run the service
// against the in-memory store with no external brokers.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, err := getEnvInt("TASKMGR_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("TASKMGR_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("TASKMGR_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("TASKMGR_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	// Zero disables the write timeout so long task streams are not cut off.
	writeTimeout, err := getEnvDuration("TASKMGR_SERVER_WRITE_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rps, err := getEnvFloat("TASKMGR_RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	burst, err := getEnvInt("TASKMGR_RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	blockedGuard, err := getEnvBool("TASKMGR_BLOCKED_GUARD", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	streamDelay, err := getEnvDuration("TASKMGR_STREAM_DELAY", time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("TASKMGR_LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("config.Load: parsing TASKMGR_LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Store: strings.ToLower(getEnv("TASKMGR_STORE", StoreMemory)),
		Database: DatabaseConfig{
			Host:     getEnv("TASKMGR_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("TASKMGR_DB_USER", "taskmgr"),
			Password: getEnv("TASKMGR_DB_PASSWORD", ""),
			DBName:   getEnv("TASKMGR_DB_NAME", "taskmgr"),
			SSLMode:  getEnv("TASKMGR_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		SQLite: SQLiteConfig{
			Path: getEnv("TASKMGR_SQLITE_PATH", "taskmgr.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("TASKMGR_REDIS_ADDR", ""),
			Password: getEnv("TASKMGR_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		AMQP: AMQPConfig{
			URL: getEnv("TASKMGR_AMQP_URL", ""),
		},
		Server: ServerConfig{
			Addr:           getEnv("TASKMGR_SERVER_ADDR", ":8080"),
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			CORSOrigins:    getEnvList("TASKMGR_CORS_ORIGINS", []string{"*"}),
			RateLimitRPS:   rps,
			RateLimitBurst: burst,
		},
		Tasks: TasksConfig{
			BlockedGuard: blockedGuard,
			StreamDelay:  streamDelay,
		},
		Log: LogConfig{
			Level:  level,
			Format: strings.ToLower(getEnv("TASKMGR_LOG_FORMAT", "json")),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Database.SSLMode == "disable" {
			log.Warn().Msg("TASKMGR_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
		}
	default:
		return fmt.Errorf("TASKMGR_STORE must be one of memory, postgres, sqlite, got %q", c.Store)
	}

	if c.Store == StoreSQLite && c.SQLite.Path == "" {
		return fmt.Errorf("TASKMGR_SQLITE_PATH is required when TASKMGR_STORE=%s", StoreSQLite)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("TASKMGR_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("TASKMGR_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("TASKMGR_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("TASKMGR_SERVER_WRITE_TIMEOUT must not be negative, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("TASKMGR_RATE_LIMIT_RPS must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("TASKMGR_RATE_LIMIT_BURST must be >= 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Tasks.StreamDelay < 0 {
		return fmt.Errorf("TASKMGR_STREAM_DELAY must not be negative, got %s", c.Tasks.StreamDelay)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("TASKMGR_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	ServerPort  string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SeedOnStart bool

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string // bcrypt; takes precedence over AdminPassword

	CORSOrigins []string

	// Learner client settings.
	APIBaseURL    string
	ContentSource string // api|static
	AdvanceMode   string // manual|timed(ms)
	RedisAddr     string
	SnapshotTTL   time.Duration
	LearnerID     string // snapshot key; random per run when empty
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; the process environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("PORT", "3000"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnvInt("DB_PORT", 5432),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "elearning"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		SeedOnStart: getEnvBool("SEED_ON_START", true),

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		CORSOrigins: getEnvList("CORS_ORIGINS", "*"),

		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:3000"),
		ContentSource: strings.ToLower(getEnv("CONTENT_SOURCE", "api")),
		AdvanceMode:   getEnv("ADVANCE_MODE", "manual"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		SnapshotTTL:   getEnvDuration("SNAPSHOT_TTL", 12*time.Hour),
		LearnerID:     os.Getenv("LEARNER_ID"),
	}

	switch cfg.DBDriver {
	case "postgres", "pgx", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.ContentSource {
	case "api", "static":
	default:
		return nil, fmt.Errorf("unsupported CONTENT_SOURCE %q", cfg.ContentSource)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DSN returns the connection string for the configured driver. DATABASE_URL
// is used verbatim when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == "sqlite" {
		return "file:elearning.db?mode=rwc&_pragma=busy_timeout(5000)"
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvList(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

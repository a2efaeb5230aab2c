package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development signing secret. Production refuses it.
const DefaultJWTSecret = "your-secret-key"

type Config struct {
	// Application
	AppEnv          string
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Database
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBConnMaxIdleTime time.Duration
	DBConnectTimeout  time.Duration
	DBQueryTimeout    time.Duration
	DBAutoMigrate     bool

	// Security
	JWTSecret          string
	JWTExpiry          time.Duration
	BcryptCost         int
	CORSAllowedOrigins []string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv:          envString("APP_ENV", "development"),
		Port:            envString("PORT", "2323"),
		LogLevel:        envString("LOG_LEVEL", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBHost:            envString("DB_HOST", "localhost"),
		DBPort:            envString("DB_PORT", "5432"),
		DBName:            envString("DB_NAME", "login_db"),
		DBUser:            envString("DB_USER", "postgres"),
		DBPassword:        envString("DB_PASSWORD", "password"),
		DBSSLMode:         envString("DB_SSLMODE", "disable"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 20),
		DBConnMaxIdleTime: envDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second),
		DBConnectTimeout:  envDuration("DB_CONNECT_TIMEOUT", 2*time.Second),
		DBQueryTimeout:    envDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		DBAutoMigrate:     envBool("DB_AUTO_MIGRATE", true),

		JWTSecret:          envString("JWT_SECRET", DefaultJWTSecret),
		JWTExpiry:          envDuration("JWT_EXPIRY", 24*time.Hour),
		BcryptCost:         envInt("BCRYPT_COST", 10),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	} else if cfg.JWTSecret == DefaultJWTSecret {
		slog.Warn("using default JWT_SECRET, set a real one before deploying")
	}

	return cfg
}

// validateProduction refuses to boot a production process on development defaults.
func validateProduction(cfg *Config) {
	if cfg.JWTSecret == DefaultJWTSecret {
		slog.Error("production deployment requires JWT_SECRET",
			"hint", "set JWT_SECRET to a long random value")
		os.Exit(1)
	}
	if cfg.DBPassword == "password" {
		slog.Warn("production deployment is using the default DB_PASSWORD")
	}
}

// DSN builds the pgx connection URL. connect_timeout is expressed in whole seconds.
func (c *Config) DSN() string {
	timeout := int(c.DBConnectTimeout / time.Second)
	if timeout < 1 {
		timeout = 1
	}

	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	q.Set("connect_timeout", strconv.Itoa(timeout))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy with credentials removed, safe to log.
func (c *Config) Sanitized() *Config {
	cp := *c
	cp.DBPassword = ""
	cp.JWTSecret = ""
	cp.SentryDSN = ""
	return &cp
}

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string

	DBDriver    string
	MySQLHost   string
	MySQLPort   string
	MySQLDB     string
	MySQLUser   string
	MySQLPass   string
	PostgresDSN string
	SQLitePath  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs          int
	ActiveRequestsTTLSecs int

	// ProcessingFee is the default admin fee, as a fraction of principal.
	ProcessingFee decimal.Decimal
	Currency      string

	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	SweepSchedule string

	AMQPURL        string
	EventsExchange string

	LogFile  string
	LogLevel string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, after merging an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:     getenv("APP_PORT", "8080"),
		DBDriver:    getenv("DB_DRIVER", "mysql"),
		MySQLHost:   getenv("MYSQL_HOST", "mysql"),
		MySQLPort:   getenv("MYSQL_PORT", "3306"),
		MySQLDB:     getenv("MYSQL_DB", "lending"),
		MySQLUser:   getenv("MYSQL_USER", "lending"),
		MySQLPass:   getenv("MYSQL_PASS", "lending"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SQLitePath:  getenv("SQLITE_PATH", "lending.db"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		IdempTTLSecs:          getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		ActiveRequestsTTLSecs: getenvInt("ACTIVE_REQUESTS_CACHE_TTL_SECONDS", 3600),

		ProcessingFee: decimal.RequireFromString("0.0375"),
		Currency:      getenv("CURRENCY", "USD"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getenv("JWT_ISSUER", "p2p-lending"),
		JWTTTLMinutes: getenvInt("JWT_TTL_MINUTES", 60),

		SweepSchedule: getenv("SWEEP_SCHEDULE", "0 * * * *"),

		AMQPURL:        os.Getenv("AMQP_URL"),
		EventsExchange: getenv("EVENTS_EXCHANGE", "lending_events"),

		LogFile:  os.Getenv("LOG_FILE"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
	if v := os.Getenv("PROCESSING_FEE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			c.ProcessingFee = d
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ProcessingFee.IsNegative() || c.ProcessingFee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("PROCESSING_FEE must be a fraction in [0,1), got %s", c.ProcessingFee)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 bytes")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return c.PostgresDSN
	case "sqlite":
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) ActiveRequestsTTL() time.Duration {
	return time.Duration(c.ActiveRequestsTTLSecs) * time.Second
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

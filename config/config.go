package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// Server
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"healthrocket"`

	// CORS; empty means any origin is reflected back.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// PostgreSQL
	PostgreSQLHost     string   `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string   `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string   `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string   `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string   `env:"POSTGRESQL_DATABASE" envDefault:"healthrocket"`
	PostgreSQLSchema   string   `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string   `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int      `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int      `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`
	PostgreSQLReplicas []string `env:"POSTGRESQL_REPLICA_DSNS" envSeparator:";"` // full DSNs of read replicas

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"hr"`

	// RabbitMQ
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT, issued by the auth provider and verified here
	JWTSecret string `env:"JWT_SECRET"`

	// Snowflake
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// Logging
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// Telemetry
	OTELEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint string `env:"OTEL_ENDPOINT" envDefault:"localhost:4317"`

	// Progression rules
	ActiveChallengeCap     int    `env:"ACTIVE_CHALLENGE_CAP" envDefault:"2"`
	WindowTimezone         string `env:"WINDOW_TIMEZONE" envDefault:"UTC"`
	WeeklyResetWeekday     string `env:"WEEKLY_RESET_WEEKDAY" envDefault:"monday"`
	WeeklyResetHour        int    `env:"WEEKLY_RESET_HOUR" envDefault:"0"`
	CatalogPath            string `env:"CATALOG_PATH"` // optional YAML catalog, built-in catalog otherwise
	SnapshotCacheTTLSecond int    `env:"SNAPSHOT_CACHE_TTL_SECONDS" envDefault:"60"`
	BoostReminderAt        string `env:"BOOST_REMINDER_AT" envDefault:"19:00"`
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}
	Cfg = cfg
}

// Load parses the process environment into a fresh Config.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustValidate is called by the binaries once at startup; library code and
// tests never need a JWT secret.
func MustValidate() {
	if err := validateConfig(&Cfg); err != nil {
		log.Fatal(err)
	}
}

func validateConfig(c *Config) error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.ActiveChallengeCap < 1 {
		return fmt.Errorf("ACTIVE_CHALLENGE_CAP must be at least 1, got %d", c.ActiveChallengeCap)
	}
	if c.WeeklyResetHour < 0 || c.WeeklyResetHour > 23 {
		return fmt.Errorf("WEEKLY_RESET_HOUR must be within 0-23, got %d", c.WeeklyResetHour)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.ResetWeekday(); err != nil {
		return err
	}
	if _, _, err := c.ReminderClock(); err != nil {
		return err
	}

	if c.CatalogPath == "" {
		log.Printf("WARN: CATALOG_PATH is not set, using the built-in catalog")
	}
	return nil
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Location is the fallback timezone for users without a profile timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.WindowTimezone)
	if err != nil {
		return nil, fmt.Errorf("WINDOW_TIMEZONE %q: %w", c.WindowTimezone, err)
	}
	return loc, nil
}

func (c *Config) ResetWeekday() (time.Weekday, error) {
	return ParseWeekday(c.WeeklyResetWeekday)
}

func (c *Config) SnapshotCacheTTL() time.Duration {
	return time.Duration(c.SnapshotCacheTTLSecond) * time.Second
}

// ReminderClock returns the hour and minute of BOOST_REMINDER_AT.
func (c *Config) ReminderClock() (int, int, error) {
	parts := strings.Split(c.BoostReminderAt, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("BOOST_REMINDER_AT must be HH:MM, got %q", c.BoostReminderAt)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("BOOST_REMINDER_AT hour invalid: %q", c.BoostReminderAt)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("BOOST_REMINDER_AT minute invalid: %q", c.BoostReminderAt)
	}
	return hour, minute, nil
}

func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, intervals, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Payment PaymentConfig
	Booking BookingConfig
	Sweeper SweeperConfig
	Limit   RateLimitConfig
	CORS    CORSConfig
	Log     LogConfig
	Auth    AuthConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers   []string `envconfig:"KAFKA_BROKERS" default:""`
	PaidTopic string   `envconfig:"KAFKA_PAID_TOPIC" default:"bookings.paid"`
}

// PaymentConfig drives the gateway mode explicitly: "live" talks to the real
// gateway, "mock" synthesizes orders locally and auto-approves them. The mode
// is stamped on every audit event so the two flows stay distinguishable.
type PaymentConfig struct {
	Mode          string        `envconfig:"PAYMENT_MODE" default:"mock"`
	BaseURL       string        `envconfig:"PAYMENT_BASE_URL" default:""`
	APIKey        string        `envconfig:"PAYMENT_API_KEY" default:""`
	WebhookSecret string        `envconfig:"PAYMENT_WEBHOOK_SECRET" default:""`
	Currency      string        `envconfig:"PAYMENT_CURRENCY" default:"HUF"`
	CallbackURL   string        `envconfig:"PAYMENT_CALLBACK_URL" default:""`
	ReturnURL     string        `envconfig:"PAYMENT_RETURN_URL" default:""`
	Timeout       time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"10s"`
}

func (c PaymentConfig) IsMock() bool {
	return c.Mode != "live"
}

type BookingConfig struct {
	HoldDuration time.Duration `envconfig:"BOOKING_HOLD_DURATION" default:"30m"`
}

type SweeperConfig struct {
	Interval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m"`
	BatchSize int           `envconfig:"SWEEP_BATCH_SIZE" default:"100"`
	Secret    string        `envconfig:"SWEEP_SECRET" required:"true"`
}

// RateLimitConfig bounds hold creation per client. Holds are cheap to open
// and sit on inventory until they expire, so creation is throttled harder
// than reads.
type RateLimitConfig struct {
	Requests int64         `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Payment: PaymentConfig{
			Mode:          "mock",
			Currency:      "HUF",
			WebhookSecret: "test-webhook-secret",
			Timeout:       2 * time.Second,
		},
		Booking: BookingConfig{
			HoldDuration: 20 * time.Minute,
		},
		Sweeper: SweeperConfig{
			Interval:  time.Minute,
			BatchSize: 100,
			Secret:    "test-sweep-secret",
		},
		Limit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
		Log: LogConfig{
			Level: "error",
		},
		Auth: AuthConfig{
			JWTSecret: "test-jwt-secret",
		},
	}
}

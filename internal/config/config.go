package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	MigrateOnStart    bool

	Auth          AuthConfig
	RateLimit     RateLimitConfig
	Kafka         KafkaConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
}

// AuthConfig configures HTTP basic authentication on the API routes.
type AuthConfig struct {
	Enabled      bool
	Username     string
	Password     string
	PasswordHash string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PolicyPath    string
}

type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	Topic    string
	ClientID string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ObservabilityConfig drives logging, tracing and OTLP metrics export.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string

	OtelEnabled       bool
	OtelEndpoint      string
	OtelProtocol      string
	OtelSamplingRatio float64
}

const (
	defaultAuthUsername = "test"
	defaultAuthPassword = "test123"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "subscriptions"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "subscriptions"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 5)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 20)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
		MigrateOnStart:    getenvBool("DATABASE_MIGRATE_ON_START", false),

		Auth: AuthConfig{
			Enabled:      getenvBool("API_AUTH_ENABLED", true),
			Username:     strings.TrimSpace(getenv("API_USERNAME", "")),
			Password:     getenv("API_PASSWORD", ""),
			PasswordHash: strings.TrimSpace(getenv("API_PASSWORD_HASH", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       int(getenvInt64("REDIS_DB", 0)),
			PolicyPath:    strings.TrimSpace(getenv("RATE_LIMIT_POLICY_PATH", "")),
		},
		Kafka: KafkaConfig{
			Enabled:  getenvBool("KAFKA_ENABLED", false),
			Brokers:  splitList(getenv("KAFKA_BROKERS", "localhost:9092")),
			Topic:    getenv("KAFKA_TOPIC", "subscriptions.events"),
			ClientID: getenv("KAFKA_CLIENT_ID", "subscriptions"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Observability: ObservabilityConfig{
			LogLevel:          lower(getenv("LOG_LEVEL", "info")),
			LogFormat:         lower(getenv("LOG_FORMAT", "json")),
			OtelEnabled:       getenvBool("OTEL_ENABLED", false),
			OtelEndpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317"))),
			OtelProtocol:      lower(getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
	}

	// Development credentials only apply outside production.
	if !cfg.IsProduction() {
		if cfg.Auth.Username == "" {
			cfg.Auth.Username = defaultAuthUsername
		}
		if cfg.Auth.Password == "" && cfg.Auth.PasswordHash == "" {
			cfg.Auth.Password = defaultAuthPassword
		}
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func lower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

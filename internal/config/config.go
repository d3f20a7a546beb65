package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers supported by the repository layer.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	OTP          OTPConfig
	Notification NotificationConfig
	Payment      PaymentConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret                   string
	AccessTokenTTLMinutes       int
	VerificationTokenTTLMinutes int
	PasswordMode                string
	BcryptCost                  int
	AllowAdminSignup            bool
}

// OTPConfig controls one-time code issuance.
type OTPConfig struct {
	Store           string
	TTL             time.Duration
	Length          int
	SendLimit       int
	SendWindow      time.Duration
	JanitorInterval time.Duration
}

// NotificationConfig holds outbound delivery settings.
type NotificationConfig struct {
	EmailProvider  string
	EmailFrom      string
	AdminInbox     string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SendGridAPIKey string
	SenderName     string
	TwilioSID      string
	TwilioToken    string
	TwilioFrom     string
}

// PaymentConfig configures the simulated payment collaborator.
type PaymentConfig struct {
	DestinationAccount string
	DefaultCurrency    string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "coaching-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnv("MONGODB_DATABASE", "zero_classes"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:                   getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:       getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60*24),
			VerificationTokenTTLMinutes: getEnvAsInt("AUTH_VERIFICATION_TOKEN_TTL_MINUTES", 10),
			PasswordMode:                strings.ToLower(getEnv("AUTH_PASSWORD_MODE", "plain")),
			BcryptCost:                  getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AllowAdminSignup:            getEnvAsBool("AUTH_ALLOW_ADMIN_SIGNUP", false),
		},
		OTP: OTPConfig{
			Store:           strings.ToLower(getEnv("OTP_STORE", "memory")),
			TTL:             getEnvAsDuration("OTP_TTL", 5*time.Minute),
			Length:          getEnvAsInt("OTP_LENGTH", 6),
			SendLimit:       getEnvAsInt("OTP_SEND_LIMIT", 5),
			SendWindow:      getEnvAsDuration("OTP_SEND_WINDOW", 15*time.Minute),
			JanitorInterval: getEnvAsDuration("OTP_JANITOR_INTERVAL", time.Minute),
		},
		Notification: NotificationConfig{
			EmailProvider:  strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
			EmailFrom:      getEnv("EMAIL_USER", "noreply@zeroclasses.local"),
			AdminInbox:     getEnv("NOTIFY_ADMIN_INBOX", getEnv("EMAIL_USER", "noreply@zeroclasses.local")),
			SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:       getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:       os.Getenv("EMAIL_USER"),
			SMTPPassword:   os.Getenv("EMAIL_PASS"),
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			SenderName:     getEnv("SENDER_NAME", "Zero Classes"),
			TwilioSID:      os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFrom:     os.Getenv("TWILIO_FROM_NUMBER"),
		},
		Payment: PaymentConfig{
			DestinationAccount: getEnv("PAYMENT_DESTINATION_ACCOUNT", "9661778393@ikwik"),
			DefaultCurrency:    getEnv("PAYMENT_DEFAULT_CURRENCY", "INR"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=%s", c.Store.Driver)
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORE_DRIVER=%s", c.Store.Driver)
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.OTP.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid OTP_STORE %q", c.OTP.Store)
	}
	switch c.Auth.PasswordMode {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("invalid AUTH_PASSWORD_MODE %q", c.Auth.PasswordMode)
	}
	if c.OTP.TTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvFile is the dotenv file read at startup and written by SaveEnv
const EnvFile = ".env"

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Email    EmailConfig    `mapstructure:"email"`
	Quotes   QuotesConfig   `mapstructure:"quotes"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig selects and configures the subscriber store
type DatabaseConfig struct {
	// Environment is the logical environment tag: "development"/"dev" or "production"/"prod"
	Environment string `mapstructure:"environment"`
	// URI is the PostgreSQL connection string used in production
	URI string `mapstructure:"uri"`
	// File is the SQLite database file used in development
	File           string        `mapstructure:"file"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxConnections int           `mapstructure:"max_connections"`
}

// EmailConfig holds email sending configuration
type EmailConfig struct {
	// Provider is the email provider to use: "smtp" or "gmail"
	Provider      string         `mapstructure:"provider"`
	Subject       string         `mapstructure:"subject"`
	SenderAddress string         `mapstructure:"sender_address"`
	SenderName    string         `mapstructure:"sender_name"`
	SMTP          SMTPConfig     `mapstructure:"smtp"`
	Gmail         GmailAPIConfig `mapstructure:"gmail"`
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// SSL enables implicit TLS (port 465); otherwise STARTTLS is used
	SSL bool `mapstructure:"ssl"`
}

// GmailAPIConfig holds Gmail API configuration
type GmailAPIConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// QuotesConfig holds the quote source configuration
type QuotesConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig holds Redis configuration for the send lock
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the environment variable names used by earlier releases.
var legacyEnv = map[string]string{
	"database.environment": "DB_CONFIG",
	"database.uri":         "DATABASE_URI",
	"email.sender_address": "GMAIL_ADDRESS",
	"email.smtp.username":  "GMAIL_ADDRESS",
	"email.smtp.password":  "GMAIL_PASSWORD",
}

// Load reads configuration from .env, an optional config.yaml and environment variables.
// configDir may be empty, in which case "." and "./config" are searched.
func Load(configDir string) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", EnvFile, err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("MAILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := "MAILER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.environment", "development")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.file", "emails.db")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("database.max_connections", 5)

	// Email defaults
	v.SetDefault("email.provider", "smtp")
	v.SetDefault("email.subject", "Quote of the Day")
	v.SetDefault("email.sender_address", "")
	v.SetDefault("email.sender_name", "Motivation Mailer")
	v.SetDefault("email.smtp.host", "smtp.gmail.com")
	v.SetDefault("email.smtp.port", 465)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.ssl", true)
	v.SetDefault("email.gmail.credentials_json", "")
	v.SetDefault("email.gmail.client_id", "")
	v.SetDefault("email.gmail.client_secret", "")
	v.SetDefault("email.gmail.refresh_token", "")

	// Quote source defaults
	v.SetDefault("quotes.url", "https://zenquotes.io/api/quotes")
	v.SetDefault("quotes.timeout", "10s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "5m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// SaveEnv merges values into the dotenv file at path, creating it if needed.
// Existing keys not present in values are preserved.
func SaveEnv(path string, values map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		env = make(map[string]string)
	}

	for k, val := range values {
		env[k] = val
	}

	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

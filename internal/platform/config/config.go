// Package config loads the process configuration once at start-up.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the immutable process configuration.
// It is built once by Load and passed to the components that need it.
type Config struct {
	App   App
	DB    DB
	JWT   JWT
	Mail  Mail
	S3    S3
	Redis Redis
	Chat  Chat
}

// App holds HTTP server settings.
type App struct {
	Port      string `envconfig:"APP_PORT" default:"8080"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	// ResetPasswordURL is prefixed to the reset token in password-reset emails.
	ResetPasswordURL string `envconfig:"RESET_PASSWORD_URL" default:"http://localhost:3000/password-reset/"`
}

// DB holds relational database settings.
type DB struct {
	Driver        string `envconfig:"DB_DRIVER" default:"mysql"` // mysql | postgres
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"3306"`
	User          string `envconfig:"DB_USERNAME"`
	Password      string `envconfig:"DB_PASSWORD"`
	Name          string `envconfig:"DB_DATABASE"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
}

// JWT holds token signing settings.
type JWT struct {
	Secret         string        `envconfig:"JWT_SECRET" required:"true"`
	ExpiresIn      time.Duration `envconfig:"JWT_EXPIRES_IN" default:"240h"`
	ResetExpiresIn time.Duration `envconfig:"JWT_RESET_EXPIRES_IN" default:"1h"`
}

// Mail holds outbound SMTP settings. An empty Host selects the logging sender.
type Mail struct {
	Host     string `envconfig:"EMAIL_HOST"`
	Port     int    `envconfig:"EMAIL_PORT" default:"587"`
	User     string `envconfig:"EMAIL_USER"`
	Password string `envconfig:"EMAIL_PASSWORD"`
}

// S3 holds object storage settings. Endpoint is only set for S3-compatible stores.
type S3 struct {
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	Bucket          string `envconfig:"AWS_BUCKET_NAME"`
	Endpoint        string `envconfig:"AWS_ENDPOINT"`
}

// Redis holds cache settings. An empty Host disables caching.
type Redis struct {
	Host     string        `envconfig:"REDIS_HOST"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	TTL      time.Duration `envconfig:"REDIS_TTL" default:"5m"`
}

// Chat holds chat-completion provider settings.
type Chat struct {
	Provider     string        `envconfig:"CHAT_PROVIDER" default:"openai"` // openai | gemini
	BaseURL      string        `envconfig:"CHATGPT_BASE_URL" default:"https://api.openai.com/v1/"`
	APIKey       string        `envconfig:"CHATGPT_API_KEY"`
	Model        string        `envconfig:"CHAT_MODEL" default:"gpt-4-1106-preview"`
	GeminiAPIKey string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	Timeout      time.Duration `envconfig:"CHAT_TIMEOUT" default:"20s"`
	RatePerMin   int           `envconfig:"CHAT_RATE_PER_MIN" default:"60"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv decodes the current environment into a Config without touching .env.
func FromEnv() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if c.JWT.Secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.DB.Driver != "mysql" && c.DB.Driver != "postgres" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Chat.Provider != "openai" && c.Chat.Provider != "gemini" {
		return Config{}, fmt.Errorf("unsupported CHAT_PROVIDER %q", c.Chat.Provider)
	}
	return c, nil
}

// RedisAddr returns host:port for the Redis client.
func (r Redis) RedisAddr() string {
	return r.Host + ":" + r.Port
}

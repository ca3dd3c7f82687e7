package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig holds every setting the API and the workers read from the environment.
type AppConfig struct {
	Port            string `env:"PORT" envDefault:"8080"`
	BaseURL         string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	BaseFrontendURL string `env:"BASE_FRONTEND_URL" envDefault:"http://localhost:5173"`
	LogDir          string `env:"LOG_DIR" envDefault:"logs"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`

	// Database
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER"`
	DBPassword string `env:"POSTGRES_PASSWORD"`
	DBName     string `env:"POSTGRES_DB" envDefault:"invoiceflow"`
	DBTimezone string `env:"DB_TIMEZONE" envDefault:"Asia/Kolkata"`

	// Redis / asynq
	RedisAddress  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	TokenSymmetricKey string `env:"TOKEN_SYMMETRIC_KEY"`
	CronSecret        string `env:"CRON_SECRET"`
	ReminderSchedule  string `env:"REMINDER_SCHEDULE" envDefault:"0 9 * * *"`

	// Uploads
	StorageDriver     string `env:"STORAGE_DRIVER" envDefault:"local"`
	UploadPath        string `env:"UPLOAD_PATH" envDefault:"./uploads"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
	BleveIndexPath    string `env:"BLEVE_INDEX_PATH" envDefault:"./bleve_data"`
	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2Bucket          string `env:"R2_BUCKET" envDefault:"invoiceflow-documents"`

	// Mail
	SMTPHost     string  `env:"SMTP_HOST"`
	SMTPPort     int     `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string  `env:"SMTP_USER"`
	SMTPPassword string  `env:"SMTP_PASSWORD"`
	SMTPFrom     string  `env:"SMTP_FROM" envDefault:"no-reply@invoiceflow.local"`
	MailPerMin   float64 `env:"MAIL_PER_MINUTE" envDefault:"30"`
}

// LoadConfig reads .env (if present) and parses the environment into an AppConfig.
func LoadConfig() (*AppConfig, error) {
	// .env is optional outside local development
	_ = godotenv.Load(".env")

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the raw value of an environment variable.
func GetEnv(key string) string {
	return os.Getenv(key)
}

package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	SiteURL           string `mapstructure:"SITE_URL"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking engine tuning.
	SlotLockTTLMinutes       int `mapstructure:"SLOT_LOCK_TTL_MINUTES"`
	SameDayCutoffHours       int `mapstructure:"SAME_DAY_CUTOFF_HOURS"`
	PendingBookingTTLMinutes int `mapstructure:"PENDING_BOOKING_TTL_MINUTES"`
	BookingSessionTTLMinutes int `mapstructure:"BOOKING_SESSION_TTL_MINUTES"`
	DepositPercent           int `mapstructure:"DEPOSIT_PERCENT"`
	DirectoryCacheTTLMinutes int `mapstructure:"DIRECTORY_CACHE_TTL_MINUTES"`

	// Stripe payment gateway.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `mapstructure:"CURRENCY"`

	// SMTP for booking e-mails.
	SMTPHost  string `mapstructure:"SMTP_HOST"`
	SMTPPort  int    `mapstructure:"SMTP_PORT"`
	SMTPUser  string `mapstructure:"SMTP_USER"`
	SMTPPass  string `mapstructure:"SMTP_PASS"`
	FromEmail string `mapstructure:"FROM_EMAIL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SITE_URL", "http://127.0.0.1:8080")
	viper.SetDefault("DATABASE_URL", "postgres://postgres:@localhost:5432/serenity_db")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("SLOT_LOCK_TTL_MINUTES", 10)
	viper.SetDefault("SAME_DAY_CUTOFF_HOURS", 2)
	viper.SetDefault("PENDING_BOOKING_TTL_MINUTES", 15)
	viper.SetDefault("BOOKING_SESSION_TTL_MINUTES", 30)
	viper.SetDefault("DEPOSIT_PERCENT", 10)
	viper.SetDefault("DIRECTORY_CACHE_TTL_MINUTES", 5)
	viper.SetDefault("CURRENCY", "inr")
	viper.SetDefault("SMTP_HOST", "smtp.resend.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("FROM_EMAIL", "bookings@serenity.example")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	ServiceName string
	Environment string
	LoggerLevel string
	Timezone    string

	AppPort int

	DatabaseURL      string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	AllowedOrigins []string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	OwnerEmail        string
	OwnerPhone        string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string

	DigestCron string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "movextransfer"))
	cfg.Environment = cast.ToString(getOrReturnDefault("ENVIRONMENT", EnvDevelopment))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.Timezone = cast.ToString(getOrReturnDefault("TIMEZONE", "Europe/Prague"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("PORT", 3000))

	cfg.DatabaseURL = cast.ToString(getOrReturnDefault("DATABASE_URL", ""))
	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "postgres"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "movextransfer"))

	cfg.AllowedOrigins = splitList(cast.ToString(getOrReturnDefault("FRONTEND_URL",
		"http://localhost:3000,http://localhost:5500,http://127.0.0.1:5500")))

	cfg.SendGridAPIKey = cast.ToString(getOrReturnDefault("SENDGRID_API_KEY", ""))
	cfg.SendGridFromEmail = cast.ToString(getOrReturnDefault("SENDGRID_FROM_EMAIL", "rezervace@movextransfer.cz"))
	cfg.SendGridFromName = cast.ToString(getOrReturnDefault("SENDGRID_FROM_NAME", "Movex Transfer"))
	cfg.OwnerEmail = cast.ToString(getOrReturnDefault("OWNER_EMAIL", ""))
	cfg.OwnerPhone = cast.ToString(getOrReturnDefault("OWNER_PHONE", ""))

	cfg.TwilioAccountSID = cast.ToString(getOrReturnDefault("TWILIO_ACCOUNT_SID", ""))
	cfg.TwilioAuthToken = cast.ToString(getOrReturnDefault("TWILIO_AUTH_TOKEN", ""))
	cfg.TwilioFromNumber = cast.ToString(getOrReturnDefault("TWILIO_FROM_NUMBER", ""))

	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", ""))
	cfg.AdminEmail = cast.ToString(getOrReturnDefault("ADMIN_EMAIL", ""))
	cfg.AdminPasswordHash = cast.ToString(getOrReturnDefault("ADMIN_PASSWORD_HASH", ""))

	cfg.StripeSecretKey = cast.ToString(getOrReturnDefault("STRIPE_SECRET_KEY", ""))
	cfg.StripeWebhookSecret = cast.ToString(getOrReturnDefault("STRIPE_WEBHOOK_SECRET", ""))
	cfg.StripeSuccessURL = cast.ToString(getOrReturnDefault("STRIPE_SUCCESS_URL",
		"http://localhost:5500/rezervace/zaplaceno?session_id={CHECKOUT_SESSION_ID}"))
	cfg.StripeCancelURL = cast.ToString(getOrReturnDefault("STRIPE_CANCEL_URL",
		"http://localhost:5500/rezervace/zruseno"))

	cfg.DigestCron = cast.ToString(getOrReturnDefault("DIGEST_CRON", "0 18 * * *"))

	return cfg
}

// PostgresURL prefers DATABASE_URL and falls back to the POSTGRES_* parts.
func (c Config) PostgresURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
	)
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

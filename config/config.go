package config

import (
	"fmt"
	"log"
	"strings"

	"defi-academy/internal/domain/access"
	"defi-academy/internal/domain/referrals"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string
	APP_ENV    string
	APP_URL    string
	API_URL    string

	CORS_ORIGIN []string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	STRIPE_SECRET_KEY         string
	STRIPE_WEBHOOK_SECRET     string
	STRIPE_ACADEMY_PRODUCT_ID string

	REDIS_URL string

	MAIL_PROVIDER string
	MAIL_FROM     string
	SMTP_HOST     string
	SMTP_PORT     int
	SMTP_USERNAME string
	SMTP_PASSWORD string
	AWS_REGION    string

	LOG_LEVEL  string
	LOG_FORMAT string

	EARLY_ACCESS_WINDOW_DAYS int
	COMMISSION_RATE_MONTHLY  float64
	COMMISSION_RATE_ANNUAL   float64
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("API_URL", "http://localhost:8080")
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MAIL_FROM", "no-reply@localhost")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("EARLY_ACCESS_WINDOW_DAYS", access.DefaultEarlyAccessWindowDays)
	v.SetDefault("COMMISSION_RATE_MONTHLY", referrals.DefaultRates().Monthly)
	v.SetDefault("COMMISSION_RATE_ANNUAL", referrals.DefaultRates().Annual)
}

// LoadEnv reads .env (if present) and the process environment.
// DB_URL and JWT_SECRET are required; invalid access rules abort startup.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := apply(v); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}

func apply(v *viper.Viper) error {
	PORT = v.GetString("PORT")
	DB_URL = v.GetString("DB_URL")
	JWT_SECRET = v.GetString("JWT_SECRET")
	if DB_URL == "" {
		return fmt.Errorf("missing required environment variable: DB_URL")
	}
	if JWT_SECRET == "" {
		return fmt.Errorf("missing required environment variable: JWT_SECRET")
	}

	APP_ENV = v.GetString("APP_ENV")
	APP_URL = strings.TrimRight(v.GetString("APP_URL"), "/")
	API_URL = strings.TrimRight(v.GetString("API_URL"), "/")
	CORS_ORIGIN = splitList(v.GetString("CORS_ORIGIN"))

	GOOGLE_CLIENT_ID = v.GetString("GOOGLE_CLIENT_ID")
	GOOGLE_CLIENT_SECRET = v.GetString("GOOGLE_CLIENT_SECRET")
	GOOGLE_REDIRECT_URL = v.GetString("GOOGLE_REDIRECT_URL")
	GOOGLE_FRONTEND_REDIRECT = v.GetString("GOOGLE_FRONTEND_REDIRECT")

	STRIPE_SECRET_KEY = v.GetString("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = v.GetString("STRIPE_WEBHOOK_SECRET")
	STRIPE_ACADEMY_PRODUCT_ID = v.GetString("STRIPE_ACADEMY_PRODUCT_ID")

	REDIS_URL = v.GetString("REDIS_URL")

	MAIL_PROVIDER = v.GetString("MAIL_PROVIDER")
	MAIL_FROM = v.GetString("MAIL_FROM")
	SMTP_HOST = v.GetString("SMTP_HOST")
	SMTP_PORT = v.GetInt("SMTP_PORT")
	SMTP_USERNAME = v.GetString("SMTP_USERNAME")
	SMTP_PASSWORD = v.GetString("SMTP_PASSWORD")
	AWS_REGION = v.GetString("AWS_REGION")

	LOG_LEVEL = strings.ToLower(v.GetString("LOG_LEVEL"))
	LOG_FORMAT = strings.ToLower(v.GetString("LOG_FORMAT"))

	EARLY_ACCESS_WINDOW_DAYS = v.GetInt("EARLY_ACCESS_WINDOW_DAYS")
	COMMISSION_RATE_MONTHLY = v.GetFloat64("COMMISSION_RATE_MONTHLY")
	COMMISSION_RATE_ANNUAL = v.GetFloat64("COMMISSION_RATE_ANNUAL")

	return AccessRules().Validate()
}

// AccessRules is the single source of the gating and commission constants.
func AccessRules() access.Rules {
	return access.Rules{
		EarlyAccessWindowDays: EARLY_ACCESS_WINDOW_DAYS,
		CommissionRates: referrals.Rates{
			Monthly: COMMISSION_RATE_MONTHLY,
			Annual:  COMMISSION_RATE_ANNUAL,
		},
	}
}

func Surface() access.Surface {
	return access.NewSurface(AccessRules())
}

func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

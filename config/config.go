package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port                   string
	Env                    string
	StaticDir              string
	StripeSecretKey        string
	StripePublishableKey   string
	StripeWebhookSecret    string // optional; empty disables signature verification (dev only)
	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioVerifyServiceSID string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "4242"),
		Env:                    getEnv("ENV", "development"),
		StaticDir:              getEnv("STATIC_DIR", "./public"),
		StripeSecretKey:        os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey:   os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeWebhookSecret:    os.Getenv("STRIPE_WEBHOOK_SECRET"),
		TwilioAccountSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:        os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioVerifyServiceSID: os.Getenv("TWILIO_VERIFY_SERVICE_SID"),
	}

	required := []struct {
		name  string
		value string
	}{
		{"STRIPE_SECRET_KEY", cfg.StripeSecretKey},
		{"STRIPE_PUBLISHABLE_KEY", cfg.StripePublishableKey},
		{"TWILIO_ACCOUNT_SID", cfg.TwilioAccountSID},
		{"TWILIO_AUTH_TOKEN", cfg.TwilioAuthToken},
		{"TWILIO_VERIFY_SERVICE_SID", cfg.TwilioVerifyServiceSID},
	}
	var missing []string
	for _, v := range required {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

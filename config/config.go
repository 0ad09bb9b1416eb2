package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env               string
	Port              string
	GatewayURL        string
	GatewayAPIKey     string
	DefaultAmount     int    // minor currency units, fixed per session
	Currency          string
	RedirectURL       string
	SuccessOverlayMs  int    // minimum success banner display time
	ProbeURL          string // third-party reachability heartbeat
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:              getEnv("ENV", "development"),
		Port:             getEnv("PORT", "8090"),
		GatewayURL:       os.Getenv("GATEWAY_URL"),
		GatewayAPIKey:    os.Getenv("GATEWAY_API_KEY"),
		DefaultAmount:    getEnvInt("DEFAULT_AMOUNT_CENTS", 2000),
		Currency:         getEnv("CURRENCY", "CHF"),
		RedirectURL:      getEnv("PAYMENT_REDIRECT_URL", "https://example.com/payments/123/complete"),
		SuccessOverlayMs: getEnvInt("SUCCESS_OVERLAY_MILLIS", 3000),
		ProbeURL:         getEnv("PROBE_URL", "https://www.gstatic.com/generate_204"),
	}

	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}
	if cfg.DefaultAmount <= 0 {
		return nil, fmt.Errorf("DEFAULT_AMOUNT_CENTS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Auth         AuthConfig
	Orchestrator OrchestratorConfig
	Printer      PrinterConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
}

type AuthConfig struct {
	AppPassword         string
	SessionMaxAge       time.Duration
	LoginBurstPerMinute int
	TimingDelayBaseMs   int
	TimingDelayRandomMs int
}

type OrchestratorConfig struct {
	BaseURL   string
	WebhookID string
	AuthToken string
	APIKey    string
	Timeout   time.Duration
}

type PrinterConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	appPassword := getEnv("APP_PASSWORD", "")
	if appPassword == "" {
		return nil, fmt.Errorf("APP_PASSWORD is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: parseCommaList(getEnv("TRUSTED_PROXIES", "")),
		},
		Auth: AuthConfig{
			AppPassword:         appPassword,
			SessionMaxAge:       getEnvAsDuration("SESSION_MAX_AGE", 24*time.Hour),
			LoginBurstPerMinute: getEnvAsInt("LOGIN_BURST_PER_MINUTE", 10),
			TimingDelayBaseMs:   getEnvAsInt("TIMING_DELAY_BASE_MS", 100),
			TimingDelayRandomMs: getEnvAsInt("TIMING_DELAY_RANDOM_MS", 100),
		},
		Orchestrator: OrchestratorConfig{
			BaseURL:   getEnv("ORCHESTRATOR_URL", "https://core.bentheitguy.me"),
			WebhookID: getEnv("ORCHESTRATOR_WEBHOOK_ID", ""),
			AuthToken: getEnv("CORE_API_TOKEN", ""),
			APIKey:    getEnv("N8N_API_KEY", ""),
			Timeout:   getEnvAsDuration("ORCHESTRATOR_TIMEOUT", 30*time.Second),
		},
		Printer: PrinterConfig{
			BaseURL: getEnv("PRINTER_URL", "https://receipts.bentheitguy.me"),
			Timeout: getEnvAsDuration("PRINTER_TIMEOUT", 15*time.Second),
		},
	}

	// Validate app password strength
	if err := validateAppPassword(appPassword, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateAppPassword enforces minimum standards for the dashboard password.
// An earlier iteration shipped with a hardcoded fallback; requiring the env
// var and rejecting weak values closes that hole.
func validateAppPassword(password, env string) error {
	minLength := 8
	if env == "production" {
		minLength = 12
	}

	if len(password) < minLength {
		return fmt.Errorf("APP_PASSWORD must be at least %d characters in %s environment (got %d)",
			minLength, env, len(password))
	}

	weakPasswords := []string{
		"password", "12345678", "changeme", "letmein",
		"admin", "default", "example", "bananana",
	}

	passwordLower := strings.ToLower(password)
	for _, weak := range weakPasswords {
		if passwordLower == weak {
			return fmt.Errorf("APP_PASSWORD cannot be a common weak value")
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseCommaList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{} // Default to no origins in production
		}
		return parseCommaList(originsStr)
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the sync daemon.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Push     PushConfig
	Token    TokenConfig
	Interp   InterpConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds local HTTP API configuration.
type ServerConfig struct {
	Port        string
	ReadTimeout time.Duration
	// WriteTimeout must stay zero while the position stream endpoint
	// exists; a nonzero value would sever long-lived SSE responses.
	WriteTimeout time.Duration
}

// BackendConfig holds marketplace REST API configuration.
type BackendConfig struct {
	BaseURL string
}

// PushConfig holds push channel configuration.
type PushConfig struct {
	URL string
}

// TokenConfig holds session token persistence configuration.
type TokenConfig struct {
	Path string
}

// InterpConfig holds marker animation configuration.
type InterpConfig struct {
	Duration time.Duration
	Frame    time.Duration
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from the environment, reading a local
// .env file first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "7450"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 0),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "https://api.suretruqs.example.com"),
		},
		Push: PushConfig{
			URL: getEnv("PUSH_URL", "wss://push.suretruqs.example.com/ws"),
		},
		Token: TokenConfig{
			Path: getEnv("TOKEN_PATH", defaultTokenPath()),
		},
		Interp: InterpConfig{
			Duration: getDurationEnv("INTERP_DURATION", 3*time.Second),
			Frame:    getDurationEnv("INTERP_FRAME", 50*time.Millisecond),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "suretruqs-syncd"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".suretruqs/token"
	}
	return filepath.Join(home, ".suretruqs", "token")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

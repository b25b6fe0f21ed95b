package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// OpenAI completion provider
	OpenAIAPIKey    string
	OpenAIModel     string
	ChatTemperature float64
	ChatMaxTokens   int
	DocTemperature  float64
	DocMaxTokens    int

	// Voice call provider
	VoiceAPIKey         string
	VoiceBaseURL        string
	VoiceAgentID        string
	VoiceFromNumber     string
	VoiceTransferNumber string

	// Callback dispatch
	DispatchSecret    string
	DispatchBatchSize int
	DispatchInterval  time.Duration

	// Admin API
	AdminJWTSecret string

	// Lead notifications
	EmailProvider      string
	SendGridAPIKey     string
	NotifyFromEmail    string
	NotifyFromName     string
	NotifyInboxEmail   string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	CORSAllowedOrigins string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ChatTemperature: getEnvAsFloat("CHAT_TEMPERATURE", 0.7),
		ChatMaxTokens:   getEnvAsInt("CHAT_MAX_TOKENS", 500),
		DocTemperature:  getEnvAsFloat("DOC_TEMPERATURE", 0.3),
		DocMaxTokens:    getEnvAsInt("DOC_MAX_TOKENS", 1500),

		VoiceAPIKey:         getEnv("VOICE_API_KEY", ""),
		VoiceBaseURL:        getEnv("VOICE_BASE_URL", ""),
		VoiceAgentID:        getEnv("VOICE_AGENT_ID", ""),
		VoiceFromNumber:     getEnv("VOICE_FROM_NUMBER", ""),
		VoiceTransferNumber: getEnv("VOICE_TRANSFER_NUMBER", ""),

		DispatchSecret:    getEnv("DISPATCH_SECRET", ""),
		DispatchBatchSize: getEnvAsInt("DISPATCH_BATCH_SIZE", 10),
		DispatchInterval:  getEnvAsDuration("DISPATCH_INTERVAL", time.Minute),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		EmailProvider:      getEnv("EMAIL_PROVIDER", "sendgrid"),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		NotifyFromEmail:    getEnv("NOTIFY_FROM_EMAIL", ""),
		NotifyFromName:     getEnv("NOTIFY_FROM_NAME", "AIVA Realty"),
		NotifyInboxEmail:   getEnv("NOTIFY_INBOX_EMAIL", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

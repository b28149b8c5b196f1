// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides lead ledger database settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// AIConfig provides settings for the dialogue engine and transcription client.
type AIConfig interface {
	GetAIBaseURL() string
	GetAIAPIKey() string
	GetChatModel() string
	GetVisionModel() string
	GetTranscriptionModel() string
	GetSpeechModel() string
}

// ExtractionConfig provides settings for the Gemini lead extractor.
type ExtractionConfig interface {
	GetGeminiAPIKey() string
	GetExtractionModel() string
	IsExtractionEnabled() bool
}

// VerifierConfig provides settings for the email deliverability verifier.
type VerifierConfig interface {
	GetVerifierBaseURL() string
	GetVerifierAPIKey() string
	IsVerifierEnabled() bool
}

// EmailConfig provides settings for outbound follow-up mail.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetWebsiteURL() string
}

// SchedulerConfig provides settings for the asynq delay queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFollowUpDelay() time.Duration
}

// PersonaConfig provides settings for the sales persona.
type PersonaConfig interface {
	GetPersonaPath() string
}

// Config is the concrete implementation backing all config interfaces.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	CORSAllowAll bool
	CORSOrigins  []string

	AIBaseURL          string
	AIAPIKey           string
	ChatModel          string
	VisionModel        string
	TranscriptionModel string
	SpeechModel        string

	GeminiAPIKey    string
	ExtractionModel string

	VerifierBaseURL string
	VerifierAPIKey  string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	WebsiteURL       string

	RedisURL         string
	AsynqQueueName   string
	AsynqConcurrency int
	FollowUpDelay    time.Duration

	PersonaPath string
}

// Load reads configuration from the environment (and an optional .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")
	smtpHost := getEnv("SMTP_HOST", "")

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CORSAllowAll: strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "")),

		AIBaseURL:          getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
		AIAPIKey:           getEnv("AI_API_KEY", ""),
		ChatModel:          getEnv("AI_CHAT_MODEL", "gpt-4o"),
		VisionModel:        getEnv("AI_VISION_MODEL", "gpt-4o"),
		TranscriptionModel: getEnv("AI_TRANSCRIPTION_MODEL", "whisper-1"),
		SpeechModel:        getEnv("AI_SPEECH_MODEL", "tts-1"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		ExtractionModel: getEnv("EXTRACTION_MODEL", "gemini-2.0-flash"),

		VerifierBaseURL: getEnv("VERIFIER_BASE_URL", "https://api.hunter.io"),
		VerifierAPIKey:  getEnv("VERIFIER_API_KEY", ""),

		EmailEnabled:     emailEnabled && smtpHost != "",
		SMTPHost:         smtpHost,
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "465"), 465),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "FA Media"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		WebsiteURL:       getEnv("WEBSITE_URL", ""),

		RedisURL:         getEnv("REDIS_URL", ""),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10"), 10),
		FollowUpDelay:    mustDuration(getEnv("FOLLOWUP_DELAY", "3s"), 3*time.Second),

		PersonaPath: getEnv("PERSONA_PATH", ""),
	}

	if cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}

	return cfg, nil
}

func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetDatabaseURL() string          { return c.DatabaseURL }
func (c *Config) GetAIBaseURL() string            { return c.AIBaseURL }
func (c *Config) GetAIAPIKey() string             { return c.AIAPIKey }
func (c *Config) GetChatModel() string            { return c.ChatModel }
func (c *Config) GetVisionModel() string          { return c.VisionModel }
func (c *Config) GetTranscriptionModel() string   { return c.TranscriptionModel }
func (c *Config) GetSpeechModel() string          { return c.SpeechModel }
func (c *Config) GetGeminiAPIKey() string         { return c.GeminiAPIKey }
func (c *Config) GetExtractionModel() string      { return c.ExtractionModel }
func (c *Config) IsExtractionEnabled() bool       { return c.GeminiAPIKey != "" }
func (c *Config) GetVerifierBaseURL() string      { return c.VerifierBaseURL }
func (c *Config) GetVerifierAPIKey() string       { return c.VerifierAPIKey }
func (c *Config) IsVerifierEnabled() bool         { return c.VerifierAPIKey != "" }
func (c *Config) GetEmailEnabled() bool           { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string             { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string         { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string         { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string        { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string     { return c.EmailFromAddress }
func (c *Config) GetWebsiteURL() string           { return c.WebsiteURL }
func (c *Config) GetRedisURL() string             { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string       { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int        { return c.AsynqConcurrency }
func (c *Config) GetFollowUpDelay() time.Duration { return c.FollowUpDelay }
func (c *Config) GetPersonaPath() string          { return c.PersonaPath }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func mustDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	Env              string
	LogLevel         string
	DatabaseURL      string
	RedisURL         string
	ObjectStoreType  string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	S3PresignTTL     time.Duration
	JWTSecret        string
	SessionTTL       time.Duration
	DraftTTL         time.Duration
	AIProvider       string
	AIModel          string
	OpenAIAPIKey     string
	GeminiAPIKey     string
	AITimeout        time.Duration
	RequestTimeout   time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	GoogleClientID   string
	GoogleSecret     string
	GoogleRedirect   string
	UIRedirectURL    string
}

var errMissingSecret = errors.New("JWT_SECRET is required in production")

// Load reads configuration from the environment (and optional .env files) with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(viper.GetViper())
}

// SetDefaults registers defaults on v. Flags bound by the CLI take precedence over env and defaults.
func SetDefaults(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("S3_PRESIGN_TTL", "15m")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("DRAFT_TTL", "72h")
	v.SetDefault("AI_PROVIDER", "heuristic")
	v.SetDefault("AI_TIMEOUT", "60s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("RETRY_BASE_DELAY", "300ms")
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) Config {
	SetDefaults(v)
	return Config{
		Port:             v.GetString("PORT"),
		CORSAllowOrigin:  splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		Env:              normalizeEnv(v.GetString("ENV")),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:         strings.TrimSpace(v.GetString("REDIS_URL")),
		ObjectStoreType:  normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:    v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:        v.GetString("AWS_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Prefix:         v.GetString("S3_PREFIX"),
		S3PresignTTL:     v.GetDuration("S3_PRESIGN_TTL"),
		JWTSecret:        strings.TrimSpace(v.GetString("JWT_SECRET")),
		SessionTTL:       v.GetDuration("SESSION_TTL"),
		DraftTTL:         v.GetDuration("DRAFT_TTL"),
		AIProvider:       normalizeProvider(v.GetString("AI_PROVIDER")),
		AIModel:          strings.TrimSpace(v.GetString("AI_MODEL")),
		OpenAIAPIKey:     strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		GeminiAPIKey:     strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		AITimeout:        v.GetDuration("AI_TIMEOUT"),
		RequestTimeout:   v.GetDuration("REQUEST_TIMEOUT"),
		RetryMaxAttempts: v.GetInt("RETRY_MAX_ATTEMPTS"),
		RetryBaseDelay:   v.GetDuration("RETRY_BASE_DELAY"),
		GoogleClientID:   v.GetString("GOOGLE_CLIENT_ID"),
		GoogleSecret:     v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirect:   v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:    v.GetString("UI_REDIRECT_URL"),
	}
}

// Validate checks settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.Env == "production" {
		if c.JWTSecret == "" {
			return errMissingSecret
		}
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required in production")
		}
	}
	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		return errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
	}
	if c.RetryMaxAttempts < 1 {
		return errors.New("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// IsDevLike reports whether in-memory fallbacks are acceptable.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	default:
		return "heuristic"
	}
}

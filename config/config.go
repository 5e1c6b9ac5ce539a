// Package config loads process-wide configuration from the environment,
// established once at startup and read-only thereafter.
package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultMaxFileSize caps uploads at 10MB unless overridden.
const DefaultMaxFileSize = 10 << 20

// Config is everything the service reads from the environment.
type Config struct {
	Port string
	Env  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CohereAPIKey string
	CohereModel  string
	OpenAIAPIKey string

	YouTubeAPIKey string

	JWTSecret string

	UploadDir   string
	MaxFileSize int64

	KafkaBrokers []string
	KafkaTopic   string

	S3Bucket string
	S3Region string
}

// Load reads the environment. Every field has a workable default except the
// API keys, whose absence just disables the corresponding capability.
func Load() Config {
	return Config{
		Port: GetEnvOrDefault("PORT", "8080"),
		Env:  GetEnvOrDefault("APP_ENV", "development"),

		RedisAddr:     GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		CohereAPIKey: strings.TrimSpace(os.Getenv("COHERE_API_KEY")),
		CohereModel:  strings.TrimSpace(os.Getenv("COHERE_MODEL")),
		OpenAIAPIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),

		YouTubeAPIKey: strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),

		JWTSecret: GetEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),

		UploadDir:   GetEnvOrDefault("UPLOAD_DIR", "uploads"),
		MaxFileSize: getEnvInt64OrDefault("MAX_FILE_SIZE", DefaultMaxFileSize),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   GetEnvOrDefault("KAFKA_TOPIC", "synapse-items"),

		S3Bucket: strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region: strings.TrimSpace(os.Getenv("S3_REGION")),
	}
}

// GetEnvOrDefault returns the env value or a fallback when unset or empty.
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64OrDefault(key string, fallback int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

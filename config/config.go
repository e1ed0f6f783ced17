package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process-wide configuration, loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Env     string
	Port    string
	BaseURL string

	DBDSN     string
	RedisAddr string

	SigningKey string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	UploadDir   string
	MaxFileSize int64
	AllowedExts []string

	RateLimitPerMinute int
}

func Load() *Config {
	return &Config{
		Env:     getEnv("ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		DBDSN:     getEnv("DB_DSN", "file:authfile.db?cache=shared&mode=rwc"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		SigningKey: mustGetEnv("JWT_SIGNING_KEY"),
		Issuer:     getEnv("JWT_ISSUER", "authfile"),
		AccessTTL:  getEnvAsDuration("JWT_ACCESS_TTL", 30*time.Minute),
		RefreshTTL: getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),

		SMTPHost: getEnv("MAIL_SERVER", ""),
		SMTPPort: getEnvAsInt("MAIL_PORT", 587),
		SMTPUser: getEnv("MAIL_USERNAME", ""),
		SMTPPass: getEnv("MAIL_PASSWORD", ""),
		MailFrom: getEnv("MAIL_FROM", "noreply@example.com"),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "uploads"),

		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		AllowedExts: getEnvAsList("ALLOWED_EXTENSIONS", "jpg,jpeg,png,gif,pdf,txt,doc,docx"),

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %s", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsList(key string, defaultVal string) []string {
	raw := getEnv(key, defaultVal)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(strings.ToLower(p)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

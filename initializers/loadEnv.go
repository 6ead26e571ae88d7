package initializers

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port    string
	GinMode string

	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	AdminUsername string
	AdminPassword string

	CORSOrigins        []string
	LoginRatePerMinute int

	ImageStore    string
	UploadDir     string
	PublicBaseURL string
	S3Bucket      string
	ImageMaxWidth int

	RedisURL      string
	RedisPassword string

	TelegramToken  string
	TelegramChatID int64

	FromEmail         string
	FromEmailPassword string
	FromEmailSMTP     string
	SMTPAddress       string
	OrderEmailTo      string
}

// Cfg is the process configuration, populated by LoadConfig.
var Cfg = DefaultConfig()

// LoadEnv loads a .env file when one is present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}
}

func DefaultConfig() *Config {
	return &Config{
		Port:               "8080",
		LogLevel:           "info",
		DBDriver:           "sqlite",
		DBDSN:              "dendyfood.db",
		JWTTTL:             12 * time.Hour,
		CORSOrigins:        []string{"http://localhost:3000"},
		LoginRatePerMinute: 5,
		ImageStore:         "local",
		UploadDir:          "uploads",
		ImageMaxWidth:      1024,
	}
}

func LoadConfig() *Config {
	def := DefaultConfig()
	cfg := &Config{
		Port:               getEnv("PORT", def.Port),
		GinMode:            os.Getenv("GIN_MODE"),
		LogLevel:           getEnv("LOG_LEVEL", def.LogLevel),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", def.DBDriver)),
		DBDSN:              getEnv("DB_DSN", def.DBDSN),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTTTL:             getEnvDuration("JWT_TTL", def.JWTTTL),
		AdminUsername:      os.Getenv("ADMIN_USERNAME"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		CORSOrigins:        getEnvList("CORS_ORIGINS", def.CORSOrigins),
		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", def.LoginRatePerMinute),
		ImageStore:         strings.ToLower(getEnv("IMAGE_STORE", def.ImageStore)),
		UploadDir:          getEnv("UPLOAD_DIR", def.UploadDir),
		PublicBaseURL:      strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		ImageMaxWidth:      getEnvInt("IMAGE_MAX_WIDTH", def.ImageMaxWidth),
		RedisURL:           os.Getenv("REDIS_URL"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:     int64(getEnvInt("TELEGRAM_CHAT_ID", 0)),
		FromEmail:          os.Getenv("FROM_EMAIL"),
		FromEmailPassword:  os.Getenv("FROM_EMAIL_PASSWORD"),
		FromEmailSMTP:      os.Getenv("FROM_EMAIL_SMTP"),
		SMTPAddress:        os.Getenv("SMTP_ADDRESS"),
		OrderEmailTo:       os.Getenv("ORDER_EMAIL_TO"),
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, admin tokens will not survive a restart")
		cfg.JWTSecret = randomSecret()
	}
	Cfg = cfg
	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid integer setting")
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid duration setting")
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

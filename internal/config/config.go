package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSecretKey = "default-secret-key-change-in-production"

type Config struct {
	Env             string
	Port            string
	DBUrl           string
	SecretKey       string
	TokenTTL        time.Duration
	UploadDir       string
	MaxUploadMB     int64
	RateLimitRPS    float64
	RateLimitBurst  int
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	OwnerUsername   string
	OwnerPassword   string
	OwnerPhone      string
	ShutdownTimeout time.Duration
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, falling back to environment and defaults")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("SECRET_KEY", defaultSecretKey)
	v.SetDefault("TOKEN_TTL", 7*24*time.Hour)
	v.SetDefault("UPLOAD_DIR", "./files")
	v.SetDefault("MAX_UPLOAD_MB", 32)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)

	return Config{
		Env:             v.GetString("ENV"),
		Port:            v.GetString("PORT"),
		DBUrl:           v.GetString("DB_URL"),
		SecretKey:       v.GetString("SECRET_KEY"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		UploadDir:       v.GetString("UPLOAD_DIR"),
		MaxUploadMB:     v.GetInt64("MAX_UPLOAD_MB"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		OwnerUsername:   v.GetString("OWNER_USERNAME"),
		OwnerPassword:   v.GetString("OWNER_PASSWORD"),
		OwnerPhone:      v.GetString("OWNER_PHONE"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
}

// UsesDefaultSecret reports whether tokens would be signed with the built-in key.
func (c Config) UsesDefaultSecret() bool {
	return c.SecretKey == defaultSecretKey
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

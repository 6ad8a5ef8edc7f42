package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	MyFatoorah MyFatoorahConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// AppConfig holds the public base URL the payment gateway redirects back to.
type AppConfig struct {
	BaseURL string
}

// MyFatoorahConfig for event invoice collection. An empty APIKey switches
// the service to the stub gateway, which auto-confirms every invoice.
type MyFatoorahConfig struct {
	BaseURL string
	APIKey  string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8088"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "bdsev:bdsev@tcp(localhost:3306)/bdsev?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  time.Hour,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "bdsev",
		},
		App: AppConfig{
			BaseURL: env("APP_BASE_URL", "http://localhost:8088"),
		},
		MyFatoorah: MyFatoorahConfig{
			BaseURL: env("MYFATOORAH_BASE_URL", "https://apitest.myfatoorah.com"),
			APIKey:  env("MYFATOORAH_API_KEY", ""),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

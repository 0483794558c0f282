package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv         string
	Port           string
	DatabasePath   string
	AccessSecret   string
	SyncURL        string
	SyncSecret     string
	SyncTimeout    time.Duration
	ProbeInterval  time.Duration
	ReceiptDir     string
	AllowedOrigins string
}

func Load() Config {
	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabasePath:   getEnv("DATABASE_PATH", "hisab.db"),
		AccessSecret:   getEnv("ACCESS_SECRET", "dev-secret-change-me"),
		SyncURL:        getEnv("SYNC_URL", ""),
		SyncSecret:     getEnv("SYNC_SECRET", ""),
		SyncTimeout:    getSeconds("SYNC_TIMEOUT_SECONDS", 15),
		ProbeInterval:  getSeconds("PROBE_INTERVAL_SECONDS", 30),
		ReceiptDir:     getEnv("RECEIPT_DIR", "receipts"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getSeconds(key string, fallbackSeconds int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackSeconds) * time.Second
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return time.Duration(fallbackSeconds) * time.Second
	}
	return time.Duration(parsed) * time.Second
}

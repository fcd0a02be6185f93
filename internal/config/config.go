package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Environment         string
	LogLevel            slog.Level
	RedisURL            string
	DataDir             string
	StrictAssembly      bool
	MaxCorrectionPasses int
}

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		DataDir:             getEnv("DATA_DIR", "./data"),
		StrictAssembly:      parseBool(getEnv("STRICT_ASSEMBLY", "false")),
		MaxCorrectionPasses: parseInt(getEnv("MAX_CORRECTION_PASSES", "3"), 3),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return b
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

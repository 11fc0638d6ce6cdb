package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira       jira.Config
	OutputFile string
	LogDir     string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if exeDir != "" {
			logDir = filepath.Join(exeDir, "logs")
		} else {
			logDir = "logs"
		}
	}

	delayMs, _ := strconv.Atoi(getEnv("JIRA_REQUEST_DELAY_MS", "250"))

	cfg := &AppConfig{
		Jira: jira.Config{
			Domain:       getEnv("JIRA_DOMAIN", ""),
			Email:        getEnv("JIRA_EMAIL", ""),
			APIKey:       getEnv("JIRA_APIKEY", ""),
			RequestDelay: time.Duration(delayMs) * time.Millisecond,
		},
		OutputFile: getEnv("JIRA_OUTPUT_FILE", "jira_output_data.csv"),
		LogDir:     logDir,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

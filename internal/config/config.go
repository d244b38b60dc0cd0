package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"auction-live/internal/arbiter"
	"auction-live/utils"
)

// Ledger driver names
const (
	LedgerMemory   = "memory"
	LedgerPostgres = "postgres"
)

// Config holds application configuration, sourced from the environment with
// optional .env overrides.
type Config struct {
	Port            string
	LedgerDriver    string
	DatabaseURL     string
	ProposalTimeout time.Duration
	SendBuffer      int
}

// Load reads configuration from the environment. A missing .env file is fine.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.Warn("config: failed to load .env", map[string]any{"error": err.Error()})
	}

	return &Config{
		Port:            fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		LedgerDriver:    getEnv("LEDGER_DRIVER", LedgerMemory),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ProposalTimeout: getEnvDuration("PROPOSAL_TIMEOUT", arbiter.DefaultProposalTimeout),
		SendBuffer:      getEnvInt("SEND_BUFFER", 256),
	}
}

// getEnv returns the environment value or a default
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the environment value parsed as int, or a default
func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.Warn("config: invalid integer value", map[string]any{"key": key, "value": raw})
		return fallback
	}
	return v
}

// getEnvDuration returns the environment value parsed as a duration, or a default
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		utils.Warn("config: invalid duration value", map[string]any{"key": key, "value": raw})
		return fallback
	}
	return v
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Config struct {
	ElectionURL      string
	ElectionHTMLFile string
	InProgressMarker string

	FetchTimeoutMs    int
	FetchRetries      int
	FetchRateLimitRPS int
	FetchUserAgent    string

	RefreshIntervalSec int
	AutoRefresh        bool

	TaxonomyPath     string
	NearClosingRatio float64

	DBPath          string
	PersistSnapshot bool
	OutputDir       string

	HTTPAddr string
	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ElectionURL:      getEnv("ELECTION_URL", "https://election.yonsei.ac.kr/votes"),
		ElectionHTMLFile: getEnv("ELECTION_HTML_FILE", ""),
		InProgressMarker: getEnv("IN_PROGRESS_MARKER", "진행중"),

		FetchTimeoutMs:    getEnvInt("FETCH_TIMEOUT_MS", 15000),
		FetchRetries:      getEnvInt("FETCH_RETRIES", 3),
		FetchRateLimitRPS: getEnvInt("FETCH_RATE_LIMIT_RPS", 1),
		FetchUserAgent:    getEnv("FETCH_USER_AGENT", defaultUserAgent),

		RefreshIntervalSec: getEnvInt("REFRESH_INTERVAL_SEC", 60),
		AutoRefresh:        getEnvBool("AUTO_REFRESH", false),

		TaxonomyPath:     getEnv("TAXONOMY_PATH", ""),
		NearClosingRatio: getEnvFloat("NEAR_CLOSING_RATIO", 0.2),

		DBPath:          getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		PersistSnapshot: getEnvBool("PERSIST_SNAPSHOT", true),
		OutputDir:       getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

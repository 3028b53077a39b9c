package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	// HTTPTimeoutSeconds bounds every request; slow links should raise it
	// rather than the client hanging forever.
	HTTPTimeoutSeconds int
	// TokenDBPath is where the credential pair lives between runs. Empty
	// means in-memory only (credentials die with the process).
	TokenDBPath string
	LogLevel    string
}

func LoadConfig() (*Config, error) {
	// Load .env if present; ignored when the file does not exist.
	_ = godotenv.Load()

	cfg := &Config{
		// Trim trailing slashes so path joining never produces //.
		APIBaseURL:         strings.TrimRight(getEnv("JOBPORTAL_API_URL", "http://localhost:8000/api"), "/"),
		HTTPTimeoutSeconds: getEnvInt("JOBPORTAL_HTTP_TIMEOUT_SECONDS", 15),
		TokenDBPath:        getEnv("JOBPORTAL_TOKEN_DB", defaultTokenDBPath()),
		LogLevel:           getEnv("JOBPORTAL_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func defaultTokenDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jobportal", "credentials.db")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config collects the runtime knobs read from the environment. Every field
// has a default so the app runs with no configuration at all; the Gemini key
// is the only thing that gates a feature (text import).
type Config struct {
	DBPath               string
	LogPath              string
	NotificationsEnabled bool
	GeminiAPIKey         string
	GeminiBaseURL        string
	GeminiModel          string
	PollInterval         time.Duration
	EventBuffer          int
}

func FromEnv() Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".vitaflow")

	cfg := Config{
		DBPath:               filepath.Join(dataDir, "vitaflow.db"),
		LogPath:              filepath.Join(dataDir, "vitaflow.log"),
		NotificationsEnabled: true,
		GeminiModel:          "gemini-2.5-flash",
		PollInterval:         60 * time.Second,
		EventBuffer:          8,
	}

	if v := os.Getenv("VITAFLOW_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("VITAFLOW_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("VITAFLOW_NOTIFICATIONS"); v != "" {
		cfg.NotificationsEnabled = parseBool(v, true)
	}
	cfg.GeminiAPIKey = os.Getenv("VITAFLOW_GEMINI_API_KEY")
	if v := os.Getenv("VITAFLOW_GEMINI_URL"); v != "" {
		cfg.GeminiBaseURL = v
	}
	if v := os.Getenv("VITAFLOW_GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("VITAFLOW_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollInterval = time.Duration(n) * time.Second
		}
	}
	return cfg
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

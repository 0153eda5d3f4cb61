package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct for the plugin.
type Config struct {
	App     AppConfig
	Monitor MonitorConfig
	Report  ReportConfig
}

type AppConfig struct {
	Name     string
	Env      string // local | production | testing
	Debug    bool
	Port     string
	LogLevel string // debug | info | warn | error
}

// MonitorConfig controls how often checks run and what counts as unhealthy.
type MonitorConfig struct {
	IntervalSeconds  int
	SlowQueryMs      int
	OrphanedMediaMin int
	UploadDir        string
}

// ReportConfig controls report generation and retention.
type ReportConfig struct {
	RetentionDays int
	BatchSize     int
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:     env("APP_NAME", "SitePulse"),
			Env:      env("APP_ENV", "local"),
			Debug:    envBool("APP_DEBUG", true),
			Port:     env("APP_PORT", "8090"),
			LogLevel: env("LOG_LEVEL", "info"),
		},
		Monitor: MonitorConfig{
			IntervalSeconds:  envInt("MONITOR_INTERVAL_SECONDS", 300),
			SlowQueryMs:      envInt("MONITOR_SLOW_QUERY_MS", 500),
			OrphanedMediaMin: envInt("MONITOR_ORPHANED_MEDIA_MIN", 60),
			UploadDir:        env("MONITOR_UPLOAD_DIR", "./uploads"),
		},
		Report: ReportConfig{
			RetentionDays: envInt("REPORT_RETENTION_DAYS", 30),
			BatchSize:     envInt("REPORT_BATCH_SIZE", 50),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	return envInt(key, defaultVal)
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

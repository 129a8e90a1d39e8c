package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// 永続化バックエンド
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Storage
	StorageBackend string
	SQLitePath     string
	DatabaseURL    string

	// Trial
	TrialWindowDays int
	TrialCap        int

	// Clock
	Location      *time.Location
	TimerInterval time.Duration

	// Rate Limit（1分あたりのリクエスト数）
	RateLimitGeneral  int
	RateLimitMutation int

	// Logging
	LogLevel slog.Level

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 値が不正な場合やバックエンドに必要な変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}
	var problems []string

	cfg.StorageBackend = strings.ToLower(getEnvString("STORAGE_BACKEND", BackendSQLite))
	switch cfg.StorageBackend {
	case BackendSQLite, BackendMemory:
	case BackendPostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND must be one of sqlite, postgres, memory: %q", cfg.StorageBackend))
	}
	cfg.SQLitePath = getEnvString("SQLITE_PATH", "./babytrack.db")

	cfg.TrialWindowDays = getEnvInt("TRIAL_WINDOW_DAYS", 3)
	if cfg.TrialWindowDays <= 0 {
		problems = append(problems, "TRIAL_WINDOW_DAYS must be positive")
	}
	cfg.TrialCap = getEnvInt("TRIAL_CAP", 10)
	if cfg.TrialCap <= 0 {
		problems = append(problems, "TRIAL_CAP must be positive")
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			problems = append(problems, fmt.Sprintf("TIMEZONE is invalid: %v", err))
		} else {
			cfg.Location = loc
		}
	}
	cfg.TimerInterval = getEnvDuration("TIMER_INTERVAL", time.Second)
	if cfg.TimerInterval <= 0 {
		problems = append(problems, "TIMER_INTERVAL must be positive")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvString("LOG_LEVEL", "INFO"))); err != nil {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL is invalid: %v", err))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	// Optional fields with defaults
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitMutation = getEnvInt("RATE_LIMIT_MUTATION", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

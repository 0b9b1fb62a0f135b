package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/hiring-portal/internal/screening"
)

var configKeys = []string{
	"HIRING_HTTP_PORT",
	"HIRING_STORAGE",
	"HIRING_SQLITE_DSN",
	"HIRING_TIMEZONE",
	"HIRING_GEMINI_API_KEY",
	"HIRING_GEMINI_MODEL",
	"HIRING_ANALYSIS_TIMEOUT",
	"HIRING_DUPLICATE_COMPARE_LIMIT",
	"HIRING_NOTIFY_QUEUE_SIZE",
	"HIRING_RANKING_WEIGHT_TECHNICAL",
	"HIRING_RANKING_WEIGHT_EXPERIENCE",
	"HIRING_RANKING_WEIGHT_CULTURAL",
	"HIRING_RANKING_WEIGHT_LEADERSHIP",
	"HIRING_DEBUG",
}

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		previous, had := os.LookupEnv(key)
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
		key := key
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, previous)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
}

func noEnvFile(t *testing.T) Options {
	return Options{EnvFiles: []string{filepath.Join(t.TempDir(), "missing.env")}}
}

func TestLoader_Defaults(t *testing.T) {
	clearEnvironment(t)

	cfg, err := LoadWithOptions(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.Storage != StorageSQLite {
		t.Fatalf("expected sqlite storage by default, got %q", cfg.Storage)
	}
	if cfg.SQLiteDSN != "file:hiring.db?_pragma=foreign_keys(1)" {
		t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location)
	}
	if cfg.AnalysisEnabled() || cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected analysis settings: %#v", cfg)
	}
	if cfg.AnalysisTimeout != 30*time.Second || cfg.DuplicateCompareLimit != 5 || cfg.NotifyQueueSize != 64 {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.RankingWeights != screening.DefaultWeights() {
		t.Fatalf("unexpected weights: %#v", cfg.RankingWeights)
	}
	if cfg.Debug {
		t.Fatalf("expected debug to default to false")
	}
}

func TestLoader_EnvironmentOverrides(t *testing.T) {
	clearEnvironment(t)

	t.Setenv("HIRING_HTTP_PORT", "9090")
	t.Setenv("HIRING_SQLITE_DSN", "file::memory:")
	t.Setenv("HIRING_TIMEZONE", "Asia/Tokyo")
	t.Setenv("HIRING_GEMINI_API_KEY", " key ")
	t.Setenv("HIRING_ANALYSIS_TIMEOUT", "5s")
	t.Setenv("HIRING_RANKING_WEIGHT_TECHNICAL", "0.5")
	t.Setenv("HIRING_RANKING_WEIGHT_EXPERIENCE", "0.2")
	t.Setenv("HIRING_DEBUG", "true")

	cfg, err := LoadWithOptions(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPPort != 9090 || cfg.SQLiteDSN != "file::memory:" {
		t.Fatalf("unexpected overrides: %#v", cfg)
	}
	if cfg.Location.String() != "Asia/Tokyo" {
		t.Fatalf("expected Asia/Tokyo, got %v", cfg.Location)
	}
	if !cfg.AnalysisEnabled() || cfg.GeminiAPIKey != "key" {
		t.Fatalf("expected trimmed API key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.AnalysisTimeout != 5*time.Second || !cfg.Debug {
		t.Fatalf("unexpected timeout/debug: %#v", cfg)
	}
	if cfg.RankingWeights.Technical != 0.5 || cfg.RankingWeights.Experience != 0.2 {
		t.Fatalf("unexpected weights: %#v", cfg.RankingWeights)
	}
}

func TestLoader_ReportsInvalidValues(t *testing.T) {
	clearEnvironment(t)

	t.Setenv("HIRING_HTTP_PORT", "abc")
	t.Setenv("HIRING_ANALYSIS_TIMEOUT", "-1s")
	t.Setenv("HIRING_TIMEZONE", "Mars/Olympus")

	_, err := LoadWithOptions(noEnvFile(t))
	if err == nil {
		t.Fatalf("expected error for invalid values")
	}
	expected := "環境変数の値が不正です: HIRING_HTTP_PORT, HIRING_TIMEZONE, HIRING_ANALYSIS_TIMEOUT"
	if err.Error() != expected {
		t.Fatalf("unexpected error message: %q", err.Error())
	}
}

func TestLoader_StorageSelection(t *testing.T) {
	clearEnvironment(t)

	t.Setenv("HIRING_STORAGE", "Memory")
	t.Setenv("HIRING_SQLITE_DSN", " ")

	cfg, err := LoadWithOptions(noEnvFile(t))
	if err != nil {
		t.Fatalf("memory storage should not need a DSN: %v", err)
	}
	if cfg.Storage != StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.Storage)
	}

	t.Setenv("HIRING_STORAGE", "postgres")
	_, err = LoadWithOptions(noEnvFile(t))
	if err == nil || !strings.Contains(err.Error(), "HIRING_STORAGE") {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestLoader_RejectsWeightsNotSummingToOne(t *testing.T) {
	clearEnvironment(t)

	t.Setenv("HIRING_RANKING_WEIGHT_TECHNICAL", "0.9")

	_, err := LoadWithOptions(noEnvFile(t))
	if err == nil || !strings.Contains(err.Error(), "HIRING_RANKING_WEIGHT_*") {
		t.Fatalf("expected weight error, got %v", err)
	}
}

func TestLoader_ReadsEnvAndConfigFiles(t *testing.T) {
	clearEnvironment(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("HIRING_NOTIFY_QUEUE_SIZE=16\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	configFile := filepath.Join(dir, "hiring.yaml")
	if err := os.WriteFile(configFile, []byte("http_port: 7070\nduplicate_compare_limit: 3\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("HIRING_DUPLICATE_COMPARE_LIMIT", "4")

	cfg, err := LoadWithOptions(Options{ConfigFile: configFile, EnvFiles: []string{envFile}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.NotifyQueueSize != 16 {
		t.Fatalf("expected queue size from .env file, got %d", cfg.NotifyQueueSize)
	}
	if cfg.HTTPPort != 7070 {
		t.Fatalf("expected port from config file, got %d", cfg.HTTPPort)
	}
	if cfg.DuplicateCompareLimit != 4 {
		t.Fatalf("expected environment to win over config file, got %d", cfg.DuplicateCompareLimit)
	}

	if _, err := LoadWithOptions(Options{ConfigFile: filepath.Join(dir, "absent.yaml"), EnvFiles: []string{envFile}}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

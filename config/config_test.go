package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Report.CacheTTL != 5*time.Minute {
		t.Errorf("expected report cache TTL 5m, got %s", cfg.Report.CacheTTL)
	}
	if !cfg.Report.CacheEnabled {
		t.Error("expected report cache to be enabled by default")
	}
	if cfg.Budget.DefaultAlertThreshold != 80 {
		t.Errorf("expected default alert threshold 80, got %d", cfg.Budget.DefaultAlertThreshold)
	}
	if cfg.Log.Level != slog.LevelInfo {
		t.Errorf("expected info log level, got %s", cfg.Log.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("REPORT_CACHE_ENABLED", "false")
	t.Setenv("BUDGET_DEFAULT_ALERT_THRESHOLD", "65")
	t.Setenv("EMAIL_WORKER_BATCH_SIZE", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Load()

	if cfg.Report.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.Report.CacheTTL)
	}
	if cfg.Report.CacheEnabled {
		t.Error("expected report cache to be disabled")
	}
	if cfg.Budget.DefaultAlertThreshold != 65 {
		t.Errorf("expected 65, got %d", cfg.Budget.DefaultAlertThreshold)
	}
	if cfg.Email.BatchSize != 3 {
		t.Errorf("expected batch size 3, got %d", cfg.Email.BatchSize)
	}
	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("invalid port should fall back to 8080, got %d", cfg.Server.Port)
	}
}

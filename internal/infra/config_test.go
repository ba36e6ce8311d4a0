package infra

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crowdfund")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_IDENTITY", "admin")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv = %q, want development", cfg.AppEnv)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.EscrowAccount != "platform-escrow" {
		t.Errorf("EscrowAccount = %q", cfg.EscrowAccount)
	}
	if !cfg.IssueCredentials {
		t.Error("IssueCredentials should default true")
	}
	if cfg.RecordTTL != 720*time.Hour {
		t.Errorf("RecordTTL = %v, want 720h", cfg.RecordTTL)
	}
	if cfg.WorkerPollInterval != time.Minute {
		t.Errorf("WorkerPollInterval = %v, want 1m", cfg.WorkerPollInterval)
	}
	if cfg.RateLimitPerMin != 60 {
		t.Errorf("RateLimitPerMin = %d, want 60", cfg.RateLimitPerMin)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Errorf("pool sizing = %d/%d, want 10/1", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.DBConnectTimeout != 10*time.Second {
		t.Errorf("DBConnectTimeout = %v, want 10s", cfg.DBConnectTimeout)
	}
	if cfg.HTTPReadHeaderTimeout != 5*time.Second {
		t.Errorf("HTTPReadHeaderTimeout = %v, want 5s", cfg.HTTPReadHeaderTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want empty", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("ISSUE_CREDENTIALS", "false")
	t.Setenv("RECORD_TTL_HOURS", "24")
	t.Setenv("WORKER_POLL_SECONDS", "5")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("HTTP_READ_HEADER_TIMEOUT_SECONDS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AppEnv != "production" {
		t.Errorf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.IssueCredentials {
		t.Error("IssueCredentials should be false")
	}
	if cfg.RecordTTL != 24*time.Hour {
		t.Errorf("RecordTTL = %v", cfg.RecordTTL)
	}
	if cfg.WorkerPollInterval != 5*time.Second {
		t.Errorf("WorkerPollInterval = %v", cfg.WorkerPollInterval)
	}
	if cfg.DBMaxConns != 4 {
		t.Errorf("DBMaxConns = %d, want 4", cfg.DBMaxConns)
	}
	if cfg.HTTPReadHeaderTimeout != 2*time.Second {
		t.Errorf("HTTPReadHeaderTimeout = %v, want 2s", cfg.HTTPReadHeaderTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigRequired(t *testing.T) {
	cases := []struct {
		name string
		omit string
	}{
		{"missing database url", "DATABASE_URL"},
		{"missing jwt secret", "JWT_SECRET"},
		{"missing admin identity", "ADMIN_IDENTITY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.omit, "")
			if _, err := LoadConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("RECORD_TTL_HOURS", "not-a-number")
	if got := getEnvInt("RECORD_TTL_HOURS", 720); got != 720 {
		t.Errorf("getEnvInt = %d, want fallback 720", got)
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DefaultCompany != "Rakamin" {
		t.Fatalf("expected default company Rakamin, got %s", cfg.DefaultCompany)
	}
	if cfg.Capture.Hold != 800*time.Millisecond {
		t.Fatalf("expected 800ms hold, got %v", cfg.Capture.Hold)
	}
	if got := cfg.Capture.Poses; len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected poses %v", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("CAPTURE_POSES", "2,4")
	t.Setenv("CAPTURE_COUNTDOWN", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Capture.Poses) != 2 || cfg.Capture.Poses[1] != 4 {
		t.Fatalf("unexpected poses %v", cfg.Capture.Poses)
	}
	if cfg.Capture.Countdown != 5 {
		t.Fatalf("expected countdown 5, got %d", cfg.Capture.Countdown)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("TOKEN_TTL", "soon")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestParseSkipsValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/portal" {
		t.Fatalf("unexpected dsn %q", cfg.DatabaseURL)
	}
}

func TestCaptureFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("CAPTURE_POSES", "2,4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	flow := cfg.Capture.Flow()
	if len(flow.Poses) != 2 || flow.Poses[1] != 4 || flow.Tick != time.Second || flow.Countdown != 3 {
		t.Fatalf("unexpected flow config %+v", flow)
	}
}

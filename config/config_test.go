package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := getEnv("TEST_STRING", "default"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := getEnv("MISSING_STRING", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("TEST_DURATION", "30")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}
	t.Setenv("TEST_DURATION", "invalid")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 5*time.Minute {
		t.Fatalf("expected default duration, got %v", got)
	}

	t.Setenv("TEST_INT", "42")
	if got := getIntEnv("TEST_INT", 5); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("TEST_INT", "invalid")
	if got := getIntEnv("TEST_INT", 5); got != 5 {
		t.Fatalf("expected default int, got %d", got)
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	chdirTemp(t)

	t.Setenv("JWT_SECRET", "")
	t.Setenv("MYSQL_DSN", "")
	if cfg, err := Load(); err == nil || cfg != nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	chdirTemp(t)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "")
	if cfg, err := Load(); err == nil || cfg != nil {
		t.Fatalf("expected error when MYSQL_DSN is missing")
	}
}

func TestLoadSuccess(t *testing.T) {
	chdirTemp(t)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(db:3306)/contactsdb?parseTime=true")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "20")
	t.Setenv("JWT_REFRESH_TOKEN_TTL", "60")
	t.Setenv("USER_CACHE_TTL_SECONDS", "120")
	t.Setenv("RATE_READ_PER_MINUTE", "20")
	t.Setenv("RATE_PROFILE_INTERVAL", "40")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("S3_BUCKET", "profile-images")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8081" {
		t.Fatalf("expected port 8081, got %q", cfg.HTTPPort)
	}
	if cfg.JWTAccessTokenTTL != 20*time.Minute {
		t.Fatalf("expected 20m access TTL, got %v", cfg.JWTAccessTokenTTL)
	}
	if cfg.JWTRefreshTokenTTL != 60*time.Minute {
		t.Fatalf("expected 60m refresh TTL, got %v", cfg.JWTRefreshTokenTTL)
	}
	if cfg.Cache.UserTTL != 120*time.Second {
		t.Fatalf("expected 120s cache TTL, got %v", cfg.Cache.UserTTL)
	}
	if cfg.Rate.ReadPerMinute != 20 {
		t.Fatalf("expected read limit 20, got %d", cfg.Rate.ReadPerMinute)
	}
	// The interval env is seconds, like the cache TTL.
	if cfg.Rate.ProfileBurstIn != 40*time.Second {
		t.Fatalf("expected 40s profile interval, got %v", cfg.Rate.ProfileBurstIn)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("expected redis addr, got %q", cfg.Redis.Addr)
	}
	if cfg.S3.Bucket != "profile-images" {
		t.Fatalf("expected bucket, got %q", cfg.S3.Bucket)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(db:3306)/contactsdb?parseTime=true")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("USER_CACHE_TTL_SECONDS", "")
	t.Setenv("RATE_READ_PER_MINUTE", "")
	t.Setenv("RATE_WRITE_PER_MINUTE", "")
	t.Setenv("RATE_PROFILE_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port, got %q", cfg.HTTPPort)
	}
	if cfg.Cache.UserTTL != 300*time.Second {
		t.Fatalf("expected 300s default cache TTL, got %v", cfg.Cache.UserTTL)
	}
	if cfg.Rate.ReadPerMinute != 10 || cfg.Rate.WritePerMinute != 5 {
		t.Fatalf("unexpected default rate limits: %+v", cfg.Rate)
	}
	if cfg.Rate.ProfileBurstIn != 20*time.Second {
		t.Fatalf("expected 20s profile interval, got %v", cfg.Rate.ProfileBurstIn)
	}
}

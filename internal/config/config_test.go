package config

import (
	"os"
	"testing"
	"time"
)

// unsetEnv clears key for the duration of the test. t.Setenv registers the
// restore; envconfig distinguishes unset from set-but-empty, so the key
// must actually be removed.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	unsetEnv(t, "AUTH_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT")
	unsetEnv(t, "STATS_CACHE_TTL")
	unsetEnv(t, "ACCESS_TOKEN_TTL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.StatsCacheTTL != 15*time.Second {
		t.Fatalf("expected default stats cache ttl 15s, got %v", cfg.StatsCacheTTL)
	}
	if cfg.AccessTokenTTL != 480*time.Minute {
		t.Fatalf("expected default token ttl 480m, got %v", cfg.AccessTokenTTL)
	}
}

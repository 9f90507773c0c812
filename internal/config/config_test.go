package config

import (
	"testing"
	"time"
)

const secret = "a perfectly adequate secret"

func TestReadConfig(t *testing.T) {
	t.Setenv("SNOOZE_SESSION_SECRET", secret)
	t.Setenv("SNOOZE_USER_CACHE_TTL", "1m")

	cfg, err := ReadConfig([]string{"--addr", ":9000", "--api_url", "http://localhost:5000"})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %s", cfg.Addr)
	}
	if u := cfg.APIURL.String(); u != "http://localhost:5000" {
		t.Errorf("expected api url http://localhost:5000, got %s", u)
	}
	if cfg.UserCacheTTL != time.Minute {
		t.Errorf("expected user cache ttl of 1m, got %s", cfg.UserCacheTTL)
	}
	if cfg.StoriesLimit != 25 {
		t.Errorf("expected default stories limit 25, got %d", cfg.StoriesLimit)
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("expected default retry attempts 3, got %d", cfg.RetryAttempts)
	}
	if cfg.SameSite != "Lax" {
		t.Errorf("expected default same site Lax, got %q", cfg.SameSite)
	}
}

func TestReadConfigSameSite(t *testing.T) {
	t.Setenv("SNOOZE_SESSION_SECRET", secret)

	t.Setenv("SNOOZE_SAME_SITE", "Strict")
	cfg, err := ReadConfig(nil)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if cfg.SameSite != "Strict" {
		t.Errorf("expected same site Strict, got %q", cfg.SameSite)
	}

	for _, value := range []string{"None", "lax"} {
		t.Setenv("SNOOZE_SAME_SITE", value)
		if _, err := ReadConfig(nil); err == nil {
			t.Errorf("expected an error for same site %q", value)
		}
	}
}

func TestReadConfigErrors(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		args   []string
	}{
		{"missing secret", "", nil},
		{"short secret", "short", nil},
		{"bad scheme", secret, []string{"--api_url", "ftp://example.com"}},
		{"unknown flag", secret, []string{"--nope"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv("SNOOZE_SESSION_SECRET", c.secret)
			if _, err := ReadConfig(c.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	cfg := Configuration{SessionSecret: secret}
	k1, err := cfg.SessionKey()
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := cfg.SessionKey()

	if len(k1) != SessionKeySize {
		t.Errorf("expected a %d byte key, got %d", SessionKeySize, len(k1))
	}
	if k1 != k2 {
		t.Error("key derivation is not deterministic")
	}

	other := Configuration{SessionSecret: secret + "!"}
	if k3, _ := other.SessionKey(); k3 == k1 {
		t.Error("different secrets produced the same key")
	}
}

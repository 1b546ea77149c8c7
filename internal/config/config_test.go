package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, "storage:\n  type: minio\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "5000" || cfg.Database.Enabled || cfg.Redis.Enabled {
		t.Fatalf("unexpected server/db defaults: %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.AI.SystemPrompt != DefaultSystemPrompt || cfg.AI.TimeoutSeconds != 60 {
		t.Fatalf("unexpected ai defaults: %+v", cfg.AI)
	}
	if cfg.Captcha.Length != 5 || cfg.Dashboard.DateLayout != "2006-01-02" || cfg.Dashboard.LogsLimit != 100 {
		t.Fatalf("unexpected dashboard defaults: %+v %+v", cfg.Captcha, cfg.Dashboard)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, strings.Join([]string{
		"server:",
		"  port: \"9090\"",
		"captcha:",
		"  enforce: true",
		"  length: 6",
		"storage:",
		"  type: local",
		"  local_path: " + uploads,
		"cors:",
		"  allowed_origins: [\"http://a.test\", \"http://b.test\"]",
	}, "\n"))

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" || !cfg.Captcha.Enforce || cfg.Captcha.Length != 6 {
		t.Fatalf("file values not applied: %+v %+v", cfg.Server, cfg.Captcha)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
	if _, err := os.Stat(uploads); err != nil {
		t.Fatalf("local storage dir not created: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()
	base := Config{
		Captcha:   CaptchaConfig{Length: 5, Width: 200, Height: 60},
		RateLimit: RateLimitConfig{MaxRequests: 10, WindowMinutes: 1},
		Dashboard: DashboardConfig{HistoryLimit: 5, LogsLimit: 100},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"zero captcha length": func(c *Config) { c.Captcha.Length = 0 },
		"tiny captcha image":  func(c *Config) { c.Captcha.Width = 20 },
		"zero rate limit":     func(c *Config) { c.RateLimit.MaxRequests = 0 },
		"zero logs limit":     func(c *Config) { c.Dashboard.LogsLimit = 0 },
	}
	for name, mutate := range cases {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AnalysisBaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("expected default analysis base URL, got %s", cfg.AnalysisBaseURL)
	}
	if cfg.AnalysisTimeout != 120*time.Second {
		t.Fatalf("expected default analysis timeout 120s, got %s", cfg.AnalysisTimeout)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected default object store local, got %s", cfg.ObjectStoreType)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "port: \"9000\"\nanalysis_base_url: http://analysis:8000\nobject_store: minio\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg := Load()

	if cfg.Port != "9100" {
		t.Fatalf("env should win over yaml, got port %s", cfg.Port)
	}
	if cfg.AnalysisBaseURL != "http://analysis:8000" {
		t.Fatalf("expected yaml analysis base URL, got %s", cfg.AnalysisBaseURL)
	}
	if cfg.ObjectStoreType != "minio" {
		t.Fatalf("expected minio store type, got %s", cfg.ObjectStoreType)
	}
}

func TestNormalizeStoreType(t *testing.T) {
	cases := map[string]string{
		"s3":    "s3",
		"MINIO": "minio",
		"":      "local",
		"junk":  "local",
	}
	for in, want := range cases {
		if got := normalizeStoreType(in); got != want {
			t.Errorf("normalizeStoreType(%q) = %q, want %q", in, got, want)
		}
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "ENV", "DATABASE_URL", "OBJECT_STORE",
		"ANALYSIS_BASE_URL", "ANALYSIS_TIMEOUT", "UPLOAD_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

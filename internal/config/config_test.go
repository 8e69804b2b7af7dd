package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CM_BASE_URL", "")
	t.Setenv("CM_AUTH_TOKEN", "")
	t.Setenv("CM_ENABLE_GROUP_FILTER", "")
	t.Setenv("THUMBNAIL_MODE", "")

	cfg := Load()
	if cfg.Complete() {
		t.Fatalf("empty backend config must report incomplete")
	}
	if cfg.EnableGroupFilter {
		t.Fatalf("group filter must default to disabled")
	}
	if cfg.ThumbnailMode != ThumbnailModeBase64 {
		t.Fatalf("expected base64 thumbnail default, got %q", cfg.ThumbnailMode)
	}
	if cfg.ThumbnailRatePerSec != 2 {
		t.Fatalf("expected default thumbnail rate 2, got %v", cfg.ThumbnailRatePerSec)
	}
}

func TestLoadParsesListOverrides(t *testing.T) {
	t.Setenv("CM_FILTER_GROUPS", "100, 200,300")
	t.Setenv("BOT_ADMINS", "42")

	cfg := Load()
	if len(cfg.FilterGroups) != 3 || cfg.FilterGroups[1] != 200 {
		t.Fatalf("unexpected filter groups %v", cfg.FilterGroups)
	}
	if len(cfg.Admins) != 1 || cfg.Admins[0] != 42 {
		t.Fatalf("unexpected admins %v", cfg.Admins)
	}
}

func TestLoadFileOverridesEnvDefaults(t *testing.T) {
	t.Setenv("CM_BASE_URL", "https://env.example")
	t.Setenv("LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "cm.yaml")
	body := "base_url: https://file.example\nauth_token: secret\nfilter_group:\n  - 7\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.CMBaseURL != "https://file.example" {
		t.Fatalf("file value must win, got %q", cfg.CMBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("env default must survive for keys absent from the file, got %q", cfg.LogLevel)
	}
	if len(cfg.FilterGroups) != 1 || cfg.FilterGroups[0] != 7 {
		t.Fatalf("unexpected filter groups %v", cfg.FilterGroups)
	}
	if !cfg.Complete() {
		t.Fatalf("file config with url and token must be complete")
	}
}

func TestLoadFileMissingFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Server.ListenAddr != "127.0.0.1:8787" {
		t.Errorf("ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Auth.TokenTTLHours != 720 {
		t.Errorf("TokenTTLHours = %d", cfg.Auth.TokenTTLHours)
	}
	if cfg.Client.ServerURL != "http://127.0.0.1:8787" {
		t.Errorf("ServerURL = %q", cfg.Client.ServerURL)
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Server.ListenAddr = "127.0.0.1:9999"
	cfg.Auth.JWTSecret = "s3cret-value"
	if err := WriteFile(path, cfg); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q", loaded.Server.ListenAddr)
	}
	if loaded.Auth.JWTSecret != "s3cret-value" {
		t.Errorf("JWTSecret = %q", loaded.Auth.JWTSecret)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOCUSZONE_TEST_SECRET", "from-env")

	if got := expandEnv("${FOCUSZONE_TEST_SECRET}"); got != "from-env" {
		t.Errorf("expandEnv = %q", got)
	}
	if got := expandEnv("plain-value"); got != "plain-value" {
		t.Errorf("非占位符应原样返回: %q", got)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadRequiresTokenSecret(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected error without token secret")
	}
}

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("CHAT_TOKEN_SECRET", "s3cret")
	t.Setenv("CHAT_SERVICE_ADDR", ":9090")
	t.Setenv("CHAT_LOGGER_LEVEL", "debug")
	t.Setenv("CHAT_TOKEN_ACCESS_EXPIRES_IN", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Token.Secret != "s3cret" {
		t.Errorf("token secret = %q", cfg.Token.Secret)
	}
	if cfg.Service.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Service.Addr)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logger.Level)
	}
	if cfg.Token.AccessExpiresIn != 30*time.Minute {
		t.Errorf("access ttl = %s, want 30m", cfg.Token.AccessExpiresIn)
	}

	// Untouched keys keep their defaults.
	if cfg.Token.RefreshExpiresIn != 7*24*time.Hour {
		t.Errorf("refresh ttl = %s, want 168h", cfg.Token.RefreshExpiresIn)
	}
	if cfg.Token.WSExpiresIn != 15*time.Second {
		t.Errorf("ws ttl = %s, want 15s", cfg.Token.WSExpiresIn)
	}
	if cfg.S3.Bucket != "chat-attachments" {
		t.Errorf("bucket = %q", cfg.S3.Bucket)
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Session.Store != StoreMemory {
		t.Fatalf("store = %q, expected memory default", cfg.Session.Store)
	}
	if cfg.Server.Port != 3000 {
		t.Fatalf("port = %d, expected 3000 default", cfg.Server.Port)
	}
	if got := cfg.SessionTTL(); got != 5*time.Minute {
		t.Fatalf("ttl = %v, expected 5m default", got)
	}
}

func TestNormalizeStoreValidation(t *testing.T) {
	cfg := &Config{Session: SessionConfig{Store: "postgres"}}
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "database.host") {
		t.Fatalf("expected database.host error, got %v", err)
	}

	cfg = &Config{Session: SessionConfig{Store: "valkey"}}
	err = Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "valkey.address") {
		t.Fatalf("expected valkey.address error, got %v", err)
	}

	cfg = &Config{Session: SessionConfig{Store: "etcd"}}
	err = Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid session.store") {
		t.Fatalf("expected invalid store error, got %v", err)
	}
}

func TestSessionTTLOverride(t *testing.T) {
	cfg := &Config{Session: SessionConfig{TTLMs: 120000}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := cfg.SessionTTL(); got != 2*time.Minute {
		t.Fatalf("ttl = %v, expected 2m", got)
	}
}

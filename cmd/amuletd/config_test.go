package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"amulet.dev/core/keys"
	"amulet.dev/core/rights"
	"amulet.dev/core/suite"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amuletd.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func issuerLine(t *testing.T) (string, string) {
	t.Helper()
	pub, _, err := keys.GenerateEd25519(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	key := "ed25519:" + base64.StdEncoding.EncodeToString(pub)
	return key, fmt.Sprintf("[[issuer]]\nkey = %q\n", key)
}

func TestLoadConfig_Defaults(t *testing.T) {
	key, issuer := issuerLine(t)
	cfg, err := loadConfig(writeConfig(t, issuer))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Listen != "127.0.0.1:7878" || cfg.Backend != "memory" || cfg.LogLevel != "info" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.DefaultRights != uint32(rights.Read) {
		t.Fatalf("DefaultRights = %#x", cfg.DefaultRights)
	}
	if len(cfg.IssuerKeys) != 1 || cfg.IssuerKeys[0] != key {
		t.Fatalf("IssuerKeys = %v", cfg.IssuerKeys)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	_, issuer := issuerLine(t)
	cfg, err := loadConfig(writeConfig(t, `
listen = "0.0.0.0:9000"
backend = "pebble"
data_dir = "/var/lib/amuletd"
start_tick = 42
default_ttl = 500
max_ttl = 5000
default_rights = 3
log_level = "debug"
`+issuer))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" || cfg.Backend != "pebble" || cfg.DataDir != "/var/lib/amuletd" {
		t.Fatalf("overrides: %+v", cfg)
	}
	if cfg.StartTick != 42 || cfg.DefaultTTL != 500 || cfg.MaxTTL != 5000 {
		t.Fatalf("ticks: %+v", cfg)
	}
	if cfg.DefaultRights != uint32(rights.Read|rights.Write) || cfg.LogLevel != "debug" {
		t.Fatalf("rights/level: %+v", cfg)
	}

	pol := cfg.policy()
	if pol.DefaultTTL != 500 || pol.MaxTTL != 5000 || pol.DefaultRights != rights.Read|rights.Write {
		t.Fatalf("policy: %+v", pol)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	_, issuer := issuerLine(t)

	if _, err := loadConfig(writeConfig(t, issuer+"backend = \"etcd\"\n")); err == nil {
		t.Fatalf("unknown backend must fail")
	}
	if _, err := loadConfig(writeConfig(t, issuer+"backend = \"pebble\"\n")); err == nil {
		t.Fatalf("pebble without data_dir must fail")
	}
	if _, err := loadConfig(writeConfig(t, "[[issuer]]\nkey = \"\"\n")); err == nil {
		t.Fatalf("empty issuer key must fail")
	}
}

func TestRegistry_GroupsKeysPerSuite(t *testing.T) {
	k1, _ := issuerLine(t)
	k2, _ := issuerLine(t)
	cfg := defaultConfig()
	cfg.IssuerKeys = []string{k1, k2}

	reg, err := cfg.registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	ids := reg.IDs()
	if len(ids) != 1 || ids[0] != suite.Classic {
		t.Fatalf("IDs = %v, want [0]", ids)
	}

	cfg.IssuerKeys = nil
	if _, err := cfg.registry(); err == nil {
		t.Fatalf("no issuers must fail")
	}

	cfg.IssuerKeys = []string{"rsa:AAAA"}
	if _, err := cfg.registry(); err == nil {
		t.Fatalf("unknown algorithm must fail")
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"amulet.dev/core/capability"
	"amulet.dev/core/rights"
	"amulet.dev/core/suite"
)

type daemonConfig struct {
	Listen        string
	Backend       string
	DataDir       string
	StartTick     uint64
	DefaultTTL    uint64
	MaxTTL        uint64
	DefaultRights uint32
	LogLevel      string
	IssuerKeys    []string
}

func defaultConfig() daemonConfig {
	return daemonConfig{
		Listen:        "127.0.0.1:7878",
		Backend:       "memory",
		LogLevel:      "info",
		DefaultRights: uint32(rights.Read),
	}
}

type fileConfig struct {
	Listen        string       `toml:"listen"`
	Backend       string       `toml:"backend"`
	DataDir       string       `toml:"data_dir"`
	StartTick     uint64       `toml:"start_tick"`
	DefaultTTL    uint64       `toml:"default_ttl"`
	MaxTTL        uint64       `toml:"max_ttl"`
	DefaultRights uint32       `toml:"default_rights"`
	LogLevel      string       `toml:"log_level"`
	Issuers       []fileIssuer `toml:"issuer"`
}

type fileIssuer struct {
	Key string `toml:"key"`
}

func loadConfig(path string) (daemonConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return daemonConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("listen") {
		if v := strings.TrimSpace(raw.Listen); v != "" {
			cfg.Listen = v
		}
	}
	if meta.IsDefined("backend") {
		cfg.Backend = strings.TrimSpace(raw.Backend)
	}
	if meta.IsDefined("data_dir") {
		cfg.DataDir = strings.TrimSpace(raw.DataDir)
	}
	if meta.IsDefined("start_tick") {
		cfg.StartTick = raw.StartTick
	}
	if meta.IsDefined("default_ttl") {
		cfg.DefaultTTL = raw.DefaultTTL
	}
	if meta.IsDefined("max_ttl") {
		cfg.MaxTTL = raw.MaxTTL
	}
	if meta.IsDefined("default_rights") {
		cfg.DefaultRights = raw.DefaultRights
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	for i, iss := range raw.Issuers {
		key := strings.TrimSpace(iss.Key)
		if key == "" {
			return daemonConfig{}, fmt.Errorf("issuer %d: empty key", i)
		}
		cfg.IssuerKeys = append(cfg.IssuerKeys, key)
	}

	switch cfg.Backend {
	case "memory", "pebble":
	default:
		return daemonConfig{}, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}
	if cfg.Backend == "pebble" && cfg.DataDir == "" {
		return daemonConfig{}, fmt.Errorf("backend pebble requires data_dir")
	}

	return cfg, nil
}

func (c daemonConfig) policy() capability.Policy {
	return capability.Policy{
		DefaultTTL:    capability.Tick(c.DefaultTTL),
		MaxTTL:        capability.Tick(c.MaxTTL),
		DefaultRights: rights.Mask(c.DefaultRights),
	}
}

// registry groups the configured issuer keys per suite, so several
// trusted keys of one suite verify under a single spec.
func (c daemonConfig) registry() (*suite.Registry, error) {
	if len(c.IssuerKeys) == 0 {
		return nil, fmt.Errorf("no issuers configured")
	}

	bySuite := map[uint16][]suite.VerifyFunc{}
	for _, key := range c.IssuerKeys {
		id, vf, err := suite.ParseIssuer(key)
		if err != nil {
			return nil, err
		}
		bySuite[id] = append(bySuite[id], vf)
	}

	var specs []suite.Spec
	for id, vfs := range bySuite {
		vf := suite.Multi(vfs...)
		switch id {
		case suite.Classic:
			specs = append(specs, suite.ClassicSpec(vf))
		case suite.FIPS:
			specs = append(specs, suite.FIPSSpec(vf))
		case suite.PQC:
			specs = append(specs, suite.PQCSpec(vf))
		case suite.Hybrid:
			specs = append(specs, suite.HybridSpec(vf))
		default:
			return nil, fmt.Errorf("issuer key for unknown suite %d", id)
		}
	}
	return suite.NewRegistry(specs...)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
targets:
  - name: primary
    host: db.internal
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(cfg.Targets))
	}
	target := cfg.Targets[0]
	if target.Port != DefaultPGPort {
		t.Errorf("expected default port %d, got %d", DefaultPGPort, target.Port)
	}
	if target.SSLMode != DefaultSSLMode {
		t.Errorf("expected default sslmode %q, got %q", DefaultSSLMode, target.SSLMode)
	}
	if target.User != DefaultPGUser {
		t.Errorf("expected default user %q, got %q", DefaultPGUser, target.User)
	}
	if target.ComputeTier != DefaultComputeTier {
		t.Errorf("expected default compute tier %q, got %q", DefaultComputeTier, target.ComputeTier)
	}
	if target.PasswordEnv != "POSTGREAT_PG_PASSWORD" {
		t.Errorf("expected default password env, got %q", target.PasswordEnv)
	}
}

func TestLoadPreservesExplicitValues(t *testing.T) {
	path := writeTempConfig(t, `
targets:
  - name: analytics
    host: olap.internal
    port: 6432
    compute_tier: large
    workload_hint: olap
    password_env: OLAP_PG_PASSWORD
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target := cfg.Targets[0]
	if target.Port != 6432 {
		t.Errorf("expected explicit port 6432, got %d", target.Port)
	}
	if target.ComputeTier != "large" {
		t.Errorf("expected explicit compute tier, got %q", target.ComputeTier)
	}
	if target.PasswordEnv != "OLAP_PG_PASSWORD" {
		t.Errorf("expected explicit password env, got %q", target.PasswordEnv)
	}
}

func TestValidateRejectsMissingName(t *testing.T) {
	cfg := &Config{Targets: []Target{{Port: 5432}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing target name")
	}
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	cfg := &Config{Targets: []Target{
		{Name: "a", Port: 5432},
		{Name: "a", Port: 5433},
	}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for duplicate target name")
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := &Config{Targets: []Target{{Name: "a", Port: 99999}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestLoadWithNoFileUsesEmptyTargets(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Targets) != 0 {
		t.Errorf("expected no targets without a config file or env vars, got %d", len(cfg.Targets))
	}
}

// Package config loads the multi-instance target list PostGreat analyzes.
// Connection credentials never live in this struct; passwords are read
// exclusively from POSTGREAT_PG_PASSWORD (or a per-target override env var)
// at connection time, the way the teacher keeps PGDBA_PG_PASSWORD out of
// its own Config.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Target is one instance to analyze.
type Target struct {
	Name         string `yaml:"name"          mapstructure:"name"`
	Host         string `yaml:"host"          mapstructure:"host"`
	Port         int    `yaml:"port"          mapstructure:"port"`
	User         string `yaml:"user"          mapstructure:"user"`
	Database     string `yaml:"database"      mapstructure:"database"`
	SSLMode      string `yaml:"sslmode"       mapstructure:"sslmode"`
	ComputeTier  string `yaml:"compute_tier"  mapstructure:"compute_tier"`
	WorkloadHint string `yaml:"workload_hint" mapstructure:"workload_hint"`
	PasswordEnv  string `yaml:"password_env"  mapstructure:"password_env"`
}

// Config holds every target PostGreat will run an independent analysis
// against.
type Config struct {
	Targets []Target `yaml:"targets" mapstructure:"targets"`
}

// Load reads configuration from an optional file and POSTGREAT_-prefixed
// environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("targets", []map[string]any{})
	v.SetEnvPrefix("POSTGREAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	for i := range cfg.Targets {
		applyTargetDefaults(&cfg.Targets[i])
	}
	return &cfg, nil
}

func applyTargetDefaults(t *Target) {
	if t.Port == 0 {
		t.Port = DefaultPGPort
	}
	if t.SSLMode == "" {
		t.SSLMode = DefaultSSLMode
	}
	if t.User == "" {
		t.User = DefaultPGUser
	}
	if t.Database == "" {
		t.Database = DefaultPGDatabase
	}
	if t.ComputeTier == "" {
		t.ComputeTier = DefaultComputeTier
	}
	if t.WorkloadHint == "" {
		t.WorkloadHint = DefaultWorkloadHint
	}
	if t.PasswordEnv == "" {
		t.PasswordEnv = "POSTGREAT_PG_PASSWORD"
	}
}

// Validate checks the target list is semantically well-formed.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for _, t := range c.Targets {
		if t.Name == "" {
			return fmt.Errorf("target missing name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target name %q", t.Name)
		}
		seen[t.Name] = true
		if t.Port <= 0 || t.Port > 65535 {
			return fmt.Errorf("target %q: invalid port %d", t.Name, t.Port)
		}
	}
	return nil
}

// Watch reads cfgFile and, whenever the file changes, passes a freshly
// loaded Config (with target defaults applied) to onChange; a reload that
// fails to unmarshal is dropped. An empty cfgFile makes it a no-op. The
// analyze command runs once per invocation and does not call it.
func Watch(cfgFile string, onChange func(*Config)) error {
	if cfgFile == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			return
		}
		for i := range cfg.Targets {
			applyTargetDefaults(&cfg.Targets[i])
		}
		onChange(&cfg)
	})
	v.WatchConfig()
	return nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/dimnet/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "dimnet", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil || *cfg != (GlobalConfig{}) {
		t.Errorf("LoadGlobalConfig() = %+v, want empty config", cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	yml := `output_root: /srv/networks
gcp_project: my-project
backend: sqlite
query_rate: 0.5
`
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.OutputRoot != "/srv/networks" || cfg.GCPProject != "my-project" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Backend != "sqlite" || cfg.QueryRate != 0.5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("output_root: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGlobalConfigFrom(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadGlobalConfigFrom() error = %v, want ErrInvalidConfig", err)
	}
}

func TestHelpfulConfigMessage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	msg := HelpfulConfigMessage()
	if !strings.Contains(msg, "/custom/config/dimnet/config.yml") || !strings.Contains(msg, EnvProject) {
		t.Errorf("HelpfulConfigMessage() = %q", msg)
	}
}

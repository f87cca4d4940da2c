package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/dimnet/internal/network"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvOutputRoot, "")
	t.Setenv(EnvProject, "")
	t.Setenv(EnvCredentialsFile, "")
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := Resolve(nil, Overrides{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.OutputRoot != DefaultOutputRoot || s.TopicsDir != DefaultTopicsDir {
		t.Errorf("roots = %q, %q", s.OutputRoot, s.TopicsDir)
	}
	if s.Dataset != DefaultDataset {
		t.Errorf("Dataset = %q, want %q", s.Dataset, DefaultDataset)
	}
	if s.Backend != BackendBigQuery || s.Port != DefaultPort || s.BaseURL != DefaultBaseURL {
		t.Errorf("Settings = %+v", s)
	}
	if s.SnapshotPath != filepath.Join(DefaultOutputRoot, CacheDirName, DefaultSnapshotDB) {
		t.Errorf("SnapshotPath = %q", s.SnapshotPath)
	}
}

func TestResolve_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOutputRoot, "/env/out")
	t.Setenv(EnvProject, "env-project")

	global := &GlobalConfig{
		OutputRoot:  "/file/out",
		GCPProject:  "file-project",
		Dataset:     "custom.data",
		FullDataset: "custom.full",
		QueryRate:   2.5,
	}

	s, err := Resolve(global, Overrides{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.OutputRoot != "/env/out" || s.Project != "env-project" {
		t.Errorf("environment should override the file: %+v", s)
	}
	if s.Dataset != "custom.data" || s.QueryRate != 2.5 {
		t.Errorf("file values lost: %+v", s)
	}

	s, err = Resolve(global, Overrides{FullDimensions: true, Local: true, Port: 9000})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Dataset != "custom.full" || s.Backend != BackendSQLite || s.Port != 9000 {
		t.Errorf("flags should override: %+v", s)
	}
}

func TestResolve_FullDimensionsDefault(t *testing.T) {
	clearEnv(t)

	s, err := Resolve(&GlobalConfig{}, Overrides{FullDimensions: true})
	if err != nil {
		t.Fatal(err)
	}
	if s.Dataset != FullDataset {
		t.Errorf("Dataset = %q, want %q", s.Dataset, FullDataset)
	}
}

func TestResolve_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		global GlobalConfig
		ov     Overrides
	}{
		{"unknown backend", GlobalConfig{Backend: "postgres"}, Overrides{}},
		{"base url without placeholder", GlobalConfig{BaseURL: "https://example.org/"}, Overrides{}},
		{"negative rate", GlobalConfig{QueryRate: -1}, Overrides{}},
		{"port out of range", GlobalConfig{}, Overrides{Port: 70000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(&tt.global, tt.ov); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Resolve() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSettings_Paths(t *testing.T) {
	s := Settings{OutputRoot: "/out"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"JSONDir", s.JSONDir(network.Concepts), "/out/json/concepts"},
		{"JSONPath", s.JSONPath(network.Organizations, "ai_ethics"), "/out/json/organizations/ai_ethics.json"},
		{"SQLDir", s.SQLDir(), "/out/sql"},
		{"SQLPath", s.SQLPath("ai_ethics"), "/out/sql/ai_ethics.sql"},
		{"BuildDir", s.BuildDir(), "/out/build"},
		{"IndexPath", s.IndexPath(), "/out/build/index.html"},
		{"CachePath", s.CachePath(), "/out/cache"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	if got := ExpandPath("~/data/snapshot.db"); got != filepath.Join(home, "data/snapshot.db") {
		t.Errorf("ExpandPath(~/...) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}

func TestLoadEnv_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadEnv(); err != nil {
		t.Errorf("LoadEnv() without .env error = %v", err)
	}
}

func TestLoadEnv_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvProject, "")
	os.Unsetenv(EnvProject)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvProject+"=dotenv-project\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv(EnvProject); got != "dotenv-project" {
		t.Errorf("%s = %q after LoadEnv", EnvProject, got)
	}
}

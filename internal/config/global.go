package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/dimnet/config.yml.
// Every field is optional.
type GlobalConfig struct {
	OutputRoot      string  `yaml:"output_root,omitempty"`
	TopicsDir       string  `yaml:"topics_dir,omitempty"`
	GCPProject      string  `yaml:"gcp_project,omitempty"`
	CredentialsFile string  `yaml:"credentials_file,omitempty"`
	BaseURL         string  `yaml:"base_url,omitempty"`
	Dataset         string  `yaml:"dataset,omitempty"`
	FullDataset     string  `yaml:"full_dataset,omitempty"`
	Backend         string  `yaml:"backend,omitempty"`
	SnapshotPath    string  `yaml:"snapshot_path,omitempty"`
	QueryRate       float64 `yaml:"query_rate,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "dimnet"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/dimnet/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}
	return LoadGlobalConfigFrom(path)
}

// LoadGlobalConfigFrom loads a global configuration file at path.
func LoadGlobalConfigFrom(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("%w: reading global config: %w", ErrInvalidConfig, err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing global config: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// HelpfulConfigMessage explains where settings come from.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Settings are read from %s, then .env and the environment
(%s, %s, %s), then flags.

Tip: to query BigQuery under a specific project:
  mkdir -p %s
  echo 'gcp_project: my-project' > %s`,
		configPath, EnvOutputRoot, EnvProject, EnvCredentialsFile,
		filepath.Dir(configPath), configPath)
}

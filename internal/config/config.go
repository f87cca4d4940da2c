// Package config resolves the settings of a run from defaults, the global
// config file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/matsen/dimnet/internal/network"
)

const (
	DefaultOutputRoot  = "user-outputs"
	DefaultTopicsDir   = "topics"
	DefaultDataset     = "covid-19-dimensions-ai.data"
	FullDataset        = "dimensions-ai.data_analytics"
	DefaultBaseURL     = "https://app.dimensions.ai/discover/publication?search_mode=content&search_text={custom_search}"
	DefaultPort        = 8009
	DefaultQueryRate   = 1.0
	DefaultSnapshotDB  = "snapshot.db"
	JSONDirName        = "json"
	SQLDirName         = "sql"
	BuildDirName       = "build"
	CacheDirName       = "cache"
	IndexFile          = "index.html"
	BackendBigQuery    = "bigquery"
	BackendSQLite      = "sqlite"
	EnvOutputRoot      = "DIMNET_OUTPUT_ROOT"
	EnvProject         = "GOOGLE_CLOUD_PROJECT"
	EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"
)

// ErrInvalidConfig is returned when the resolved settings are unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

// Settings is the resolved, read-only configuration of one run.
type Settings struct {
	OutputRoot      string  `json:"output_root"`
	TopicsDir       string  `json:"topics_dir"`
	Dataset         string  `json:"dataset"`
	BaseURL         string  `json:"base_url"`
	Project         string  `json:"gcp_project,omitempty"`
	CredentialsFile string  `json:"credentials_file,omitempty"`
	Backend         string  `json:"backend"`
	SnapshotPath    string  `json:"snapshot_path"`
	QueryRate       float64 `json:"query_rate"`
	Port            int     `json:"port"`
}

// Overrides are the command-line flags that take precedence over the
// config file and the environment.
type Overrides struct {
	FullDimensions bool
	Local          bool
	Port           int
}

// LoadEnv loads a .env file from the working directory if present.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Resolve merges defaults, the global config, the environment and ov into
// validated Settings. A nil global is treated as an empty config file.
func Resolve(global *GlobalConfig, ov Overrides) (Settings, error) {
	if global == nil {
		global = &GlobalConfig{}
	}

	s := Settings{
		OutputRoot: DefaultOutputRoot,
		TopicsDir:  DefaultTopicsDir,
		Dataset:    DefaultDataset,
		BaseURL:    DefaultBaseURL,
		Backend:    BackendBigQuery,
		QueryRate:  DefaultQueryRate,
		Port:       DefaultPort,
	}

	setIf(&s.OutputRoot, ExpandPath(global.OutputRoot))
	setIf(&s.TopicsDir, ExpandPath(global.TopicsDir))
	setIf(&s.Dataset, global.Dataset)
	setIf(&s.BaseURL, global.BaseURL)
	setIf(&s.Project, global.GCPProject)
	setIf(&s.CredentialsFile, ExpandPath(global.CredentialsFile))
	setIf(&s.Backend, strings.ToLower(global.Backend))
	setIf(&s.SnapshotPath, ExpandPath(global.SnapshotPath))
	if global.QueryRate != 0 {
		s.QueryRate = global.QueryRate
	}

	setIf(&s.OutputRoot, os.Getenv(EnvOutputRoot))
	setIf(&s.Project, os.Getenv(EnvProject))
	setIf(&s.CredentialsFile, os.Getenv(EnvCredentialsFile))

	if ov.FullDimensions {
		s.Dataset = FullDataset
		if global.FullDataset != "" {
			s.Dataset = global.FullDataset
		}
	}
	if ov.Local {
		s.Backend = BackendSQLite
	}
	if ov.Port != 0 {
		s.Port = ov.Port
	}
	if s.SnapshotPath == "" {
		s.SnapshotPath = filepath.Join(s.CachePath(), DefaultSnapshotDB)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks the settings for values no run could use.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendBigQuery, BackendSQLite:
	default:
		return fmt.Errorf("%w: backend %q (valid: %s, %s)", ErrInvalidConfig, s.Backend, BackendBigQuery, BackendSQLite)
	}
	if s.OutputRoot == "" {
		return fmt.Errorf("%w: empty output root", ErrInvalidConfig)
	}
	if !strings.Contains(s.BaseURL, "{custom_search}") {
		return fmt.Errorf("%w: base_url %q has no {custom_search} placeholder", ErrInvalidConfig, s.BaseURL)
	}
	if s.QueryRate <= 0 {
		return fmt.Errorf("%w: query_rate must be positive, got %v", ErrInvalidConfig, s.QueryRate)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, s.Port)
	}
	return nil
}

// JSONDir returns the directory holding the networks of one kind.
func (s Settings) JSONDir(kind network.Kind) string {
	return filepath.Join(s.OutputRoot, JSONDirName, kind.String())
}

// JSONPath returns the network file of a topic for one kind.
func (s Settings) JSONPath(kind network.Kind, topic string) string {
	return filepath.Join(s.JSONDir(kind), topic+".json")
}

// SQLDir returns the directory holding copies of the topic queries.
func (s Settings) SQLDir() string {
	return filepath.Join(s.OutputRoot, SQLDirName)
}

// SQLPath returns the provenance copy of a topic query.
func (s Settings) SQLPath(topic string) string {
	return filepath.Join(s.SQLDir(), topic+".sql")
}

// BuildDir returns the static site directory.
func (s Settings) BuildDir() string {
	return filepath.Join(s.OutputRoot, BuildDirName)
}

// IndexPath returns the generated site index.
func (s Settings) IndexPath() string {
	return filepath.Join(s.BuildDir(), IndexFile)
}

// CachePath returns the directory of rebuildable local state.
func (s Settings) CachePath() string {
	return filepath.Join(s.OutputRoot, CacheDirName)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
